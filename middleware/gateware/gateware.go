package gateware

import (
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-router"

	identity "github.com/coverline/go-identity"
)

// Config wires a compiled route gate and a token validator into a
// router middleware. Gate and Tokens are required.
type Config struct {
	Gate   *identity.Gate
	Tokens identity.TokenService

	// Filter lets callers skip the middleware for a given request,
	// e.g. health checks.
	Filter func(router.Context) bool

	// ContextKey is the name of the session cookie and the Locals key
	// the resolved session is stored under.
	ContextKey string
	// AuthScheme is the Authorization header scheme, "Bearer" by default.
	AuthScheme string

	// LoginPath is where unauthenticated page requests are redirected.
	LoginPath string
	// RejectedRouteKey names the cookie that remembers the URL a
	// redirected request originally asked for.
	RejectedRouteKey string

	Logger identity.Logger
}

func (cfg Config) withDefaults() Config {
	if cfg.ContextKey == "" {
		cfg.ContextKey = "identity_session"
	}
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/user/login"
	}
	if cfg.RejectedRouteKey == "" {
		cfg.RejectedRouteKey = "rejected_route"
	}
	if cfg.Logger == nil {
		cfg.Logger = identity.DefaultLogger()
	}
	return cfg
}

// FromConfig builds a middleware Config from the library Config,
// leaving Gate and Tokens for the caller to fill in.
func FromConfig(cfg identity.Config) Config {
	return Config{
		ContextKey:       cfg.GetContextKey(),
		LoginPath:        cfg.GetLoginPath(),
		RejectedRouteKey: cfg.GetRejectedRouteKey(),
	}
}

// New returns a middleware that resolves the caller's session from the
// request token, evaluates the route gate, and either stores the
// session for downstream handlers or rejects the request.
//
// A request with no token, or with a token that fails validation, is
// treated as anonymous rather than rejected outright: public routes
// stay reachable and the gate decides what the session may access.
func New(config ...Config) router.MiddlewareFunc {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}
	cfg = cfg.withDefaults()

	if cfg.Gate == nil {
		panic("IDENTITY: gateware configuration: Gate is required.")
	}
	if cfg.Tokens == nil {
		panic("IDENTITY: gateware configuration: Tokens is required.")
	}

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			session := resolveSession(ctx, cfg)

			decision := cfg.Gate.Evaluate(ctx.Path(), session)
			if !decision.Allowed {
				cfg.Logger.Info(
					"gate denied %s %s: %s (rule %q)",
					ctx.Method(),
					ctx.Path(),
					decision.Reason,
					decision.Pattern,
				)
				return deny(ctx, cfg, decision)
			}

			if session != nil {
				ctx.Locals(cfg.ContextKey, session)
				ctx.SetContext(identity.WithSession(ctx.Context(), session))
			}

			return ctx.Next()
		}
	}
}

// resolveSession pulls the raw token from the session cookie or the
// Authorization header and validates it. Any failure yields a nil
// session: the request proceeds anonymously.
func resolveSession(ctx router.Context, cfg Config) *identity.SessionIdentity {
	raw := rawToken(ctx, cfg)
	if raw == "" {
		return nil
	}

	session, err := cfg.Tokens.Validate(raw)
	if err != nil {
		cfg.Logger.Debug("gateware: token rejected: %v", err)
		return nil
	}
	return session
}

func rawToken(ctx router.Context, cfg Config) string {
	if v := ctx.Cookies(cfg.ContextKey); v != "" {
		return v
	}

	a := ctx.GetString(router.HeaderAuthorization, "")
	scheme := cfg.AuthScheme
	if len(a) > len(scheme)+1 && strings.EqualFold(a[:len(scheme)], scheme) {
		return strings.TrimSpace(a[len(scheme):])
	}
	return ""
}

// deny rejects a request the gate turned down. Browser navigation is
// bounced to the login page with the original URL remembered in a
// cookie; API style requests get a bare status code so clients do not
// chase redirects.
func deny(ctx router.Context, cfg Config, decision identity.Decision) error {
	if wantsJSON(ctx) {
		if decision.Reason == identity.ReasonInsufficientRole {
			return ctx.Status(router.StatusForbidden).SendString("forbidden")
		}
		return ctx.Status(router.StatusUnauthorized).SendString("authentication required")
	}

	setRejectedRoute(ctx, cfg)
	status := http.StatusSeeOther
	if ctx.Method() == "GET" {
		status = http.StatusFound
	}
	return ctx.Redirect(cfg.LoginPath, status)
}

func wantsJSON(ctx router.Context) bool {
	if isAPIPath(ctx.Path()) {
		return true
	}
	accept := ctx.GetString("Accept", "")
	return strings.Contains(accept, "application/json")
}

// isAPIPath reports whether the route belongs to an API surface. Matching a
// "/api/" segment anywhere covers nested mounts like /admin/api/accounts,
// not just a top level /api/ prefix.
func isAPIPath(path string) bool {
	return strings.Contains(path, "/api/")
}

func setRejectedRoute(ctx router.Context, cfg Config) {
	ctx.Cookie(&router.Cookie{
		Name:     cfg.RejectedRouteKey,
		Value:    ctx.OriginalURL(),
		Expires:  time.Now().Add(time.Minute * 5),
		HTTPOnly: true,
	})
}
