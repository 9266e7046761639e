package identity

import (
	"fmt"

	"github.com/gobwas/glob"
	goerrors "github.com/goliatone/go-errors"
)

// conditionKind tags the access condition variants.
type conditionKind int

const (
	conditionPublic conditionKind = iota
	conditionAuthenticated
	conditionRoleAtLeast
)

// Condition is the access requirement attached to a route pattern.
type Condition struct {
	kind    conditionKind
	minRole Role
}

// Public requires no session.
func Public() Condition {
	return Condition{kind: conditionPublic}
}

// AuthenticatedAny requires any valid session.
func AuthenticatedAny() Condition {
	return Condition{kind: conditionAuthenticated}
}

// RoleAtLeast requires a session whose role meets the minimum.
func RoleAtLeast(minRole Role) Condition {
	return Condition{kind: conditionRoleAtLeast, minRole: minRole}
}

// Allows evaluates the condition against the current session, which may be
// nil for anonymous requests.
func (c Condition) Allows(session *SessionIdentity) bool {
	switch c.kind {
	case conditionPublic:
		return true
	case conditionAuthenticated:
		return session != nil
	case conditionRoleAtLeast:
		return session != nil && session.IsAtLeast(c.minRole)
	default:
		return false
	}
}

func (c Condition) String() string {
	switch c.kind {
	case conditionPublic:
		return "public"
	case conditionAuthenticated:
		return "authenticated"
	case conditionRoleAtLeast:
		return fmt.Sprintf("role>=%s", c.minRole)
	default:
		return "unknown"
	}
}

// Rule binds a path glob to a condition. Patterns use '/' as the separator;
// `*` matches a single segment and `**` the rest of the path.
type Rule struct {
	Pattern   string
	Condition Condition

	compiled glob.Glob
}

// Deny reasons surfaced in decisions so the collaborator can pick between a
// login redirect and a forbidden response.
const (
	ReasonPublicRoute      = "public route"
	ReasonSessionValid     = "session satisfies condition"
	ReasonNoSession        = "no active session"
	ReasonInsufficientRole = "session role does not satisfy condition"
)

// Decision is the gate's answer for one request.
type Decision struct {
	Allowed bool
	Pattern string
	Reason  string
}

// Gate evaluates an ordered rule table against request paths. Rules are
// checked in declaration order, so list the most specific patterns first. A
// path matching no rule falls through to AuthenticatedAny: unknown paths are
// denied to anonymous callers, never silently exposed.
type Gate struct {
	rules    []Rule
	fallback Condition
}

// NewGate compiles the rule table. Invalid patterns fail construction rather
// than at request time.
func NewGate(rules []Rule) (*Gate, error) {
	compiled := make([]Rule, len(rules))
	for i, rule := range rules {
		g, err := glob.Compile(rule.Pattern, '/')
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid route pattern").
				WithMetadata(map[string]any{"pattern": rule.Pattern})
		}
		rule.compiled = g
		compiled[i] = rule
	}

	return &Gate{
		rules:    compiled,
		fallback: AuthenticatedAny(),
	}, nil
}

// MustGate is NewGate that panics on an invalid table. Meant for package
// level defaults.
func MustGate(rules []Rule) *Gate {
	g, err := NewGate(rules)
	if err != nil {
		panic(err)
	}
	return g
}

// Evaluate returns the decision for a request path given the current session
// (nil when anonymous). First matching rule wins.
func (g *Gate) Evaluate(path string, session *SessionIdentity) Decision {
	for _, rule := range g.rules {
		if !rule.compiled.Match(path) {
			continue
		}
		return decide(rule.Pattern, rule.Condition, session)
	}

	return decide("", g.fallback, session)
}

func decide(pattern string, cond Condition, session *SessionIdentity) Decision {
	if cond.Allows(session) {
		reason := ReasonSessionValid
		if cond.kind == conditionPublic {
			reason = ReasonPublicRoute
		}
		return Decision{Allowed: true, Pattern: pattern, Reason: reason}
	}

	reason := ReasonNoSession
	if session != nil {
		reason = ReasonInsufficientRole
	}
	return Decision{Allowed: false, Pattern: pattern, Reason: reason}
}

// DefaultRules is the route table of the insurance site: static assets and
// the public funnel are open, the admin area needs the admin role, and
// everything else needs a session.
func DefaultRules() []Rule {
	return []Rule{
		{Pattern: "/", Condition: Public()},
		{Pattern: "/main", Condition: Public()},
		{Pattern: "/css/**", Condition: Public()},
		{Pattern: "/js/**", Condition: Public()},
		{Pattern: "/images/**", Condition: Public()},
		{Pattern: "/service_intro", Condition: Public()},
		{Pattern: "/notice", Condition: Public()},
		{Pattern: "/user/login", Condition: Public()},
		{Pattern: "/user/register", Condition: Public()},
		{Pattern: "/user/find_id", Condition: Public()},
		{Pattern: "/admin/**", Condition: RoleAtLeast(RoleAdmin)},
		{Pattern: "/user/my_insurance/**", Condition: AuthenticatedAny()},
	}
}
