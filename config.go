package identity

// SimpleConfig is a plain value implementation of Config for consumers that
// do not carry their own configuration layer.
type SimpleConfig struct {
	SigningKey       string   `json:"signing_key"`
	ContextKey       string   `json:"context_key"`
	TokenExpiration  int      `json:"token_expiration"`
	Issuer           string   `json:"issuer"`
	Audience         []string `json:"audience"`
	LoginPath        string   `json:"login_path"`
	RejectedRouteKey string   `json:"rejected_route_key"`
}

var _ Config = (*SimpleConfig)(nil)

func (c *SimpleConfig) GetSigningKey() string { return c.SigningKey }

func (c *SimpleConfig) GetContextKey() string {
	if c.ContextKey == "" {
		return "identity_session"
	}
	return c.ContextKey
}

// GetTokenExpiration is the session token lifetime in hours.
func (c *SimpleConfig) GetTokenExpiration() int {
	if c.TokenExpiration <= 0 {
		return 24
	}
	return c.TokenExpiration
}

func (c *SimpleConfig) GetIssuer() string { return c.Issuer }

func (c *SimpleConfig) GetAudience() []string { return c.Audience }

func (c *SimpleConfig) GetLoginPath() string {
	if c.LoginPath == "" {
		return "/user/login"
	}
	return c.LoginPath
}

func (c *SimpleConfig) GetRejectedRouteKey() string {
	if c.RejectedRouteKey == "" {
		return "rejected_route"
	}
	return c.RejectedRouteKey
}
