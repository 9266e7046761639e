package identity

import (
	"context"
)

// LoginResult is what the login-completion collaborator needs: the signed
// session token, the session view to stash, and the landing redirect.
type LoginResult struct {
	Token       string
	Session     *SessionIdentity
	Destination Destination
}

// Auther composes credential verification, session projection, and token
// issuance. It is the single entry point the page/controller layer calls.
type Auther struct {
	verifier  Verifier
	projector *Projector
	federated *FederatedResolver
	tokens    TokenService
	logger    Logger
}

// NewAuthenticator returns a new Auther
func NewAuthenticator(verifier Verifier, projector *Projector, opts Config) *Auther {
	tokens := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		verifier:  verifier,
		projector: projector,
		tokens:    tokens,
		logger:    defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	return s
}

// WithTokenService overrides the default HS256 token service.
func (s *Auther) WithTokenService(tokens TokenService) *Auther {
	s.tokens = tokens
	return s
}

// WithFederatedResolver enables federated logins.
func (s *Auther) WithFederatedResolver(resolver *FederatedResolver) *Auther {
	s.federated = resolver
	return s
}

// TokenService returns the token service used by this authenticator.
func (s *Auther) TokenService() TokenService {
	return s.tokens
}

// Login verifies the credentials and, on success, projects the session
// identity and signs it. The error is exactly what the verifier returned;
// credential failures stay generic all the way out.
func (s *Auther) Login(ctx context.Context, loginID, password string) (*LoginResult, error) {
	verified, err := s.verifier.Verify(ctx, loginID, password)
	if err != nil {
		s.logger.Warn("login verification failed for %s: %v", loginID, err)
		return nil, err
	}

	return s.complete(ctx, verified)
}

// FederatedLogin resolves an externally-asserted identity claim and finishes
// the same way a password login does.
func (s *Auther) FederatedLogin(ctx context.Context, provider, subject string) (*LoginResult, error) {
	if s.federated == nil {
		return nil, ErrIdentityNotLinked
	}

	verified, err := s.federated.Resolve(ctx, provider, subject)
	if err != nil {
		s.logger.Warn("federated login via %s failed: %v", provider, err)
		return nil, err
	}

	return s.complete(ctx, verified)
}

// SessionFromToken validates a raw token and rebuilds the session identity.
func (s *Auther) SessionFromToken(raw string) (*SessionIdentity, error) {
	session, err := s.tokens.Validate(raw)
	if err != nil {
		s.logger.Debug("session token validation failed: %v", err)
		return nil, err
	}

	return session, nil
}

func (s *Auther) complete(ctx context.Context, verified *VerifiedIdentity) (*LoginResult, error) {
	session, destination, err := s.projector.Project(ctx, verified)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(session)
	if err != nil {
		return nil, err
	}

	s.logger.Info("login succeeded for %s, destination %s", session.LoginID, destination)

	return &LoginResult{
		Token:       token,
		Session:     session,
		Destination: destination,
	}, nil
}
