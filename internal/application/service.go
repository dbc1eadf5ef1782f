package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/viralforge/authgate/internal/domain"
	"github.com/viralforge/authgate/internal/ports"
)

// CredentialResolver is one pluggable way of turning request credential
// material into an identity. Resolvers report (nil, nil) when the material is
// absent or simply does not authenticate; a non-nil error is reserved for
// infrastructure failures.
type CredentialResolver interface {
	Name() string
	TryResolve(ctx context.Context, creds Credentials) (*domain.User, error)
}

// Service is the authentication decision engine. It is stateless between
// requests; all persisted state lives behind the UserDirectory.
type Service struct {
	directory ports.UserDirectory
	hasher    ports.PasswordHasher
	sessions  *SessionManager
	recovery  *PasswordResetManager
	resolvers []CredentialResolver
	excluded  []string
}

type Dependencies struct {
	Directory     ports.UserDirectory
	Hasher        ports.PasswordHasher
	SessionCache  ports.SessionCache
	Mode          string
	ExcludedPaths []string
}

// NewService wires the engine for the configured mode. Mode "none" composes no
// resolvers, "basic" only the Authorization-header resolver, "session" tries
// the session token first and falls back to Basic credentials.
func NewService(deps Dependencies) *Service {
	s := &Service{
		directory: deps.Directory,
		hasher:    deps.Hasher,
		excluded:  deps.ExcludedPaths,
	}
	s.sessions = NewSessionManager(deps.Directory, deps.SessionCache)
	s.recovery = NewPasswordResetManager(deps.Directory, deps.Hasher)

	switch deps.Mode {
	case ModeBasic:
		s.resolvers = []CredentialResolver{&basicResolver{service: s}}
	case ModeSession:
		s.resolvers = []CredentialResolver{
			&sessionResolver{sessions: s.sessions},
			&basicResolver{service: s},
		}
	}
	return s
}

func (s *Service) Sessions() *SessionManager { return s.sessions }

func (s *Service) Recovery() *PasswordResetManager { return s.recovery }

// Register creates a new identity from an email and plaintext password.
// The password never reaches the directory: only its digest is persisted.
func (s *Service) Register(ctx context.Context, email, password string) (domain.User, error) {
	if email == "" {
		return domain.User{}, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if password == "" {
		return domain.User{}, fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}

	if _, err := s.directory.FindBy(ctx, map[string]any{ports.AttrEmail: email}); err == nil {
		return domain.User{}, fmt.Errorf("%w: user %s", domain.ErrAlreadyExists, email)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, err
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	return s.directory.Create(ctx, email, digest)
}

// Authenticate validates an email/password pair against the stored digest.
// A miss on either lookup or verification yields (nil, nil): failed logins are
// an expected, frequent outcome, not an error.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, nil
	}
	user, err := s.directory.FindBy(ctx, map[string]any{ports.AttrEmail: email})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, nil
	}
	return &user, nil
}

// CurrentIdentity runs the resolver chain in order and returns the first
// identity found, or nil when nothing resolves.
func (s *Service) CurrentIdentity(ctx context.Context, creds Credentials) (*domain.User, error) {
	for _, resolver := range s.resolvers {
		user, err := resolver.TryResolve(ctx, creds)
		if err != nil {
			return nil, fmt.Errorf("resolve %s credentials: %w", resolver.Name(), err)
		}
		if user != nil {
			return user, nil
		}
	}
	return nil, nil
}

// Gate is the per-request decision point, consulted before business logic.
// The path check is cheap and runs first; identity resolution only happens on
// protected paths with credential material present. Infrastructure failures
// during resolution fail closed to a deny.
func (s *Service) Gate(ctx context.Context, path string, creds Credentials) Decision {
	if !RequiresAuth(path, s.excluded) {
		return Decision{Outcome: DecisionSkip}
	}
	if creds.Empty() {
		return Decision{Outcome: DecisionDenyNoCredentials}
	}
	user, err := s.CurrentIdentity(ctx, creds)
	if err != nil || user == nil {
		return Decision{Outcome: DecisionDenyNoIdentity}
	}
	return Decision{Outcome: DecisionAllow, User: user}
}

// basicResolver authenticates from the Authorization header: extract the
// Basic payload, decode, split on the first colon, then verify against the
// stored digest. Every malformed stage degrades to "no identity".
type basicResolver struct {
	service *Service
}

func (r *basicResolver) Name() string { return "basic" }

func (r *basicResolver) TryResolve(ctx context.Context, creds Credentials) (*domain.User, error) {
	encoded, ok := ExtractEncodedCredentials(creds.AuthorizationHeader)
	if !ok {
		return nil, nil
	}
	decoded, ok := DecodeCredentials(encoded)
	if !ok {
		return nil, nil
	}
	email, password, ok := SplitCredentials(decoded)
	if !ok {
		return nil, nil
	}
	return r.service.Authenticate(ctx, email, password)
}

// sessionResolver authenticates from an opaque session token.
type sessionResolver struct {
	sessions *SessionManager
}

func (r *sessionResolver) Name() string { return "session" }

func (r *sessionResolver) TryResolve(ctx context.Context, creds Credentials) (*domain.User, error) {
	return r.sessions.Resolve(ctx, creds.SessionToken)
}
