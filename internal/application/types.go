package application

import "github.com/viralforge/authgate/internal/domain"

// Authentication modes selectable at startup. The mode decides which
// credential resolvers the service is composed with; it is fixed
// configuration, not runtime-mutable state.
const (
	ModeNone    = "none"
	ModeBasic   = "basic"
	ModeSession = "session"
)

// Credentials is the raw credential material carried by an inbound request.
// Either field may be empty; resolvers decide what they can use.
type Credentials struct {
	AuthorizationHeader string
	SessionToken        string
}

// Empty reports whether the request carried no credential material at all.
func (c Credentials) Empty() bool {
	return c.AuthorizationHeader == "" && c.SessionToken == ""
}

// Outcome is the gate verdict for a single request.
type Outcome int

const (
	// DecisionSkip means the path is excluded from authentication.
	DecisionSkip Outcome = iota
	// DecisionAllow means an identity was resolved; Decision.User carries it.
	DecisionAllow
	// DecisionDenyNoCredentials maps to 401 upstream: auth required but the
	// request carried neither an Authorization header nor a session token.
	DecisionDenyNoCredentials
	// DecisionDenyNoIdentity maps to 403 upstream: credential material was
	// present but resolved to no identity.
	DecisionDenyNoIdentity
)

func (o Outcome) String() string {
	switch o {
	case DecisionSkip:
		return "skip"
	case DecisionAllow:
		return "allow"
	case DecisionDenyNoCredentials:
		return "deny_no_credentials"
	default:
		return "deny_no_identity"
	}
}

// Decision is the gate result handed to the transport layer.
type Decision struct {
	Outcome Outcome
	User    *domain.User
}
