package kernel

// AuthContext is the authentication context injected into each request
// by the middleware layer. Exactly one of the two caller kinds is set:
// an API key caller (application backend) carries only the AppID; an
// end-user bearer token carries UserID + AppID; a portal token carries
// DeveloperID with AppID == PortalAppID.
type AuthContext struct {
	UserID      *UserID      `json:"user_id,omitempty"`
	DeveloperID *DeveloperID `json:"developer_id,omitempty"`
	AppID       AppID        `json:"app_id"`
	Email       string       `json:"email,omitempty"`
	IsAPIKey    bool         `json:"is_api_key"`
}

// IsValid reports whether the context carries a usable identity.
func (ac *AuthContext) IsValid() bool {
	if ac.IsAPIKey {
		return !ac.AppID.IsEmpty()
	}
	if ac.DeveloperID != nil {
		return !ac.DeveloperID.IsEmpty()
	}
	return ac.UserID != nil && !ac.UserID.IsEmpty() && !ac.AppID.IsEmpty()
}

// IsPortal reports whether the context belongs to a developer portal caller.
func (ac *AuthContext) IsPortal() bool {
	return ac.DeveloperID != nil && ac.AppID == PortalAppID
}

type ContextKey string

const (
	// AuthContextKey stores the *AuthContext in fiber locals / context.Context.
	AuthContextKey ContextKey = "auth_context"

	// RequestIDKey stores the inbound request id.
	RequestIDKey ContextKey = "request_id"
)
