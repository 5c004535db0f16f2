package api

// LoginRequest is the body of POST /token/
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest is the body of POST /token/refresh/
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// TokenPair is the response of the token endpoints.
type TokenPair struct {
	// Access is the JWT attached to API calls as "Authorization: Bearer <access>".
	// Lifespan: short-lived; expiry is carried in its "exp" claim.
	Access string `json:"access"`

	// Refresh is the opaque credential exchanged at /token/refresh/.
	// Always present on login. On refresh it is only present when the backend
	// rotates refresh tokens; nil means keep the current one.
	Refresh *string `json:"refresh,omitempty"`
}
