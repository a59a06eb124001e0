package api

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// MessageResponse carries a plain message, including the 200 dedup signals.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse is returned by POST /jwt.
type TokenResponse struct {
	Token string `json:"token"`
}

// AdminStatusResponse is returned by GET /users/admin/:email.
type AdminStatusResponse struct {
	Admin bool `json:"admin"`
}

// InstructorStatusResponse is returned by GET /users/instructor/:email.
type InstructorStatusResponse struct {
	Instructor bool `json:"instructor"`
}

// ClientSecretResponse is returned by POST /create-payment-intent.
type ClientSecretResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}
