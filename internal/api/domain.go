package api

// RegisterRequest represents the expected JSON body for user registration.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required" example:"a@x.com"` // Unique email address.
	Password string `json:"password" validate:"required" example:"pw"`   // Plaintext, hashed before storage.
	Name     string `json:"name" validate:"required" example:"A"`        // Display name.
}

// LoginRequest represents the expected JSON body for user login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required" example:"a@x.com"`
	Password string `json:"password" validate:"required" example:"pw"`
}

// LoginResponse represents the successful JSON response after login.
type LoginResponse struct {
	Message string `json:"message" example:"Logged In Successfully"`
	Token   string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."` // Bearer token, valid for one hour.
}

// Response is the generic message body.
type Response struct {
	Message   string `json:"message" example:"User successfully created!"`
	RequestID string `json:"request_id,omitempty"`
}

// DataErrorResponse is returned when the upstream catalogue cannot be reached.
type DataErrorResponse struct {
	Message string `json:"message" example:"Error fetching data"`
	Error   string `json:"error"`
}
