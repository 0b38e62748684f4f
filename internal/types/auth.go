package types

import "time"

// Identity is the authenticated caller decoded from a verified bearer token.
// It lives only for the duration of the request it was attached to.
type Identity struct {
	UserID    string    `json:"userID" example:"d290f1ee-6c54-4b01-90e6-d701748f0851"`
	Email     string    `json:"email" example:"john.doe@example.com"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
