package auth

// UserInfo is the slice of a verified identity the app depends on: a stable
// subject, an email, and optional display metadata.
type UserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
