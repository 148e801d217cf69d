package models

// User is the mock storefront account. It never reflects a real
// authentication state.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	IsLoggedIn  bool   `json:"isLoggedIn"`
	IsWholesale bool   `json:"isWholesale"`
}

// GuestUser returns the anonymous user every new session starts with
func GuestUser() User {
	return User{
		ID:    "user-1",
		Name:  "Test User",
		Email: "test@example.com",
	}
}
