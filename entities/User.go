package entities

// User is one household member sharing the device. Exactly one user is
// active at a time; medicines and alerts are kept global across users.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`
	IsActive bool   `json:"isActive"`
}

// DefaultUsers returns the users seeded on first run, before any user data
// has been persisted. The first entry starts active.
func DefaultUsers() []User {
	return []User{
		{ID: "1", Name: "John Doe", Email: "john.doe@example.com", IsActive: true},
		{ID: "2", Name: "Mom", Email: "mom@example.com"},
		{ID: "3", Name: "Dad", Email: "dad@example.com"},
	}
}
