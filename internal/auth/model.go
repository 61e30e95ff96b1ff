package auth

// User is the account entity. One user owns one ingredient
// collection and one recipe collection.
type User struct {
	ID       string
	Name     string
	Email    string
	Password string
}
