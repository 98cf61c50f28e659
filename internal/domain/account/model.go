package account

// User is a registered doctor account. The password hash never leaves this
// package.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
}

// Summary is the client-facing view of a user.
type Summary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u *User) Summary() Summary {
	return Summary{ID: u.ID, Username: u.Username, Email: u.Email}
}
