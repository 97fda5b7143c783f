package domain

// Identity is the verified caller identity supplied by the external auth
// provider. The zero value represents an anonymous caller.
type Identity struct {
	Subject  string // stable external user id
	Name     string
	Email    string
	ImageURL string
}

func (i Identity) Anonymous() bool {
	return i.Subject == ""
}
