package domain

// Account is the class-independent view of an identity used by the
// credential verifier. SecretHash never leaves the service.
type Account struct {
	SubjectID  int64
	Email      string
	Name       string
	Role       Role
	SecretHash string
}

// Identity is what a verified account asserts about itself.
type Identity struct {
	SubjectID int64
	Email     string
	Name      string
	Role      Role
}

// Identity drops the secret hash.
func (a *Account) Identity() Identity {
	return Identity{
		SubjectID: a.SubjectID,
		Email:     a.Email,
		Name:      a.Name,
		Role:      a.Role,
	}
}
