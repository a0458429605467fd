package entity

// User usuario del backend tal como lo devuelven /auth/local y /auth/register.
type User struct {
	ID         int
	DocumentID string
	Username   string
	Email      string
	Confirmed  bool
	Blocked    bool
}

// Credentials resultado de un login: token del backend más el usuario.
type Credentials struct {
	JWT  string
	User User
}
