package auth

type Role struct {
	Name string `json:"name"`
}

type AuthenticationSource struct {
	Provider string `json:"provider"`
}

// User is the operator identity resolved from an assertion or the dev
// bypass. The zero User is anonymous.
type User struct {
	Username             string               `json:"username"`
	AuthenticationSource AuthenticationSource `json:"authenticationSource"`
	Role                 Role                 `json:"role"`
}

func (u User) Anonymous() bool { return u.Username == "" }
