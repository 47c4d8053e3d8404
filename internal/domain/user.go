package domain

import "time"

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"nombre"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"telefono,omitempty"`
	Address      string    `json:"direccion,omitempty"`
	City         string    `json:"ciudad,omitempty"`
	PostalCode   string    `json:"codigo_postal,omitempty"`
	Role         string    `json:"tipo"`
	Active       bool      `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	RoleCustomer = "cliente"
	RoleAdmin    = "admin"
)

type RegisterRequest struct {
	Name     string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"telefono"`
	Address  string `json:"direccion"`
	City     string `json:"ciudad"`
}

type ProfileUpdate struct {
	Name       *string `json:"nombre"`
	Phone      *string `json:"telefono"`
	Address    *string `json:"direccion"`
	City       *string `json:"ciudad"`
	PostalCode *string `json:"codigo_postal"`
}

// AuthResult pairs the signed token with the public view of the user, which
// is what the login and register endpoints return.
type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"usuario"`
}

type UserRepository interface {
	Create(user *User) (*User, error)
	GetByEmail(email string) (*User, error)
	GetByID(id int64) (*User, error)
	UpdateProfile(id int64, update ProfileUpdate) error
	TouchLastAccess(id int64) error
}

type UserUseCase interface {
	Register(request *RegisterRequest) (*AuthResult, error)
	Login(email, password string) (*AuthResult, error)
	GetProfile(id int64) (*User, error)
	UpdateProfile(id int64, update ProfileUpdate) error
}
