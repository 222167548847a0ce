package models

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// User represents a registered account.
type User struct {
	Base      `mapstructure:",squash"`
	Email     string `json:"email" mapstructure:"email"`
	Password  string `json:"password" mapstructure:"password"`
	FirstName string `json:"first_name" mapstructure:"first_name"`
	LastName  string `json:"last_name" mapstructure:"last_name"`
}

// NewUser creates a user with default values.
func NewUser() *User {
	return &User{Base: newBase()}
}

func (u *User) ClassName() string { return ClassUser }

func (u *User) attrs() map[string]any {
	return map[string]any{
		"email":      u.Email,
		"password":   u.Password,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
	}
}

// beforeSet hashes plain-text passwords. Values that already are bcrypt
// hashes (e.g. when reloading from storage) are kept as they are.
func (u *User) beforeSet(name string, value any) (any, error) {
	if name != "password" {
		return value, nil
	}
	plain, ok := value.(string)
	if !ok || plain == "" || isBcryptHash(plain) {
		return value, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword reports whether plain matches the stored password hash.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

func isBcryptHash(s string) bool {
	if len(s) != 60 {
		return false
	}
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
