// Package auth verifies the session tokens issued by the hospital backend
// and exposes the identity they carry to the rest of the application.
package auth

import (
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the verified identity carried by a session token.
type Claims struct {
	Nome string `json:"nome"`
	Tipo string `json:"tipo"`
	jwt.RegisteredClaims
}

// UsuarioID returns the numeric user id from the subject claim, or 0 when
// the subject is absent or not numeric.
func (c Claims) UsuarioID() int {
	id, err := strconv.Atoi(strings.TrimSpace(c.Subject))
	if err != nil {
		return 0
	}
	return id
}

// IsAdmin reports whether the token belongs to an administrator account.
func (c Claims) IsAdmin() bool {
	return strings.EqualFold(strings.TrimSpace(c.Tipo), "admin")
}
