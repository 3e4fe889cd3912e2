package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

var ErrInvalidClaims = errors.New("token claims are invalid")

// Identity is the caller as established by the access token. Users themselves
// are managed by the account service that issues tokens.
type Identity struct {
	UserID           int64
	Role             string
	VerifiedReviewer bool
}

func (i Identity) CanModerate() bool {
	return i.Role == RoleModerator || i.Role == RoleAdmin
}

type Authenticator interface {
	GenerateToken(id Identity) (string, error)
	ValidateAccessToken(token string) (*jwt.Token, error)
	Identify(token string) (Identity, error)
}
