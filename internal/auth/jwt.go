package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	Role             string `json:"role"`
	VerifiedReviewer bool   `json:"verified_reviewer"`
	jwt.RegisteredClaims
}

type JWTAuthenticator struct {
	secret string
	aud    string
	iss    string
	exp    time.Duration
}

func NewJWTAuthenticator(secret, aud, iss string, exp time.Duration) *JWTAuthenticator {
	return &JWTAuthenticator{secret: secret, aud: aud, iss: iss, exp: exp}
}

// GenerateToken issues an access token. Production tokens come from the
// account service; this is used by tooling and tests sharing the secret.
func (a *JWTAuthenticator) GenerateToken(id Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:             id.Role,
		VerifiedReviewer: id.VerifiedReviewer,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id.UserID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.exp)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    a.iss,
			Audience:  jwt.ClaimStrings{a.aud},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.secret))
}

// ValidateAccessToken validates the access token
func (a *JWTAuthenticator) ValidateAccessToken(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(a.secret), nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(a.iss),
		jwt.WithAudience(a.aud),
	)
}

func (a *JWTAuthenticator) Identify(token string) (Identity, error) {
	parsed, err := a.ValidateAccessToken(token)
	if err != nil {
		return Identity{}, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return Identity{}, ErrInvalidClaims
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return Identity{}, ErrInvalidClaims
	}

	role := claims.Role
	if role == "" {
		role = RoleUser
	}
	return Identity{UserID: userID, Role: role, VerifiedReviewer: claims.VerifiedReviewer}, nil
}
