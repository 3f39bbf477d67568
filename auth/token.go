package auth

import (
	"time"

	"live-hub/errors"

	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the structure of the data stored inside the JWT.
// The user_id claim becomes the principal of the connection.
type Claims struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// Verifier validates bearer credentials presented during the
// websocket handshake. The secret is shared with the account service
// that minted the token.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) Verifier {
	return Verifier{secret: []byte(secret)}
}

// Verify parses and validates the signature and expiration of a JWT string
// and returns the principal id it carries.
func (v Verifier) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return "", errors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", errors.ErrInvalidToken
	}
	return claims.UserID, nil
}

// GenerateToken creates a signed JWT for a specific user.
// Used by tests and by the tail client; production tokens come from
// the account service.
func GenerateToken(secret, userID string, roles []string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "live-hub",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
