package lib

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// AccountClaims is the subset of the auth collaborator's token this service
// cares about: enough to link a checkout to an account.
type AccountClaims struct {
	Sub   string
	Email string
}

// ParseToken parses and validates a JWT token string and returns the claims
func ParseToken(tokenStr string, secret string) (*AccountClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		sub, ok := claims["sub"].(string)
		if !ok {
			return nil, fmt.Errorf("invalid sub claim")
		}

		email, ok := claims["email"].(string)
		if !ok {
			return nil, fmt.Errorf("invalid email claim")
		}

		return &AccountClaims{
			Sub:   sub,
			Email: email,
		}, nil
	}
	return nil, jwt.ErrInvalidKey
}

// ExtractClaims reads the optional bearer token. Guest checkouts carry no
// token; callers treat any error as "not logged in".
func ExtractClaims(r *http.Request, secret string) (*AccountClaims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, fmt.Errorf("no authorization header")
	}

	tokenStr, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return nil, fmt.Errorf("malformed authorization header")
	}

	return ParseToken(tokenStr, secret)
}
