// Package auth verifies bearer tokens issued by the external auth provider
// and turns them into a caller Identity. Token issuance, sessions and
// credentials stay with the provider; this package only validates.
package auth

import (
	"chat-core/domain"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims is the claim set the provider embeds in its tokens. The
// subject is the stable external user id the profile sync links against.
type IdentityClaims struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}

// VerifyToken parses and validates the signature and expiration of a token
// string and maps its claims to a domain Identity.
func VerifyToken(tokenString string, secret []byte) (domain.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domain.Identity{}, err
	}

	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		return domain.Identity{}, jwt.ErrSignatureInvalid
	}
	return domain.Identity{
		Subject:  claims.Subject,
		Name:     claims.Name,
		Email:    claims.Email,
		ImageURL: claims.Picture,
	}, nil
}
