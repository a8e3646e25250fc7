package utils // package utils provides helpers for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// TokenTTL is the fixed lifetime of every session token.  The portal
// issues exactly one kind of token: a one-day bearer token minted at
// registration or login.  There is no refresh or revocation path; a
// token stays valid until it expires.
const TokenTTL = 24 * time.Hour

// ErrInvalidToken is returned by ParseAccessToken for any token that
// cannot be trusted: bad signature, wrong algorithm, expired, or
// claims of an unexpected shape.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken holds a signed JWT plus its expiration time.  The Token
// field is the serialized string handed to the client.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// TokenClaims is the decoded payload of a session token: the user's
// id, their role bucket and display name.
type TokenClaims struct {
	UserID   uint64
	UserType string
	Name     string
}

// NewAccessToken builds and signs an HS256 JWT for a user.  The claims
// carry userId, userType and name so protected handlers can identify
// the caller without a database round trip, plus the standard exp/iat
// timestamps.
func NewAccessToken(secret string, userID uint64, userType, name string) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(TokenTTL)
	claims := jwt.MapClaims{
		"userId":   userID,
		"userType": userType,
		"name":     name,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies the signature and expiry of a raw token
// string and returns its claims.  Only HMAC-signed tokens are
// accepted; anything else fails with ErrInvalidToken.
func ParseAccessToken(secret, raw string) (TokenClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return TokenClaims{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, ErrInvalidToken
	}
	id, ok := claims["userId"].(float64) // JSON numbers decode as float64
	if !ok {
		return TokenClaims{}, ErrInvalidToken
	}
	userType, _ := claims["userType"].(string)
	name, _ := claims["name"].(string)
	return TokenClaims{UserID: uint64(id), UserType: userType, Name: name}, nil
}
