// Package token issues and verifies the HS256 JWTs used for API
// authentication. An access token authorizes requests; a refresh token can
// only be exchanged for a new access token. The two are told apart by a
// scope claim.
package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	ScopeAccess  = "access"
	ScopeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type Maker struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewMaker(secret string, accessTTL, refreshTTL time.Duration) *Maker {
	return &Maker{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Pair is the response body of a successful login.
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (m *Maker) NewPair(userID int) (Pair, error) {
	access, err := m.sign(userID, ScopeAccess, m.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := m.sign(userID, ScopeRefresh, m.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh}, nil
}

func (m *Maker) NewAccess(userID int) (string, error) {
	return m.sign(userID, ScopeAccess, m.accessTTL)
}

func (m *Maker) sign(userID int, scope string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   strconv.Itoa(userID),
		"scope": scope,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify checks the signature, expiry and scope of a token and returns the
// user id carried in the subject claim.
func (m *Maker) Verify(tokenString, scope string) (int, error) {
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !tok.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	if claims["scope"] != scope {
		return 0, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return 0, ErrInvalidToken
	}
	id, err := strconv.Atoi(sub)
	if err != nil || id < 1 {
		return 0, ErrInvalidToken
	}
	return id, nil
}
