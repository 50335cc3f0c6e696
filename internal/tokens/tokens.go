package tokens

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"

	// AdminUserID is the single identity granted the is_admin claim.
	AdminUserID uint = 1
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

type Claims struct {
	TokenType string `json:"typ"`
	Fresh     bool   `json:"fresh"`
	IsAdmin   bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid subject %q: %w", c.Subject, err)
	}
	return uint(id), nil
}

// Issuer mints HS256-signed access and refresh tokens. The is_admin claim is
// re-derived from the identity on every issuance, never stored elsewhere.
type Issuer struct {
	Secret []byte
}

func NewIssuer(secret []byte) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("signing secret is empty")
	}
	return &Issuer{Secret: secret}, nil
}

func (i *Issuer) IssueAccess(userID uint, fresh bool) (string, error) {
	return i.sign(&Claims{
		TokenType: TypeAccess,
		Fresh:     fresh,
		IsAdmin:   userID == AdminUserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(AccessTTL)),
		},
	})
}

func (i *Issuer) IssueRefresh(userID uint) (string, error) {
	return i.sign(&Claims{
		TokenType: TypeRefresh,
		IsAdmin:   userID == AdminUserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(RefreshTTL)),
		},
	})
}

func (i *Issuer) sign(claims *Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.Secret)
}

// Parse validates signature and expiry and returns the typed claims.
// Expiry is reported as jwt.ErrTokenExpired inside the returned error chain.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return &claims, nil
}
