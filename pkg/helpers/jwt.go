package helpers

import (
	"errors"
	"maps"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	ClaimSubject = "sub"
	ClaimType    = "type"

	TokenTypeRefresh = "refresh"
)

// ErrInvalidToken covers every verification failure: bad signature, expiry,
// unexpected algorithm or malformed payload.
var ErrInvalidToken = errors.New("invalid token")

// JWTManager issues and verifies HS256 tokens signed with a single secret.
// It does not know about token kinds; callers select a kind through claims.
type JWTManager struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Now is the clock used for issuing and validating; time.Now when nil.
	Now func() time.Time
}

func NewJWTManager(secret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		Secret:     []byte(secret),
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}
}

func (m *JWTManager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// Issue signs a claim set with sub=subject, the extra claims merged in, and exp=now+ttl.
func (m *JWTManager) Issue(subject string, claims map[string]any, ttl time.Duration) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(ttl)
	mc := jwt.MapClaims{}
	maps.Copy(mc, claims)
	mc[ClaimSubject] = subject
	mc["iat"] = now.Unix()
	mc["exp"] = exp.Unix()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, mc)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// IssueAccess issues a short-lived access token for subject.
func (m *JWTManager) IssueAccess(subject string) (string, time.Time, error) {
	return m.Issue(subject, nil, m.AccessTTL)
}

// IssueRefresh issues a long-lived token carrying type=refresh.
func (m *JWTManager) IssueRefresh(subject string) (string, time.Time, error) {
	return m.Issue(subject, map[string]any{ClaimType: TokenTypeRefresh}, m.RefreshTTL)
}

// Verify checks signature and expiry and returns the claim set.
func (m *JWTManager) Verify(tokenStr string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// StringClaim returns the claim as a non-empty string, or false.
func StringClaim(claims jwt.MapClaims, key string) (string, bool) {
	v, ok := claims[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
