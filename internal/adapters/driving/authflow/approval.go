package authflow

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the signed approval cookie. One cookie covers all
// clients the user has approved from this browser.
const CookieName = "deepwiki_approval"

// approvalTTL is how long a recorded approval is honoured before the
// consent screen is shown again.
const approvalTTL = 30 * 24 * time.Hour

// approvalClaims lists the client ids the user approved.
type approvalClaims struct {
	ApprovedClients []string `json:"approved_clients"`
	jwt.RegisteredClaims
}

// Approvals signs and verifies the consent cookie.
type Approvals struct {
	key []byte

	// now is swapped in tests to exercise expiry.
	now func() time.Time
}

// NewApprovals creates an Approvals gate signing with key.
func NewApprovals(key []byte) *Approvals {
	return &Approvals{key: key, now: time.Now}
}

// IsApproved reports whether the request carries a valid approval for
// clientID. It never errors: a missing cookie, a bad signature, an
// expired cookie or an unlisted client all mean "show the consent
// screen again".
func (a *Approvals) IsApproved(r *http.Request, clientID string) bool {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return false
	}
	for _, approved := range a.approvedClients(cookie.Value) {
		if approved == clientID {
			return true
		}
	}
	return false
}

// RecordApproval adds clientID to the set of approved clients,
// preserving approvals already recorded in the request's cookie, and
// returns the refreshed cookie to set on the response.
func (a *Approvals) RecordApproval(r *http.Request, clientID string) (*http.Cookie, error) {
	approved := []string{clientID}
	if cookie, err := r.Cookie(CookieName); err == nil {
		for _, prev := range a.approvedClients(cookie.Value) {
			if prev != clientID {
				approved = append(approved, prev)
			}
		}
	}

	now := a.now()
	claims := approvalClaims{
		ApprovedClients: approved,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(approvalTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.key)
	if err != nil {
		return nil, fmt.Errorf("signing approval cookie: %w", err)
	}

	return &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(approvalTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// approvedClients returns the client ids from a cookie value, or nil
// when the value does not verify.
func (a *Approvals) approvedClients(value string) []string {
	var claims approvalClaims
	parsed, err := jwt.ParseWithClaims(value, &claims,
		func(*jwt.Token) (any, error) { return a.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !parsed.Valid {
		return nil
	}
	return claims.ApprovedClients
}
