package service

import (
	"time"

	"github.com/halcyonlabs/accountd/pkg/jwtx"
)

// TokenService issues and verifies bearer tokens binding an account id to an
// expiry instant. Tokens are stateless: once minted they stay
// cryptographically valid until expiry. There is no revocation list; account
// status is re-checked on every authenticated request, which covers
// deactivation but not role or email changes within a token's lifetime.
type TokenService struct {
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Issuer   string
	TTL      time.Duration
}

// Issue mints a signed token for the given account id.
func (s *TokenService) Issue(userID string) (string, error) {
	claims := jwtx.NewAccessClaims(userID, s.Issuer, s.TTL, time.Now())
	return s.Signer.Sign(claims)
}

// Verify checks the token's signature and expiry and returns the account id
// it was issued for. Failure kinds are jwtx errors; callers collapse them
// into one unauthenticated response.
func (s *TokenService) Verify(token string) (string, error) {
	claims, err := s.Verifier.Verify(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
