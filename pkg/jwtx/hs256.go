package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Error taxonomy for token verification. These are distinguished for
// diagnostics; the HTTP boundary collapses them into one unauthenticated
// response shape.
var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
	ErrNoSecret    = errors.New("jwtx: empty signing secret")
)

// Signer signs claims into a compact JWT string.
type Signer interface {
	Sign(Claims) (string, error)
}

// Verifier validates a JWT and returns the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// HS256Signer signs tokens with an HMAC-SHA256 shared secret. The secret is
// provided once at construction and treated as immutable; there is no
// package-level key state, so tests can run with their own secrets.
type HS256Signer struct {
	secret []byte
}

// NewSignerHS256 creates an HS256 signer from a shared secret.
func NewSignerHS256(secret []byte) (*HS256Signer, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}
	return &HS256Signer{secret: secret}, nil
}

// Sign takes the claims and turns them into a signed JWT string.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// HS256Verifier validates JWTs signed with an HMAC-SHA256 shared secret.
// Verification is a pure function of the token and the secret; no state is
// retained between calls.
type HS256Verifier struct {
	secret []byte
	issuer string
}

// NewVerifierHS256 creates a verifier for the given shared secret. A
// non-empty issuer is enforced against the "iss" claim.
func NewVerifierHS256(secret []byte, issuer string) (*HS256Verifier, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}
	return &HS256Verifier{secret: secret, issuer: issuer}, nil
}

// Verify checks signature integrity first, then claim requirements, and
// returns the parsed Claims only if everything passes.
func (v *HS256Verifier) Verify(tokenStr string) (Claims, error) {
	// Expiry is validated explicitly below so that a tampered-but-expired
	// token reports the signature failure, not the expiry.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	})
	switch {
	case err == nil:
		// fall through to claim validation
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return Claims{}, ErrInvalidSig
	default:
		return Claims{}, ErrMalformed
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return Claims{}, ErrMalformed
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiry(); err != nil {
		return Claims{}, err
	}

	return *claims, nil
}
