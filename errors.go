package guard

import "github.com/goliatone/go-errors"

const (
	TextCodeMalformedAuthHeader = "auth_malformed_header"
	TextCodeInvalidToken        = "auth_invalid_token"
	TextCodeAudienceMismatch    = "auth_audience_mismatch"
	TextCodeSubjectNotFound     = "auth_subject_not_found"
	TextCodeMalformedSubject    = "auth_malformed_subject"
	TextCodeForbidden           = "authz_role_required"
	TextCodeUpstreamUnavailable = "auth_upstream_unavailable"
	TextCodeInvalidCredentials  = "auth_invalid_credentials"
)

// ErrMalformedAuthHeader is returned when the Authorization header is absent
// or does not carry a "Bearer " scheme with a non-empty token.
var ErrMalformedAuthHeader = errors.New("Missing or invalid Authorization header", errors.CategoryAuth).
	WithTextCode(TextCodeMalformedAuthHeader).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidToken covers signature, expiry, and every other verification
// failure. Callers never learn which; the cause travels in Source/Metadata
// for the request log only.
var ErrInvalidToken = errors.New("Invalid or expired token", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidToken).
	WithCode(errors.CodeUnauthorized)

// ErrAudienceMismatch is returned when a provider token's audience does not
// match the configured expected audience.
var ErrAudienceMismatch = errors.New("Invalid or expired token", errors.CategoryAuth).
	WithTextCode(TextCodeAudienceMismatch).
	WithCode(errors.CodeUnauthorized)

// ErrSubjectNotFound is returned when the token subject has no matching
// record in the credential store.
var ErrSubjectNotFound = errors.New("Invalid or expired token", errors.CategoryAuth).
	WithTextCode(TextCodeSubjectNotFound).
	WithCode(errors.CodeUnauthorized)

// ErrMalformedSubject is returned when the token subject is not a valid
// identifier for the active store.
var ErrMalformedSubject = errors.New("Invalid or expired token", errors.CategoryAuth).
	WithTextCode(TextCodeMalformedSubject).
	WithCode(errors.CodeUnauthorized)

// ErrForbidden is returned when an authenticated caller does not hold the
// role a route group requires.
var ErrForbidden = errors.New("Admin access required", errors.CategoryAuthz).
	WithTextCode(TextCodeForbidden).
	WithCode(errors.CodeForbidden)

// ErrUpstreamUnavailable is returned when the credential store or the
// identity provider cannot be reached. Clients get a generic 500; the
// underlying cause is logged, never returned.
var ErrUpstreamUnavailable = errors.New("Internal server error", errors.CategoryInternal).
	WithTextCode(TextCodeUpstreamUnavailable).
	WithCode(errors.CodeInternal)

// ErrInvalidCredentials is returned by the login flow for a bad
// email/password pair, deliberately indistinguishable between the two.
var ErrInvalidCredentials = errors.New("Invalid email or password", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// WrapInvalidToken wraps a verification failure into ErrInvalidToken,
// keeping the cause attached for the request logger.
func WrapInvalidToken(cause error) error {
	return wrapSentinel(cause, ErrInvalidToken)
}

// WrapAudienceMismatch wraps an audience validation failure into
// ErrAudienceMismatch.
func WrapAudienceMismatch(cause error) error {
	return wrapSentinel(cause, ErrAudienceMismatch)
}

// WrapUpstreamUnavailable wraps a collaborator failure into
// ErrUpstreamUnavailable.
func WrapUpstreamUnavailable(cause error) error {
	return wrapSentinel(cause, ErrUpstreamUnavailable)
}

func wrapSentinel(cause error, sentinel *errors.Error) error {
	return errors.Wrap(cause, sentinel.Category, sentinel.Message).
		WithTextCode(sentinel.TextCode).
		WithCode(sentinel.Code)
}
