package errx

// Type categorizes an error for propagation and HTTP mapping.
type Type string

const (
	// TypeInternal represents internal or transient infrastructure errors.
	// These are retryable by the caller and never expose detail.
	TypeInternal Type = "INTERNAL"

	// TypeValidation represents malformed or rejected input.
	TypeValidation Type = "VALIDATION"

	// TypeAuthorization represents authentication/authorization failures.
	TypeAuthorization Type = "AUTHORIZATION"

	// TypeNotFound represents missing resources.
	TypeNotFound Type = "NOT_FOUND"

	// TypeConflict represents uniqueness/state conflicts.
	TypeConflict Type = "CONFLICT"

	// TypeRateLimit represents throttling and lockout rejections.
	TypeRateLimit Type = "RATE_LIMIT"

	// TypeConfiguration represents invalid service configuration,
	// detected at construction time rather than per request.
	TypeConfiguration Type = "CONFIGURATION"

	// TypeExternal represents failures of external collaborators (mail, etc).
	TypeExternal Type = "EXTERNAL"
)

func (t Type) String() string {
	return string(t)
}
