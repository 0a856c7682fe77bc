package errx

// Convenience constructors for unregistered one-off errors.

func Internal(message string) *Error {
	return New(message, TypeInternal)
}

func Validation(message string) *Error {
	return New(message, TypeValidation)
}

func NotFound(message string) *Error {
	return New(message, TypeNotFound)
}

func Unauthorized(message string) *Error {
	return New(message, TypeAuthorization)
}

func Conflict(message string) *Error {
	return New(message, TypeConflict)
}

func Configuration(message string) *Error {
	return New(message, TypeConfiguration)
}

func External(message string) *Error {
	return New(message, TypeExternal)
}
