package services

// Typed failures surfaced to the HTTP layer. Anything else coming out of a
// service method is a persistence error and maps to a 500.

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

type PermissionError struct {
	Reason string
}

func (e *PermissionError) Error() string {
	return e.Reason
}

type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func notFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

func permissionDenied(reason string) error {
	return &PermissionError{Reason: reason}
}

func invalid(reason string) error {
	return &ValidationError{Reason: reason}
}
