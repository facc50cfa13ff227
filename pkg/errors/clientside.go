package errors

import stdErrors "errors"

// ClientSideError reports misuse of the Storage API that isn't a storage or
// environmental failure: asking to create a collection that already exists,
// or to operate on one that doesn't.
type ClientSideError struct {
	*baseError

	collectionName string
}

// NewClientSideError creates a new client-side error.
func NewClientSideError(code ErrorCode, msg string) *ClientSideError {
	return &ClientSideError{baseError: NewBaseError(nil, code, msg)}
}

// WithMessage updates the error message while preserving the ClientSideError type.
func (ce *ClientSideError) WithMessage(msg string) *ClientSideError {
	ce.baseError.WithMessage(msg)
	return ce
}

// WithDetail adds contextual information while preserving the ClientSideError type.
func (ce *ClientSideError) WithDetail(key string, value any) *ClientSideError {
	ce.baseError.WithDetail(key, value)
	return ce
}

// WithCollectionName records which collection the operation targeted.
func (ce *ClientSideError) WithCollectionName(name string) *ClientSideError {
	ce.collectionName = name
	return ce
}

// CollectionName returns the collection name involved in the error.
func (ce *ClientSideError) CollectionName() string { return ce.collectionName }

// IsClientSideError checks if the given error is a ClientSideError or
// contains one in its error chain.
func IsClientSideError(err error) bool {
	var ce *ClientSideError
	return stdErrors.As(err, &ce)
}

// NewCollectionAlreadyExistsError builds the error for CreateNewCollection
// being called against a name that already has a collection.
func NewCollectionAlreadyExistsError(name string) *ClientSideError {
	return NewClientSideError(
		ErrorCodeCollectionAlreadyExists,
		"collection already exists",
	).WithCollectionName(name)
}

// NewCollectionNotFoundError builds the error for an operation against a
// collection name Storage doesn't know about.
func NewCollectionNotFoundError(name string) *ClientSideError {
	return NewClientSideError(
		ErrorCodeCollectionNotFound,
		"collection does not exist",
	).WithCollectionName(name)
}
