package apperrors

import "errors"

// Sentinel errors for the storage core. Services wrap these with
// fmt.Errorf("%w: ...") and handlers match with errors.Is to pick a status.
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrDuplicateName    = errors.New("duplicate name")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrUploadRejected   = errors.New("upload rejected")
	ErrStorageFailure   = errors.New("storage failure")
)
