package rbac

import "errors"

// Error taxonomy for permission checks and admin operations. Controllers
// translate these with errors.Is into HTTP statuses.
var (
	// ErrAuthenticationRequired means no identity was present on the request.
	ErrAuthenticationRequired = errors.New("rbac: authentication required")

	// ErrInsufficientPermissions means the identity was present but the
	// permission check failed.
	ErrInsufficientPermissions = errors.New("rbac: insufficient permissions")

	// ErrNotFound means a referenced role or permission does not exist.
	ErrNotFound = errors.New("rbac: not found")

	// ErrConflict means a uniqueness or in-use invariant was violated.
	ErrConflict = errors.New("rbac: conflict")

	// ErrValidation means the admin operation input was malformed.
	ErrValidation = errors.New("rbac: validation failed")

	// ErrSystemRole means a system role was targeted for deletion.
	ErrSystemRole = errors.New("rbac: system role is protected")
)
