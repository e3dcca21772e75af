package quotient

import "github.com/zeebo/errs"

var (
	// ErrConfig is returned when the requested quotient width cannot
	// be addressed by the fingerprint width.
	ErrConfig = errs.Class("invalid quotient width")

	// ErrConversion is returned when an index or fingerprint value
	// cannot be represented in the platform index type. The operation
	// aborts without mutating the table.
	ErrConversion = errs.Class("conversion")

	// ErrSizeMismatch is returned by Merge when the two filters do not
	// have equal table sizes. Rejected before any mutation.
	ErrSizeMismatch = errs.Class("size mismatch")

	// ErrCorrupt signals table metadata that no longer describes valid
	// runs and clusters. Resize and merge roll back rather than commit
	// a partial table when they hit it.
	ErrCorrupt = errs.Class("corrupt table")
)
