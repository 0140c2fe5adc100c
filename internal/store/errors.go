package store

import "errors"

// Sentinel errors returned by storage methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrDocumentNotFound is returned when the requested path has no stored
	// document.
	ErrDocumentNotFound = errors.New("document was not found")

	// ErrDocumentExists is returned when a rename target is already taken.
	ErrDocumentExists = errors.New("document already exists")

	// ErrInvalidPath is returned for empty paths or paths escaping the
	// storage root.
	ErrInvalidPath = errors.New("invalid document path")
)

// Low-level database operation errors. These are returned (or wrapped) by
// SQLite storage methods when a SQL-level operation fails before any domain
// logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing an INSERT, UPDATE or
	// DELETE fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a result row fails.
	ErrScanningRow = errors.New("failed to scan document row")
)
