package repository

import "errors"

// Repository-level sentinels. The service layer translates them into domain errors,
// so callers never see driver errors such as sql.ErrNoRows or mongo.ErrNoDocuments.

// ErrNotFound is returned when a single-entity lookup finds nothing.
var ErrNotFound = errors.New("repository: not found")

// ErrDuplicate is returned when an insert violates a unique index.
var ErrDuplicate = errors.New("repository: duplicate key")
