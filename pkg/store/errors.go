package store

import "errors"

var (
	ErrInvalidDBPath     = errors.New("invalid database path")
	ErrSchemaInitFailed  = errors.New("schema initialization failed")
	ErrSchemaMismatch    = errors.New("unsupported schema version")
	ErrTransactionFailed = errors.New("transaction failed")
	ErrClosed            = errors.New("repository closed")
)
