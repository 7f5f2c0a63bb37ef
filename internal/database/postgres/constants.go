package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction = "failed to begin transaction"
	ErrMsgFailedToScanRow          = "failed to scan row"
	ErrMsgRowIteration             = "row iteration error"
)

// settingsRowID pins the singleton settings row
const settingsRowID = 1
