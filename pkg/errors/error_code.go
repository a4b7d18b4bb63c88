package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidInput         ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeEmptySeries          ErrorCode = 102
	ErrCodeNonPositivePrice     ErrorCode = 103
	ErrCodeUnalignedSeries      ErrorCode = 104
	ErrCodeNonFiniteValue       ErrorCode = 105
	ErrCodeMissingParameter     ErrorCode = 106

	// Data errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeUnsupportedFormat     ErrorCode = 203

	// Performance errors (300-399)
	ErrCodeRunCancelled   ErrorCode = 301
	ErrCodeRunnerNotReady ErrorCode = 302

	// Result errors (400-499)
	ErrCodeResultWriteFailed ErrorCode = 400
	ErrCodeNoResultsDir      ErrorCode = 401
)
