package errors

// Error codes for standardized error responses
const (
	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"
	ErrCodeInvalidResult    = "invalid_result"

	// Selection errors
	ErrCodeCorpusUnavailable = "corpus_unavailable"

	// Player stats errors
	ErrCodeStatsUnavailable = "stats_unavailable"
	ErrCodeStatsFetchFailed = "stats_fetch_failed"
	ErrCodeRecordFailed     = "record_failed"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
)
