package errors

// ErrorCode identifies an error class independent of the HTTP status
type ErrorCode string

const (
	ErrorCode_INTERNAL           ErrorCode = "INTERNAL"
	ErrorCode_INVALID_ARGUMENT   ErrorCode = "INVALID_ARGUMENT"
	ErrorCode_NOT_FOUND          ErrorCode = "NOT_FOUND"
	ErrorCode_ALREADY_EXISTS     ErrorCode = "ALREADY_EXISTS"
	ErrorCode_CONFLICT           ErrorCode = "CONFLICT"
	ErrorCode_INVALID_PAYLOAD    ErrorCode = "INVALID_PAYLOAD"
	ErrorCode_NO_PARTICIPANTS    ErrorCode = "NO_PARTICIPANTS"
	ErrorCode_MISSING_SCHEDULE   ErrorCode = "MISSING_SCHEDULE_FIELDS"
	ErrorCode_NO_ACCOUNT         ErrorCode = "NO_DEFAULT_ACCOUNT"
	ErrorCode_SUBMIT_IN_PROGRESS ErrorCode = "SUBMIT_IN_PROGRESS"
	ErrorCode_ENGINE_FAILURE     ErrorCode = "ENGINE_FAILURE"
	ErrorCode_ENGINE_TIMEOUT     ErrorCode = "ENGINE_TIMEOUT"
	ErrorCode_DB_QUERY_FAILED    ErrorCode = "DB_QUERY_FAILED"
)

// String returns the code as a string
func (c ErrorCode) String() string {
	return string(c)
}
