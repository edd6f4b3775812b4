package errors

// ErrorCode identifies an application error class in responses and logs
type ErrorCode int32

const (
	ErrorCode_HTTP_OK            ErrorCode = 0
	ErrorCode_INTERNAL           ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT   ErrorCode = 1001
	ErrorCode_NOT_FOUND          ErrorCode = 1002
	ErrorCode_UNAUTHENTICATED    ErrorCode = 1003
	ErrorCode_FORBIDDEN          ErrorCode = 1004
	ErrorCode_INVALID_PAYLOAD    ErrorCode = 1005
	ErrorCode_RATE_LIMITED       ErrorCode = 1006
	ErrorCode_AUTH_INVALID_TOKEN ErrorCode = 2000
	ErrorCode_AUTH_TOKEN_EXPIRED ErrorCode = 2001
	ErrorCode_SESSION_NOT_FOUND  ErrorCode = 3000
	ErrorCode_LENGTH_MISMATCH    ErrorCode = 3001
	ErrorCode_LLM_PROVIDER_FAILED ErrorCode = 4000
	ErrorCode_LLM_PARSE_FAILED    ErrorCode = 4001
	ErrorCode_REPORT_GENERATION_FAILED ErrorCode = 4002
	ErrorCode_STORAGE_FAILED           ErrorCode = 5000
	ErrorCode_DB_QUERY_FAILED          ErrorCode = 5001
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                  "HTTP_OK",
	ErrorCode_INTERNAL:                 "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:         "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                "NOT_FOUND",
	ErrorCode_UNAUTHENTICATED:          "UNAUTHENTICATED",
	ErrorCode_FORBIDDEN:                "FORBIDDEN",
	ErrorCode_INVALID_PAYLOAD:          "INVALID_PAYLOAD",
	ErrorCode_RATE_LIMITED:             "RATE_LIMITED",
	ErrorCode_AUTH_INVALID_TOKEN:       "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:       "AUTH_TOKEN_EXPIRED",
	ErrorCode_SESSION_NOT_FOUND:        "SESSION_NOT_FOUND",
	ErrorCode_LENGTH_MISMATCH:          "LENGTH_MISMATCH",
	ErrorCode_LLM_PROVIDER_FAILED:      "LLM_PROVIDER_FAILED",
	ErrorCode_LLM_PARSE_FAILED:         "LLM_PARSE_FAILED",
	ErrorCode_REPORT_GENERATION_FAILED: "REPORT_GENERATION_FAILED",
	ErrorCode_STORAGE_FAILED:           "STORAGE_FAILED",
	ErrorCode_DB_QUERY_FAILED:          "DB_QUERY_FAILED",
}

// String returns the symbolic name of the error code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
