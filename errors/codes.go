package errors

// ErrorCode identifies an application error family in responses and logs.
type ErrorCode int

const (
	ErrorCode_UNSPECIFIED ErrorCode = iota
	ErrorCode_HTTP_OK
	ErrorCode_INTERNAL
	ErrorCode_INVALID_ARGUMENT
	ErrorCode_INVALID_PAYLOAD
	ErrorCode_NOT_FOUND
	ErrorCode_UNSUPPORTED_MEDIA_TYPE
	ErrorCode_TRANSCRIPTION_FAILED
	ErrorCode_NO_SPEECH_DETECTED
	ErrorCode_ANALYSIS_FAILED
	ErrorCode_ANALYSIS_NOT_PERSISTED
	ErrorCode_RAG_QUERY_FAILED
	ErrorCode_EXPORT_FAILED
	ErrorCode_DB_QUERY_FAILED
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_UNSPECIFIED:                     "UNSPECIFIED",
	ErrorCode_HTTP_OK:                         "OK",
	ErrorCode_INTERNAL:                        "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:                "INVALID_ARGUMENT",
	ErrorCode_INVALID_PAYLOAD:                 "INVALID_PAYLOAD",
	ErrorCode_NOT_FOUND:                       "NOT_FOUND",
	ErrorCode_UNSUPPORTED_MEDIA_TYPE:          "UNSUPPORTED_MEDIA_TYPE",
	ErrorCode_TRANSCRIPTION_FAILED:            "TRANSCRIPTION_FAILED",
	ErrorCode_NO_SPEECH_DETECTED:              "NO_SPEECH_DETECTED",
	ErrorCode_ANALYSIS_FAILED:                 "ANALYSIS_FAILED",
	ErrorCode_ANALYSIS_NOT_PERSISTED:          "ANALYSIS_NOT_PERSISTED",
	ErrorCode_RAG_QUERY_FAILED:                "RAG_QUERY_FAILED",
	ErrorCode_EXPORT_FAILED:                   "EXPORT_FAILED",
	ErrorCode_DB_QUERY_FAILED:                 "DB_QUERY_FAILED",
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED: "INTEGRATION_EXTERNAL_API_FAILED",
}

// String returns the symbolic name for the code.
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
