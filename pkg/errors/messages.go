package errors

// User facing error messages. The error taxonomy of the processing pipeline
// lives here so handlers, logic and the pipeline agree on the wording that
// ends up in API responses and in document failure metadata.
const (
	ERROR_INTERNAL           = "internal server error"
	ERROR_INVALID_ARGUMENT   = "invalid request argument"
	ERROR_NOT_FOUND          = "resource not found"
	ERROR_UNSUPPORTED_FORMAT = "unsupported file format"
	ERROR_PAYLOAD_TOO_LARGE  = "file exceeds the maximum allowed size"
	ERROR_STORAGE_FAILURE    = "failed to persist file"
	ERROR_EXTRACTION_FAILED  = "content extraction failed"
	ERROR_TIMEOUT_EXCEEDED   = "extraction exceeded the time budget"
	ERROR_TOO_MANY_REQUESTS  = "too many requests"
)
