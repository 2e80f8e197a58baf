package usecase

// Error codes. Handlers map these to HTTP statuses so the operator can tell
// "upgrade your plan" from "reconnect the provider" from "retry later".
const (
	CodeNotConfigured     = "NOT_CONFIGURED"
	CodeAdapterError      = "ADAPTER_ERROR"
	CodeRefreshFailed     = "REFRESH_FAILED"
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeQuotaExceeded     = "QUOTA_EXCEEDED"
	CodeValidationError   = "VALIDATION_ERROR"
	CodeDemoExists        = "DEMO_EXISTS"
)

// DomainError is a business-rule failure the caller can act on.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// TechnicalError is an infrastructure failure (database, queue); retrying is
// the only remedy.
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}
