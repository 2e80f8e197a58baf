package usecase

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/ednsy/leadrosetta/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ValidateCreateManualProspectInput(input CreateManualProspectInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.UserID) == "" {
		errors = append(errors, ValidationError{"user_id", "is required"})
	}

	if strings.TrimSpace(input.CompanyName) == "" {
		errors = append(errors, ValidationError{"company_name", "is required"})
	} else if len(input.CompanyName) > entity.MaxNameLen {
		errors = append(errors, ValidationError{"company_name", fmt.Sprintf("must not exceed %d characters", entity.MaxNameLen)})
	}

	if strings.TrimSpace(input.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if len(input.Website) > entity.MaxWebsiteLen {
		errors = append(errors, ValidationError{"website", fmt.Sprintf("must not exceed %d characters", entity.MaxWebsiteLen)})
	}
	if len(input.Phone) > entity.MaxPhoneLen {
		errors = append(errors, ValidationError{"phone", fmt.Sprintf("must not exceed %d characters", entity.MaxPhoneLen)})
	}
	if len(input.Industry) > entity.MaxIndustryLen {
		errors = append(errors, ValidationError{"industry", fmt.Sprintf("must not exceed %d characters", entity.MaxIndustryLen)})
	}

	return errors
}

// Granular demo UX events the tracking endpoint accepts. page_view doubles
// as the open-signal fallback when the email pixel was blocked.
var knownDemoEvents = map[string]bool{
	"page_view":          true,
	"time_on_page_2min":  true,
	"chat_opened":        true,
	"chat_message_sent":  true,
	"callback_opened":    true,
	"callback_submitted": true,
	"callback_success":   true,
	"callback_error":     true,
}

func ValidateDemoEvent(eventType string) error {
	if !knownDemoEvents[eventType] {
		return &DomainError{Code: CodeValidationError, Message: "unknown event type: " + eventType}
	}
	return nil
}

func validationFailure(errs []ValidationError) *DomainError {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}
	return &DomainError{
		Code:    CodeValidationError,
		Message: "validation failed: " + strings.Join(parts, ", "),
	}
}
