package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCreateManualProspectInput(t *testing.T) {
	errs := ValidateCreateManualProspectInput(CreateManualProspectInput{
		UserID:      "user-1",
		CompanyName: "Acme",
		Email:       "info@acme.com",
	})
	assert.Empty(t, errs)

	errs = ValidateCreateManualProspectInput(CreateManualProspectInput{})
	fields := make([]string, len(errs))
	for i, e := range errs {
		fields[i] = e.Field
	}
	assert.Contains(t, fields, "user_id")
	assert.Contains(t, fields, "company_name")
	assert.Contains(t, fields, "email")

	errs = ValidateCreateManualProspectInput(CreateManualProspectInput{
		UserID:      "user-1",
		CompanyName: "Acme",
		Email:       "not-an-email",
	})
	assert.Len(t, errs, 1)
	assert.Equal(t, "email", errs[0].Field)

	errs = ValidateCreateManualProspectInput(CreateManualProspectInput{
		UserID:      "user-1",
		CompanyName: strings.Repeat("x", 501),
		Email:       "info@acme.com",
	})
	assert.Len(t, errs, 1)
	assert.Equal(t, "company_name", errs[0].Field)
}

func TestValidateDemoEvent(t *testing.T) {
	for _, ev := range []string{"page_view", "chat_opened", "callback_submitted"} {
		assert.NoError(t, ValidateDemoEvent(ev))
	}

	err := ValidateDemoEvent("made_up_event")
	de, ok := err.(*DomainError)
	assert.True(t, ok)
	assert.Equal(t, CodeValidationError, de.Code)
}
