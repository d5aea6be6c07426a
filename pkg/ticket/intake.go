package ticket

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldID identifies an intake form field.
type FieldID string

const (
	FieldNickname FieldID = "nick"
	FieldAge      FieldID = "age"
	FieldPurpose  FieldID = "purpose"
	FieldReferral FieldID = "from_where"
	FieldRules    FieldID = "read_rules"
)

// FieldSpec describes an intake form field and its bounds.
type FieldSpec struct {
	ID FieldID

	// Label is the question shown on the form.
	Label string

	// Summary is the label used when the answer is listed.
	Summary string

	// MinLength and MaxLength bound the trimmed value in characters.
	MinLength int
	MaxLength int

	// Digits restricts the value to ASCII digits.
	Digits bool

	// Long marks free text that needs a multi-line input.
	Long bool

	// Message is shown to the requester when the value is rejected.
	Message string
}

func (f FieldSpec) tag() string {
	tag := fmt.Sprintf("min=%d,max=%d", f.MinLength, f.MaxLength)
	if f.Digits {
		tag += ",digits"
	}
	return tag
}

// IntakeFields are the questions of the intake form, in order.
var IntakeFields = []FieldSpec{
	{
		ID:        FieldNickname,
		Label:     "Minecraft nickname",
		Summary:   "Nickname",
		MinLength: 3,
		MaxLength: 50,
		Message:   "❌ The nickname must be between 3 and 50 characters.",
	},
	{
		ID:        FieldAge,
		Label:     "Age",
		Summary:   "Age",
		MinLength: 1,
		MaxLength: 2,
		Digits:    true,
		Message:   "❌ Age must be a number of 1-2 digits.",
	},
	{
		ID:        FieldPurpose,
		Label:     "What will you be doing?",
		Summary:   "Plans",
		MinLength: 50,
		MaxLength: 500,
		Long:      true,
		Message:   "❌ 'What will you be doing?' must contain between 50 and 500 characters.",
	},
	{
		ID:        FieldReferral,
		Label:     "Where did you hear about us?",
		Summary:   "Found us via",
		MinLength: 1,
		MaxLength: 50,
		Message:   "❌ 'Where did you hear about us?' must contain between 1 and 50 characters.",
	},
	{
		ID:        FieldRules,
		Label:     "Have you read the rules?",
		Summary:   "Read the rules",
		MinLength: 1,
		MaxLength: 20,
		Message:   "❌ 'Have you read the rules?' must contain between 1 and 20 characters.",
	},
}

// Field is a validated intake answer.
type Field struct {
	ID      FieldID
	Summary string
	Value   string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("digits", validateDigits); err != nil {
		panic(fmt.Sprintf("registering digits validation: %v", err))
	}
	return v
}

// validateDigits accepts strings made only of ASCII digits.
func validateDigits(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// ValidateIntake trims and validates raw form values. The first field that fails, in form order, is reported.
// Clients can submit forms without the limits the form declares, so this is the authoritative check.
func ValidateIntake(raw map[FieldID]string) ([]Field, error) {
	fields := make([]Field, 0, len(IntakeFields))
	for _, spec := range IntakeFields {
		value := strings.TrimSpace(raw[spec.ID])
		if err := validate.Var(value, spec.tag()); err != nil {
			return nil, &ValidationError{Field: spec.ID, Message: spec.Message}
		}
		fields = append(fields, Field{ID: spec.ID, Summary: spec.Summary, Value: value})
	}
	return fields, nil
}
