package domain

import "fmt"

// ValidationCategory groups validation messages for the caller.
type ValidationCategory string

const (
	CategoryValidation             ValidationCategory = "VALIDATION"
	CategoryUnsupportedSentence    ValidationCategory = "UNSUPPORTED_SENTENCE"
	CategoryUnsupportedCalculation ValidationCategory = "UNSUPPORTED_CALCULATION"
)

// ValidationCode identifies the rule that produced a message.
type ValidationCode string

const (
	CodeNoSentences                  ValidationCode = "NO_SENTENCES"
	CodeMissingSentenceDate          ValidationCode = "SENTENCE_DATE_MISSING"
	CodeUnsupportedSentenceType      ValidationCode = "UNSUPPORTED_SENTENCE_TYPE"
	CodeDuplicateSentence            ValidationCode = "DUPLICATE_SENTENCE_ID"
	CodeZeroDuration                 ValidationCode = "ZERO_SENTENCE_LENGTH"
	CodeMissingExtension             ValidationCode = "EXTENSION_PERIOD_MISSING"
	CodeConsecutiveToUnknown         ValidationCode = "CONSECUTIVE_TO_UNKNOWN_SENTENCE"
	CodeConsecutiveCycle             ValidationCode = "CONSECUTIVE_SENTENCES_FORM_A_CYCLE"
	CodeAdjustmentPeriodInverted     ValidationCode = "ADJUSTMENT_TO_BEFORE_FROM"
	CodeAdjustmentUnknownSentence    ValidationCode = "ADJUSTMENT_UNKNOWN_SENTENCE"
	CodeIndeterminateWithDeterminate ValidationCode = "INDETERMINATE_WITH_DETERMINATE"
	CodeDTOConsecutiveToNonDTO       ValidationCode = "DTO_CONSECUTIVE_TO_NON_DTO"
	CodeConsecutiveNotEligible       ValidationCode = "CONSECUTIVE_NOT_ELIGIBLE"
	CodeErsedNotApplicable           ValidationCode = "ERSED_NOT_APPLICABLE"
	CodeReleaseBeforeSentence        ValidationCode = "RELEASE_BEFORE_SENTENCE_DATE"
)

// ValidationMessage explains one validation problem.
type ValidationMessage struct {
	Code      ValidationCode     `json:"code"`
	Category  ValidationCategory `json:"category"`
	Message   string             `json:"message"`
	Arguments []string           `json:"arguments,omitempty"`
}

func (m ValidationMessage) String() string {
	return fmt.Sprintf("[%s] %s", m.Code, m.Message)
}

// NewValidationMessage builds a message in the VALIDATION category.
func NewValidationMessage(code ValidationCode, format string, args ...any) ValidationMessage {
	return ValidationMessage{
		Code:     code,
		Category: CategoryValidation,
		Message:  fmt.Sprintf(format, args...),
	}
}

// InCategory returns a copy of the message in another category.
func (m ValidationMessage) InCategory(c ValidationCategory) ValidationMessage {
	m.Category = c
	return m
}

// WithArguments returns a copy carrying the values the message refers to.
func (m ValidationMessage) WithArguments(args ...string) ValidationMessage {
	m.Arguments = append([]string(nil), args...)
	return m
}
