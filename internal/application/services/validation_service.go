package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/todolist/core/internal/domain/entities"
)

// Validation severities. Warnings are surfaced to the caller but never
// block an operation; only Error-severity findings flip IsValid.
const (
	SeverityError   = "Error"
	SeverityWarning = "Warning"
)

// ValidationError describes one failed check on one field.
type ValidationError struct {
	FieldName      string `json:"field_name"`
	ErrorCode      string `json:"error_code"`
	Message        string `json:"message"`
	AttemptedValue string `json:"attempted_value,omitempty"`
	Severity       string `json:"severity"`
}

// ValidationResult collects the findings of one or more validators.
type ValidationResult struct {
	IsValid bool              `json:"is_valid"`
	Errors  []ValidationError `json:"errors"`
}

func newValidationResult() *ValidationResult {
	return &ValidationResult{IsValid: true, Errors: []ValidationError{}}
}

// addError records a finding. Only Error severity invalidates the result.
func (r *ValidationResult) addError(err ValidationError) {
	r.Errors = append(r.Errors, err)
	if err.Severity == SeverityError {
		r.IsValid = false
	}
}

// merge folds another result's findings into this one.
func (r *ValidationResult) merge(other *ValidationResult) {
	r.Errors = append(r.Errors, other.Errors...)
	if !other.IsValid {
		r.IsValid = false
	}
}

// Warnings returns the subset of findings with Warning severity.
func (r *ValidationResult) Warnings() []ValidationError {
	warnings := make([]ValidationError, 0)
	for _, e := range r.Errors {
		if e.Severity == SeverityWarning {
			warnings = append(warnings, e)
		}
	}
	return warnings
}

var (
	emailPattern       = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	uppercasePattern   = regexp.MustCompile(`[A-Z]`)
	lowercasePattern   = regexp.MustCompile(`[a-z]`)
	digitPattern       = regexp.MustCompile(`[0-9]`)
	specialCharPattern = regexp.MustCompile(`[@$!%*?&]`)
)

// ValidationService checks field constraints and reports structured,
// severity-tagged findings. All methods are pure.
type ValidationService struct{}

// NewValidationService creates a new validation service
func NewValidationService() *ValidationService {
	return &ValidationService{}
}

// ValidateTitle checks that a title is present and within 3-200 characters.
// Titles under 3 characters are flagged as a warning, not a blocking error.
func (s *ValidationService) ValidateTitle(title string) *ValidationResult {
	result := newValidationResult()

	if strings.TrimSpace(title) == "" {
		result.addError(ValidationError{
			FieldName: "Title",
			ErrorCode: "TITLE_REQUIRED",
			Message:   "Title must not be empty",
			Severity:  SeverityError,
		})
		return result
	}

	if len([]rune(title)) > 200 {
		result.addError(ValidationError{
			FieldName:      "Title",
			ErrorCode:      "TITLE_TOO_LONG",
			Message:        "Title must not exceed 200 characters",
			AttemptedValue: title,
			Severity:       SeverityError,
		})
		return result
	}

	if len([]rune(title)) < 3 {
		result.addError(ValidationError{
			FieldName:      "Title",
			ErrorCode:      "TITLE_TOO_SHORT",
			Message:        "Title should have at least 3 characters",
			AttemptedValue: title,
			Severity:       SeverityWarning,
		})
	}

	return result
}

// ValidateDescription checks an optional description against its 2000
// character limit.
func (s *ValidationService) ValidateDescription(description *string) *ValidationResult {
	result := newValidationResult()

	if description == nil || strings.TrimSpace(*description) == "" {
		return result
	}

	if len([]rune(*description)) > 2000 {
		attempted := *description
		if len([]rune(attempted)) > 50 {
			attempted = string([]rune(attempted)[:50]) + "..."
		}
		result.addError(ValidationError{
			FieldName:      "Description",
			ErrorCode:      "DESCRIPTION_TOO_LONG",
			Message:        "Description must not exceed 2000 characters",
			AttemptedValue: attempted,
			Severity:       SeverityError,
		})
	}

	return result
}

// ValidateEmail checks presence, shape and length of an email address.
func (s *ValidationService) ValidateEmail(email string) *ValidationResult {
	result := newValidationResult()

	if strings.TrimSpace(email) == "" {
		result.addError(ValidationError{
			FieldName: "Email",
			ErrorCode: "EMAIL_REQUIRED",
			Message:   "Email must not be empty",
			Severity:  SeverityError,
		})
		return result
	}

	if !emailPattern.MatchString(email) {
		result.addError(ValidationError{
			FieldName:      "Email",
			ErrorCode:      "EMAIL_INVALID_FORMAT",
			Message:        "Email is not valid. Expected format: user@example.com",
			AttemptedValue: email,
			Severity:       SeverityError,
		})
	}

	if len(email) > 256 {
		result.addError(ValidationError{
			FieldName:      "Email",
			ErrorCode:      "EMAIL_TOO_LONG",
			Message:        "Email must not exceed 256 characters",
			AttemptedValue: email,
			Severity:       SeverityError,
		})
	}

	return result
}

// ValidatePassword checks length bounds and required character classes.
// Every failing check is reported; nothing short-circuits.
func (s *ValidationService) ValidatePassword(password string) *ValidationResult {
	result := newValidationResult()

	if password == "" {
		result.addError(ValidationError{
			FieldName: "Password",
			ErrorCode: "PASSWORD_REQUIRED",
			Message:   "Password must not be empty",
			Severity:  SeverityError,
		})
		return result
	}

	if len(password) < 8 {
		result.addError(ValidationError{
			FieldName: "Password",
			ErrorCode: "PASSWORD_TOO_SHORT",
			Message:   "Password must have at least 8 characters",
			Severity:  SeverityError,
		})
	}

	if len(password) > 128 {
		result.addError(ValidationError{
			FieldName: "Password",
			ErrorCode: "PASSWORD_TOO_LONG",
			Message:   "Password must not exceed 128 characters",
			Severity:  SeverityError,
		})
	}

	if !uppercasePattern.MatchString(password) {
		result.addError(ValidationError{
			FieldName: "Password",
			ErrorCode: "PASSWORD_MISSING_UPPERCASE",
			Message:   "Password must contain at least one uppercase letter (A-Z)",
			Severity:  SeverityError,
		})
	}

	if !lowercasePattern.MatchString(password) {
		result.addError(ValidationError{
			FieldName: "Password",
			ErrorCode: "PASSWORD_MISSING_LOWERCASE",
			Message:   "Password must contain at least one lowercase letter (a-z)",
			Severity:  SeverityError,
		})
	}

	if !digitPattern.MatchString(password) {
		result.addError(ValidationError{
			FieldName: "Password",
			ErrorCode: "PASSWORD_MISSING_DIGIT",
			Message:   "Password must contain at least one digit (0-9)",
			Severity:  SeverityError,
		})
	}

	if !specialCharPattern.MatchString(password) {
		result.addError(ValidationError{
			FieldName: "Password",
			ErrorCode: "PASSWORD_MISSING_SPECIAL_CHAR",
			Message:   "Password must contain at least one special character (@$!%*?&)",
			Severity:  SeverityError,
		})
	}

	return result
}

// ValidateFullName checks presence and the 2-100 character bounds.
func (s *ValidationService) ValidateFullName(fullName string) *ValidationResult {
	result := newValidationResult()

	if strings.TrimSpace(fullName) == "" {
		result.addError(ValidationError{
			FieldName: "FullName",
			ErrorCode: "FULLNAME_REQUIRED",
			Message:   "Full name must not be empty",
			Severity:  SeverityError,
		})
		return result
	}

	if len([]rune(fullName)) < 2 {
		result.addError(ValidationError{
			FieldName:      "FullName",
			ErrorCode:      "FULLNAME_TOO_SHORT",
			Message:        "Full name must have at least 2 characters",
			AttemptedValue: fullName,
			Severity:       SeverityError,
		})
	}

	if len([]rune(fullName)) > 100 {
		result.addError(ValidationError{
			FieldName:      "FullName",
			ErrorCode:      "FULLNAME_TOO_LONG",
			Message:        "Full name must not exceed 100 characters",
			AttemptedValue: fullName,
			Severity:       SeverityError,
		})
	}

	return result
}

// ValidateDueDate flags past or far-future due dates as warnings. A due
// date is optional and never blocks on its own.
func (s *ValidationService) ValidateDueDate(dueDate *time.Time) *ValidationResult {
	result := newValidationResult()

	if dueDate == nil {
		return result
	}

	today := entities.DateOnly(time.Now())
	due := entities.DateOnly(*dueDate)

	if due.Before(today) {
		result.addError(ValidationError{
			FieldName:      "DueDate",
			ErrorCode:      "DUEDATE_IN_PAST",
			Message:        "Due date is in the past",
			AttemptedValue: due.Format("2006-01-02"),
			Severity:       SeverityWarning,
		})
	}

	if due.After(today.AddDate(1, 0, 0)) {
		result.addError(ValidationError{
			FieldName:      "DueDate",
			ErrorCode:      "DUEDATE_FAR_FUTURE",
			Message:        "Due date is more than a year in the future",
			AttemptedValue: due.Format("2006-01-02"),
			Severity:       SeverityWarning,
		})
	}

	return result
}

// ValidateToDoItem merges the per-field checks for an item's user-supplied
// fields. Warnings (short title, past or far-future due date) are carried
// through but do not invalidate the result.
func (s *ValidationService) ValidateToDoItem(title string, description *string, dueDate *time.Time) *ValidationResult {
	result := newValidationResult()

	result.merge(s.ValidateTitle(title))
	result.merge(s.ValidateDescription(description))
	result.merge(s.ValidateDueDate(dueDate))

	return result
}

// ValidateItemUpdate checks the fields of a partial item update. An absent
// title is left alone; description and due date get the same checks as a
// create whenever they are supplied.
func (s *ValidationService) ValidateItemUpdate(title *string, description *string, dueDate *time.Time) *ValidationResult {
	result := newValidationResult()

	if title != nil {
		result.merge(s.ValidateTitle(*title))
	}
	result.merge(s.ValidateDescription(description))
	result.merge(s.ValidateDueDate(dueDate))

	return result
}

// ValidateCategory checks category name, description and color fields.
func (s *ValidationService) ValidateCategory(name string, description *string, color *string) *ValidationResult {
	result := newValidationResult()

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		result.addError(ValidationError{
			FieldName: "Name",
			ErrorCode: "CATEGORY_NAME_REQUIRED",
			Message:   "Category name must not be empty",
			Severity:  SeverityError,
		})
	} else if len([]rune(trimmed)) < 2 || len([]rune(trimmed)) > 100 {
		result.addError(ValidationError{
			FieldName:      "Name",
			ErrorCode:      "CATEGORY_NAME_LENGTH",
			Message:        "Category name must have 2-100 characters",
			AttemptedValue: name,
			Severity:       SeverityError,
		})
	}

	if description != nil && len([]rune(*description)) > 500 {
		result.addError(ValidationError{
			FieldName: "Description",
			ErrorCode: "CATEGORY_DESCRIPTION_TOO_LONG",
			Message:   "Category description must not exceed 500 characters",
			Severity:  SeverityError,
		})
	}

	if color != nil && !hexColorPattern.MatchString(*color) {
		result.addError(ValidationError{
			FieldName:      "Color",
			ErrorCode:      "CATEGORY_COLOR_INVALID",
			Message:        "Color must be a 3- or 6-digit hex code",
			AttemptedValue: *color,
			Severity:       SeverityError,
		})
	}

	return result
}

var hexColorPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

// ValidateRegistration merges the registration field checks and verifies
// the password confirmation.
func (s *ValidationService) ValidateRegistration(email, fullName, password, confirmPassword string) *ValidationResult {
	result := newValidationResult()

	result.merge(s.ValidateEmail(email))
	result.merge(s.ValidateFullName(fullName))
	result.merge(s.ValidatePassword(password))

	if confirmPassword == "" {
		result.addError(ValidationError{
			FieldName: "ConfirmPassword",
			ErrorCode: "CONFIRM_PASSWORD_REQUIRED",
			Message:   "Please confirm your password",
			Severity:  SeverityError,
		})
	} else if password != confirmPassword {
		result.addError(ValidationError{
			FieldName: "ConfirmPassword",
			ErrorCode: "PASSWORD_MISMATCH",
			Message:   "Password confirmation does not match",
			Severity:  SeverityError,
		})
	}

	return result
}

// Error implements the error interface so a ValidationResult can travel as
// an error value when callers prefer that shape.
func (r *ValidationResult) Error() string {
	if r.IsValid {
		return ""
	}
	codes := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		if e.Severity == SeverityError {
			codes = append(codes, e.ErrorCode)
		}
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(codes, ", "))
}
