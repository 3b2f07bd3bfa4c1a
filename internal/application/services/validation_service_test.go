package services

import (
	"strings"
	"testing"
	"time"
)

func hasCode(result *ValidationResult, code string) bool {
	for _, e := range result.Errors {
		if e.ErrorCode == code {
			return true
		}
	}
	return false
}

func TestValidateTitle(t *testing.T) {
	svc := NewValidationService()

	t.Run("empty title is an error", func(t *testing.T) {
		result := svc.ValidateTitle("   ")
		if result.IsValid {
			t.Fatal("expected invalid result")
		}
		if !hasCode(result, "TITLE_REQUIRED") {
			t.Errorf("expected TITLE_REQUIRED, got %+v", result.Errors)
		}
	})

	t.Run("overlong title is an error", func(t *testing.T) {
		result := svc.ValidateTitle(strings.Repeat("x", 201))
		if result.IsValid {
			t.Fatal("expected invalid result")
		}
		if !hasCode(result, "TITLE_TOO_LONG") {
			t.Errorf("expected TITLE_TOO_LONG, got %+v", result.Errors)
		}
	})

	t.Run("short title warns but stays valid", func(t *testing.T) {
		result := svc.ValidateTitle("ab")
		if !result.IsValid {
			t.Fatal("short title should not block")
		}
		if !hasCode(result, "TITLE_TOO_SHORT") {
			t.Errorf("expected TITLE_TOO_SHORT warning, got %+v", result.Errors)
		}
		if len(result.Warnings()) != 1 {
			t.Errorf("expected exactly one warning, got %d", len(result.Warnings()))
		}
	})

	t.Run("normal title passes clean", func(t *testing.T) {
		result := svc.ValidateTitle("Buy milk")
		if !result.IsValid || len(result.Errors) != 0 {
			t.Errorf("expected clean result, got %+v", result.Errors)
		}
	})
}

func TestValidateEmail(t *testing.T) {
	svc := NewValidationService()

	t.Run("valid address", func(t *testing.T) {
		if result := svc.ValidateEmail("user@example.com"); !result.IsValid {
			t.Errorf("expected valid, got %+v", result.Errors)
		}
	})

	t.Run("missing domain", func(t *testing.T) {
		result := svc.ValidateEmail("user@")
		if result.IsValid || !hasCode(result, "EMAIL_INVALID_FORMAT") {
			t.Errorf("expected EMAIL_INVALID_FORMAT, got %+v", result.Errors)
		}
	})

	t.Run("empty", func(t *testing.T) {
		result := svc.ValidateEmail("")
		if result.IsValid || !hasCode(result, "EMAIL_REQUIRED") {
			t.Errorf("expected EMAIL_REQUIRED, got %+v", result.Errors)
		}
	})
}

func TestValidatePassword(t *testing.T) {
	svc := NewValidationService()

	t.Run("missing special character fails", func(t *testing.T) {
		result := svc.ValidatePassword("Abc12345")
		if result.IsValid {
			t.Fatal("expected invalid result")
		}
		if !hasCode(result, "PASSWORD_MISSING_SPECIAL_CHAR") {
			t.Errorf("expected PASSWORD_MISSING_SPECIAL_CHAR, got %+v", result.Errors)
		}
	})

	t.Run("all character classes pass", func(t *testing.T) {
		if result := svc.ValidatePassword("Abc123!@"); !result.IsValid {
			t.Errorf("expected valid, got %+v", result.Errors)
		}
	})

	t.Run("every failing check is reported", func(t *testing.T) {
		result := svc.ValidatePassword("abc")
		for _, code := range []string{
			"PASSWORD_TOO_SHORT",
			"PASSWORD_MISSING_UPPERCASE",
			"PASSWORD_MISSING_DIGIT",
			"PASSWORD_MISSING_SPECIAL_CHAR",
		} {
			if !hasCode(result, code) {
				t.Errorf("expected %s to be reported, got %+v", code, result.Errors)
			}
		}
	})
}

func TestValidateDueDate(t *testing.T) {
	svc := NewValidationService()

	t.Run("nil is fine", func(t *testing.T) {
		if result := svc.ValidateDueDate(nil); !result.IsValid || len(result.Errors) != 0 {
			t.Errorf("expected clean result, got %+v", result.Errors)
		}
	})

	t.Run("past date warns without blocking", func(t *testing.T) {
		past := time.Now().AddDate(0, 0, -5)
		result := svc.ValidateDueDate(&past)
		if !result.IsValid {
			t.Fatal("past due date should not block")
		}
		if !hasCode(result, "DUEDATE_IN_PAST") {
			t.Errorf("expected DUEDATE_IN_PAST, got %+v", result.Errors)
		}
	})

	t.Run("far future warns without blocking", func(t *testing.T) {
		far := time.Now().AddDate(2, 0, 0)
		result := svc.ValidateDueDate(&far)
		if !result.IsValid {
			t.Fatal("far-future due date should not block")
		}
		if !hasCode(result, "DUEDATE_FAR_FUTURE") {
			t.Errorf("expected DUEDATE_FAR_FUTURE, got %+v", result.Errors)
		}
	})
}

func TestValidateToDoItemMergesFields(t *testing.T) {
	svc := NewValidationService()

	longDesc := strings.Repeat("d", 2001)
	past := time.Now().AddDate(0, 0, -1)
	result := svc.ValidateToDoItem("ab", &longDesc, &past)

	if result.IsValid {
		t.Fatal("overlong description should invalidate")
	}
	if !hasCode(result, "TITLE_TOO_SHORT") || !hasCode(result, "DESCRIPTION_TOO_LONG") || !hasCode(result, "DUEDATE_IN_PAST") {
		t.Errorf("expected findings from all fields, got %+v", result.Errors)
	}
	if len(result.Warnings()) != 2 {
		t.Errorf("expected 2 warnings, got %d", len(result.Warnings()))
	}
}

func TestValidateItemUpdate(t *testing.T) {
	svc := NewValidationService()

	t.Run("overlong description blocks without a title", func(t *testing.T) {
		longDesc := strings.Repeat("d", 2001)
		result := svc.ValidateItemUpdate(nil, &longDesc, nil)
		if result.IsValid {
			t.Fatal("expected invalid result")
		}
		if !hasCode(result, "DESCRIPTION_TOO_LONG") {
			t.Errorf("expected DESCRIPTION_TOO_LONG, got %+v", result.Errors)
		}
	})

	t.Run("past due date warns without a title", func(t *testing.T) {
		past := time.Now().AddDate(0, 0, -1)
		result := svc.ValidateItemUpdate(nil, nil, &past)
		if !result.IsValid {
			t.Fatal("past due date should not block")
		}
		if !hasCode(result, "DUEDATE_IN_PAST") {
			t.Errorf("expected DUEDATE_IN_PAST, got %+v", result.Errors)
		}
		if len(result.Warnings()) != 1 {
			t.Errorf("expected 1 warning, got %d", len(result.Warnings()))
		}
	})

	t.Run("supplied title is still checked", func(t *testing.T) {
		title := ""
		result := svc.ValidateItemUpdate(&title, nil, nil)
		if result.IsValid || !hasCode(result, "TITLE_REQUIRED") {
			t.Errorf("expected TITLE_REQUIRED, got %+v", result.Errors)
		}
	})

	t.Run("empty update passes clean", func(t *testing.T) {
		result := svc.ValidateItemUpdate(nil, nil, nil)
		if !result.IsValid || len(result.Errors) != 0 {
			t.Errorf("expected clean result, got %+v", result.Errors)
		}
	})
}

func TestValidateCategory(t *testing.T) {
	svc := NewValidationService()

	t.Run("valid category", func(t *testing.T) {
		color := "#ff8800"
		if result := svc.ValidateCategory("Work", nil, &color); !result.IsValid {
			t.Errorf("expected valid, got %+v", result.Errors)
		}
	})

	t.Run("three digit color accepted", func(t *testing.T) {
		color := "#F80"
		if result := svc.ValidateCategory("Work", nil, &color); !result.IsValid {
			t.Errorf("expected valid, got %+v", result.Errors)
		}
	})

	t.Run("bad color rejected", func(t *testing.T) {
		color := "red"
		result := svc.ValidateCategory("Work", nil, &color)
		if result.IsValid || !hasCode(result, "CATEGORY_COLOR_INVALID") {
			t.Errorf("expected CATEGORY_COLOR_INVALID, got %+v", result.Errors)
		}
	})

	t.Run("single character name rejected", func(t *testing.T) {
		result := svc.ValidateCategory("W", nil, nil)
		if result.IsValid || !hasCode(result, "CATEGORY_NAME_LENGTH") {
			t.Errorf("expected CATEGORY_NAME_LENGTH, got %+v", result.Errors)
		}
	})
}

func TestValidateRegistration(t *testing.T) {
	svc := NewValidationService()

	t.Run("missing confirmation", func(t *testing.T) {
		result := svc.ValidateRegistration("user@example.com", "Jane Doe", "Abc123!@", "")
		if result.IsValid || !hasCode(result, "CONFIRM_PASSWORD_REQUIRED") {
			t.Errorf("expected CONFIRM_PASSWORD_REQUIRED, got %+v", result.Errors)
		}
	})

	t.Run("mismatched confirmation", func(t *testing.T) {
		result := svc.ValidateRegistration("user@example.com", "Jane Doe", "Abc123!@", "Abc123!!")
		if result.IsValid || !hasCode(result, "PASSWORD_MISMATCH") {
			t.Errorf("expected PASSWORD_MISMATCH, got %+v", result.Errors)
		}
	})

	t.Run("good registration", func(t *testing.T) {
		result := svc.ValidateRegistration("user@example.com", "Jane Doe", "Abc123!@", "Abc123!@")
		if !result.IsValid {
			t.Errorf("expected valid, got %+v", result.Errors)
		}
	})
}

func TestValidationResultError(t *testing.T) {
	svc := NewValidationService()

	result := svc.ValidateRegistration("", "Jane Doe", "Abc123!@", "Abc123!@")
	msg := result.Error()

	if !strings.HasPrefix(msg, "validation failed:") {
		t.Errorf("unexpected error prefix: %q", msg)
	}
	if !strings.Contains(msg, "EMAIL_REQUIRED") {
		t.Errorf("expected EMAIL_REQUIRED in message, got %q", msg)
	}
}
