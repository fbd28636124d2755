package validate_test

import (
	"testing"
	"time"

	"github.com/tempohq/tempo/pkg/validate"
)

type signupInput struct {
	Name                 string `json:"name"                  validate:"required,min=2,max=100"`
	Email                string `json:"email"                 validate:"required,email"`
	Password             string `json:"password"              validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,confirmed"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(signupInput{
		Name:                 "Nina Vale",
		Email:                "nina@example.com",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(signupInput{})
	if !validate.HasErrors(errs) {
		t.Fatal("expected required errors")
	}
	for _, field := range []string{"name", "email", "password", "password_confirmation"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s to be required", field)
		}
	}
}

func TestConfirmedMismatch(t *testing.T) {
	errs := validate.Struct(signupInput{
		Name:                 "Nina Vale",
		Email:                "nina@example.com",
		Password:             "secret123",
		PasswordConfirmation: "different",
	})
	if _, ok := errs["password_confirmation"]; !ok {
		t.Errorf("expected password_confirmation error, got: %v", errs)
	}
}

func TestShortPassword(t *testing.T) {
	errs := validate.Struct(signupInput{
		Name:                 "Nina Vale",
		Email:                "nina@example.com",
		Password:             "short",
		PasswordConfirmation: "short",
	})
	if _, ok := errs["password"]; !ok {
		t.Errorf("expected password min error, got: %v", errs)
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	errs := validate.Struct(in{Email: "not-an-email"})
	if _, ok := errs["email"]; !ok {
		t.Error("expected email validation error")
	}
	errs = validate.Struct(in{Email: "valid@example.com"})
	if validate.HasErrors(errs) {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}

func TestInRuleKeepsCommaParams(t *testing.T) {
	type in struct {
		CustomerType string `json:"customer_type" validate:"required,in=artist,band"`
	}
	if errs := validate.Struct(in{CustomerType: "artist"}); validate.HasErrors(errs) {
		t.Errorf("artist should be allowed, got: %v", errs)
	}
	if errs := validate.Struct(in{CustomerType: "band"}); validate.HasErrors(errs) {
		t.Errorf("band should be allowed, got: %v", errs)
	}
	if errs := validate.Struct(in{CustomerType: "orchestra"}); !validate.HasErrors(errs) {
		t.Error("orchestra should be rejected")
	}
}

func TestBetweenNumeric(t *testing.T) {
	type in struct {
		GroupSize int `json:"group_size" validate:"required,between=1,8"`
		Duration  int `json:"duration"   validate:"required,between=1,4"`
	}
	if errs := validate.Struct(in{GroupSize: 5, Duration: 3}); validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
	errs := validate.Struct(in{GroupSize: 9, Duration: 5})
	if _, ok := errs["group_size"]; !ok {
		t.Error("group_size 9 should fail between=1,8")
	}
	if _, ok := errs["duration"]; !ok {
		t.Error("duration 5 should fail between=1,4")
	}
}

func TestNullableSkipsRules(t *testing.T) {
	type in struct {
		Message string `json:"message" validate:"nullable,max=5"`
	}
	if errs := validate.Struct(in{}); validate.HasErrors(errs) {
		t.Errorf("empty nullable should pass, got: %v", errs)
	}
	if errs := validate.Struct(in{Message: "too long for five"}); !validate.HasErrors(errs) {
		t.Error("non-empty nullable should still hit max")
	}
}

func TestNullablePointerFields(t *testing.T) {
	type in struct {
		Name  *string `json:"name"  validate:"nullable,min=2"`
		Email *string `json:"email" validate:"nullable,email"`
	}
	if errs := validate.Struct(in{}); validate.HasErrors(errs) {
		t.Errorf("nil pointers should pass, got: %v", errs)
	}

	short := "a"
	if errs := validate.Struct(in{Name: &short}); !validate.HasErrors(errs) {
		t.Error("one-char name should fail min=2")
	}

	good := "Nina"
	if errs := validate.Struct(in{Name: &good}); validate.HasErrors(errs) {
		t.Errorf("valid pointee should pass, got: %v", errs)
	}
}

func TestDigitsRule(t *testing.T) {
	type in struct {
		Code string `json:"code" validate:"nullable,digits=6"`
	}
	if errs := validate.Struct(in{Code: "123456"}); validate.HasErrors(errs) {
		t.Errorf("six digits should pass, got: %v", errs)
	}
	if errs := validate.Struct(in{Code: "12345"}); !validate.HasErrors(errs) {
		t.Error("five digits should fail digits=6")
	}
	if errs := validate.Struct(in{Code: "12345a"}); !validate.HasErrors(errs) {
		t.Error("non-digit should fail digits=6")
	}
}

func TestRequiredTime(t *testing.T) {
	type in struct {
		StartTime time.Time `json:"start_time" validate:"required"`
	}
	if errs := validate.Struct(in{}); !validate.HasErrors(errs) {
		t.Error("zero time should fail required")
	}
	if errs := validate.Struct(in{StartTime: time.Now()}); validate.HasErrors(errs) {
		t.Errorf("set time should pass, got: %v", errs)
	}
}

func TestPointerInputAccepted(t *testing.T) {
	errs := validate.Struct(&signupInput{
		Name:                 "Nina Vale",
		Email:                "nina@example.com",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	})
	if validate.HasErrors(errs) {
		t.Errorf("pointer input should validate, got: %v", errs)
	}
}
