package validate

import (
	"strings"
	"testing"
)

func TestRequired(t *testing.T) {
	v := Required()
	if err := v(""); err == nil {
		t.Fatalf("empty string must fail")
	}
	if err := v("   "); err == nil {
		t.Fatalf("whitespace must fail")
	}
	if err := v("x"); err != nil {
		t.Fatalf("non-empty must pass: %v", err)
	}
}

func TestLengthValidators(t *testing.T) {
	if err := MinLength(3)("ab"); err == nil {
		t.Fatalf("too short must fail")
	}
	if err := MinLength(3)("abc"); err != nil {
		t.Fatalf("exact min must pass: %v", err)
	}
	if err := MaxLength(3)("abcd"); err == nil {
		t.Fatalf("too long must fail")
	}
	if err := Length(6)("123456"); err != nil {
		t.Fatalf("exact length must pass: %v", err)
	}
	if err := Length(6)("12345"); err == nil {
		t.Fatalf("wrong length must fail")
	}
}

func TestDigitsOnly(t *testing.T) {
	if err := DigitsOnly()("123456"); err != nil {
		t.Fatalf("digits must pass: %v", err)
	}
	if err := DigitsOnly()("12a456"); err == nil {
		t.Fatalf("letters must fail")
	}
	if err := DigitsOnly()(""); err != nil {
		t.Fatalf("empty is Required's job, must pass here: %v", err)
	}
}

func TestComposeFirstErrorWins(t *testing.T) {
	v := Compose(Required(), MinLength(10))
	err := v("")
	if err == nil || !strings.Contains(err.Error(), "required") {
		t.Fatalf("expected the Required error first, got %v", err)
	}
}

func TestFieldPrefixesName(t *testing.T) {
	v := Field("nickname", Required())
	err := v("")
	if err == nil || !strings.Contains(err.Error(), "nickname") {
		t.Fatalf("expected the field name in the error, got %v", err)
	}
}
