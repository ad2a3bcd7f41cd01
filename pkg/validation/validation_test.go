package validation

import (
	"strings"
	"testing"
)

func TestValidateType(t *testing.T) {
	t.Parallel()

	valid := []string{"email", "sms", "push", "Email", "SMS", " push "}
	for _, typ := range valid {
		if err := ValidateType(typ); err != nil {
			t.Fatalf("expected %q to be valid, got %v", typ, err)
		}
	}

	invalid := []string{"", "fax", "e-mail", "pushh"}
	for _, typ := range invalid {
		if err := ValidateType(typ); err == nil {
			t.Fatalf("expected %q to be rejected", typ)
		}
	}
}

func TestValidateRecipient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		notificationType string
		recipient        string
		wantErr          bool
	}{
		{"valid email", "email", "user@example.com", false},
		{"email with plus", "email", "user+tag@example.co.uk", false},
		{"email without domain", "email", "user@", true},
		{"email without at", "email", "user.example.com", true},
		{"valid phone", "sms", "+79001234567", false},
		{"phone without plus", "sms", "79001234567", false},
		{"phone too short", "sms", "+123", true},
		{"phone with letters", "sms", "+7900abc4567", true},
		{"valid device token", "push", "token-1234567890", false},
		{"device token too short", "push", "short", true},
		{"empty recipient", "email", "", true},
		{"whitespace recipient", "sms", "   ", true},
		{"recipient too long", "email", strings.Repeat("a", 250) + "@example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecipient(tt.notificationType, tt.recipient)
			if tt.wantErr && err == nil {
				t.Fatalf("expected %q to be rejected for type %s", tt.recipient, tt.notificationType)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("expected %q to be valid for type %s, got %v", tt.recipient, tt.notificationType, err)
			}
		})
	}
}

func TestValidateSubject(t *testing.T) {
	t.Parallel()

	if err := ValidateSubject(""); err != nil {
		t.Fatalf("expected an empty subject to be valid, got %v", err)
	}
	if err := ValidateSubject("hello"); err != nil {
		t.Fatalf("expected a short subject to be valid, got %v", err)
	}
	if err := ValidateSubject(strings.Repeat("a", MaxSubjectLength+1)); err == nil {
		t.Fatal("expected an oversized subject to be rejected")
	}
}
