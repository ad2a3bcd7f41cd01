package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MaxRecipientLength   = 255
	MaxSubjectLength     = 500
	MinDeviceTokenLength = 8
)

var (
	// Email regex pattern (basic validation)
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// Phone regex pattern (E.164-style, optional leading +)
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// ValidateType checks the notification type against the allowed set,
// case-insensitively
func ValidateType(notificationType string) error {
	switch strings.ToLower(strings.TrimSpace(notificationType)) {
	case "email", "sms", "push":
		return nil
	case "":
		return fmt.Errorf("type is required")
	default:
		return fmt.Errorf("invalid notification type %q, allowed types: email, sms, push", notificationType)
	}
}

// ValidateRecipient validates the recipient address for the given type.
// The type must already have passed ValidateType.
func ValidateRecipient(notificationType, recipient string) error {
	recipient = strings.TrimSpace(recipient)

	if recipient == "" {
		return fmt.Errorf("recipient is required")
	}

	if len(recipient) > MaxRecipientLength {
		return fmt.Errorf("recipient is too long (max %d characters)", MaxRecipientLength)
	}

	switch strings.ToLower(strings.TrimSpace(notificationType)) {
	case "email":
		if !emailRegex.MatchString(recipient) {
			return fmt.Errorf("invalid email address")
		}
	case "sms":
		if !phoneRegex.MatchString(recipient) {
			return fmt.Errorf("invalid phone number")
		}
	case "push":
		if len(recipient) < MinDeviceTokenLength {
			return fmt.Errorf("device token must be at least %d characters", MinDeviceTokenLength)
		}
	}

	return nil
}

// ValidateSubject checks the optional subject length
func ValidateSubject(subject string) error {
	if len(subject) > MaxSubjectLength {
		return fmt.Errorf("subject is too long (max %d characters)", MaxSubjectLength)
	}
	return nil
}
