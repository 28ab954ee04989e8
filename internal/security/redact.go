package security

import "strings"

// sensitiveSubstrings mark parameter names whose values never reach logs.
// Dates of birth are personal data and are masked alongside credentials.
var sensitiveSubstrings = []string{
	"token",
	"secret",
	"password",
	"authorization",
	"api_key",
	"apikey",
	"credential",
	"bearer",
	"dob",
	"birth",
}

const mask = "***"

// RedactArguments returns a copy of arguments with sensitive values replaced.
func RedactArguments(values map[string]any) map[string]any {
	if values == nil {
		return nil
	}
	redacted := make(map[string]any, len(values))
	for key, value := range values {
		if IsSensitiveKey(key) {
			redacted[key] = mask
			continue
		}
		redacted[key] = value
	}
	return redacted
}

// IsSensitiveKey reports whether a parameter name must be masked.
func IsSensitiveKey(key string) bool {
	lower := strings.ToLower(strings.TrimSpace(key))
	for _, part := range sensitiveSubstrings {
		if strings.Contains(lower, part) {
			return true
		}
	}
	return false
}
