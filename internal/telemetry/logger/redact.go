package logger

import (
	"log/slog"
	"strings"
)

// Key fragments that mark an attribute as a credential.
var sensitiveKeyPatterns = []string{
	"password",
	"passphrase",
	"psk",
	"secret",
	"token",
	"credential",
}

const redactedValue = "***REDACTED***"

// redactSensitive replaces credential-looking attributes, descending into groups.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	if IsSensitiveKey(a.Key) {
		if a.Value.Kind() == slog.KindString && a.Value.String() == "" {
			return a
		}
		return slog.String(a.Key, redactedValue)
	}
	return a
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

// MaskSecret renders a secret for display: length is kept, content is not.
func MaskSecret(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 2 {
		return "**"
	}
	return value[:1] + strings.Repeat("*", len(value)-2) + value[len(value)-1:]
}
