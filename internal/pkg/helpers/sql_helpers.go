package helpers

// NullableString returns nil for an empty string so that the column is stored
// as NULL, otherwise a pointer to s.
func NullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringValue dereferences s, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// BoolValue dereferences b, returning false for nil (a NULL column).
func BoolValue(b *bool) bool {
	return b != nil && *b
}
