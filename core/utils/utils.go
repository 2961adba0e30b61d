package utils

// Pointer pointer
func Pointer[Value any](v Value) *Value {
	return &v
}

// Shorten cut s to n characters and mark the cut
func Shorten(s string, n int) string {
	if len(s) > n {
		return s[:n] + "…"
	}

	return s
}
