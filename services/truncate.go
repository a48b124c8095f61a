package services

// TruncateDocument cuts text to at most limit characters (runes). A limit of
// zero or less disables the cut.
func TruncateDocument(text string, limit int) (string, bool) {
	if limit <= 0 || len(text) <= limit {
		return text, false
	}

	count := 0
	for i := range text {
		if count == limit {
			return text[:i], true
		}
		count++
	}
	return text, false
}
