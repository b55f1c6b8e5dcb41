package format

// CardDescriptionLength is how much of a description a product card shows.
const CardDescriptionLength = 60

// Truncate keeps the first n characters of s and appends "...".
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes) + "..."
}
