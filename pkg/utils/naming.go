package utils

import (
	"strings"
	"unicode"
)

// ToPascalCase converts a name to upper camel case.
// Examples:
//   - "initialize_pool" -> "InitializePool"
//   - "swapV2" -> "SwapV2"
//   - "HTTPServer" -> "HttpServer"
func ToPascalCase(s string) string {
	// Re-splitting can merge adjacent single-letter words ("xABc" ->
	// "XABc" -> "XaBc"), so iterate until the result is stable.
	result := pascalOnce(s)
	for {
		next := pascalOnce(result)
		if next == result {
			return result
		}
		result = next
	}
}

func pascalOnce(s string) string {
	var result strings.Builder
	for _, word := range SplitWords(s) {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		result.WriteString(string(runes))
	}
	return result.String()
}

// ToSnakeCase converts a name to lowercase words joined by underscores.
// This is the normalization Anchor applies before hashing instruction names.
func ToSnakeCase(s string) string {
	words := SplitWords(s)
	for i := range words {
		words[i] = strings.ToLower(words[i])
	}
	return strings.Join(words, "_")
}

// SplitWords splits a name into words. Any rune that is not a letter or a
// digit separates words. An uppercase letter starts a new word when it
// follows a lowercase letter or a digit, or when it ends an acronym run and
// is followed by a lowercase letter ("HTTPServer" -> "HTTP", "Server").
func SplitWords(s string) []string {
	var words []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}

		if unicode.IsUpper(r) && len(current) > 0 {
			prev := current[len(current)-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}

		current = append(current, r)
	}
	flush()

	return words
}

// PackageName derives a Go package name from a file stem: lowercase letters
// and digits only, prefixed with "idl" when the result would be empty or
// start with a digit.
func PackageName(stem string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(stem) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" || unicode.IsDigit(rune(name[0])) {
		name = "idl" + name
	}
	return name
}
