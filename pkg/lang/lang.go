package lang

import "strings"

// DefaultCode is the fallback for detection failures and unsupported codes.
const DefaultCode = "en"

// displayNames enumerates the supported display languages. Any code outside
// this set normalizes to DefaultCode instead of failing a lookup.
var displayNames = map[string]string{
	"en": "English",
	"ar": "Arabic",
	"fr": "French",
	"sw": "Swahili",
	"ha": "Hausa",
	"yo": "Yoruba",
	"am": "Amharic",
	"zu": "Zulu",
	"pt": "Portuguese",
}

// IsSupported reports whether code is one of the supported language codes.
func IsSupported(code string) bool {
	_, ok := displayNames[code]
	return ok
}

// DisplayName returns the human-readable name for a code, falling back to
// the name for DefaultCode when the code is unrecognized.
func DisplayName(code string) string {
	if name, ok := displayNames[code]; ok {
		return name
	}
	return displayNames[DefaultCode]
}

// Normalize lowercases and trims a detected code and maps anything outside
// the supported set to DefaultCode.
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if !IsSupported(code) {
		return DefaultCode
	}
	return code
}
