package enums

import "fmt"

// Language is a storefront locale.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageBangla  Language = "bn"
)

var validLanguages = []Language{
	LanguageEnglish,
	LanguageBangla,
}

// String implements fmt.Stringer.
func (l Language) String() string {
	return string(l)
}

// IsValid reports whether the value is a supported Language.
func (l Language) IsValid() bool {
	for _, candidate := range validLanguages {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLanguage converts raw input into a Language.
func ParseLanguage(value string) (Language, error) {
	for _, candidate := range validLanguages {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid language %q", value)
}
