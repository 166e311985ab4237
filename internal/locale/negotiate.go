package locale

import (
	"golang.org/x/text/language"
)

// Negotiate picks the available locale that best matches an Accept-Language
// header value. It falls back to DefaultLocale when nothing matches.
func Negotiate(acceptLanguage string, available []string) string {
	if len(available) == 0 {
		return DefaultLocale
	}

	// The matcher returns its first supported tag as the no-match answer
	supported := []language.Tag{language.Make(DefaultLocale)}
	codes := []string{DefaultLocale}
	for _, code := range available {
		if code == DefaultLocale {
			continue
		}
		tag, err := language.Parse(code)
		if err != nil {
			continue
		}
		supported = append(supported, tag)
		codes = append(codes, code)
	}

	desired, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(desired) == 0 {
		return DefaultLocale
	}

	_, index, confidence := language.NewMatcher(supported).Match(desired...)
	if confidence == language.No {
		return DefaultLocale
	}
	return codes[index]
}
