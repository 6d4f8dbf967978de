package service

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	scriptBlockPattern  = regexp.MustCompile(`(?is)<script[^>]*>.*?</script\s*>`)
	htmlTagPattern      = regexp.MustCompile(`(?s)<[^>]*>`)
	sqlKeywordPattern   = regexp.MustCompile(`(?i)\b(SELECT|INSERT|UPDATE|DELETE|DROP|CREATE|ALTER|TRUNCATE|EXEC|EXECUTE|UNION|GRANT|REVOKE)\b`)
	javascriptPattern   = regexp.MustCompile(`(?i)javascript\s*:`)
	eventHandlerPattern = regexp.MustCompile(`(?i)\bon[a-z]+\s*=`)
	angleBrackets       = strings.NewReplacer("<", "", ">", "")
)

// ValidateMessage rejects empty messages and messages over maxLen characters
func ValidateMessage(message string, maxLen int) error {
	if strings.TrimSpace(message) == "" {
		return ErrEmptyMessage
	}
	if utf8.RuneCountInString(message) > maxLen {
		return ErrMessageTooLong
	}
	return nil
}

// SanitizeMessage strips markup, script vectors and SQL keywords, collapses
// whitespace and truncates to maxLen characters.
func SanitizeMessage(message string, maxLen int) string {
	s := scriptBlockPattern.ReplaceAllString(message, " ")
	s = htmlTagPattern.ReplaceAllString(s, " ")
	s = sqlKeywordPattern.ReplaceAllString(s, " ")
	s = javascriptPattern.ReplaceAllString(s, " ")
	s = eventHandlerPattern.ReplaceAllString(s, " ")
	s = angleBrackets.Replace(s)
	s = strings.Join(strings.Fields(s), " ")

	if maxLen > 0 && utf8.RuneCountInString(s) > maxLen {
		s = strings.TrimSpace(string([]rune(s)[:maxLen]))
	}
	return s
}
