package validator

import "unicode/utf8"

func NewsTitle(title string) bool {
	return utf8.RuneCountInString(title) >= 3 && utf8.RuneCountInString(title) <= 255
}

func NewsContent(content string) bool {
	return content != "" && utf8.RuneCountInString(content) <= 20000
}
