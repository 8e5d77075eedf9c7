package extstrgutils

import "strings"

// SplitMultiValueParam splits a command line value into its parts. Space,
// tab, comma and semicolon are separators, empty parts are dropped.
func SplitMultiValueParam(value string) []string {
	return strings.FieldsFunc(value, isSeparator)
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', '\t', ',', ';':
		return true
	}
	return false
}
