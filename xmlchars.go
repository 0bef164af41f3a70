package toxml

import (
	"unicode"
	"unicode/utf8"
)

// XML 1.0 (fifth edition) NameStartChar outside ASCII.
var nameStartTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0xC0, Hi: 0xD6, Stride: 1},
		{Lo: 0xD8, Hi: 0xF6, Stride: 1},
		{Lo: 0xF8, Hi: 0x2FF, Stride: 1},
		{Lo: 0x370, Hi: 0x37D, Stride: 1},
		{Lo: 0x37F, Hi: 0x1FFF, Stride: 1},
		{Lo: 0x200C, Hi: 0x200D, Stride: 1},
		{Lo: 0x2070, Hi: 0x218F, Stride: 1},
		{Lo: 0x2C00, Hi: 0x2FEF, Stride: 1},
		{Lo: 0x3001, Hi: 0xD7FF, Stride: 1},
		{Lo: 0xF900, Hi: 0xFDCF, Stride: 1},
		{Lo: 0xFDF0, Hi: 0xFFFD, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x10000, Hi: 0xEFFFF, Stride: 1},
	},
}

// Additional NameChar ranges outside ASCII.
var nameCharTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0xB7, Hi: 0xB7, Stride: 1},
		{Lo: 0x300, Hi: 0x36F, Stride: 1},
		{Lo: 0x203F, Hi: 0x2040, Stride: 1},
	},
}

func isNameStartRune(r rune) bool {
	switch {
	case r == ':' || r == '_':
		return true
	case 'A' <= r && r <= 'Z', 'a' <= r && r <= 'z':
		return true
	case r < utf8.RuneSelf:
		return false
	}
	return unicode.Is(nameStartTable, r)
}

func isNameRune(r rune) bool {
	switch {
	case isNameStartRune(r):
		return true
	case r == '-' || r == '.':
		return true
	case '0' <= r && r <= '9':
		return true
	case r < utf8.RuneSelf:
		return false
	}
	return unicode.Is(nameCharTable, r)
}

// isName reports whether s matches the XML Name production.
func isName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size == 1 {
				return false
			}
		}
		if i == 0 {
			if !isNameStartRune(r) {
				return false
			}
			continue
		}
		if !isNameRune(r) {
			return false
		}
	}
	return true
}

// isXMLChar reports whether r is a valid XML 1.0 character.
func isXMLChar(r rune) bool {
	switch {
	case r == 0x9 || r == 0xA || r == 0xD:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	default:
		return false
	}
}

// firstInvalidChar returns the first rune of s that XML cannot carry.
// Undecodable bytes are skipped; Finish reports them as an encoding error.
func firstInvalidChar(s string) (rune, bool) {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		if r == utf8.RuneError && size == 1 {
			continue
		}
		if !isXMLChar(r) {
			return r, true
		}
	}
	return 0, false
}
