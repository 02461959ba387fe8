package braille

import "strings"

// asciiToUnicode maps ASCII braille cell characters to Unicode braille
// patterns. Digits share cells with a-j.
var asciiToUnicode = map[rune]rune{
	'a': '⠁', 'b': '⠃', 'c': '⠉', 'd': '⠙', 'e': '⠑',
	'f': '⠋', 'g': '⠛', 'h': '⠓', 'i': '⠊', 'j': '⠚',
	'k': '⠅', 'l': '⠇', 'm': '⠍', 'n': '⠝', 'o': '⠕',
	'p': '⠏', 'q': '⠟', 'r': '⠗', 's': '⠎', 't': '⠞',
	'u': '⠥', 'v': '⠧', 'w': '⠺', 'x': '⠭', 'y': '⠽',
	'z': '⠵',

	'1': '⠁', '2': '⠃', '3': '⠉', '4': '⠙', '5': '⠑',
	'6': '⠋', '7': '⠛', '8': '⠓', '9': '⠊', '0': '⠚',

	',': '⠂', ';': '⠆', ':': '⠒', '.': '⠲', '!': '⠖',
	'(': '⠦', ')': '⠦', '?': '⠢', '-': '⠤', '/': '⠬',
	'"': '⠐', '*': '⠪', '@': '⠀', '#': '⠠', '$': '⠰',
	'%': '⠴', '&': '⠨', '+': '⠢', '>': '⠸', '<': '⠨',
	'=': '⠶', '_': '⠸', '~': '⠼', '^': '⠠',
}

// ToUnicode remaps ASCII braille cells to Unicode braille patterns.
// Characters outside the table pass through unchanged.
func ToUnicode(cells string) string {
	return strings.Map(func(r rune) rune {
		if u, ok := asciiToUnicode[r]; ok {
			return u
		}
		return r
	}, cells)
}

// IsPattern reports whether r lies in the Unicode braille block.
func IsPattern(r rune) bool {
	return r >= 0x2800 && r <= 0x28FF
}
