package engine

import "unicode"

// Token is one word candidate with its offset relative to the input text.
type Token struct {
	Text   string
	Offset int
}

// Tokenize splits text into word tokens. Runs of letters and apostrophes
// form a raw token; mixed-case raw tokens are further split at lower→Upper
// boundaries so camelCase identifiers yield their component words. Offsets
// always index into the original text.
func Tokenize(text string) []Token {
	var tokens []Token

	runes := []rune(text)
	i := 0
	byteOff := 0
	for i < len(runes) {
		r := runes[i]
		if !isWordRune(r) {
			byteOff += len(string(r))
			i++
			continue
		}
		start := i
		startByte := byteOff
		for i < len(runes) && isWordRune(runes[i]) {
			byteOff += len(string(runes[i]))
			i++
		}
		raw := runes[start:i]
		tokens = append(tokens, splitCamel(raw, startByte)...)
	}
	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || r == '\''
}

// splitCamel splits a raw word at lowercase-to-uppercase transitions.
// Offsets assume the raw word is ASCII-width per rune only when it is;
// multi-byte runes are accounted for.
func splitCamel(raw []rune, base int) []Token {
	var tokens []Token
	segStart := 0
	segByte := 0
	byteLen := 0

	flush := func(end int) {
		if end > segStart {
			tokens = append(tokens, Token{
				Text:   string(raw[segStart:end]),
				Offset: base + segByte,
			})
		}
	}

	for i := 0; i < len(raw); i++ {
		if i > 0 && unicode.IsUpper(raw[i]) && unicode.IsLower(raw[i-1]) {
			flush(i)
			segStart = i
			segByte = byteLen
		}
		byteLen += len(string(raw[i]))
	}
	flush(len(raw))
	return tokens
}
