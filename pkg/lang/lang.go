// Package lang holds the Indonesian text handling shared by indexing and
// querying: word tokenizing, Sastrawi stemming and control character
// cleanup.
package lang

import (
	"regexp"
	"strings"

	sastrawi "github.com/RadhiFadlillah/go-sastrawi"
)

var wordRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// shadowingRoots are rare dictionary roots that the prefix rules reach
// before the common recoded root, e.g. "menari" stops at "ari" instead of
// "tari" while "ari" is in the dictionary.
var shadowingRoots = []string{"ari"}

var stemmer = newStemmer()

func newStemmer() sastrawi.Stemmer {
	dict := sastrawi.DefaultDictionary()
	dict.Remove(shadowingRoots...)
	return sastrawi.NewStemmer(dict)
}

// Tokenize splits text into lowercase word tokens.
func Tokenize(text string) []string {
	return wordRe.FindAllString(strings.ToLower(text), -1)
}

// Stem returns the root form of an Indonesian word. Words outside the
// stemmer's alphabet (digits, accented letters, underscores) come back
// lowercased but otherwise unchanged.
func Stem(word string) string {
	word = strings.ToLower(word)
	if len(word) < 3 || !isLatinWord(word) {
		return word
	}
	return stemmer.Stem(word)
}

// StemText stems every word of text and joins the roots with spaces.
func StemText(text string) string {
	tokens := Tokenize(text)
	roots := make(map[string]string)
	for i, tok := range tokens {
		root, ok := roots[tok]
		if !ok {
			root = Stem(tok)
			roots[tok] = root
		}
		tokens[i] = root
	}
	return strings.Join(tokens, " ")
}

// StripControl removes C0 control characters and DEL, keeping newlines
// and tabs. Snippet match markers are control characters, so indexed text
// must never carry its own.
func StripControl(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, s)
}

func isLatinWord(word string) bool {
	for i := 0; i < len(word); i++ {
		if word[i] < 'a' || word[i] > 'z' {
			return false
		}
	}
	return true
}
