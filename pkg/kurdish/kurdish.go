// Package kurdish provides light-weight text utilities for Sorani Kurdish:
// character normalization, word and sentence tokenization, and a basic
// affix stemmer. Normalization is applied to OCR output when enabled, since
// recognition of Arabic-script documents often mixes Arabic and Kurdish
// letter forms.
package kurdish

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// zwnj is the zero-width non-joiner, common in Arabic-script OCR output.
const zwnj = "‌"

// letterReplacer maps Arabic letter forms onto their Kurdish equivalents.
var letterReplacer = strings.NewReplacer(
	"ك", "ک", // Arabic kaf -> Kurdish kaf
	"ي", "ی", // Arabic yeh -> Kurdish yeh
	"ه‌", "ە", // heh + ZWNJ -> Kurdish ae
)

var (
	wordPattern     = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]`)
)

// Common Sorani affixes, longest-match first.
var (
	prefixes = []string{"نە", "بە", "دە", "هەڵ", "دا", "ڕا"}
	suffixes = []string{"ەکان", "ەکە", "ێک", "مان", "تان", "یان", "ان", "یش", "ە", "ی", "م", "ت"}
)

// Normalize standardizes Kurdish text: Arabic letter forms are replaced with
// Kurdish ones, combining marks (harakat) are stripped, and zero-width
// non-joiners are removed.
func Normalize(text string) string {
	t := letterReplacer.Replace(text)

	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(chain, t); err == nil {
		t = out
	}

	return strings.ReplaceAll(t, zwnj, "")
}

// Tokenize splits Kurdish text into words after normalization.
func Tokenize(text string) []string {
	return wordPattern.FindAllString(Normalize(text), -1)
}

// SentenceTokenize splits text into sentences on terminal punctuation. Text
// without terminal punctuation is returned as a single sentence.
func SentenceTokenize(text string) []string {
	t := Normalize(text)

	matches := sentencePattern.FindAllString(t, -1)
	if len(matches) == 0 {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			return []string{trimmed}
		}
		return nil
	}

	sentences := make([]string, 0, len(matches))
	for _, s := range matches {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// Stem removes one common prefix and one common suffix from a Kurdish word.
// Very short words are left alone so stems stay recognizable.
func Stem(word string) string {
	stemmed := word

	for _, prefix := range prefixes {
		if strings.HasPrefix(stemmed, prefix) && runeLen(stemmed) > runeLen(prefix)+2 {
			stemmed = strings.TrimPrefix(stemmed, prefix)
			break
		}
	}

	for _, suffix := range suffixes {
		if strings.HasSuffix(stemmed, suffix) && runeLen(stemmed) > runeLen(suffix)+2 {
			stemmed = strings.TrimSuffix(stemmed, suffix)
			break
		}
	}

	return stemmed
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }
