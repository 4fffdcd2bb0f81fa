package answer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// asciiPunctuation is the set trimmed from both ends of every token.
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

var (
	questionLabelRe = regexp.MustCompile(`(?i)^\s*(q\d*\s*[:\-)]|question\s*[:\-)])`)
	answerLabelRe   = regexp.MustCompile(`(?i)^\s*(a\d*\s*[:\-)]|answer\s*[:\-)])`)
	answerPrefixRe  = regexp.MustCompile(`(?i)^\s*(a\d*|answer)[:\-)]\s*`)
)

// Tokenize lowercases text, splits it on whitespace and strips surrounding
// punctuation from each word. Words that are pure punctuation are dropped.
func Tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := strings.Trim(f, asciiPunctuation); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func tokenSet(text string) map[string]struct{} {
	tokens := Tokenize(text)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// SplitSentences splits text after '.', '?' or '!' followed by whitespace,
// and on runs of newlines. Pieces are trimmed and empty ones dropped.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0
	var prev rune

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])

		afterTerminal := unicode.IsSpace(r) && isTerminal(prev)
		if !afterTerminal && r != '\n' {
			prev = r
			i += size
			continue
		}

		end := i
		for i < len(text) {
			next, n := utf8.DecodeRuneInString(text[i:])
			if afterTerminal && !unicode.IsSpace(next) {
				break
			}
			if !afterTerminal && next != '\n' {
				break
			}
			i += n
		}

		sentences = appendTrimmed(sentences, text[start:end])
		start = i
		prev = 0
	}

	return appendTrimmed(sentences, text[start:])
}

func appendTrimmed(dst []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		dst = append(dst, s)
	}
	return dst
}

func isTerminal(r rune) bool {
	return r == '.' || r == '?' || r == '!'
}

// IsQuestionLabel reports whether s reads like a restated question: it ends
// with '?' or starts with a label such as "Q:", "Q1)" or "Question:".
func IsQuestionLabel(s string) bool {
	return strings.HasSuffix(strings.TrimSpace(s), "?") || questionLabelRe.MatchString(s)
}

// IsAnswerLabel reports whether s starts with a label such as "A:", "A1)"
// or "Answer:".
func IsAnswerLabel(s string) bool {
	return answerLabelRe.MatchString(s)
}

// StripAnswerLabel removes a single leading answer label and the whitespace
// after it.
func StripAnswerLabel(s string) string {
	loc := answerPrefixRe.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[loc[1]:]
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// containsWord reports whether word occurs in s bounded by non-word runes
// on both sides.
func containsWord(s, word string) bool {
	for offset := 0; offset < len(s); {
		idx := strings.Index(s[offset:], word)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(word)

		before, _ := utf8.DecodeLastRuneInString(s[:start])
		after, _ := utf8.DecodeRuneInString(s[end:])
		if (start == 0 || !isWordRune(before)) && (end == len(s) || !isWordRune(after)) {
			return true
		}
		offset = start + 1
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsNumber(r)
}
