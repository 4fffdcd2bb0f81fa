package answer

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var defaultStopwords = []string{
	"the", "is", "a", "an", "and", "or", "for", "to", "of", "in", "on", "do", "you", "what",
	"how", "are", "we", "our", "your", "it", "with", "by", "from", "that", "this", "be", "can",
}

var defaultDomainKeywords = []string{
	"refund", "return", "policy", "shipping", "ship", "discount", "student", "support",
	"contact", "help", "customer", "service", "email", "phone", "days", "processing",
	"payment", "track", "tracking",
}

// Vocabulary holds the stopwords excluded from lexical overlap and the
// domain keywords that boost relevance. It is immutable once built.
type Vocabulary struct {
	stopwords      map[string]struct{}
	domainKeywords []string
}

// vocabularyFile is the YAML layout accepted by LoadVocabulary.
type vocabularyFile struct {
	Stopwords      []string `yaml:"stopwords"`
	DomainKeywords []string `yaml:"domain_keywords"`
}

// DefaultVocabulary returns the built-in customer-support vocabulary.
func DefaultVocabulary() *Vocabulary {
	return NewVocabulary(defaultStopwords, defaultDomainKeywords)
}

// NewVocabulary builds a Vocabulary. Entries are lowercased and trimmed;
// blanks are ignored.
func NewVocabulary(stopwords, domainKeywords []string) *Vocabulary {
	v := &Vocabulary{stopwords: make(map[string]struct{}, len(stopwords))}
	for _, w := range stopwords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			v.stopwords[w] = struct{}{}
		}
	}

	seen := make(map[string]struct{}, len(domainKeywords))
	for _, k := range domainKeywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		v.domainKeywords = append(v.domainKeywords, k)
	}
	sort.Strings(v.domainKeywords)

	return v
}

// LoadVocabulary reads a YAML vocabulary file. A list that is missing or
// empty in the file falls back to the built-in default for that list.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	var file vocabularyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary file: %w", err)
	}

	stopwords := file.Stopwords
	if len(stopwords) == 0 {
		stopwords = defaultStopwords
	}
	keywords := file.DomainKeywords
	if len(keywords) == 0 {
		keywords = defaultDomainKeywords
	}

	return NewVocabulary(stopwords, keywords), nil
}

// IsStopword reports whether token is excluded from overlap scoring.
func (v *Vocabulary) IsStopword(token string) bool {
	_, ok := v.stopwords[token]
	return ok
}

// ContainsDomainKeyword reports whether lower contains any domain keyword
// as a substring. lower must already be lowercased.
func (v *Vocabulary) ContainsDomainKeyword(lower string) bool {
	for _, k := range v.domainKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// DomainKeywords returns a copy of the domain keywords, sorted.
func (v *Vocabulary) DomainKeywords() []string {
	out := make([]string, len(v.domainKeywords))
	copy(out, v.domainKeywords)
	return out
}
