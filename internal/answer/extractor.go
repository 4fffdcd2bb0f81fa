// Package answer extracts a short natural-language answer from chunks
// retrieved for a question.
package answer

import (
	"sort"
	"strings"

	"github.com/cloo-solutions/askdocs/internal/domain"
)

const (
	// DefaultSimilarityThreshold is the minimum similarity a retrieved chunk needs.
	DefaultSimilarityThreshold = 0.3
	// DefaultTopKChunks is how many chunks are requested from the vector store.
	DefaultTopKChunks = 5
	// DefaultMaxAnswerSentences caps how many sentences are joined into the answer.
	DefaultMaxAnswerSentences = 3

	fallbackExcerptChars = 400
)

// Scoring weights. They interact only through summation.
const (
	overlapWeight       = 1.0
	questionPenalty     = -100.0
	answerLabelBoost    = 2.0
	domainKeywordBoost  = 2.0
	digitBoost          = 1.0
	yesNoBoost          = 1.5
	fragmentPenalty     = -0.5
	fragmentTokenCutoff = 2
)

// Config tunes answer extraction.
type Config struct {
	SimilarityThreshold float64
	MaxAnswerSentences  int
}

// DefaultConfig returns the default extraction settings.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: DefaultSimilarityThreshold,
		MaxAnswerSentences:  DefaultMaxAnswerSentences,
	}
}

// Extractor turns retrieved chunks into an answer. It holds no mutable
// state and is safe for concurrent use.
type Extractor struct {
	cfg   Config
	vocab *Vocabulary
}

// NewExtractor creates an Extractor. A nil vocabulary selects the default one.
func NewExtractor(cfg Config, vocab *Vocabulary) *Extractor {
	if cfg.MaxAnswerSentences <= 0 {
		cfg.MaxAnswerSentences = DefaultMaxAnswerSentences
	}
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &Extractor{cfg: cfg, vocab: vocab}
}

// Config returns the extractor's settings.
func (e *Extractor) Config() Config {
	return e.cfg
}

type candidate struct {
	text  string
	score float64
}

// Extract builds an answer for question from results, which must be ordered
// by descending similarity.
func (e *Extractor) Extract(question string, results []domain.RetrievedResult) domain.Answer {
	filtered := make([]domain.RetrievedResult, 0, len(results))
	for _, r := range results {
		if r.Score >= e.cfg.SimilarityThreshold {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return domain.NewFallbackAnswer()
	}

	unique, sources := dedupe(filtered)
	questionTokens := tokenSet(question)

	var candidates []candidate
	for _, r := range unique {
		text := strings.TrimSpace(r.Chunk.Text)
		if text == "" || !e.isRelevant(text, questionTokens) {
			continue
		}
		for _, s := range SplitSentences(text) {
			candidates = append(candidates, candidate{text: s, score: e.Score(s, questionTokens)})
		}
	}

	if len(candidates) == 0 {
		return domain.Answer{Answer: excerpt(unique[0].Chunk.Text), Sources: sources}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	n := e.cfg.MaxAnswerSentences
	if n > len(candidates) {
		n = len(candidates)
	}
	top := make([]string, n)
	for i := 0; i < n; i++ {
		top[i] = candidates[i].text
	}

	return domain.Answer{
		Answer:  StripAnswerLabel(strings.Join(top, " ")),
		Sources: sources,
	}
}

// Score rates a sentence against the question token set.
func (e *Extractor) Score(sentence string, questionTokens map[string]struct{}) float64 {
	lower := strings.ToLower(sentence)
	sentenceTokens := tokenSet(sentence)

	score := overlapWeight * float64(e.overlap(questionTokens, sentenceTokens))
	if IsQuestionLabel(sentence) {
		score += questionPenalty
	}
	if IsAnswerLabel(sentence) {
		score += answerLabelBoost
	}
	if e.vocab.ContainsDomainKeyword(lower) {
		score += domainKeywordBoost
	}
	if containsDigit(sentence) {
		score += digitBoost
	}
	if containsWord(lower, "yes") || containsWord(lower, "no") {
		score += yesNoBoost
	}
	if len(sentenceTokens) <= fragmentTokenCutoff {
		score += fragmentPenalty
	}
	return score
}

// QuestionTokens returns the token set used to score sentences for question.
func QuestionTokens(question string) map[string]struct{} {
	return tokenSet(question)
}

func (e *Extractor) isRelevant(text string, questionTokens map[string]struct{}) bool {
	if e.overlap(questionTokens, tokenSet(text)) > 0 {
		return true
	}
	return e.vocab.ContainsDomainKeyword(strings.ToLower(text))
}

func (e *Extractor) overlap(questionTokens, tokens map[string]struct{}) int {
	n := 0
	for t := range questionTokens {
		if e.vocab.IsStopword(t) {
			continue
		}
		if _, ok := tokens[t]; ok {
			n++
		}
	}
	return n
}

func dedupe(results []domain.RetrievedResult) ([]domain.RetrievedResult, []domain.AnswerSource) {
	seen := make(map[domain.ChunkKey]struct{}, len(results))
	unique := make([]domain.RetrievedResult, 0, len(results))
	sources := make([]domain.AnswerSource, 0, len(results))
	for _, r := range results {
		key := r.Chunk.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, r)
		sources = append(sources, domain.AnswerSource{Source: r.Chunk.Source, ChunkIndex: r.Chunk.ChunkIndex})
	}
	return unique, sources
}

func excerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= fallbackExcerptChars {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(string(runes[:fallbackExcerptChars])) + "..."
}
