package domain

// FallbackAnswer is returned when no sufficiently similar content is found.
const FallbackAnswer = "I could not find an answer in the documents."

// AnswerSource points at a chunk that was retrieved for a question.
type AnswerSource struct {
	Source     string `json:"source"`
	ChunkIndex int    `json:"chunk"`
}

// Answer is the extracted answer together with its deduplicated sources.
type Answer struct {
	Answer  string         `json:"answer"`
	Sources []AnswerSource `json:"sources"`
}

// NewFallbackAnswer returns the fixed "not found" answer with no sources.
func NewFallbackAnswer() Answer {
	return Answer{Answer: FallbackAnswer, Sources: []AnswerSource{}}
}

// NewErrorAnswer reports an unexpected failure in the answer body.
func NewErrorAnswer(err error) Answer {
	return Answer{Answer: "Error: " + err.Error(), Sources: []AnswerSource{}}
}
