package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateChunk(t *testing.T) {
	tests := []struct {
		name    string
		chunk   Chunk
		wantErr string
	}{
		{"valid", Chunk{Source: "faq.txt", ChunkIndex: 0, Text: "Refunds within 30 days."}, ""},
		{"blank text", Chunk{Source: "faq.txt", Text: "  \n"}, "chunk text is required"},
		{"missing source", Chunk{Text: "hello"}, "chunk source is required"},
		{"negative index", Chunk{Source: "faq.txt", ChunkIndex: -1, Text: "hello"}, "chunk index cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunk(tt.chunk)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestChunk_Key(t *testing.T) {
	a := Chunk{Source: "faq.txt", ChunkIndex: 2, Text: "one"}
	b := Chunk{Source: "faq.txt", ChunkIndex: 2, Text: "two"}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), Chunk{Source: "faq.txt", ChunkIndex: 3}.Key())
}

func TestDomainError(t *testing.T) {
	cause := errors.New("chunk text is required")
	err := NewDomainErrorWithCause(ErrCodeValidation, "invalid chunk", cause)

	assert.Equal(t, "[VALIDATION_ERROR] invalid chunk: chunk text is required", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "[VALIDATION_ERROR] invalid CMS payload", ErrInvalidCMSPayload.Error())
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(ErrDimensionMismatch))
	assert.True(t, IsValidation(fmt.Errorf("store chunk: %w", ErrDimensionMismatch)))
	assert.False(t, IsValidation(errors.New("connection refused")))
	assert.False(t, IsValidation(NewDomainError("OTHER", "x")))
	assert.False(t, IsValidation(nil))
}

func TestAnswers(t *testing.T) {
	fallback := NewFallbackAnswer()
	assert.Equal(t, FallbackAnswer, fallback.Answer)
	assert.NotNil(t, fallback.Sources)
	assert.Empty(t, fallback.Sources)

	errAns := NewErrorAnswer(errors.New("embedding service down"))
	assert.Equal(t, "Error: embedding service down", errAns.Answer)
	assert.NotNil(t, errAns.Sources)
}
