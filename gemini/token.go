package gemini

import (
	"context"

	"github.com/fwojciec/postvault"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ postvault.TokenCounter = (*TokenCounter)(nil)

// DefaultTokenizerModel is the model whose vocabulary is used to size
// embedding inputs.
const DefaultTokenizerModel = "gemini-2.0-flash"

// TokenCounter counts tokens locally using the Gemini tokenizer.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a new TokenCounter for the given model.
func NewTokenCounter(model string) (*TokenCounter, error) {
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, err
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens counts the number of tokens in the given text.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}

	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: text}},
	}}

	result, err := tc.tok.CountTokens(contents, nil)
	if err != nil {
		return 0, err
	}

	return int(result.TotalTokens), nil
}
