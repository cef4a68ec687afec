// Package tokencount bounds prompt sizes using tiktoken.
//
// Resume text is user-controlled and can exceed the completion service's
// context window; Truncate caps it to a token budget before prompt
// construction. Encodings are loaded offline so no network access is needed.
package tokencount

import (
	"log/slog"
	"strings"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
	tiktokenloader "github.com/pkoukk/tiktoken-go-loader"
)

// cl100k_base covers GPT-3.5/4 and approximates Llama tokenization well
// enough for budgeting purposes.
const encodingName = "cl100k_base"

var (
	initOnce sync.Once
	encoding *tiktoken.Tiktoken
)

func getEncoding() *tiktoken.Tiktoken {
	initOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktokenloader.NewOfflineLoader())
		enc, err := tiktoken.GetEncoding(encodingName)
		if err != nil {
			slog.Warn("tiktoken encoding unavailable, falling back to rune estimate",
				slog.String("encoding", encodingName), slog.Any("error", err))
			return
		}
		encoding = enc
	})
	return encoding
}

// Count returns the number of tokens in text, or a ~4-chars-per-token
// estimate when the encoding cannot be loaded.
func Count(text string) int {
	if enc := getEncoding(); enc != nil {
		return len(enc.Encode(text, nil, nil))
	}
	return len(text) / 4
}

// Truncate returns text cut to at most maxTokens tokens. A non-positive
// budget leaves text untouched.
func Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return text
	}
	enc := getEncoding()
	if enc == nil {
		// Rough estimate fallback; cut on a rune boundary.
		limit := maxTokens * 4
		if len(text) <= limit {
			return text
		}
		runes := []rune(text)
		if len(runes) > limit {
			runes = runes[:limit]
		}
		return strings.TrimSpace(string(runes))
	}
	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text
	}
	return strings.TrimSpace(enc.Decode(tokens[:maxTokens]))
}
