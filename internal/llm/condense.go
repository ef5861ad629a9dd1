package llm

import (
	"strings"
	"unicode/utf8"
)

// Character budgets for prompt construction. The condensation output feeds
// directly into model prompts, so callers depend on the exact truncation
// behavior here for token/cost control.
const (
	maxContextTokens = 28000
	charsPerToken    = 4

	// DefaultChunkChars is the per-chunk character budget for splitting
	// long conversations.
	DefaultChunkChars = maxContextTokens * charsPerToken

	perMessageLimit    = 500
	messageOverhead    = 50 // role prefix and separators
	continuationMarker = "\n[... conversation continues ...]"
)

// Message is a role-tagged message text handed to the text-generation
// collaborator.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// Chunk is a contiguous slice of a conversation that fits one context
// window, with the index range it covers.
type Chunk struct {
	Messages   []Message
	StartIndex int
	EndIndex   int
}

// CondenseMessages produces a bounded plain-text rendition of a
// conversation: each message truncated to a fixed character budget and
// prefixed with its role, hard-stopped with a continuation marker once
// maxLen characters have been written. Deterministic; no hidden state.
func CondenseMessages(msgs []Message, maxLen int) string {
	var b strings.Builder
	written := 0

	for _, m := range msgs {
		prefix := "Assistant: "
		if m.Role == "user" {
			prefix = "User: "
		}

		content := m.Content
		suffix := ""
		if runes := []rune(content); len(runes) > perMessageLimit {
			content = string(runes[:perMessageLimit])
			suffix = "..."
		}

		piece := prefix + content + suffix + "\n\n"
		b.WriteString(piece)
		written += utf8.RuneCountInString(piece)

		if written > maxLen {
			runes := []rune(b.String())
			return string(runes[:maxLen]) + continuationMarker
		}
	}

	return b.String()
}

// ChunkConversation splits a conversation into chunks that each fit within
// maxChars (plus a fixed per-message overhead for role prefixes). A single
// oversized message still forms its own chunk rather than being dropped.
func ChunkConversation(msgs []Message, maxChars int) []Chunk {
	var chunks []Chunk
	var current []Message
	currentLen := 0
	startIndex := 0

	for i, m := range msgs {
		msgLen := utf8.RuneCountInString(m.Content) + messageOverhead

		if currentLen+msgLen > maxChars && len(current) > 0 {
			chunks = append(chunks, Chunk{
				Messages:   current,
				StartIndex: startIndex,
				EndIndex:   i - 1,
			})
			current = nil
			currentLen = 0
			startIndex = i
		}

		current = append(current, m)
		currentLen += msgLen
	}

	if len(current) > 0 {
		chunks = append(chunks, Chunk{
			Messages:   current,
			StartIndex: startIndex,
			EndIndex:   len(msgs) - 1,
		})
	}

	return chunks
}
