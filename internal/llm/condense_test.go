package llm

import (
	"strings"
	"testing"
)

func TestCondenseMessagesRolePrefixes(t *testing.T) {
	msgs := []Message{
		{Role: "user", Content: "question"},
		{Role: "assistant", Content: "answer"},
	}

	got := CondenseMessages(msgs, 10000)
	want := "User: question\n\nAssistant: answer\n\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCondenseMessagesTruncatesLongMessages(t *testing.T) {
	long := strings.Repeat("a", 600)
	got := CondenseMessages([]Message{{Role: "user", Content: long}}, 10000)

	want := "User: " + strings.Repeat("a", 500) + "...\n\n"
	if got != want {
		t.Errorf("expected 500-rune truncation with ellipsis, got %d chars", len(got))
	}
}

func TestCondenseMessagesBudgetCutoff(t *testing.T) {
	msgs := []Message{
		{Role: "user", Content: "hello there"},
		{Role: "assistant", Content: "this should never be reached"},
	}

	got := CondenseMessages(msgs, 10)
	want := "User: hell" + continuationMarker
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCondenseMessagesMultibyteSafe(t *testing.T) {
	msgs := []Message{{Role: "user", Content: strings.Repeat("é", 600)}}
	got := CondenseMessages(msgs, 10000)

	if !strings.HasPrefix(got, "User: ") || !strings.Contains(got, "...") {
		t.Fatalf("unexpected output shape: %q", got[:20])
	}
	// 500 runes of content, not 500 bytes.
	content := strings.TrimSuffix(strings.TrimPrefix(got, "User: "), "...\n\n")
	if n := len([]rune(content)); n != 500 {
		t.Errorf("expected 500 runes, got %d", n)
	}
}

func TestChunkConversation(t *testing.T) {
	// Each message costs 100 content runes + 50 overhead = 150; a 200-char
	// budget fits exactly one per chunk.
	content := strings.Repeat("x", 100)
	msgs := []Message{
		{Role: "user", Content: content},
		{Role: "assistant", Content: content},
		{Role: "user", Content: content},
	}

	chunks := ChunkConversation(msgs, 200)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.StartIndex != i || c.EndIndex != i {
			t.Errorf("chunk %d: expected indices [%d,%d], got [%d,%d]", i, i, i, c.StartIndex, c.EndIndex)
		}
		if len(c.Messages) != 1 {
			t.Errorf("chunk %d: expected 1 message, got %d", i, len(c.Messages))
		}
	}
}

func TestChunkConversationSingleChunk(t *testing.T) {
	msgs := []Message{
		{Role: "user", Content: "short"},
		{Role: "assistant", Content: "also short"},
	}

	chunks := ChunkConversation(msgs, DefaultChunkChars)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].StartIndex != 0 || chunks[0].EndIndex != 1 {
		t.Errorf("unexpected indices [%d,%d]", chunks[0].StartIndex, chunks[0].EndIndex)
	}
}

func TestChunkConversationOversizedMessage(t *testing.T) {
	msgs := []Message{{Role: "user", Content: strings.Repeat("x", 1000)}}

	chunks := ChunkConversation(msgs, 100)
	if len(chunks) != 1 {
		t.Fatalf("oversized message should still form one chunk, got %d", len(chunks))
	}
}

func TestChunkConversationEmpty(t *testing.T) {
	if chunks := ChunkConversation(nil, DefaultChunkChars); len(chunks) != 0 {
		t.Errorf("expected no chunks for empty input, got %d", len(chunks))
	}
}
