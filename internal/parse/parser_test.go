package parse

import (
	"errors"
	"strings"
	"testing"

	"github.com/neilberkman/recap/internal/models"
)

func floatPtr(f float64) *float64 { return &f }

func testConversation() models.RawConversation {
	return models.RawConversation{
		Title:          "Debugging session",
		CreateTime:     1700000000,
		UpdateTime:     1700000500,
		ConversationID: "conv-1",
		Mapping: map[string]models.RawNode{
			"root": {ID: "root", Parent: nil, Children: []string{"m1"}},
			"m1": {
				ID: "m1",
				Message: &models.RawMessage{
					ID:         "m1",
					Author:     models.RawAuthor{Role: "user"},
					CreateTime: floatPtr(1700000000),
					Content:    models.RawContent{Parts: []any{"why does this panic"}},
				},
				Parent:   strPtr("root"),
				Children: []string{"m2"},
			},
			"m2": {
				ID: "m2",
				Message: &models.RawMessage{
					ID:         "m2",
					Author:     models.RawAuthor{Role: "assistant"},
					CreateTime: floatPtr(1700000060),
					Content:    models.RawContent{Parts: []any{"you are dereferencing a nil pointer"}},
					Metadata:   models.RawMetadata{ModelSlug: "gpt-4o"},
				},
				Parent:   strPtr("m1"),
				Children: []string{"m3"},
			},
			"m3": {
				ID: "m3",
				Message: &models.RawMessage{
					ID:         "m3",
					Author:     models.RawAuthor{Role: "tool"},
					CreateTime: floatPtr(1700000070),
					Content:    models.RawContent{Result: "exit status 2"},
				},
				Parent:   strPtr("m2"),
				Children: []string{},
			},
		},
	}
}

func TestParseConversation(t *testing.T) {
	conv := ParseConversation(testConversation())

	if conv.ID != "conv-1" {
		t.Errorf("expected id conv-1, got %q", conv.ID)
	}
	if conv.Title != "Debugging session" {
		t.Errorf("unexpected title %q", conv.Title)
	}

	// Tool messages are walked but excluded from the parsed conversation.
	if len(conv.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(conv.Messages))
	}
	if len(conv.UserMessages) != 1 || len(conv.AssistantMessages) != 1 {
		t.Errorf("expected 1 user + 1 assistant, got %d + %d",
			len(conv.UserMessages), len(conv.AssistantMessages))
	}

	wantWords := 4 + 6 // "why does this panic" + "you are dereferencing a nil pointer"
	if conv.TotalWords != wantWords {
		t.Errorf("expected %d total words, got %d", wantWords, conv.TotalWords)
	}

	// Duration spans first to last timestamp of kept messages, in ms.
	if conv.Duration != 60000 {
		t.Errorf("expected duration 60000ms, got %d", conv.Duration)
	}

	if len(conv.Models) != 1 || conv.Models[0] != "gpt-4o" {
		t.Errorf("expected models [gpt-4o], got %v", conv.Models)
	}

	if conv.CreatedAt.Unix() != 1700000000 {
		t.Errorf("unexpected createdAt %v", conv.CreatedAt)
	}
}

func TestParseConversationDefaults(t *testing.T) {
	raw := models.RawConversation{
		ID:      "fallback-id",
		Mapping: map[string]models.RawNode{},
	}
	conv := ParseConversation(raw)

	if conv.Title != "Untitled" {
		t.Errorf("expected default title Untitled, got %q", conv.Title)
	}
	if conv.ID != "fallback-id" {
		t.Errorf("expected id fallback when conversation_id is empty, got %q", conv.ID)
	}
	if conv.Duration != 0 {
		t.Errorf("expected zero duration with no timestamps, got %d", conv.Duration)
	}
	if conv.Plugins == nil {
		t.Error("plugins should never be nil")
	}
}

func TestParseConversationSingleTimestamp(t *testing.T) {
	raw := testConversation()
	node := raw.Mapping["m2"]
	node.Message.CreateTime = nil
	raw.Mapping["m2"] = node
	node = raw.Mapping["m3"]
	node.Message.CreateTime = nil
	raw.Mapping["m3"] = node

	if conv := ParseConversation(raw); conv.Duration != 0 {
		t.Errorf("expected zero duration with one timestamp, got %d", conv.Duration)
	}
}

const validExport = `[
	{
		"title": "Second",
		"create_time": 1700100000,
		"update_time": 1700100100,
		"conversation_id": "c2",
		"mapping": {
			"root": {"id": "root", "message": null, "parent": null, "children": ["m1"]},
			"m1": {"id": "m1", "message": {"id": "m1", "author": {"role": "user"}, "create_time": 1700100000, "content": {"content_type": "text", "parts": ["later conversation"]}, "metadata": {}}, "parent": "root", "children": []}
		}
	},
	{
		"title": "First",
		"create_time": 1700000000,
		"update_time": 1700000100,
		"conversation_id": "c1",
		"mapping": {
			"root": {"id": "root", "message": null, "parent": null, "children": ["m1"]},
			"m1": {"id": "m1", "message": {"id": "m1", "author": {"role": "user"}, "create_time": 1700000000, "content": {"content_type": "text", "parts": ["earlier conversation"]}, "metadata": {}}, "parent": "root", "children": []}
		}
	}
]`

func TestDecodeExportSortsAscending(t *testing.T) {
	convs, err := DecodeExport(strings.NewReader(validExport))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(convs) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(convs))
	}
	if convs[0].ID != "c1" || convs[1].ID != "c2" {
		t.Errorf("expected ascending creation order [c1 c2], got [%s %s]", convs[0].ID, convs[1].ID)
	}
}

func TestDecodeExportErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"not json", `{broken`, ErrInvalidJSON},
		{"not an array", `{"mapping": {}}`, ErrInvalidFormat},
		{"record without mapping", `[{"title": "x", "create_time": 1}]`, ErrInvalidFormat},
		{"record without create_time", `[{"title": "x", "mapping": {}}]`, ErrInvalidFormat},
		{"empty array", `[]`, ErrNoConversations},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeExport(strings.NewReader(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDecodeExportDropsBadRecords(t *testing.T) {
	// The fourth record has a mapping that is not an object; validation only
	// probes the first three, so the record is dropped rather than failing
	// the import.
	input := `[
		{"title": "a", "create_time": 1, "conversation_id": "a", "mapping": {}},
		{"title": "b", "create_time": 2, "conversation_id": "b", "mapping": {}},
		{"title": "c", "create_time": 3, "conversation_id": "c", "mapping": {}},
		{"title": "d", "create_time": 4, "conversation_id": "d", "mapping": "corrupt"}
	]`

	convs, err := DecodeExport(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(convs) != 3 {
		t.Fatalf("expected 3 conversations after dropping the bad record, got %d", len(convs))
	}
}

func TestSummarize(t *testing.T) {
	convs, err := DecodeExport(strings.NewReader(validExport))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := Summarize(convs)
	if s.ConversationCount != 2 {
		t.Errorf("expected 2 conversations, got %d", s.ConversationCount)
	}
	if s.MessageCount != 2 {
		t.Errorf("expected 2 messages, got %d", s.MessageCount)
	}
	if !s.From.Before(s.To) {
		t.Errorf("expected From %v before To %v", s.From, s.To)
	}

	empty := Summarize(nil)
	if empty.ConversationCount != 0 || empty.MessageCount != 0 {
		t.Error("empty export should summarize to zeros")
	}
}
