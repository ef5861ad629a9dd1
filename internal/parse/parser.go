package parse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/neilberkman/recap/internal/models"
)

// Validation-stage errors. These are the only errors the parsing pipeline
// surfaces to the user; everything else degrades to dropped records or
// empty conversations.
var (
	ErrInvalidJSON     = errors.New("export is not valid JSON")
	ErrInvalidFormat   = errors.New("invalid export format: expected a ChatGPT conversations.json array")
	ErrNoConversations = errors.New("no conversations found in export")
)

// DecodeExport reads a ChatGPT export from r and returns the parsed
// conversations sorted ascending by creation time. Records that are not
// objects or lack a usable mapping are dropped silently; structural
// problems with the file as a whole return one of the sentinel errors.
func DecodeExport(r io.Reader) ([]models.ParsedConversation, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}

	if !json.Valid(raw) {
		return nil, ErrInvalidJSON
	}

	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, ErrInvalidFormat
	}

	if !ValidateExport(records) {
		return nil, ErrInvalidFormat
	}

	convs := parseRecords(records)
	if len(convs) == 0 {
		return nil, ErrNoConversations
	}

	return convs, nil
}

// parseRecords applies per-record filtering before parsing: non-object
// records and records whose mapping is absent or not an object are skipped
// rather than failing the whole import.
func parseRecords(records []json.RawMessage) []models.ParsedConversation {
	convs := make([]models.ParsedConversation, 0, len(records))

	for _, rec := range records {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(rec, &probe); err != nil {
			continue
		}
		mapping, ok := probe["mapping"]
		if !ok || !isJSONObject(mapping) {
			continue
		}

		var raw models.RawConversation
		if err := json.Unmarshal(rec, &raw); err != nil {
			continue
		}
		convs = append(convs, ParseConversation(raw))
	}

	sort.SliceStable(convs, func(i, j int) bool {
		return convs[i].CreatedAt.Before(convs[j].CreatedAt)
	})

	return convs
}

// ParseExport parses already-decoded records, with the same per-record
// filtering and ascending sort as DecodeExport.
func ParseExport(records []models.RawConversation) []models.ParsedConversation {
	convs := make([]models.ParsedConversation, 0, len(records))
	for _, rec := range records {
		if rec.Mapping == nil {
			continue
		}
		convs = append(convs, ParseConversation(rec))
	}
	sort.SliceStable(convs, func(i, j int) bool {
		return convs[i].CreatedAt.Before(convs[j].CreatedAt)
	})
	return convs
}

// ParseConversation normalizes one raw conversation. It assumes a usable
// mapping; callers filter records without one.
func ParseConversation(raw models.RawConversation) models.ParsedConversation {
	walked := WalkMapping(raw.Mapping)

	messages := make([]models.ParsedMessage, 0, len(walked))
	for _, msg := range walked {
		role := msg.Author.Role
		if role != models.RoleUser && role != models.RoleAssistant {
			continue
		}
		content := ExtractContent(msg)
		messages = append(messages, models.ParsedMessage{
			ID:        msg.ID,
			Role:      role,
			Content:   content,
			Timestamp: msg.CreateTime,
			Model:     msg.Metadata.ModelSlug,
			WordCount: countWords(content),
			CharCount: len(content),
		})
	}

	var userMessages, assistantMessages []models.ParsedMessage
	totalWords, totalChars := 0, 0
	var modelOrder []string
	seenModels := make(map[string]bool)
	var timestamps []float64

	for _, m := range messages {
		if m.Role == models.RoleUser {
			userMessages = append(userMessages, m)
		} else {
			assistantMessages = append(assistantMessages, m)
		}
		totalWords += m.WordCount
		totalChars += m.CharCount
		if m.Model != "" && !seenModels[m.Model] {
			seenModels[m.Model] = true
			modelOrder = append(modelOrder, m.Model)
		}
		if m.Timestamp != nil {
			timestamps = append(timestamps, *m.Timestamp)
		}
	}

	var duration int64
	if len(timestamps) >= 2 {
		sort.Float64s(timestamps)
		duration = int64((timestamps[len(timestamps)-1] - timestamps[0]) * 1000)
	}

	id := raw.ConversationID
	if id == "" {
		id = raw.ID
	}
	title := raw.Title
	if title == "" {
		title = "Untitled"
	}
	plugins := raw.PluginIDs
	if plugins == nil {
		plugins = []string{}
	}

	return models.ParsedConversation{
		ID:                id,
		Title:             title,
		CreatedAt:         secondsToTime(raw.CreateTime),
		UpdatedAt:         secondsToTime(raw.UpdateTime),
		Messages:          messages,
		UserMessages:      userMessages,
		AssistantMessages: assistantMessages,
		TotalWords:        totalWords,
		TotalChars:        totalChars,
		Models:            modelOrder,
		Plugins:           plugins,
		Duration:          duration,
		IsArchived:        raw.IsArchived,
	}
}

// ExportSummary is a quick description of a parsed export, shown after
// import.
type ExportSummary struct {
	ConversationCount int
	MessageCount      int
	From              time.Time
	To                time.Time
}

// Summarize reports counts and the date range of an ascending-sorted
// conversation list.
func Summarize(convs []models.ParsedConversation) ExportSummary {
	s := ExportSummary{ConversationCount: len(convs)}
	for _, c := range convs {
		s.MessageCount += len(c.Messages)
	}
	if len(convs) > 0 {
		s.From = convs[0].CreatedAt
		s.To = convs[len(convs)-1].CreatedAt
	}
	return s
}

// countWords splits on runs of whitespace and counts the non-empty tokens.
// Every word statistic in the analytics derives from this definition.
func countWords(text string) int {
	return len(strings.Fields(text))
}

func secondsToTime(sec float64) time.Time {
	return time.UnixMilli(int64(sec * 1000))
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
