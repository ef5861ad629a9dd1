package models

import (
	"time"
)

// Author roles as they appear in ChatGPT exports.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleTool      = "tool"
)

// RawAuthor identifies who wrote a message in the export.
type RawAuthor struct {
	Role string `json:"role"`
}

// RawContent is the shape-shifting content field of an export message.
// At most one of Parts/Text/Result is normally populated; Parts may mix
// strings with non-string attachments (images, files).
type RawContent struct {
	ContentType string `json:"content_type"`
	Parts       []any  `json:"parts,omitempty"`
	Text        string `json:"text,omitempty"`
	Result      string `json:"result,omitempty"`
}

// RawMetadata carries the subset of message metadata we care about.
type RawMetadata struct {
	ModelSlug string `json:"model_slug,omitempty"`
}

// RawMessage is a single message in the export's mapping tree.
type RawMessage struct {
	ID         string      `json:"id"`
	Author     RawAuthor   `json:"author"`
	CreateTime *float64    `json:"create_time"` // unix seconds, may be absent
	Content    RawContent  `json:"content"`
	Metadata   RawMetadata `json:"metadata"`
}

// RawNode is one entry in the mapping: a tree node referencing its message
// payload, its parent and its children by id. The root has a nil parent.
type RawNode struct {
	ID       string      `json:"id"`
	Message  *RawMessage `json:"message"`
	Parent   *string     `json:"parent"`
	Children []string    `json:"children"`
}

// RawConversation is one conversation record in a ChatGPT export file.
type RawConversation struct {
	Title          string             `json:"title"`
	CreateTime     float64            `json:"create_time"`
	UpdateTime     float64            `json:"update_time"`
	Mapping        map[string]RawNode `json:"mapping"`
	PluginIDs      []string           `json:"plugin_ids"`
	ConversationID string             `json:"conversation_id"`
	ID             string             `json:"id,omitempty"`
	IsArchived     bool               `json:"is_archived,omitempty"`
}

// ParsedMessage is a normalized message. Immutable after parsing.
type ParsedMessage struct {
	ID        string   `json:"id"`
	Role      string   `json:"role"`
	Content   string   `json:"content"`
	Timestamp *float64 `json:"timestamp"` // unix seconds, nil when the export omits it
	Model     string   `json:"model,omitempty"`
	WordCount int      `json:"wordCount"`
	CharCount int      `json:"charCount"`
}

// ParsedConversation is a linearized, normalized conversation.
// Messages holds user and assistant messages only; UserMessages and
// AssistantMessages partition it by role.
type ParsedConversation struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
	Messages          []ParsedMessage `json:"messages"`
	UserMessages      []ParsedMessage `json:"userMessages"`
	AssistantMessages []ParsedMessage `json:"assistantMessages"`
	TotalWords        int             `json:"totalWords"`
	TotalChars        int             `json:"totalChars"`
	Models            []string        `json:"models"` // distinct, first-seen order
	Plugins           []string        `json:"plugins"`
	Duration          int64           `json:"duration"` // milliseconds between first and last timestamp
	IsArchived        bool            `json:"isArchived"`
}

// TimeStats buckets conversation start times.
type TimeStats struct {
	Hourly  []int          `json:"hourly"`  // 24 slots
	Daily   []int          `json:"daily"`   // 7 slots, 0 = Sunday
	Monthly []int          `json:"monthly"` // 12 slots, 0 = January
	ByDate  map[string]int `json:"byDate"`  // YYYY-MM-DD -> count
}

// ModelStats is one model's share of all model tags seen across the export.
type ModelStats struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ConversationLengthStats summarizes message counts per conversation.
type ConversationLengthStats struct {
	Shortest *ParsedConversation `json:"shortest"`
	Longest  *ParsedConversation `json:"longest"`
	Average  float64             `json:"average"`
	Median   float64             `json:"median"`
}

// WordStats summarizes word counts per role.
type WordStats struct {
	TotalUserWords                int            `json:"totalUserWords"`
	TotalAssistantWords           int            `json:"totalAssistantWords"`
	AverageUserMessageLength      float64        `json:"averageUserMessageLength"`
	AverageAssistantMessageLength float64        `json:"averageAssistantMessageLength"`
	LongestUserMessage            *ParsedMessage `json:"longestUserMessage"`
	LongestAssistantMessage       *ParsedMessage `json:"longestAssistantMessage"`
}

// TopConversation is one ranking entry with a human-readable label.
type TopConversation struct {
	Conversation ParsedConversation `json:"conversation"`
	Metric       int                `json:"metric"`
	Label        string             `json:"label"`
}

// StreakStats describes runs of consecutive active calendar days.
type StreakStats struct {
	CurrentStreak      int        `json:"currentStreak"`
	LongestStreak      int        `json:"longestStreak"`
	LongestStreakStart *time.Time `json:"longestStreakStart"`
	LongestStreakEnd   *time.Time `json:"longestStreakEnd"`
}

// Analytics is the full aggregate snapshot over one parsed export.
// Produced once per import and never mutated afterwards.
type Analytics struct {
	TotalConversations     int `json:"totalConversations"`
	TotalMessages          int `json:"totalMessages"`
	TotalUserMessages      int `json:"totalUserMessages"`
	TotalAssistantMessages int `json:"totalAssistantMessages"`

	FirstConversation *time.Time `json:"firstConversation"`
	LastConversation  *time.Time `json:"lastConversation"`
	ActiveDays        int        `json:"activeDays"`

	TimeStats TimeStats `json:"timeStats"`
	PeakHour  int       `json:"peakHour"`
	PeakDay   int       `json:"peakDay"`
	PeakMonth int       `json:"peakMonth"`

	ModelStats    []ModelStats `json:"modelStats"`
	FavoriteModel string       `json:"favoriteModel"` // empty when no model tags exist

	ConversationLengthStats ConversationLengthStats `json:"conversationLengthStats"`
	WordStats               WordStats               `json:"wordStats"`
	StreakStats             StreakStats             `json:"streakStats"`

	TopByMessages []TopConversation `json:"topByMessages"`
	TopByWords    []TopConversation `json:"topByWords"`

	PluginsUsed      []string `json:"pluginsUsed"`
	PluginUsageCount int      `json:"pluginUsageCount"`

	CustomGPTsUsed []string `json:"customGPTsUsed"`
	CustomGPTCount int      `json:"customGPTCount"`

	Conversations []ParsedConversation `json:"conversations"`
}

// StoredData is the envelope persisted by the local store.
type StoredData struct {
	Conversations []ParsedConversation `json:"conversations"`
	Analytics     *Analytics           `json:"analytics"`
	UploadedAt    time.Time            `json:"uploadedAt"`
	Version       int                  `json:"version"`
}
