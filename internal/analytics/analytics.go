// Package analytics reduces a parsed export into an aggregate snapshot:
// time-of-day, weekday and month histograms, model usage, word statistics,
// activity streaks and top-N rankings. The computation is pure and total
// over any finite conversation list, including the empty one.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/neilberkman/recap/internal/models"
)

const topLimit = 5

// Compute builds the analytics snapshot for a parsed export. The current
// clock is only used for the current-streak walk.
func Compute(convs []models.ParsedConversation) *models.Analytics {
	return ComputeAt(convs, time.Now())
}

// ComputeAt is Compute with an explicit "today" so the streak walk is
// deterministic under test.
func ComputeAt(convs []models.ParsedConversation, today time.Time) *models.Analytics {
	a := &models.Analytics{
		TotalConversations: len(convs),
		Conversations:      convs,
	}

	for _, c := range convs {
		a.TotalMessages += len(c.Messages)
		a.TotalUserMessages += len(c.UserMessages)
		a.TotalAssistantMessages += len(c.AssistantMessages)
	}

	a.TimeStats = computeTimeStats(convs)
	a.PeakHour = argmax(a.TimeStats.Hourly)
	a.PeakDay = argmax(a.TimeStats.Daily)
	a.PeakMonth = argmax(a.TimeStats.Monthly)
	a.ActiveDays = len(a.TimeStats.ByDate)

	a.ModelStats = computeModelStats(convs)
	if len(a.ModelStats) > 0 {
		a.FavoriteModel = a.ModelStats[0].Name
	}

	a.ConversationLengthStats = computeLengthStats(convs)
	a.WordStats = computeWordStats(convs)
	a.StreakStats = computeStreakStats(convs, today)
	a.TopByMessages, a.TopByWords = computeTopConversations(convs, topLimit)

	a.PluginsUsed = collectPlugins(convs)
	a.PluginUsageCount = len(a.PluginsUsed)

	a.CustomGPTsUsed = collectCustomGPTs(convs)
	a.CustomGPTCount = len(a.CustomGPTsUsed)

	if len(convs) > 0 {
		sorted := sortedByCreation(convs)
		first := sorted[0].CreatedAt
		last := sorted[len(sorted)-1].CreatedAt
		a.FirstConversation = &first
		a.LastConversation = &last
	}

	return a
}

func computeTimeStats(convs []models.ParsedConversation) models.TimeStats {
	ts := models.TimeStats{
		Hourly:  make([]int, 24),
		Daily:   make([]int, 7),
		Monthly: make([]int, 12),
		ByDate:  make(map[string]int),
	}

	for _, c := range convs {
		t := c.CreatedAt
		ts.Hourly[t.Hour()]++
		ts.Daily[int(t.Weekday())]++
		ts.Monthly[int(t.Month())-1]++
		ts.ByDate[t.Format(dateLayout)]++
	}

	return ts
}

// computeModelStats counts every (conversation, model) membership, so a
// conversation tagged with three models contributes three counts.
// Percentages are relative to total memberships, not conversation count.
func computeModelStats(convs []models.ParsedConversation) []models.ModelStats {
	counts := make(map[string]int)
	var order []string
	total := 0

	for _, c := range convs {
		for _, m := range c.Models {
			if counts[m] == 0 {
				order = append(order, m)
			}
			counts[m]++
			total++
		}
	}

	stats := make([]models.ModelStats, 0, len(order))
	for _, name := range order {
		count := counts[name]
		stats = append(stats, models.ModelStats{
			Name:       name,
			Count:      count,
			Percentage: float64(count) / float64(total) * 100,
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Count > stats[j].Count
	})

	return stats
}

func computeLengthStats(convs []models.ParsedConversation) models.ConversationLengthStats {
	if len(convs) == 0 {
		return models.ConversationLengthStats{}
	}

	sorted := make([]models.ParsedConversation, len(convs))
	copy(sorted, convs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Messages) < len(sorted[j].Messages)
	})

	sum := 0
	for _, c := range sorted {
		sum += len(c.Messages)
	}

	n := len(sorted)
	var median float64
	if n%2 == 0 {
		median = float64(len(sorted[n/2-1].Messages)+len(sorted[n/2].Messages)) / 2
	} else {
		median = float64(len(sorted[n/2].Messages))
	}

	return models.ConversationLengthStats{
		Shortest: &sorted[0],
		Longest:  &sorted[n-1],
		Average:  float64(sum) / float64(n),
		Median:   median,
	}
}

func computeWordStats(convs []models.ParsedConversation) models.WordStats {
	var ws models.WordStats
	userCount, assistantCount := 0, 0

	for _, c := range convs {
		for i := range c.UserMessages {
			msg := c.UserMessages[i]
			ws.TotalUserWords += msg.WordCount
			userCount++
			// Strictly greater, so the earliest message wins ties.
			if ws.LongestUserMessage == nil || msg.WordCount > ws.LongestUserMessage.WordCount {
				ws.LongestUserMessage = &msg
			}
		}
		for i := range c.AssistantMessages {
			msg := c.AssistantMessages[i]
			ws.TotalAssistantWords += msg.WordCount
			assistantCount++
			if ws.LongestAssistantMessage == nil || msg.WordCount > ws.LongestAssistantMessage.WordCount {
				ws.LongestAssistantMessage = &msg
			}
		}
	}

	if userCount > 0 {
		ws.AverageUserMessageLength = float64(ws.TotalUserWords) / float64(userCount)
	}
	if assistantCount > 0 {
		ws.AverageAssistantMessageLength = float64(ws.TotalAssistantWords) / float64(assistantCount)
	}

	return ws
}

func computeTopConversations(convs []models.ParsedConversation, limit int) (byMessages, byWords []models.TopConversation) {
	sorted := make([]models.ParsedConversation, len(convs))

	copy(sorted, convs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Messages) > len(sorted[j].Messages)
	})
	for _, c := range sorted[:min(limit, len(sorted))] {
		byMessages = append(byMessages, models.TopConversation{
			Conversation: c,
			Metric:       len(c.Messages),
			Label:        fmt.Sprintf("%d messages", len(c.Messages)),
		})
	}

	copy(sorted, convs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalWords > sorted[j].TotalWords
	})
	for _, c := range sorted[:min(limit, len(sorted))] {
		byWords = append(byWords, models.TopConversation{
			Conversation: c,
			Metric:       c.TotalWords,
			Label:        fmt.Sprintf("%s words", humanize.Comma(int64(c.TotalWords))),
		})
	}

	return byMessages, byWords
}

func collectPlugins(convs []models.ParsedConversation) []string {
	seen := make(map[string]bool)
	plugins := []string{}
	for _, c := range convs {
		for _, p := range c.Plugins {
			if !seen[p] {
				seen[p] = true
				plugins = append(plugins, p)
			}
		}
	}
	return plugins
}

// collectCustomGPTs flags a conversation as gizmo-backed when its first
// assistant message carries a gizmo model slug. Known limitation inherited
// from the export format: custom GPTs invoked later in a thread are
// missed, and the title is only a stand-in for the gizmo identity.
func collectCustomGPTs(convs []models.ParsedConversation) []string {
	seen := make(map[string]bool)
	gpts := []string{}
	for _, c := range convs {
		if len(c.AssistantMessages) == 0 {
			continue
		}
		if !containsGizmoSlug(c.AssistantMessages[0].Model) {
			continue
		}
		if !seen[c.Title] {
			seen[c.Title] = true
			gpts = append(gpts, c.Title)
		}
	}
	return gpts
}

func sortedByCreation(convs []models.ParsedConversation) []models.ParsedConversation {
	sorted := make([]models.ParsedConversation, len(convs))
	copy(sorted, convs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}

// argmax returns the index of the maximum count, lowest index on ties.
func argmax(counts []int) int {
	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	return best
}
