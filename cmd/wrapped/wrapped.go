package wrapped

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/neilberkman/recap/internal/analytics"
	"github.com/neilberkman/recap/internal/config"
	"github.com/neilberkman/recap/internal/models"
	"github.com/neilberkman/recap/internal/rendering"
	"github.com/neilberkman/recap/internal/store"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00D4AA")).MarginTop(1)
	valueStyle   = lipgloss.NewStyle().Bold(true)
	faintStyle   = lipgloss.NewStyle().Faint(true)
	barStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
)

// WrappedCmd represents the wrapped command
var WrappedCmd = &cobra.Command{
	Use:   "wrapped",
	Short: "Show the full year-in-review breakdown",
	Long: `Print the complete wrapped-style breakdown of your imported history:
activity patterns, model usage, word statistics, streaks and your top
conversations.`,
	RunE: runWrapped,
}

func runWrapped(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close store: %v\n", err)
		}
	}()

	data, err := st.Load()
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	if data == nil {
		fmt.Println("No data imported yet. Run 'recap import <file>' first.")
		return nil
	}

	printWrapped(data.Analytics)
	return nil
}

func printWrapped(a *models.Analytics) {
	fmt.Println(headerStyle.Render("=== Your Recap ==="))

	printOverview(a)
	printActivity(a)
	printModels(a)
	printWords(a)
	printStreaks(a)
	printTop("Top conversations by messages", a.TopByMessages)
	printTop("Top conversations by words", a.TopByWords)
	printExtras(a)
}

func printOverview(a *models.Analytics) {
	fmt.Println(sectionStyle.Render("Overview"))
	fmt.Printf("  %s conversations, %s messages\n",
		valueStyle.Render(humanize.Comma(int64(a.TotalConversations))),
		valueStyle.Render(humanize.Comma(int64(a.TotalMessages))))
	if a.FirstConversation != nil && a.LastConversation != nil {
		fmt.Printf("  From %s to %s, active on %d days\n",
			a.FirstConversation.Format("Jan 2, 2006"),
			a.LastConversation.Format("Jan 2, 2006"),
			a.ActiveDays)
	}
}

func printActivity(a *models.Analytics) {
	fmt.Println(sectionStyle.Render("When you chat"))
	fmt.Printf("  Peak hour:  %s\n", valueStyle.Render(analytics.FormatHour(a.PeakHour)))
	fmt.Printf("  Peak day:   %s\n", valueStyle.Render(analytics.FormatDay(a.PeakDay)))
	fmt.Printf("  Peak month: %s\n", valueStyle.Render(analytics.FormatMonth(a.PeakMonth)))

	// Weekday distribution as bars scaled to the terminal.
	maxCount := 0
	for _, c := range a.TimeStats.Daily {
		if c > maxCount {
			maxCount = c
		}
	}
	if maxCount == 0 {
		return
	}
	barWidth := rendering.Width() - 24
	if barWidth > 40 {
		barWidth = 40
	}
	if barWidth < 10 {
		barWidth = 10
	}
	fmt.Println()
	for day, count := range a.TimeStats.Daily {
		bar := strings.Repeat("█", count*barWidth/maxCount)
		fmt.Printf("  %-9s %s %d\n", analytics.FormatDay(day), barStyle.Render(bar), count)
	}
}

func printModels(a *models.Analytics) {
	if len(a.ModelStats) == 0 {
		return
	}
	fmt.Println(sectionStyle.Render("Models"))
	for i, m := range a.ModelStats {
		if i >= 5 {
			fmt.Printf("  %s\n", faintStyle.Render(fmt.Sprintf("... and %d more", len(a.ModelStats)-i)))
			break
		}
		fmt.Printf("  %-20s %5.1f%% (%d conversations)\n",
			analytics.ModelDisplayName(m.Name), m.Percentage, m.Count)
	}
}

func printWords(a *models.Analytics) {
	ws := a.WordStats
	fmt.Println(sectionStyle.Render("Words"))
	fmt.Printf("  You wrote %s words; the assistant wrote %s\n",
		valueStyle.Render(humanize.Comma(int64(ws.TotalUserWords))),
		valueStyle.Render(humanize.Comma(int64(ws.TotalAssistantWords))))
	fmt.Printf("  Average message: %.0f words from you, %.0f back\n",
		ws.AverageUserMessageLength, ws.AverageAssistantMessageLength)
	if ws.LongestUserMessage != nil {
		fmt.Printf("  Your longest message: %s\n", analytics.WordCountLabel(ws.LongestUserMessage.WordCount))
	}

	ls := a.ConversationLengthStats
	fmt.Printf("  Conversation length: %.1f messages on average, median %.1f\n", ls.Average, ls.Median)
}

func printStreaks(a *models.Analytics) {
	ss := a.StreakStats
	fmt.Println(sectionStyle.Render("Streaks"))
	if ss.LongestStreak > 0 && ss.LongestStreakStart != nil && ss.LongestStreakEnd != nil {
		fmt.Printf("  Longest streak: %s (%s - %s)\n",
			valueStyle.Render(fmt.Sprintf("%d days", ss.LongestStreak)),
			ss.LongestStreakStart.Format("Jan 2, 2006"),
			ss.LongestStreakEnd.Format("Jan 2, 2006"))
	}
	fmt.Printf("  Current streak: %d days\n", ss.CurrentStreak)
}

func printTop(title string, top []models.TopConversation) {
	if len(top) == 0 {
		return
	}
	fmt.Println(sectionStyle.Render(title))
	for i, entry := range top {
		fmt.Printf("  %d. %s %s\n", i+1,
			truncate(entry.Conversation.Title, 50),
			faintStyle.Render("("+entry.Label+")"))
	}
}

func printExtras(a *models.Analytics) {
	if a.PluginUsageCount == 0 && a.CustomGPTCount == 0 {
		return
	}
	fmt.Println(sectionStyle.Render("Plugins & custom GPTs"))
	if a.PluginUsageCount > 0 {
		fmt.Printf("  Plugins used: %d\n", a.PluginUsageCount)
	}
	if a.CustomGPTCount > 0 {
		fmt.Printf("  Custom GPT conversations: %d\n", a.CustomGPTCount)
		for i, title := range a.CustomGPTsUsed {
			if i >= 5 {
				break
			}
			fmt.Printf("    - %s\n", truncate(title, 50))
		}
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
