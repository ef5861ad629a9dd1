package stats

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/neilberkman/recap/internal/analytics"
	"github.com/neilberkman/recap/internal/config"
	"github.com/neilberkman/recap/internal/store"
)

// StatsCmd represents the stats command
var StatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show an overview of the stored snapshot",
	Long:  `Display summary statistics about your imported conversations.`,
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
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

	a := data.Analytics

	fmt.Printf("=== Recap Statistics ===\n\n")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Conversations:\t%d\n", a.TotalConversations)
	fmt.Fprintf(w, "Messages:\t%d (%d from you, %d from the assistant)\n",
		a.TotalMessages, a.TotalUserMessages, a.TotalAssistantMessages)
	if a.FirstConversation != nil && a.LastConversation != nil {
		fmt.Fprintf(w, "Date range:\t%s - %s\n",
			a.FirstConversation.Format("Jan 2, 2006"), a.LastConversation.Format("Jan 2, 2006"))
	}
	fmt.Fprintf(w, "Active days:\t%d\n", a.ActiveDays)
	fmt.Fprintf(w, "Longest streak:\t%d days\n", a.StreakStats.LongestStreak)
	fmt.Fprintf(w, "Current streak:\t%d days\n", a.StreakStats.CurrentStreak)
	if a.FavoriteModel != "" {
		fmt.Fprintf(w, "Favorite model:\t%s\n", analytics.ModelDisplayName(a.FavoriteModel))
	}
	fmt.Fprintf(w, "Imported:\t%s\n", humanize.Time(data.UploadedAt))
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	return nil
}
