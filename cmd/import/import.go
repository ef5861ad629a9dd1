package imports

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neilberkman/recap/internal/analytics"
	"github.com/neilberkman/recap/internal/config"
	"github.com/neilberkman/recap/internal/parse"
	"github.com/neilberkman/recap/internal/store"
)

// ImportCmd represents the import command
var ImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a ChatGPT export file",
	Long: `Import conversations from a ChatGPT conversations.json export.

The import will:
- Validate and parse the export, reconstructing each conversation's
  linear message path (edited/regenerated branches are discarded)
- Compute the full analytics snapshot
- Replace any previously stored snapshot

The file is processed entirely on this machine.`,

	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", filePath)
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	convs, err := parse.DecodeExport(file)
	if err != nil {
		switch {
		case errors.Is(err, parse.ErrInvalidJSON):
			return fmt.Errorf("%s is not valid JSON - is this the right file?", filePath)
		case errors.Is(err, parse.ErrInvalidFormat):
			return fmt.Errorf("invalid file format: expected the conversations.json from a ChatGPT data export")
		case errors.Is(err, parse.ErrNoConversations):
			return fmt.Errorf("no conversations found in %s", filePath)
		default:
			return fmt.Errorf("import failed: %w", err)
		}
	}

	result := analytics.Compute(convs)

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

	if err := st.Save(convs, result); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	summary := parse.Summarize(convs)
	fmt.Printf("Imported %d conversations (%d messages)\n", summary.ConversationCount, summary.MessageCount)
	fmt.Printf("  Date range:  %s - %s\n", summary.From.Format("Jan 2, 2006"), summary.To.Format("Jan 2, 2006"))
	fmt.Printf("  Active days: %d\n", result.ActiveDays)
	if result.FavoriteModel != "" {
		fmt.Printf("  Top model:   %s\n", analytics.ModelDisplayName(result.FavoriteModel))
	}
	fmt.Println("\nRun 'recap wrapped' for the full breakdown.")

	return nil
}
