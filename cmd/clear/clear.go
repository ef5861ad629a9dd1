package clear

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neilberkman/recap/internal/config"
	"github.com/neilberkman/recap/internal/store"
)

// ClearCmd represents the clear command
var ClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the stored snapshot",
	Long:  `Remove the imported conversations and analytics from the local database.`,
	RunE:  runClear,
}

func runClear(cmd *cobra.Command, args []string) error {
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

	if err := st.Clear(); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	fmt.Println("Stored data cleared.")
	return nil
}
