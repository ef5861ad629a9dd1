package summary

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/neilberkman/recap/internal/config"
	"github.com/neilberkman/recap/internal/llm"
	"github.com/neilberkman/recap/internal/models"
	"github.com/neilberkman/recap/internal/rendering"
	"github.com/neilberkman/recap/internal/store"
)

var withInsights bool

// SummaryCmd represents the summary command
var SummaryCmd = &cobra.Command{
	Use:   "summary [conversation]",
	Short: "Summarize one conversation with an LLM",
	Long: `Generate an LLM summary of one stored conversation.

The conversation is selected by its id, or by its 1-based position in the
import (oldest first). This is the only command that sends conversation
content to an external API; the endpoint and model are configurable and
the API key is read from the environment.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummary,
}

func init() {
	SummaryCmd.Flags().BoolVar(&withInsights, "insights", false, "include structured insights alongside the summary")
}

func runSummary(cmd *cobra.Command, args []string) error {
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

	conv, err := selectConversation(data.Conversations, args[0])
	if err != nil {
		return err
	}

	apiKey := os.Getenv(cfg.LLM.APIKeyEnv)
	if apiKey == "" {
		return fmt.Errorf("no API key: set %s to use the summary command", cfg.LLM.APIKeyEnv)
	}

	timeout := time.Duration(cfg.LLM.TimeoutSeconds) * time.Second
	client := llm.NewClient(cfg.LLM.BaseURL, apiKey, cfg.LLM.Model, timeout)

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	msgs := toLLMMessages(conv)

	fmt.Printf("Summarizing %q (%d messages)...\n\n", conv.Title, len(conv.Messages))

	text, err := client.SummarizeConversation(ctx, msgs, conv.Title)
	if err != nil {
		return fmt.Errorf("summary failed: %w", err)
	}

	md := fmt.Sprintf("# %s\n\n%s\n", conv.Title, text)

	if withInsights {
		insights, err := client.GenerateInsights(ctx, msgs, conv.Title)
		if err != nil {
			return fmt.Errorf("insights failed: %w", err)
		}
		md += formatInsights(insights)
	}

	r := rendering.NewRenderer(rendering.Width())
	fmt.Println(r.Render(md))
	return nil
}

// selectConversation resolves the argument as an exact conversation id
// first, then as a 1-based index into the stored conversations.
func selectConversation(convs []models.ParsedConversation, arg string) (*models.ParsedConversation, error) {
	for i := range convs {
		if convs[i].ID != "" && convs[i].ID == arg {
			return &convs[i], nil
		}
	}

	idx, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("no conversation with id %q", arg)
	}
	if idx < 1 || idx > len(convs) {
		return nil, fmt.Errorf("conversation index %d out of range (1-%d)", idx, len(convs))
	}
	return &convs[idx-1], nil
}

func toLLMMessages(conv *models.ParsedConversation) []llm.Message {
	msgs := make([]llm.Message, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		msgs = append(msgs, llm.Message{Role: m.Role, Content: m.Content})
	}
	return msgs
}

func formatInsights(in *llm.Insights) string {
	md := "\n## Insights\n\n"
	md += fmt.Sprintf("**Patterns:** %s\n\n", in.MentalHealthInsights)
	md += fmt.Sprintf("**Style:** %s\n\n", in.ConversationStyle)
	if len(in.SuggestedQuestions) > 0 {
		md += "**Questions to explore:**\n\n"
		for _, q := range in.SuggestedQuestions {
			md += fmt.Sprintf("- %s\n", q)
		}
	}
	return md
}
