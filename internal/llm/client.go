// Package llm talks to an OpenAI-compatible chat-completions endpoint for
// the optional summary and insights features. The client is deliberately
// thin: no retries, no caching; rate-limit handling belongs to callers.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/neilberkman/recap/internal/logger"
)

// Client calls a chat-completions API.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// NewClient builds a client for the given endpoint. baseURL is the API
// root, e.g. "https://openrouter.ai/api/v1".
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, msgs []chatMessage) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("API key not configured")
	}

	body, err := json.Marshal(chatRequest{Model: c.model, Messages: msgs})
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"model":         c.model,
		"message_count": len(msgs),
	}).Debug("Calling completions API")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("error decoding response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response from API")
	}

	content := chatResp.Choices[0].Message.Content
	logger.Log.WithField("content_length", len(content)).Debug("Received completion")
	return content, nil
}

// SummarizeConversation asks the model for a brief summary of one
// conversation. Conversations too large for a single context window are
// summarized chunk by chunk and the partial summaries combined.
func (c *Client) SummarizeConversation(ctx context.Context, msgs []Message, title string) (string, error) {
	chunks := ChunkConversation(msgs, DefaultChunkChars)

	if len(chunks) <= 1 {
		prompt := fmt.Sprintf(`Analyze this conversation titled %q and provide a brief, concise summary that captures:
1. The main topic/purpose of the conversation
2. Key points discussed or problems solved
3. Important outcomes or conclusions
4. Any notable insights or decisions made

Keep the summary to 3-5 sentences. Be specific and avoid generic statements.

Conversation:
%s`, title, CondenseMessages(msgs, 50000))

		return c.complete(ctx, []chatMessage{{Role: "user", Content: prompt}})
	}

	summaries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		prompt := fmt.Sprintf(`Briefly summarize this part (%d/%d) of a conversation titled %q:
%s

Provide 2-3 sentences covering the main points discussed in this section.`,
			i+1, len(chunks), title, CondenseMessages(chunk.Messages, 20000))

		summary, err := c.complete(ctx, []chatMessage{{Role: "user", Content: prompt}})
		if err != nil {
			return "", fmt.Errorf("failed to summarize part %d: %w", i+1, err)
		}
		summaries = append(summaries, fmt.Sprintf("Part %d: %s", i+1, summary))
	}

	combined := fmt.Sprintf(`These are summaries of different parts of a conversation titled %q.
Combine them into one cohesive 3-5 sentence summary that captures the overall context, main points, and conclusions:

%s`, title, strings.Join(summaries, "\n\n"))

	return c.complete(ctx, []chatMessage{{Role: "user", Content: combined}})
}

// Insights is the structured analysis the model is asked to return.
type Insights struct {
	Summary              string   `json:"summary"`
	MentalHealthInsights string   `json:"mentalHealthInsights"`
	ConversationStyle    string   `json:"conversationStyle"`
	SuggestedQuestions   []string `json:"suggestedQuestions"`
}

// GenerateInsights asks the model for structured insights about one
// conversation. When the response carries no parseable JSON the fallback
// values are returned rather than an error.
func (c *Client) GenerateInsights(ctx context.Context, msgs []Message, title string) (*Insights, error) {
	prompt := fmt.Sprintf(`Analyze this conversation titled %q and provide insights in JSON format.

Conversation:
%s

Provide analysis in this exact JSON format:
{
  "summary": "2-3 sentence summary of what this conversation was about",
  "mentalHealthInsights": "2-3 sentences about the user's apparent mental state, stress level, or emotional context. Be gentle and observational, not diagnostic.",
  "conversationStyle": "2-3 sentences about how the user communicates - their approach to problems, level of detail, tone, etc.",
  "suggestedQuestions": ["question 1 the user might want to explore", "question 2", "question 3"]
}

Only output valid JSON, nothing else.`, title, CondenseMessages(msgs, 30000))

	text, err := c.complete(ctx, []chatMessage{{Role: "user", Content: prompt}})
	if err != nil {
		return nil, err
	}

	if insights := parseInsights(text); insights != nil {
		return insights, nil
	}

	logger.Log.Warn("Model returned unparseable insights JSON, using fallback")
	return &Insights{
		Summary:              "Unable to generate summary.",
		MentalHealthInsights: "Unable to analyze patterns.",
		ConversationStyle:    "Unable to determine style.",
		SuggestedQuestions: []string{
			"What was the main topic?",
			"How did you feel during this conversation?",
		},
	}, nil
}

// ChatAboutConversation continues a discussion about a stored conversation.
// cachedContext, when non-empty, is used as the context summary instead of
// re-condensing the conversation; it is threaded explicitly by the caller.
func (c *Client) ChatAboutConversation(ctx context.Context, msgs []Message, title string, history []Message, userMessage, cachedContext string) (string, error) {
	contextSummary := cachedContext
	if contextSummary == "" {
		contextSummary = fmt.Sprintf("Conversation %q summary:\n%s", title, CondenseMessages(msgs, 15000))
	}

	systemPrompt := fmt.Sprintf(`You are an insightful, empathetic AI companion analyzing a user's chat history.

Your role is to:
- Help the user understand their patterns, thought processes, and interests
- Provide gentle insights about their communication style and mental approach
- Be supportive and non-judgmental
- Answer questions about the conversation content

Context about the conversation being analyzed:
%s

Respond naturally and conversationally. Be concise but thoughtful.`, contextSummary)

	chat := []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "assistant", Content: "I've analyzed the conversation. I'm ready to discuss it with you and share any insights. What would you like to know?"},
	}
	for _, m := range history {
		chat = append(chat, chatMessage{Role: m.Role, Content: m.Content})
	}
	chat = append(chat, chatMessage{Role: "user", Content: userMessage})

	return c.complete(ctx, chat)
}

// parseInsights extracts the first JSON object from the model output.
// Models wrap JSON in prose or code fences often enough that a plain
// unmarshal is not sufficient.
func parseInsights(text string) *Insights {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil
	}

	var insights Insights
	if err := json.Unmarshal([]byte(text[start:end+1]), &insights); err != nil {
		return nil
	}
	return &insights
}
