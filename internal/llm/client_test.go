package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("unexpected model %q", req.Model)
		}

		resp := chatResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message chatMessage `json:"message"`
		}{Message: chatMessage{Role: "assistant", Content: reply}})
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("failed to encode response: %v", err)
		}
	}))
}

func testClient(serverURL string) *Client {
	return NewClient(serverURL, "test-key", "test-model", 5*time.Second)
}

func TestSummarizeConversation(t *testing.T) {
	srv := newTestServer(t, "A concise summary of the discussion.")
	defer srv.Close()

	msgs := []Message{
		{Role: "user", Content: "explain goroutines"},
		{Role: "assistant", Content: "they are lightweight threads"},
	}

	got, err := testClient(srv.URL).SummarizeConversation(context.Background(), msgs, "Go questions")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "A concise summary of the discussion." {
		t.Errorf("unexpected summary %q", got)
	}
}

func TestSummarizeConversationNoAPIKey(t *testing.T) {
	c := NewClient("http://localhost:0", "", "test-model", time.Second)
	_, err := c.SummarizeConversation(context.Background(), []Message{{Role: "user", Content: "hi"}}, "t")
	if err == nil {
		t.Fatal("expected an error without an API key")
	}
	if !strings.Contains(err.Error(), "API key") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestSummarizeConversationServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).SummarizeConversation(context.Background(), []Message{{Role: "user", Content: "hi"}}, "t")
	if err == nil {
		t.Fatal("expected an error on HTTP 429")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("expected status code in error, got %v", err)
	}
}

func TestGenerateInsights(t *testing.T) {
	reply := "Here is the analysis:\n" + `{
		"summary": "A debugging conversation.",
		"mentalHealthInsights": "Focused and calm.",
		"conversationStyle": "Direct, detail oriented.",
		"suggestedQuestions": ["What was the root cause?"]
	}` + "\nHope that helps!"
	srv := newTestServer(t, reply)
	defer srv.Close()

	got, err := testClient(srv.URL).GenerateInsights(context.Background(),
		[]Message{{Role: "user", Content: "my test is flaky"}}, "Flaky test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Summary != "A debugging conversation." {
		t.Errorf("unexpected summary %q", got.Summary)
	}
	if len(got.SuggestedQuestions) != 1 {
		t.Errorf("expected 1 suggested question, got %d", len(got.SuggestedQuestions))
	}
}

func TestGenerateInsightsFallback(t *testing.T) {
	srv := newTestServer(t, "I cannot produce JSON today, sorry.")
	defer srv.Close()

	got, err := testClient(srv.URL).GenerateInsights(context.Background(),
		[]Message{{Role: "user", Content: "hello"}}, "t")
	if err != nil {
		t.Fatalf("fallback should not error: %v", err)
	}
	if got.Summary != "Unable to generate summary." {
		t.Errorf("expected fallback summary, got %q", got.Summary)
	}
	if len(got.SuggestedQuestions) == 0 {
		t.Error("expected fallback questions")
	}
}

func TestParseInsights(t *testing.T) {
	tests := []struct {
		name string
		text string
		ok   bool
	}{
		{"bare json", `{"summary":"s","mentalHealthInsights":"m","conversationStyle":"c","suggestedQuestions":[]}`, true},
		{"fenced json", "```json\n{\"summary\":\"s\"}\n```", true},
		{"no json", "plain prose", false},
		{"unbalanced", "{ not json }", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseInsights(tt.text)
			if (got != nil) != tt.ok {
				t.Errorf("parseInsights(%q): expected ok=%v, got %v", tt.text, tt.ok, got)
			}
		})
	}
}

func TestChatAboutConversation(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		resp := chatResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message chatMessage `json:"message"`
		}{Message: chatMessage{Role: "assistant", Content: "reply"}})
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("failed to encode response: %v", err)
		}
	}))
	defer srv.Close()

	history := []Message{{Role: "user", Content: "earlier question"}, {Role: "assistant", Content: "earlier answer"}}
	got, err := testClient(srv.URL).ChatAboutConversation(context.Background(),
		[]Message{{Role: "user", Content: "original"}}, "Title", history, "follow up", "cached summary")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "reply" {
		t.Errorf("unexpected reply %q", got)
	}

	// system + canned assistant + 2 history + user message
	if len(captured.Messages) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(captured.Messages))
	}
	if captured.Messages[0].Role != "system" || !strings.Contains(captured.Messages[0].Content, "cached summary") {
		t.Error("expected the cached context in the system prompt")
	}
	if captured.Messages[4].Content != "follow up" {
		t.Errorf("expected the user message last, got %q", captured.Messages[4].Content)
	}
}
