package parse

import (
	"strings"

	"github.com/neilberkman/recap/internal/models"
)

// WalkMapping linearizes a conversation's mapping tree into an ordered
// message sequence. The walk starts at the node with a nil parent and
// follows only the first child at each step, so edited/regenerated branches
// are discarded. A visited set guards against repeated ids and cycles in
// malformed exports; a mapping with no root yields an empty sequence.
func WalkMapping(mapping map[string]models.RawNode) []*models.RawMessage {
	var messages []*models.RawMessage

	rootID := ""
	for id, node := range mapping {
		if node.Parent == nil {
			rootID = id
			break
		}
	}
	if rootID == "" {
		return messages
	}

	visited := make(map[string]bool, len(mapping))
	queue := []string{rootID}

	for len(queue) > 0 {
		nodeID := queue[0]
		queue = queue[1:]
		if visited[nodeID] {
			continue
		}
		visited[nodeID] = true

		node, ok := mapping[nodeID]
		if !ok {
			continue
		}

		if node.Message != nil {
			// System placeholder nodes with empty content are dropped here;
			// role filtering for analytics happens in ParseConversation.
			content := ExtractContent(node.Message)
			if content != "" || node.Message.Author.Role != models.RoleSystem {
				messages = append(messages, node.Message)
			}
		}

		if len(node.Children) > 0 {
			queue = append(queue, node.Children[0])
		}
	}

	return messages
}

// ExtractContent pulls the text out of a message's content field. The
// priority is parts (string entries only, joined with newlines), then text,
// then result. This is the single place the content variants are resolved.
func ExtractContent(msg *models.RawMessage) string {
	c := msg.Content

	if c.Parts != nil {
		parts := make([]string, 0, len(c.Parts))
		for _, p := range c.Parts {
			if s, ok := p.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.TrimSpace(strings.Join(parts, "\n"))
	}

	if c.Text != "" {
		return strings.TrimSpace(c.Text)
	}

	if c.Result != "" {
		return strings.TrimSpace(c.Result)
	}

	return ""
}
