package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"pmboard/internal/model"
)

var (
	// ErrMalformedReply means the assistant text did not parse as the
	// expected JSON object.
	ErrMalformedReply = errors.New("assistant reply was not a valid JSON object")

	// ErrInvalidUpdate means the proposed board document failed structural
	// validation.
	ErrInvalidUpdate = errors.New("assistant board update failed validation")
)

// Turn is one prior exchange in the assistant conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// BoardAction is a parsed, validated assistant reply. BoardUpdate is nil
// when the assistant proposed no change.
type BoardAction struct {
	AssistantResponse string          `json:"assistant_response"`
	BoardUpdate       *model.Document `json:"board_update"`
}

// BuildBoardPrompt embeds the serialized current document, the prior
// conversation turns, and the user's question into a single prompt that
// instructs the model to answer with one JSON object.
func BuildBoardPrompt(doc *model.Document, history []Turn, question string) (string, error) {
	boardJSON, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("You are an assistant for a kanban project board.\n")
	b.WriteString("The current board state as JSON is:\n")
	b.Write(boardJSON)
	b.WriteString("\n\n")

	if len(history) > 0 {
		b.WriteString("Conversation so far:\n")
		for _, turn := range history {
			fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Content)
		}
		b.WriteString("\n")
	}

	b.WriteString("User question: ")
	b.WriteString(question)
	b.WriteString("\n\n")
	b.WriteString("Reply with exactly one JSON object of the form ")
	b.WriteString(`{"assistant_response": "<your answer>", "board_update": <full board document or null>}. `)
	b.WriteString("Set board_update to null when the board should not change. ")
	b.WriteString("When you do propose a change, board_update must be the complete new board document, ")
	b.WriteString("keeping every cards key equal to its card's id and every column cardIds entry resolvable.")

	return b.String(), nil
}

// ParseBoardAction parses the assistant text into a BoardAction. A leading
// code fence is stripped first. A present board_update is run through the
// same structural validation as a human-submitted document.
func ParseBoardAction(raw string) (*BoardAction, error) {
	cleaned := stripCodeFence(raw)

	var action BoardAction
	if err := json.Unmarshal([]byte(cleaned), &action); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	if action.BoardUpdate != nil {
		if err := action.BoardUpdate.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidUpdate, err)
		}
	}

	return &action, nil
}

// stripCodeFence removes a surrounding ``` or ```json fence, if present.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
