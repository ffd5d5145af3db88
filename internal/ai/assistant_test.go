package ai

import (
	"encoding/json"
	"testing"

	"pmboard/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestParseBoardAction_PlainObject(t *testing.T) {
	action, err := ParseBoardAction(`{"assistant_response":"Looks good.","board_update":null}`)

	assert.NoError(t, err)
	assert.Equal(t, "Looks good.", action.AssistantResponse)
	assert.Nil(t, action.BoardUpdate)
}

func TestParseBoardAction_FencedObject(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"json fence", "```json\n{\"assistant_response\":\"ok\",\"board_update\":null}\n```"},
		{"bare fence", "```\n{\"assistant_response\":\"ok\",\"board_update\":null}\n```"},
		{"surrounding whitespace", "\n  ```json\n{\"assistant_response\":\"ok\",\"board_update\":null}\n```  \n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			action, err := ParseBoardAction(tc.raw)

			assert.NoError(t, err)
			assert.Equal(t, "ok", action.AssistantResponse)
		})
	}
}

func TestParseBoardAction_WithValidUpdate(t *testing.T) {
	doc := model.DefaultDocument()
	raw, err := json.Marshal(BoardAction{AssistantResponse: "Moved a card.", BoardUpdate: doc})
	assert.NoError(t, err)

	action, err := ParseBoardAction(string(raw))

	assert.NoError(t, err)
	assert.NotNil(t, action.BoardUpdate)
	assert.Len(t, action.BoardUpdate.Cards, 8)
}

func TestParseBoardAction_NotJSON(t *testing.T) {
	action, err := ParseBoardAction("Sure, I moved the card to Done for you!")

	assert.Nil(t, action)
	assert.ErrorIs(t, err, ErrMalformedReply)
}

func TestParseBoardAction_InvalidUpdate(t *testing.T) {
	// The proposed document references a card id with no entry in cards.
	raw := `{
		"assistant_response": "done",
		"board_update": {
			"columns": [{"id":"col-1","title":"Todo","cardIds":["card-ghost"]}],
			"cards": {}
		}
	}`

	action, err := ParseBoardAction(raw)

	assert.Nil(t, action)
	assert.ErrorIs(t, err, ErrInvalidUpdate)
}

func TestBuildBoardPrompt(t *testing.T) {
	doc := model.DefaultDocument()
	history := []Turn{
		{Role: "user", Content: "What is blocking review?"},
		{Role: "assistant", Content: "One card is waiting on QA."},
	}

	prompt, err := BuildBoardPrompt(doc, history, "Move it to Done.")

	assert.NoError(t, err)
	assert.Contains(t, prompt, "Align roadmap themes")
	assert.Contains(t, prompt, "user: What is blocking review?")
	assert.Contains(t, prompt, "assistant: One card is waiting on QA.")
	assert.Contains(t, prompt, "User question: Move it to Done.")
	assert.Contains(t, prompt, `"board_update"`)
}

func TestBuildBoardPrompt_NoHistory(t *testing.T) {
	prompt, err := BuildBoardPrompt(model.DefaultDocument(), nil, "Summarize the board.")

	assert.NoError(t, err)
	assert.NotContains(t, prompt, "Conversation so far:")
	assert.Contains(t, prompt, "User question: Summarize the board.")
}
