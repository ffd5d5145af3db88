package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"pmboard/internal/ai"
	"pmboard/internal/handler"
	"pmboard/internal/middleware"
	"pmboard/internal/model"
	"pmboard/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type fakeCompleter struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeCompleter) Query(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func setupAITest(completer ai.Completer) (*gin.Engine, *MockBoardRepository, *session.Store) {
	gin.SetMode(gin.TestMode)
	r := gin.Default()

	boardRepo := new(MockBoardRepository)
	sessions := session.NewStore()
	aiHandler := handler.NewAIHandler(completer, boardRepo)

	authorized := r.Group("/api")
	authorized.Use(middleware.SessionAuth(sessions))
	authorized.POST("/ai/connectivity", aiHandler.Connectivity)
	authorized.POST("/ai/board-action", aiHandler.BoardAction)

	return r, boardRepo, sessions
}

func TestConnectivity_Success(t *testing.T) {
	// Arrange
	fake := &fakeCompleter{reply: "4"}
	router, _, sessions := setupAITest(fake)
	cookie := sessionCookie(sessions, session.User{UserID: "user-1", Username: "alice"})

	// Act
	resp := postJSON(router, "/api/ai/connectivity", handler.ConnectivityRequest{Prompt: "2+2"}, cookie)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response handler.ConnectivityResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.Equal(t, ai.ModelName, response.Model)
	assert.Equal(t, "2+2", response.Prompt)
	assert.Equal(t, "4", response.Response)
	assert.Equal(t, "alice", response.User)
}

func TestConnectivity_RequiresAuthentication(t *testing.T) {
	router, _, _ := setupAITest(&fakeCompleter{reply: "4"})

	resp := postJSON(router, "/api/ai/connectivity", handler.ConnectivityRequest{Prompt: "2+2"})

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestConnectivity_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"missing key", ai.ErrNotConfigured, http.StatusInternalServerError},
		{"timeout", ai.ErrTimeout, http.StatusGatewayTimeout},
		{"upstream failure", ai.ErrUpstream, http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, _, sessions := setupAITest(&fakeCompleter{err: tc.err})
			cookie := sessionCookie(sessions, session.User{UserID: "user-1"})

			resp := postJSON(router, "/api/ai/connectivity", handler.ConnectivityRequest{Prompt: "2+2"}, cookie)

			assert.Equal(t, tc.want, resp.Code)
		})
	}
}

func TestBoardAction_RejectsInvalidJSON(t *testing.T) {
	// Arrange
	fake := &fakeCompleter{reply: "not-json"}
	router, boardRepo, sessions := setupAITest(fake)
	cookie := sessionCookie(sessions, session.User{UserID: "user-1"})

	boardRepo.On("DefaultForUser", mock.Anything, "user-1").Return(newTestBoard("user-1"), nil)

	// Act
	resp := postJSON(router, "/api/ai/board-action", handler.BoardActionRequest{
		Question: "What should I do?",
	}, cookie)

	// Assert: the reply is rejected and no write happens.
	assert.Equal(t, http.StatusBadGateway, resp.Code)
	boardRepo.AssertNotCalled(t, "UpdateDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBoardAction_NullUpdateLeavesBoardUnchanged(t *testing.T) {
	// Arrange
	fake := &fakeCompleter{reply: `{"assistant_response":"No change.","board_update":null}`}
	router, boardRepo, sessions := setupAITest(fake)
	cookie := sessionCookie(sessions, session.User{UserID: "user-1"})

	boardRepo.On("DefaultForUser", mock.Anything, "user-1").Return(newTestBoard("user-1"), nil)

	// Act
	resp := postJSON(router, "/api/ai/board-action", handler.BoardActionRequest{
		Question: "Summarize",
	}, cookie)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response handler.BoardActionResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.Equal(t, "No change.", response.AssistantResponse)
	assert.False(t, response.BoardUpdated)
	assert.Len(t, response.Board.Cards, 8)

	boardRepo.AssertNotCalled(t, "UpdateDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBoardAction_WithUpdatePersists(t *testing.T) {
	// Arrange
	update := model.DefaultDocument()
	card := update.Cards["card-1"]
	card.Title = "AI Updated Title"
	update.Cards["card-1"] = card
	raw, err := json.Marshal(ai.BoardAction{AssistantResponse: "Updated board.", BoardUpdate: update})
	assert.NoError(t, err)

	fake := &fakeCompleter{reply: string(raw)}
	router, boardRepo, sessions := setupAITest(fake)
	cookie := sessionCookie(sessions, session.User{UserID: "user-1"})

	board := newTestBoard("user-1")
	boardRepo.On("DefaultForUser", mock.Anything, "user-1").Return(board, nil)
	boardRepo.On("UpdateDocument", mock.Anything, board.ID, "user-1", mock.AnythingOfType("*model.Document")).
		Return(board, nil)

	// Act
	resp := postJSON(router, "/api/ai/board-action", handler.BoardActionRequest{
		Question: "Update title",
	}, cookie)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response handler.BoardActionResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.True(t, response.BoardUpdated)
	assert.Equal(t, "AI Updated Title", response.Board.Cards["card-1"].Title)
	boardRepo.AssertExpectations(t)
}

func TestBoardAction_FencedReplyIsAccepted(t *testing.T) {
	// Arrange
	fake := &fakeCompleter{reply: "```json\n{\"assistant_response\":\"ok\",\"board_update\":null}\n```"}
	router, boardRepo, sessions := setupAITest(fake)
	cookie := sessionCookie(sessions, session.User{UserID: "user-1"})

	boardRepo.On("DefaultForUser", mock.Anything, "user-1").Return(newTestBoard("user-1"), nil)

	// Act
	resp := postJSON(router, "/api/ai/board-action", handler.BoardActionRequest{Question: "Summarize"}, cookie)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response handler.BoardActionResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.Equal(t, "ok", response.AssistantResponse)
}

func TestBoardAction_InvalidUpdateIsRejected(t *testing.T) {
	// Arrange: the proposed document references a card that does not exist.
	fake := &fakeCompleter{reply: `{
		"assistant_response": "bad",
		"board_update": {
			"columns": [{"id":"col-1","title":"Only","cardIds":["missing"]}],
			"cards": {}
		}
	}`}
	router, boardRepo, sessions := setupAITest(fake)
	cookie := sessionCookie(sessions, session.User{UserID: "user-1"})

	boardRepo.On("DefaultForUser", mock.Anything, "user-1").Return(newTestBoard("user-1"), nil)

	// Act
	resp := postJSON(router, "/api/ai/board-action", handler.BoardActionRequest{Question: "Break it"}, cookie)

	// Assert
	assert.Equal(t, http.StatusBadGateway, resp.Code)
	boardRepo.AssertNotCalled(t, "UpdateDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBoardAction_PromptCarriesBoardHistoryAndQuestion(t *testing.T) {
	// Arrange
	fake := &fakeCompleter{reply: `{"assistant_response":"ok","board_update":null}`}
	router, boardRepo, sessions := setupAITest(fake)
	cookie := sessionCookie(sessions, session.User{UserID: "user-1"})

	boardRepo.On("DefaultForUser", mock.Anything, "user-1").Return(newTestBoard("user-1"), nil)

	// Act
	resp := postJSON(router, "/api/ai/board-action", handler.BoardActionRequest{
		Question: "What next?",
		ConversationHistory: []ai.Turn{
			{Role: "user", Content: "We need momentum."},
			{Role: "assistant", Content: "Focus on review."},
		},
	}, cookie)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, fake.prompts, 1)
	assert.Contains(t, fake.prompts[0], "Align roadmap themes")
	assert.Contains(t, fake.prompts[0], "We need momentum.")
	assert.Contains(t, fake.prompts[0], "Focus on review.")
	assert.Contains(t, fake.prompts[0], "What next?")
}

func TestBoardAction_WithBoardID(t *testing.T) {
	// Arrange
	fake := &fakeCompleter{reply: `{"assistant_response":"ok","board_update":null}`}
	router, boardRepo, sessions := setupAITest(fake)
	cookie := sessionCookie(sessions, session.User{UserID: "user-1"})

	board := newTestBoard("user-1")
	boardRepo.On("Get", mock.Anything, board.ID, "user-1").Return(board, nil)

	// Act
	resp := postJSON(router, "/api/ai/board-action", handler.BoardActionRequest{
		Question: "Summarize",
		BoardID:  board.ID,
	}, cookie)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	boardRepo.AssertNotCalled(t, "DefaultForUser", mock.Anything, mock.Anything)
}

func TestBoardAction_UnknownBoardIDIsNotFound(t *testing.T) {
	// Arrange
	fake := &fakeCompleter{reply: `{"assistant_response":"ok","board_update":null}`}
	router, boardRepo, sessions := setupAITest(fake)
	cookie := sessionCookie(sessions, session.User{UserID: "user-1"})

	boardRepo.On("Get", mock.Anything, "board-nonexistent", "user-1").Return(nil, nil)

	// Act
	resp := postJSON(router, "/api/ai/board-action", handler.BoardActionRequest{
		Question: "Summarize",
		BoardID:  "board-nonexistent",
	}, cookie)

	// Assert
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Empty(t, fake.prompts)
}
