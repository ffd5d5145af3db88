package handler

import (
	"errors"
	"net/http"

	"pmboard/internal/ai"
	"pmboard/internal/model"
	"pmboard/internal/repository"

	"github.com/gin-gonic/gin"
)

// AIHandler runs the assistant path of the board mutation pipeline: the
// assistant's proposed document goes through the same validation and the
// same persistence call as a human PUT.
type AIHandler struct {
	completer ai.Completer
	boardRepo repository.BoardRepositoryInterface
}

func NewAIHandler(completer ai.Completer, boardRepo repository.BoardRepositoryInterface) *AIHandler {
	return &AIHandler{
		completer: completer,
		boardRepo: boardRepo,
	}
}

type ConnectivityRequest struct {
	Prompt string `json:"prompt"`
}

type ConnectivityResponse struct {
	Model    string `json:"model"`
	Prompt   string `json:"prompt"`
	Response string `json:"response"`
	User     string `json:"user"`
}

type BoardActionRequest struct {
	Question            string    `json:"question" binding:"required"`
	ConversationHistory []ai.Turn `json:"conversation_history"`
	BoardID             string    `json:"board_id"`
}

type BoardActionResponse struct {
	AssistantResponse string          `json:"assistant_response"`
	BoardUpdated      bool            `json:"board_updated"`
	Board             *model.Document `json:"board"`
}

// Connectivity proxies a single prompt through the completion API.
// @Summary      Check AI connectivity
// @Tags         AI
// @Accept       json
// @Produce      json
// @Param        request body ConnectivityRequest true "Prompt"
// @Success      200 {object} ConnectivityResponse
// @Failure      500 {object} map[string]string
// @Failure      502 {object} map[string]string
// @Failure      504 {object} map[string]string
// @Security     SessionCookie
// @Router       /ai/connectivity [post]
func (h *AIHandler) Connectivity(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req ConnectivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid prompt payload"})
		return
	}
	if req.Prompt == "" {
		req.Prompt = "2+2"
	}

	answer, err := h.completer.Query(c.Request.Context(), req.Prompt)
	if err != nil {
		writeCompletionError(c, err)
		return
	}

	c.JSON(http.StatusOK, ConnectivityResponse{
		Model:    ai.ModelName,
		Prompt:   req.Prompt,
		Response: answer,
		User:     user.Username,
	})
}

// BoardAction asks the assistant about a board and applies its proposed
// document, if any. The target is the caller's default board unless a
// board_id is given; a board_id the caller does not own is a 404.
// @Summary      Run an assistant board action
// @Tags         AI
// @Accept       json
// @Produce      json
// @Param        request body BoardActionRequest true "Question, history, optional board id"
// @Success      200 {object} BoardActionResponse
// @Failure      404 {object} map[string]string
// @Failure      502 {object} map[string]string
// @Failure      504 {object} map[string]string
// @Security     SessionCookie
// @Router       /ai/board-action [post]
func (h *AIHandler) BoardAction(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req BoardActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Question is required"})
		return
	}

	board, err := h.resolveBoard(c, req.BoardID, user.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load board"})
		return
	}
	if board == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return
	}

	doc, err := board.Document()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read board document"})
		return
	}

	prompt, err := ai.BuildBoardPrompt(doc, req.ConversationHistory, req.Question)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build prompt"})
		return
	}

	answer, err := h.completer.Query(c.Request.Context(), prompt)
	if err != nil {
		writeCompletionError(c, err)
		return
	}

	action, err := ai.ParseBoardAction(answer)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if action.BoardUpdate == nil {
		c.JSON(http.StatusOK, BoardActionResponse{
			AssistantResponse: action.AssistantResponse,
			BoardUpdated:      false,
			Board:             doc,
		})
		return
	}

	if _, err := h.boardRepo.UpdateDocument(c.Request.Context(), board.ID, user.UserID, action.BoardUpdate); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist board update"})
		return
	}

	c.JSON(http.StatusOK, BoardActionResponse{
		AssistantResponse: action.AssistantResponse,
		BoardUpdated:      true,
		Board:             action.BoardUpdate,
	})
}

func (h *AIHandler) resolveBoard(c *gin.Context, boardID, userID string) (*model.Board, error) {
	if boardID != "" {
		return h.boardRepo.Get(c.Request.Context(), boardID, userID)
	}
	return h.boardRepo.DefaultForUser(c.Request.Context(), userID)
}

// writeCompletionError maps outbound completion failures onto gateway-style
// status codes. Nothing is retried; the board is untouched.
func writeCompletionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ai.ErrNotConfigured):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	case errors.Is(err, ai.ErrTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
