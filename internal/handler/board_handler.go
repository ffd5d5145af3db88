package handler

import (
	"errors"
	"net/http"
	"time"

	"pmboard/internal/model"
	"pmboard/internal/repository"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct {
	boardRepo repository.BoardRepositoryInterface
}

func NewBoardHandler(boardRepo repository.BoardRepositoryInterface) *BoardHandler {
	return &BoardHandler{boardRepo: boardRepo}
}

type CreateBoardRequest struct {
	Name string `json:"name" binding:"required"`
}

type RenameBoardRequest struct {
	Name string `json:"name" binding:"required"`
}

// BoardResponse is a board row with its deserialized document.
type BoardResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	BoardJSON *model.Document `json:"board_json"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func boardResponse(board *model.Board) (BoardResponse, error) {
	doc, err := board.Document()
	if err != nil {
		return BoardResponse{}, err
	}
	return BoardResponse{
		ID:        board.ID,
		Name:      board.Name,
		BoardJSON: doc,
		CreatedAt: board.CreatedAt,
		UpdatedAt: board.UpdatedAt,
	}, nil
}

// List returns the caller's boards without document bodies.
// @Summary      List boards
// @Tags         Boards
// @Produce      json
// @Success      200 {array} repository.BoardSummary
// @Security     SessionCookie
// @Router       /boards [get]
func (h *BoardHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	summaries, err := h.boardRepo.ListByOwner(c.Request.Context(), user.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list boards"})
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// Create makes a new board seeded with the default template.
// @Summary      Create a board
// @Tags         Boards
// @Accept       json
// @Produce      json
// @Param        request body CreateBoardRequest true "Board name"
// @Success      201 {object} BoardResponse
// @Failure      422 {object} map[string]string
// @Security     SessionCookie
// @Router       /boards [post]
func (h *BoardHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Board name is required"})
		return
	}

	board, err := h.boardRepo.Create(c.Request.Context(), user.UserID, req.Name, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create board"})
		return
	}

	resp, err := boardResponse(board)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read board document"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get returns one owned board with its document. A board owned by another
// user is reported as not found.
// @Summary      Get a board
// @Tags         Boards
// @Produce      json
// @Param        id path string true "Board ID"
// @Success      200 {object} BoardResponse
// @Failure      404 {object} map[string]string
// @Security     SessionCookie
// @Router       /boards/{id} [get]
func (h *BoardHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	board, err := h.boardRepo.Get(c.Request.Context(), c.Param("id"), user.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return
	}
	if board == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return
	}

	resp, err := boardResponse(board)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read board document"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update validates and wholesale-replaces the board document.
// @Summary      Replace a board document
// @Tags         Boards
// @Accept       json
// @Produce      json
// @Param        id path string true "Board ID"
// @Param        request body model.Document true "Board document"
// @Success      200 {object} BoardResponse
// @Failure      404 {object} map[string]string
// @Failure      422 {object} map[string]string
// @Security     SessionCookie
// @Router       /boards/{id} [put]
func (h *BoardHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	doc, ok := bindDocument(c)
	if !ok {
		return
	}

	board, err := h.boardRepo.UpdateDocument(c.Request.Context(), c.Param("id"), user.UserID, doc)
	if err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update board"})
		return
	}

	resp, err := boardResponse(board)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read board document"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Rename changes the board name.
// @Summary      Rename a board
// @Tags         Boards
// @Accept       json
// @Produce      json
// @Param        id path string true "Board ID"
// @Param        request body RenameBoardRequest true "New name"
// @Success      200 {object} repository.BoardSummary
// @Failure      404 {object} map[string]string
// @Security     SessionCookie
// @Router       /boards/{id} [patch]
func (h *BoardHandler) Rename(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req RenameBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Board name is required"})
		return
	}

	board, err := h.boardRepo.Rename(c.Request.Context(), c.Param("id"), user.UserID, req.Name)
	if err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rename board"})
		return
	}

	c.JSON(http.StatusOK, repository.BoardSummary{
		ID:        board.ID,
		Name:      board.Name,
		CreatedAt: board.CreatedAt,
		UpdatedAt: board.UpdatedAt,
	})
}

// Delete removes an owned board. Deleting the sole remaining board is a
// conflict: every user keeps at least one board.
// @Summary      Delete a board
// @Tags         Boards
// @Produce      json
// @Param        id path string true "Board ID"
// @Success      200 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Security     SessionCookie
// @Router       /boards/{id} [delete]
func (h *BoardHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	removed, err := h.boardRepo.Delete(c.Request.Context(), c.Param("id"), user.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrLastBoard) {
			c.JSON(http.StatusConflict, gin.H{"error": "Cannot delete the last remaining board"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete board"})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetLegacy serves the single-board alias: the document of the caller's
// earliest-created board, created on the fly when the account has none.
// @Summary      Get the default board document
// @Tags         Boards
// @Produce      json
// @Success      200 {object} model.Document
// @Security     SessionCookie
// @Router       /board [get]
func (h *BoardHandler) GetLegacy(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	board, err := h.boardRepo.DefaultForUser(c.Request.Context(), user.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load board"})
		return
	}

	doc, err := board.Document()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read board document"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// PutLegacy validates and writes a document to the caller's earliest-created
// board.
// @Summary      Replace the default board document
// @Tags         Boards
// @Accept       json
// @Produce      json
// @Param        request body model.Document true "Board document"
// @Success      200 {object} model.Document
// @Failure      422 {object} map[string]string
// @Security     SessionCookie
// @Router       /board [put]
func (h *BoardHandler) PutLegacy(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	doc, ok := bindDocument(c)
	if !ok {
		return
	}

	board, err := h.boardRepo.DefaultForUser(c.Request.Context(), user.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load board"})
		return
	}

	if _, err := h.boardRepo.UpdateDocument(c.Request.Context(), board.ID, user.UserID, doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update board"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// bindDocument parses and structurally validates a board document from the
// request body, writing a 422 on failure.
func bindDocument(c *gin.Context) (*model.Document, bool) {
	var doc model.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Malformed board document"})
		return nil, false
	}
	if err := doc.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return nil, false
	}
	return &doc, true
}
