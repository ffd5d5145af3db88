package repository

import (
	"context"
	"errors"
	"time"

	"pmboard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BoardSummary is a board row without its document body.
type BoardSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BoardRepository struct {
	db *gorm.DB
}

type BoardRepositoryInterface interface {
	Create(ctx context.Context, userID, name string, doc *model.Document) (*model.Board, error)
	ListByOwner(ctx context.Context, userID string) ([]BoardSummary, error)
	Get(ctx context.Context, boardID, userID string) (*model.Board, error)
	UpdateDocument(ctx context.Context, boardID, userID string, doc *model.Document) (*model.Board, error)
	Rename(ctx context.Context, boardID, userID, name string) (*model.Board, error)
	Delete(ctx context.Context, boardID, userID string) (bool, error)
	DefaultForUser(ctx context.Context, userID string) (*model.Board, error)
}

var _ BoardRepositoryInterface = (*BoardRepository)(nil)

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

// Create inserts a new board for the user. A nil doc seeds the default
// template.
func (r *BoardRepository) Create(ctx context.Context, userID, name string, doc *model.Document) (*model.Board, error) {
	if doc == nil {
		doc = model.DefaultDocument()
	}

	board := &model.Board{
		ID:     "board-" + uuid.NewString(),
		UserID: userID,
		Name:   name,
	}
	if err := board.SetDocument(doc); err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Create(board).Error; err != nil {
		return nil, err
	}
	return board, nil
}

// ListByOwner returns the user's boards without document bodies, earliest
// created first.
func (r *BoardRepository) ListByOwner(ctx context.Context, userID string) ([]BoardSummary, error) {
	var summaries []BoardSummary
	err := r.db.WithContext(ctx).
		Model(&model.Board{}).
		Select("id", "name", "created_at", "updated_at").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// Get returns nil, nil when no board matches the (id, owner) pair. A board
// owned by someone else looks exactly like a board that does not exist.
func (r *BoardRepository) Get(ctx context.Context, boardID, userID string) (*model.Board, error) {
	var board model.Board
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", boardID, userID).
		First(&board).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// UpdateDocument replaces the board document wholesale. Last write wins;
// there is no version token, so concurrent writers can clobber each other.
func (r *BoardRepository) UpdateDocument(ctx context.Context, boardID, userID string, doc *model.Document) (*model.Board, error) {
	board, err := r.Get(ctx, boardID, userID)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, ErrBoardNotFound
	}

	if err := board.SetDocument(doc); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Save(board).Error; err != nil {
		return nil, err
	}
	return board, nil
}

func (r *BoardRepository) Rename(ctx context.Context, boardID, userID, name string) (*model.Board, error) {
	board, err := r.Get(ctx, boardID, userID)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, ErrBoardNotFound
	}

	board.Name = name
	if err := r.db.WithContext(ctx).Save(board).Error; err != nil {
		return nil, err
	}
	return board, nil
}

// Delete removes an owned board and reports whether a row was removed. A
// user must always keep at least one board, so deleting the sole remaining
// board fails with ErrLastBoard.
func (r *BoardRepository) Delete(ctx context.Context, boardID, userID string) (bool, error) {
	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var board model.Board
		err := tx.Where("id = ? AND user_id = ?", boardID, userID).First(&board).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&model.Board{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count <= 1 {
			return ErrLastBoard
		}

		result := tx.Where("id = ? AND user_id = ?", boardID, userID).Delete(&model.Board{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// DefaultForUser returns the user's earliest-created board, creating one
// from the default template if none exists. This is a repair-on-read path;
// two concurrent callers hitting an empty account can each create a board,
// which is accepted rather than guarded against.
func (r *BoardRepository) DefaultForUser(ctx context.Context, userID string) (*model.Board, error) {
	var board model.Board
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		First(&board).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.Create(ctx, userID, model.DefaultBoardName, nil)
	}
	if err != nil {
		return nil, err
	}
	return &board, nil
}
