package handler_test

import (
	"context"

	"pmboard/internal/model"
	"pmboard/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateDisplayName(ctx context.Context, id, displayName string) (*model.User, error) {
	args := m.Called(ctx, id, displayName)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

type MockBoardRepository struct {
	mock.Mock
}

func (m *MockBoardRepository) Create(ctx context.Context, userID, name string, doc *model.Document) (*model.Board, error) {
	args := m.Called(ctx, userID, name, doc)
	board := args.Get(0)
	if board == nil {
		return nil, args.Error(1)
	}
	return board.(*model.Board), args.Error(1)
}

func (m *MockBoardRepository) ListByOwner(ctx context.Context, userID string) ([]repository.BoardSummary, error) {
	args := m.Called(ctx, userID)
	summaries := args.Get(0)
	if summaries == nil {
		return nil, args.Error(1)
	}
	return summaries.([]repository.BoardSummary), args.Error(1)
}

func (m *MockBoardRepository) Get(ctx context.Context, boardID, userID string) (*model.Board, error) {
	args := m.Called(ctx, boardID, userID)
	board := args.Get(0)
	if board == nil {
		return nil, args.Error(1)
	}
	return board.(*model.Board), args.Error(1)
}

func (m *MockBoardRepository) UpdateDocument(ctx context.Context, boardID, userID string, doc *model.Document) (*model.Board, error) {
	args := m.Called(ctx, boardID, userID, doc)
	board := args.Get(0)
	if board == nil {
		return nil, args.Error(1)
	}
	return board.(*model.Board), args.Error(1)
}

func (m *MockBoardRepository) Rename(ctx context.Context, boardID, userID, name string) (*model.Board, error) {
	args := m.Called(ctx, boardID, userID, name)
	board := args.Get(0)
	if board == nil {
		return nil, args.Error(1)
	}
	return board.(*model.Board), args.Error(1)
}

func (m *MockBoardRepository) Delete(ctx context.Context, boardID, userID string) (bool, error) {
	args := m.Called(ctx, boardID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBoardRepository) DefaultForUser(ctx context.Context, userID string) (*model.Board, error) {
	args := m.Called(ctx, userID)
	board := args.Get(0)
	if board == nil {
		return nil, args.Error(1)
	}
	return board.(*model.Board), args.Error(1)
}
