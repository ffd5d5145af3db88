package repository

import "errors"

// Common repository errors
var (
	// ErrUsernameTaken is returned when the username uniqueness constraint fires
	ErrUsernameTaken = errors.New("username already taken")

	// ErrBoardNotFound is returned when no board matches the (id, owner) pair
	ErrBoardNotFound = errors.New("board not found")

	// ErrLastBoard is returned when deleting would leave the user with no boards
	ErrLastBoard = errors.New("cannot delete the last remaining board")
)
