package domain

import "errors"

// Domain errors
var (
	ErrGameNotFound          = errors.New("game not found")
	ErrInProgressNoReconnect = errors.New("game in progress and no disconnected player matches")
	ErrPlayerNotFound        = errors.New("player not found")
	ErrEmptyName             = errors.New("name cannot be empty")
	ErrIllegalTransition     = errors.New("action not valid in current state")
	ErrClueNotFound          = errors.New("clue not found")
	ErrEmptyAnswer           = errors.New("answer cannot be empty")
	ErrInvalidBoard          = errors.New("invalid board")
	ErrContentGeneration     = errors.New("board content generation failed")
)
