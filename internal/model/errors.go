package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound  = errors.New("player not found")
	ErrSessionNotFound = errors.New("session not found")

	// Mark and difficulty errors
	ErrInvalidMark       = errors.New("invalid mark")
	ErrInvalidMarks      = errors.New("engine and opponent marks must be distinct X and O")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrInvalidStrategy   = errors.New("invalid strategy")

	// Game errors
	ErrGameNotFound    = errors.New("game not found")
	ErrNotGameOwner    = errors.New("player does not own this game")
	ErrNotPlayerTurn   = errors.New("not this player's turn")
	ErrInvalidCell     = errors.New("invalid board cell")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrRoundComplete   = errors.New("round is already complete")
	ErrRoundInProgress = errors.New("round is in progress")

	// Engine errors
	ErrNoLegalMoves = errors.New("no legal moves")
)
