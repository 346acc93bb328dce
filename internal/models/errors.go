package models

import "errors"

// Custom errors
var (
	// ErrNotFound indicates a requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInputUnavailable indicates a provider was unreachable or returned
	// malformed data; the run aborts with stores untouched.
	ErrInputUnavailable = errors.New("input unavailable")
	// ErrUnresolvableGame indicates a single game whose favorite/underdog
	// identity cannot be resolved; the game is skipped, never the week.
	ErrUnresolvableGame = errors.New("unresolvable game")
	// ErrNoGradableData indicates a calibration window containing no
	// non-push graded rows; reported, nothing is written.
	ErrNoGradableData = errors.New("no gradable data in window")
)
