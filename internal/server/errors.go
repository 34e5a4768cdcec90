package server

import "errors"

var (
	errGameNotFound      = errors.New("game not found")
	errPlayerNotFound    = errors.New("player not found")
	errGameStarted       = errors.New("game already started")
	errHostOnly          = errors.New("only the host can do that")
	errNotAllReady       = errors.New("all players must be ready")
	errUnknownActionType = errors.New("unknown action type")
)
