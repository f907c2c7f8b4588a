package domain

import "errors"

var (
	ErrUnknownCandidate  = errors.New("unknown candidate")
	ErrInvalidPage       = errors.New("invalid page")
	ErrPageOutOfRange    = errors.New("page out of range")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionNotStarted = errors.New("session not started")
	ErrSessionCompleted  = errors.New("session already completed")
	ErrInvalidCatalog    = errors.New("invalid catalog")
	ErrAssetNotFound     = errors.New("asset not found")
)
