package store

import (
	"errors"

	"github.com/Werneck0live/crm-patrocinio/internal/repository"
)

var (
	// ErrNotFound é o mesmo sentinela do gateway; update/delete de id inexistente.
	ErrNotFound          = repository.ErrNotFound
	ErrValidation        = errors.New("validation failed")
	ErrDuplicateRelation = errors.New("company already linked to this event")
	ErrLoadTimeout       = errors.New("bootstrap load timed out")
	ErrClosed            = errors.New("store closed")
)
