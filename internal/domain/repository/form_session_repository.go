package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jrjohn/arcana-onboarding-go/internal/domain/entity"
)

// ErrSessionNotFound is returned when no live session has the given ID
var ErrSessionNotFound = errors.New("form session not found")

// ErrSessionBusy is returned when a write hits a session whose busy flag is held
var ErrSessionBusy = errors.New("form session is busy")

// FormSessionRepository stores open registration forms and their busy flags
type FormSessionRepository interface {
	// Create stores a new session
	Create(ctx context.Context, session *entity.FormSession) error

	// Get retrieves a session by ID, with Busy reflecting the current flag
	Get(ctx context.Context, id string) (*entity.FormSession, error)

	// Save overwrites an existing session. It fails with ErrSessionBusy while the busy flag is held.
	Save(ctx context.Context, session *entity.FormSession) error

	// SaveAndReleaseBusy overwrites an existing session and clears its busy flag in one step.
	// Only the holder of the flag may call it.
	SaveAndReleaseBusy(ctx context.Context, session *entity.FormSession) error

	// Delete removes a session and its busy flag
	Delete(ctx context.Context, id string) error

	// TryAcquireBusy sets the busy flag. It returns false when the flag was already set.
	TryAcquireBusy(ctx context.Context, id string) (bool, error)

	// ReleaseBusy clears the busy flag
	ReleaseBusy(ctx context.Context, id string) error

	// PurgeExpired removes sessions idle for longer than ttl and returns how many were removed
	PurgeExpired(ctx context.Context, ttl time.Duration) (int, error)
}
