package impl

import (
	"context"
	"sync"
	"time"

	"github.com/jrjohn/arcana-onboarding-go/internal/domain/entity"
	"github.com/jrjohn/arcana-onboarding-go/internal/domain/repository"
)

type memorySession struct {
	session *entity.FormSession
	busy    bool
}

// MemoryFormSessionRepository keeps form sessions in process memory
type MemoryFormSessionRepository struct {
	sessions map[string]*memorySession
	mutex    sync.Mutex
	now      func() time.Time
}

// NewMemoryFormSessionRepository creates an empty in-memory store
func NewMemoryFormSessionRepository() *MemoryFormSessionRepository {
	return &MemoryFormSessionRepository{
		sessions: make(map[string]*memorySession),
		now:      time.Now,
	}
}

func (r *MemoryFormSessionRepository) Create(_ context.Context, session *entity.FormSession) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.sessions[session.ID] = &memorySession{session: session.Clone()}
	return nil
}

func (r *MemoryFormSessionRepository) Get(_ context.Context, id string) (*entity.FormSession, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	session := stored.session.Clone()
	session.Busy = stored.busy
	return session, nil
}

func (r *MemoryFormSessionRepository) Save(_ context.Context, session *entity.FormSession) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored, ok := r.sessions[session.ID]
	if !ok {
		return repository.ErrSessionNotFound
	}
	if stored.busy {
		return repository.ErrSessionBusy
	}
	stored.session = session.Clone()
	return nil
}

func (r *MemoryFormSessionRepository) SaveAndReleaseBusy(_ context.Context, session *entity.FormSession) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored, ok := r.sessions[session.ID]
	if !ok {
		return repository.ErrSessionNotFound
	}
	stored.session = session.Clone()
	stored.busy = false
	return nil
}

func (r *MemoryFormSessionRepository) Delete(_ context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.sessions, id)
	return nil
}

func (r *MemoryFormSessionRepository) TryAcquireBusy(_ context.Context, id string) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored, ok := r.sessions[id]
	if !ok {
		return false, repository.ErrSessionNotFound
	}
	if stored.busy {
		return false, nil
	}
	stored.busy = true
	return true, nil
}

func (r *MemoryFormSessionRepository) ReleaseBusy(_ context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if stored, ok := r.sessions[id]; ok {
		stored.busy = false
	}
	return nil
}

func (r *MemoryFormSessionRepository) PurgeExpired(_ context.Context, ttl time.Duration) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := r.now()
	purged := 0
	for id, stored := range r.sessions {
		// never pull a session out from under an in-flight submission
		if stored.busy {
			continue
		}
		if stored.session.IsExpired(ttl, now) {
			delete(r.sessions, id)
			purged++
		}
	}
	return purged, nil
}

// Len returns the number of stored sessions
func (r *MemoryFormSessionRepository) Len() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.sessions)
}
