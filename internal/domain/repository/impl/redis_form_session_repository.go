package impl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jrjohn/arcana-onboarding-go/internal/domain/entity"
	"github.com/jrjohn/arcana-onboarding-go/internal/domain/repository"
)

const (
	formSessionKeyPrefix = "onboarding:form:"
	formBusyKeyPrefix    = "onboarding:form:busy:"
)

// KEYS[1] session, KEYS[2] busy flag; ARGV[1] payload, ARGV[2] ttl in ms.
// Returns 1 when stored, 0 when the session is gone, -1 when the flag is held.
var saveIfIdleScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[2]) == 1 then
	return -1
end
if redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2], "XX") then
	return 1
end
return 0
`)

// Same keys and arguments as saveIfIdleScript; the flag is always cleared.
var saveAndReleaseScript = redis.NewScript(`
local stored = redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2], "XX")
redis.call("DEL", KEYS[2])
if stored then
	return 1
end
return 0
`)

// RedisFormSessionRepository stores form sessions in Redis so any instance can serve a form.
// Sessions expire through key TTLs; the busy flag is a SETNX key.
type RedisFormSessionRepository struct {
	client  redis.UniversalClient
	ttl     time.Duration
	busyTTL time.Duration
}

// NewRedisFormSessionRepository creates a Redis-backed store.
// busyTTL bounds how long a crashed instance can leave a form marked busy.
func NewRedisFormSessionRepository(client redis.UniversalClient, ttl, busyTTL time.Duration) *RedisFormSessionRepository {
	return &RedisFormSessionRepository{
		client:  client,
		ttl:     ttl,
		busyTTL: busyTTL,
	}
}

func sessionKey(id string) string {
	return formSessionKeyPrefix + id
}

func busyKey(id string) string {
	return formBusyKeyPrefix + id
}

func (r *RedisFormSessionRepository) Create(ctx context.Context, session *entity.FormSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode form session: %w", err)
	}
	return r.client.Set(ctx, sessionKey(session.ID), data, r.ttl).Err()
}

func (r *RedisFormSessionRepository) Get(ctx context.Context, id string) (*entity.FormSession, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrSessionNotFound
		}
		return nil, err
	}

	var session entity.FormSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode form session: %w", err)
	}
	if session.Errors == nil {
		session.Errors = entity.FieldErrors{}
	}

	busy, err := r.client.Exists(ctx, busyKey(id)).Result()
	if err != nil {
		return nil, err
	}
	session.Busy = busy > 0

	return &session, nil
}

func (r *RedisFormSessionRepository) Save(ctx context.Context, session *entity.FormSession) error {
	return r.runSave(ctx, saveIfIdleScript, session)
}

func (r *RedisFormSessionRepository) SaveAndReleaseBusy(ctx context.Context, session *entity.FormSession) error {
	return r.runSave(ctx, saveAndReleaseScript, session)
}

func (r *RedisFormSessionRepository) runSave(ctx context.Context, script *redis.Script, session *entity.FormSession) error {
	stored := session.Clone()
	stored.Busy = false

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode form session: %w", err)
	}

	keys := []string{sessionKey(session.ID), busyKey(session.ID)}
	result, err := script.Run(ctx, r.client, keys, data, r.ttl.Milliseconds()).Int()
	if err != nil {
		return err
	}
	switch result {
	case 1:
		return nil
	case -1:
		return repository.ErrSessionBusy
	default:
		return repository.ErrSessionNotFound
	}
}

func (r *RedisFormSessionRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKey(id), busyKey(id)).Err()
}

func (r *RedisFormSessionRepository) TryAcquireBusy(ctx context.Context, id string) (bool, error) {
	exists, err := r.client.Exists(ctx, sessionKey(id)).Result()
	if err != nil {
		return false, err
	}
	if exists == 0 {
		return false, repository.ErrSessionNotFound
	}
	return r.client.SetNX(ctx, busyKey(id), "1", r.busyTTL).Result()
}

func (r *RedisFormSessionRepository) ReleaseBusy(ctx context.Context, id string) error {
	return r.client.Del(ctx, busyKey(id)).Err()
}

// PurgeExpired is a no-op: Redis expires idle sessions on its own
func (r *RedisFormSessionRepository) PurgeExpired(_ context.Context, _ time.Duration) (int, error) {
	return 0, nil
}
