package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"githubActivityFeed/internal/logger"
	"githubActivityFeed/internal/model"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	eventKeyPrefix = "event:"
	cacheKeysList  = "event_cache_keys"
	aggKeyPrefix   = "events:agg:"
	cachedEvents   = 10
)

var ErrNotFound = errors.New("event not found")

type RepoInterface interface {
	Save(ctx context.Context, e *model.Event) error
	GetEventById(ctx context.Context, id string) (*model.Event, error)
	GetAllEvents(ctx context.Context) ([]model.Event, error)
	GetAggJson(ctx context.Context, key string) ([]byte, bool, error)
	SetAggJson(ctx context.Context, key string, data []byte, ttl time.Duration) error
	ClearAgg(ctx context.Context) error
}

type Repo struct {
	db   *sql.DB
	Rdb  *redis.Client
	keep int
}

// NewRepo keeps the newest keep events in sqlite.
func NewRepo(db *sql.DB, Rdb *redis.Client, keep int) *Repo {
	return &Repo{db: db, Rdb: Rdb, keep: keep}
}

func (r *Repo) SetAggJson(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return r.Rdb.Set(ctx, aggKeyPrefix+key, data, ttl).Err()
}

func (r *Repo) GetAggJson(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.Rdb.Get(ctx, aggKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// ClearAgg drops every cached feed so the next read renders fresh events.
func (r *Repo) ClearAgg(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := r.Rdb.Scan(ctx, cursor, aggKeyPrefix+"*", 100).Result()
		if err != nil {
			return errors.Wrap(err, "redis scan")
		}
		if len(keys) > 0 {
			if err := r.Rdb.Del(ctx, keys...).Err(); err != nil {
				return errors.Wrap(err, "redis del")
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// GetAllEvents returns the stored events, newest first.
func (r *Repo) GetAllEvents(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, actor, avatar_url, repo, created_at, payload
		FROM events ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate events")
	}
	logger.Lg.Debug("events_loaded", zap.Int("count", len(events)))
	return events, nil
}

func (r *Repo) GetEventById(ctx context.Context, id string) (*model.Event, error) {
	cachekey := eventKeyPrefix + id

	val, err := r.Rdb.Get(ctx, cachekey).Bytes()
	if err == nil {
		var e model.Event
		if err := json.Unmarshal(val, &e); err == nil {
			return &e, nil
		}
		logger.Lg.Warn("cached event unreadable", zap.String("id", id))
	} else if err != redis.Nil {
		logger.Lg.Warn("redis get", zap.String("id", id), zap.Error(err))
	}

	row := r.db.QueryRowContext(ctx, `
			SELECT id, type, actor, avatar_url, repo, created_at, payload
			FROM events WHERE id = ?`, id)
	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrap(ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(event)
	if err != nil {
		logger.Lg.Warn("event marshal", zap.String("id", id), zap.Error(err))
		return event, nil
	}
	if err := r.Rdb.Set(ctx, cachekey, data, 0).Err(); err != nil {
		logger.Lg.Warn("redis set", zap.String("id", id), zap.Error(err))
	}
	return event, nil
}

func (r *Repo) Save(ctx context.Context, e *model.Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO events
		(id, type, actor, avatar_url, repo, created_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Type, e.Actor.Login, e.Actor.AvatarURL, e.Repo.Name, e.CreatedAt, string(e.Payload),
	)
	if err != nil {
		return errors.Wrapf(err, "save event %s", e.ID)
	}
	_, err = r.db.ExecContext(ctx, `
		DELETE FROM events
		WHERE id NOT IN (
			SELECT id FROM events
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		)`, r.keep)
	if err != nil {
		return errors.Wrap(err, "trim events")
	}

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	pipe := r.Rdb.TxPipeline()
	pipe.Set(ctx, eventKeyPrefix+e.ID, data, 0)
	pipe.LRem(ctx, cacheKeysList, 0, e.ID)
	pipe.LPush(ctx, cacheKeysList, e.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "cache event")
	}

	// evict older keys
	stale, err := r.Rdb.LRange(ctx, cacheKeysList, cachedEvents, -1).Result()
	if err != nil {
		return errors.Wrap(err, "list cached events")
	}
	for _, k := range stale {
		r.Rdb.Del(ctx, eventKeyPrefix+k)
	}
	return r.Rdb.LTrim(ctx, cacheKeysList, 0, cachedEvents-1).Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(s scanner) (*model.Event, error) {
	var (
		e                   model.Event
		actor, avatar, repo sql.NullString
		created, payload    sql.NullString
	)
	if err := s.Scan(&e.ID, &e.Type, &actor, &avatar, &repo, &created, &payload); err != nil {
		return nil, err
	}
	e.Actor.Login = actor.String
	e.Actor.AvatarURL = avatar.String
	e.Repo.Name = repo.String
	e.CreatedAt = created.String
	if payload.String != "" {
		e.Payload = json.RawMessage(payload.String)
	}
	return &e, nil
}
