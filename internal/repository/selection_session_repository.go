package repository

import (
	"bitlab_backend/internal/model"
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

const selectionSessionKeyPrefix = "bitlab:selection:session:"

// SelectionSessionRepository 快速练习会话存 Redis（JSON + TTL）
type SelectionSessionRepository struct {
	Redis *redis.Client
}

func NewSelectionSessionRepository(rdb *redis.Client) *SelectionSessionRepository {
	return &SelectionSessionRepository{Redis: rdb}
}

func selectionSessionKey(id string) string {
	return selectionSessionKeyPrefix + id
}

func (r *SelectionSessionRepository) Save(ctx context.Context, session *model.SelectionSession, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.Redis.Set(ctx, selectionSessionKey(session.ID), data, ttl).Err()
}

// Find 会话不存在或已过期时返回 redis.Nil
func (r *SelectionSessionRepository) Find(ctx context.Context, id string) (*model.SelectionSession, error) {
	val, err := r.Redis.Get(ctx, selectionSessionKey(id)).Bytes()
	if err != nil {
		return nil, err
	}
	var session model.SelectionSession
	if err := json.Unmarshal(val, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Update 乐观锁读改写：WATCH 期间会话被其他请求修改时返回 redis.TxFailedErr，
// fn 返回错误时不写回。每次写回都会刷新 TTL。
func (r *SelectionSessionRepository) Update(ctx context.Context, id string, ttl time.Duration, fn func(*model.SelectionSession) error) (*model.SelectionSession, error) {
	key := selectionSessionKey(id)
	var session model.SelectionSession

	err := r.Redis.Watch(ctx, func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			return err
		}
		if err := json.Unmarshal(val, &session); err != nil {
			return err
		}
		if err := fn(&session); err != nil {
			return err
		}
		data, err := json.Marshal(&session)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, ttl)
			return nil
		})
		return err
	}, key)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SelectionSessionRepository) Delete(ctx context.Context, id string) error {
	return r.Redis.Del(ctx, selectionSessionKey(id)).Err()
}
