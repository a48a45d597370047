package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const explanationKeyPrefix = "bitlab:ai:explain:"

// AICacheRepository 缓存题目讲解，同一题目同一描述不重复调用大模型
type AICacheRepository struct {
	Redis *redis.Client
}

func NewAICacheRepository(rdb *redis.Client) *AICacheRepository {
	return &AICacheRepository{Redis: rdb}
}

func explanationKey(taskID uint, description string) string {
	sum := sha256.Sum256([]byte(description))
	return explanationKeyPrefix + strconv.FormatUint(uint64(taskID), 10) + ":" + hex.EncodeToString(sum[:8])
}

// GetExplanation 未命中时 found=false, err=nil
func (r *AICacheRepository) GetExplanation(ctx context.Context, taskID uint, description string) (string, bool, error) {
	val, err := r.Redis.Get(ctx, explanationKey(taskID, description)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *AICacheRepository) SetExplanation(ctx context.Context, taskID uint, description, explanation string, ttl time.Duration) error {
	return r.Redis.Set(ctx, explanationKey(taskID, description), explanation, ttl).Err()
}
