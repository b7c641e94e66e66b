package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"stockbooks/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Item caching
	GetItem(ctx context.Context, tenantID, itemID uuid.UUID) (*models.Item, error)
	SetItem(ctx context.Context, tenantID uuid.UUID, item *models.Item, ttl time.Duration) error
	DeleteItem(ctx context.Context, tenantID, itemID uuid.UUID) error

	// Stock level caching
	GetStock(ctx context.Context, tenantID, warehouseID, itemID uuid.UUID) (int64, bool, error)
	SetStock(ctx context.Context, tenantID, warehouseID, itemID uuid.UUID, stock int64, ttl time.Duration) error
	DeleteStock(ctx context.Context, tenantID, warehouseID, itemID uuid.UUID) error

	// Dashboard analytics caching
	GetDashboard(ctx context.Context, tenantID uuid.UUID) (map[string]interface{}, error)
	SetDashboard(ctx context.Context, tenantID uuid.UUID, dashboard map[string]interface{}, ttl time.Duration) error
	DeleteDashboard(ctx context.Context, tenantID uuid.UUID) error

	// Cache invalidation
	InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// Generic string operations for refresh token management
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetItem(ctx context.Context, tenantID, itemID uuid.UUID) (*models.Item, error) {
	key := fmt.Sprintf("stockbooks:item:%s:%s", tenantID.String(), itemID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var item models.Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *redisCacheService) SetItem(ctx context.Context, tenantID uuid.UUID, item *models.Item, ttl time.Duration) error {
	key := fmt.Sprintf("stockbooks:item:%s:%s", tenantID.String(), item.ID.String())
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteItem(ctx context.Context, tenantID, itemID uuid.UUID) error {
	key := fmt.Sprintf("stockbooks:item:%s:%s", tenantID.String(), itemID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetStock(ctx context.Context, tenantID, warehouseID, itemID uuid.UUID) (int64, bool, error) {
	key := fmt.Sprintf("stockbooks:stock:%s:%s:%s", tenantID.String(), warehouseID.String(), itemID.String())
	val, err := r.client.Get(ctx, key).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, false, nil // cache miss
		}
		return 0, false, err
	}
	return val, true, nil
}

func (r *redisCacheService) SetStock(ctx context.Context, tenantID, warehouseID, itemID uuid.UUID, stock int64, ttl time.Duration) error {
	key := fmt.Sprintf("stockbooks:stock:%s:%s:%s", tenantID.String(), warehouseID.String(), itemID.String())
	return r.client.Set(ctx, key, stock, ttl).Err()
}

func (r *redisCacheService) DeleteStock(ctx context.Context, tenantID, warehouseID, itemID uuid.UUID) error {
	key := fmt.Sprintf("stockbooks:stock:%s:%s:%s", tenantID.String(), warehouseID.String(), itemID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetDashboard(ctx context.Context, tenantID uuid.UUID) (map[string]interface{}, error) {
	key := fmt.Sprintf("stockbooks:dashboard:%s", tenantID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var dashboard map[string]interface{}
	if err := json.Unmarshal(data, &dashboard); err != nil {
		return nil, err
	}
	return dashboard, nil
}

func (r *redisCacheService) SetDashboard(ctx context.Context, tenantID uuid.UUID, dashboard map[string]interface{}, ttl time.Duration) error {
	key := fmt.Sprintf("stockbooks:dashboard:%s", tenantID.String())
	data, err := json.Marshal(dashboard)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteDashboard(ctx context.Context, tenantID uuid.UUID) error {
	key := fmt.Sprintf("stockbooks:dashboard:%s", tenantID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error {
	pattern := fmt.Sprintf("stockbooks:*%s*", tenantID.String())
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("stockbooks:ratelimit:%s", key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return true, err
	}

	// Set expiry on first request
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
