package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"syndicate_armory/internal/models"

	"github.com/go-redis/redis/v8"
)

var ErrCacheMiss = errors.New("order not cached")

// Client caches tracking lookups keyed by the normalized tracking code.
type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

func (c *Client) SetOrder(trackingID string, order *models.Order, ttl time.Duration) error {
	ctx := context.Background()
	jsonData, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	return c.rdb.Set(ctx, "order:"+trackingID, jsonData, ttl).Err()
}

func (c *Client) GetOrder(trackingID string) (*models.Order, error) {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, "order:"+trackingID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get cached order: %w", err)
	}

	var order models.Order
	if err := json.Unmarshal([]byte(val), &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached order: %w", err)
	}

	return &order, nil
}

func (c *Client) InvalidateOrder(trackingID string) error {
	ctx := context.Background()
	return c.rdb.Del(ctx, "order:"+trackingID).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
