package redis

import (
	"context"
	"errors"
	"fmt"
	"time"
	"tracker_collection/configs"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

var ErrNotConnected = errors.New("redis client not connected")

func ConnectRedis() {
	time.Sleep(time.Duration(configs.GetConfigs().WaitForRedisConnectionSec) * time.Second)
	redisClient = redis.NewClient(&redis.Options{
		Addr:     configs.GetConfigs().RedisUrl,
		Password: configs.GetConfigs().RedisPassword,
		DB:       0,
	})
	ctx := context.Background()
	pong, err := redisClient.Ping(ctx).Result()
	fmt.Println("====> [[TrackerCollection Redis Client:", pong, err, "]]")
}

func GetRedis(ctx context.Context, key string) (string, error) {
	if redisClient == nil {
		return "", ErrNotConnected
	}
	val, err := redisClient.Get(ctx, key).Result()
	return val, err
}

func SetRedis(ctx context.Context, key string, value interface{}, duration time.Duration) error {
	if redisClient == nil {
		return ErrNotConnected
	}
	err := redisClient.Set(ctx, key, value, duration).Err()
	return err
}

func DelRedis(ctx context.Context, keys ...string) error {
	if redisClient == nil {
		return ErrNotConnected
	}
	if len(keys) == 0 {
		return nil
	}
	err := redisClient.Del(ctx, keys...).Err()
	return err
}

// DelPatternRedis removes every key matching the glob pattern, walking the
// keyspace with SCAN to avoid blocking the server the way KEYS would.
func DelPatternRedis(ctx context.Context, pattern string) error {
	if redisClient == nil {
		return ErrNotConnected
	}

	iter := redisClient.Scan(ctx, 0, pattern, 100).Iterator()
	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		return redisClient.Del(ctx, keys...).Err()
	}
	return nil
}
