package config

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

var (
	rdb    *redis.Client
	locker *redislock.Client
)

var redisCtx = context.Background()

func GetRedisDB() *redis.Client {
	return rdb
}

func GetRedisLock() *redislock.Client {
	return locker
}

// ConnectRedis dials redis using REDIS_URL. Redis is optional: when the
// connection fails the helpers below degrade to no-ops and sequence
// allocation falls back to DB scans.
func ConnectRedis() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if err := client.Ping(redisCtx).Err(); err != nil {
		log.Printf("redis unavailable at %s: %v", redisURL, err)
		return
	}
	rdb = client
	locker = redislock.New(client)
}

func GetRedisObject(key string, dest interface{}) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	val, err := rdb.Get(redisCtx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	err = json.Unmarshal([]byte(val), &dest)
	if err != nil {
		return false, err
	}
	return true, nil
}

func SetRedisObject(key string, obj interface{}, exp time.Duration) error {
	if rdb == nil {
		return nil
	}
	objInByte, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	if err = rdb.Set(redisCtx, key, objInByte, exp).Err(); err != nil {
		return err
	}
	return nil
}

func DeleteRedisKey(key string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Del(redisCtx, key).Err()
}

// GetRedisCounter atomically increments and returns the named counter.
func GetRedisCounter(ctx context.Context, key string) (int64, error) {
	if rdb == nil {
		return 0, redis.Nil
	}
	return rdb.Incr(ctx, key).Result()
}

// SetRedisCounter overwrites the named counter, used when seeding from the DB.
func SetRedisCounter(ctx context.Context, key string, value int64) error {
	if rdb == nil {
		return nil
	}
	return rdb.Set(ctx, key, value, 0).Err()
}
