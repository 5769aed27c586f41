package utils

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"bitbucket.org/montealto-academy/academy_backend/config"
	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

var seqMutex sync.Mutex

// NextYearSequence allocates the next value of model T's yearly sequence.
// The counter lives in redis, seeded from MAX(sequence_no) of the year's rows
// on first use; before a value is handed out it is re-checked against the DB
// and the loop advances past any value already taken. A redislock mutex keeps
// instances from racing each other; the local mutex covers goroutines within
// one instance.
func NextYearSequence[T any](ctx context.Context, year int) (int64, error) {
	seqMutex.Lock()
	defer seqMutex.Unlock()

	cacheKey := fmt.Sprintf("%s_seq_%d", strings.ToLower(GetTypeName[T]()), year)

	if locker := config.GetRedisLock(); locker != nil {
		lock, err := locker.Obtain(ctx, cacheKey+"_lock", 5*time.Second, &redislock.Options{
			RetryStrategy: redislock.LinearBackoff(100 * time.Millisecond),
		})
		if err == nil {
			defer lock.Release(ctx)
		}
	}

	var seqNo int64
	var err error
	for {
		seqNo, err = config.GetRedisCounter(ctx, cacheKey)
		if err == redis.Nil {
			// redis down: fall back to a plain DB scan. This keeps the
			// legacy read-then-increment behavior; the unique index on the
			// generated identifier still catches a lost race.
			return maxDBSequence[T](ctx, year) + 1, nil
		}
		if err != nil {
			return 0, err
		}
		// fresh counter: seed from the DB's high-water mark
		if seqNo == 1 {
			dbSeq := maxDBSequence[T](ctx, year)
			if dbSeq >= seqNo {
				seqNo = dbSeq + 1
				if err := config.SetRedisCounter(ctx, cacheKey, seqNo); err != nil {
					return 0, err
				}
			}
		}
		// skip values already persisted (counter drift after restores)
		taken, err := ResourceCountWhere[T](ctx, "sequence_year = ? AND sequence_no = ?", year, seqNo)
		if err != nil {
			return 0, err
		}
		if taken == 0 {
			return seqNo, nil
		}
	}
}

func maxDBSequence[T any](ctx context.Context, year int) int64 {
	var model T
	var dbSeq *int64
	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&model).Select("max(sequence_no)").
		Where("sequence_year = ?", year).
		Scan(&dbSeq).Error; err != nil {
		return 0
	}
	if dbSeq == nil {
		return 0
	}
	return *dbSeq
}
