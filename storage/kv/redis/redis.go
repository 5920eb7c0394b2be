// Package redisrepos keeps repositories as JSON documents in redis.
package redisrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
)

const maxTxRetries = 10

// Open connects to redis and checks the connection.
func Open(ctx context.Context, addr string, db int) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return rdb, nil
}

// update runs fn under WATCH on key, retrying when another client changed the key meanwhile.
func update(ctx context.Context, rdb *goredis.Client, key string, fn func(tx *goredis.Tx) error) error {
	for i := 0; i < maxTxRetries; i++ {
		err := rdb.Watch(ctx, fn, key)
		if err != goredis.TxFailedErr {
			return err
		}
	}
	return errors.Errorf("updating %s: too many concurrent writes", key)
}
