package mutex

import (
	"fmt"
	"github.com/go-redis/redis"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis"
	"time"
)

const (
	flightLockExpiration = time.Minute * 5
	statusLockExpiration = time.Minute
	flightKeyPattern     = "flight:%v"
	statusKeyPattern     = "status:%v"
)

type Builder struct {
	rs *redsync.Redsync
}

func NewBuilder(address string) *Builder {
	client := redis.NewClient(&redis.Options{Addr: address})
	pool := goredis.NewPool(client)
	rs := redsync.New(pool)
	return &Builder{rs: rs}
}

// Flight serializes milestone processing of a single tracked flight.
func (c *Builder) Flight(id int64) *redsync.Mutex {
	key := fmt.Sprintf(flightKeyPattern, id)
	return c.rs.NewMutex(key, redsync.WithExpiry(flightLockExpiration))
}

// StatusChat serializes edits of a chat's live status message, so a
// command-triggered refresh never interleaves with the background loop.
func (c *Builder) StatusChat(chatId int64) *redsync.Mutex {
	key := fmt.Sprintf(statusKeyPattern, chatId)
	return c.rs.NewMutex(key, redsync.WithExpiry(statusLockExpiration))
}
