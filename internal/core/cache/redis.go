package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache 是可选组件：nil *Cache 时所有方法直接回源
type Cache struct {
	RDB    *redis.Client
	Prefix string
	sf     singleflight.Group
}

func New(addr, pass string, db int) *Cache {
	return &Cache{
		RDB:    redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		Prefix: "catalog:",
	}
}

// 代数 key 不落在数据前缀下，InvalidatePrefix 扫描不到它们
const genTTL = 24 * time.Hour

var errStale = errors.New("cache: key invalidated during load")

func (c *Cache) key(k string) string    { return c.Prefix + k }
func (c *Cache) genKey(k string) string { return c.Prefix + "gen:" + k }

func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.RDB.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.RDB.Close()
}

// GetOrLoad 回源前记下 key 的代数；回源期间若被 Invalidate（代数变化），结果照常返回但不写缓存
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if c == nil {
		return load(ctx)
	}
	full := c.key(key)
	// 先读缓存
	if b, err := c.RDB.Get(ctx, full).Bytes(); err == nil {
		return b, nil
	}
	// single flight 合并回源
	v, err, _ := c.sf.Do(full, func() (any, error) {
		gen, err := c.generation(ctx, c.RDB, key)
		if err != nil {
			gen = -1
		}
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		if gen >= 0 {
			_ = c.setIfGeneration(ctx, key, gen, b, ttl)
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (c *Cache) generation(ctx context.Context, cmd getter, key string) (int64, error) {
	n, err := cmd.Get(ctx, c.genKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// setIfGeneration WATCH 代数 key，代数未变才写入
func (c *Cache) setIfGeneration(ctx context.Context, key string, gen int64, b []byte, ttl time.Duration) error {
	gk := c.genKey(key)
	return c.RDB.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := c.generation(ctx, tx, key)
		if err != nil {
			return err
		}
		if cur != gen {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, c.key(key), b, ttl)
			return nil
		})
		return err
	}, gk)
}

// Invalidate 写操作提交之后调用：代数加一并删除 key，正在回源的旧结果不会再写回。
// 缓存失败不影响主流程，由调用方决定是否记录
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}
	_, err := c.RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, k := range keys {
			p.Incr(ctx, c.genKey(k))
			p.Expire(ctx, c.genKey(k), genTTL)
			p.Del(ctx, c.key(k))
		}
		return nil
	})
	return err
}

// InvalidatePrefix 用 SCAN 删除某前缀下的全部 key（种子数据重置时用）
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) error {
	if c == nil {
		return nil
	}
	iter := c.RDB.Scan(ctx, 0, c.key(prefix)+"*", 200).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 200 {
			if err := c.RDB.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return c.RDB.Del(ctx, batch...).Err()
	}
	return nil
}

func GetOrLoadJSON[T any](
	c *Cache,
	ctx context.Context,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (*T, error),
) (*T, error) {
	if c == nil {
		return load(ctx)
	}
	b, err := c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, e := load(ctx)
		if e != nil {
			return nil, e
		}
		return json.Marshal(v)
	})
	if err != nil {
		return nil, err
	}
	var out T
	if e := json.Unmarshal(b, &out); e != nil {
		return nil, e
	}
	return &out, nil
}
