package querycache

import (
	"context"
	"fmt"
	"time"

	"github.com/startdusk/activerecord"

	cache "github.com/patrickmn/go-cache"
)

// MiddlewareBuilder 给SELECT结果挂一层进程内TTL缓存
// key是SQL文本加参数, 同一条查询在TTL内只会打到数据库一次
// 注意: 缓存里存的是物化结果本身, 命中方拿到的是同一份对象,
// 拿去改字段会互相污染, 只适合读多写少的只读场景
type MiddlewareBuilder struct {
	cache *cache.Cache
}

func NewMiddlewareBuilder(ttl time.Duration, cleanupInterval time.Duration) *MiddlewareBuilder {
	return &MiddlewareBuilder{
		cache: cache.New(ttl, cleanupInterval),
	}
}

func (m *MiddlewareBuilder) Build() activerecord.Middleware {
	return func(next activerecord.Handler) activerecord.Handler {
		return func(ctx context.Context, qc *activerecord.QueryContext) *activerecord.QueryResult {
			// 只缓存SELECT, 写语句缓存了就是事故
			if qc.Type != "SELECT" {
				return next(ctx, qc)
			}
			// 只认物化的多行形态
			// 流是一次性的游标, 缓存流(或者拿缓存应付流式请求)都等于丢数据
			switch qc.Disposition {
			case activerecord.DispositionAll, activerecord.DispositionAllLean:
			default:
				return next(ctx, qc)
			}
			q, err := qc.Builder.Build()
			if err != nil {
				return &activerecord.QueryResult{
					Err: err,
				}
			}

			key := cacheKey(qc.Disposition, q)
			if val, ok := m.cache.Get(key); ok {
				return &activerecord.QueryResult{
					Result: val,
				}
			}

			res := next(ctx, qc)
			if res.Err == nil {
				m.cache.Set(key, res.Result, cache.DefaultExpiration)
			}
			return res
		}
	}
}

// disposition进key, All和AllLean同SQL不同形态, 不能互相串
func cacheKey(d activerecord.Disposition, q *activerecord.Query) string {
	return fmt.Sprintf("%d|%s%v", d, q.SQL, q.Args)
}
