package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/startdusk/activerecord"

	"github.com/redis/go-redis/v9"
)

// MiddlewareBuilder 和querycache是同一个思路, 只是缓存放到了Redis
// 多实例部署的时候进程内缓存各自为政, Redis缓存是共享的
// 只有lean形态(Row/[]Row)能安全地做JSON序列化, 其他结果直接放行
type MiddlewareBuilder struct {
	client *redis.Client
	ttl    time.Duration

	// key前缀, 避免和业务key打架
	prefix string
}

func NewMiddlewareBuilder(client *redis.Client, ttl time.Duration) *MiddlewareBuilder {
	return &MiddlewareBuilder{
		client: client,
		ttl:    ttl,
		prefix: "activerecord:query:",
	}
}

func (m *MiddlewareBuilder) Build() activerecord.Middleware {
	return func(next activerecord.Handler) activerecord.Handler {
		return func(ctx context.Context, qc *activerecord.QueryContext) *activerecord.QueryResult {
			// 只接手lean多行形态: 它能安全地做JSON序列化
			// 流式请求必须放行, 拿缓存应付流等于把游标偷换成别的东西
			if qc.Type != "SELECT" || qc.Disposition != activerecord.DispositionAllLean {
				return next(ctx, qc)
			}
			q, err := qc.Builder.Build()
			if err != nil {
				return &activerecord.QueryResult{
					Err: err,
				}
			}

			key := m.prefix + fmt.Sprintf("%s%v", q.SQL, q.Args)
			data, err := m.client.Get(ctx, key).Bytes()
			switch {
			case err == nil:
				var rows []activerecord.Row
				if err := json.Unmarshal(data, &rows); err == nil {
					return &activerecord.QueryResult{
						Result: rows,
					}
				}
				// 缓存里的数据坏了, 当没命中处理, 往下走会覆盖掉它
			case !errors.Is(err, redis.Nil):
				// Redis挂了不能影响查询, 降级直连数据库
			}

			res := next(ctx, qc)
			if res.Err != nil {
				return res
			}
			if rows, ok := res.Result.([]activerecord.Row); ok {
				if data, err := json.Marshal(rows); err == nil {
					// 写缓存失败也不影响结果
					_ = m.client.Set(ctx, key, data, m.ttl).Err()
				}
			}
			return res
		}
	}
}
