package safedml

import (
	"context"
	"fmt"
	"strings"

	"github.com/startdusk/activerecord"
)

// 强制要执行的SQL语句
// UPDATE, DELETE必须带WHERE, 防止全表更新/全表删除
type MiddlewareBuilder struct {
}

func NewMiddlewareBuilder() *MiddlewareBuilder {
	return &MiddlewareBuilder{}
}

func (m MiddlewareBuilder) Build() activerecord.Middleware {
	return func(next activerecord.Handler) activerecord.Handler {
		return func(ctx context.Context, qc *activerecord.QueryContext) *activerecord.QueryResult {
			if qc.Type != "UPDATE" && qc.Type != "DELETE" {
				return next(ctx, qc)
			}
			q, err := qc.Builder.Build()
			if err != nil {
				return &activerecord.QueryResult{
					Err: err,
				}
			}
			if !strings.Contains(q.SQL, "WHERE") {
				return &activerecord.QueryResult{
					Err: fmt.Errorf("safedml: 禁止执行没有WHERE的 %s 语句", qc.Type),
				}
			}
			return next(ctx, qc)
		}
	}
}
