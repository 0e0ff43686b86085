package nodelete

import (
	"context"
	"errors"

	"github.com/startdusk/activerecord"
)

var ErrDeleteForbidden = errors.New("nodelete: 禁止使用DELETE语句")

// MiddlewareBuilder 一刀切禁用DELETE
// 有些业务只允许软删, 挂上这个就不怕谁手滑调了Delete
type MiddlewareBuilder struct {
}

func NewMiddlewareBuilder() *MiddlewareBuilder {
	return &MiddlewareBuilder{}
}

func (m MiddlewareBuilder) Build() activerecord.Middleware {
	return func(next activerecord.Handler) activerecord.Handler {
		return func(ctx context.Context, qc *activerecord.QueryContext) *activerecord.QueryResult {
			if qc.Type == "DELETE" {
				return &activerecord.QueryResult{
					Err: ErrDeleteForbidden,
				}
			}
			return next(ctx, qc)
		}
	}
}
