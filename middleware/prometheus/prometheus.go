package prometheus

import (
	"context"
	"time"

	"github.com/startdusk/activerecord"

	"github.com/prometheus/client_golang/prometheus"
)

type MiddlewareBuilder struct {
	Namespace string
	Subsystem string
	Name      string
	Help      string
}

func (m MiddlewareBuilder) Build() activerecord.Middleware {
	vector := prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name:      m.Name,
		Subsystem: m.Subsystem,
		Namespace: m.Namespace,
		Help:      m.Help,

		// 设置指标 如 0.5: 0.01 0.5是一个指标，0.01是一个误差值，表示0.5上下0.01 即误差范围为 0.49-0.51
		Objectives: map[float64]float64{
			0.5:   0.01,
			0.75:  0.01,
			0.90:  0.01,
			0.99:  0.001,
			0.999: 0.0001,
		},
	}, []string{
		"type",  // 查询类型 SELECT/INSERT/...
		"table", // 命中的表
	})

	prometheus.MustRegister(vector)

	return func(next activerecord.Handler) activerecord.Handler {
		return func(ctx context.Context, qc *activerecord.QueryContext) *activerecord.QueryResult {
			startTime := time.Now()
			defer func() {
				go func() {
					duration := time.Since(startTime).Milliseconds()
					// 记录执行时间
					vector.WithLabelValues(qc.Type, qc.Model.TableName()).Observe(float64(duration))
				}()
			}()
			return next(ctx, qc)
		}
	}
}
