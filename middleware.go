package activerecord

import (
	"context"
)

type QueryContext struct {
	// Type 声明查询类型 即 SELECT, INSERT, UPDATE, DELETE, CREATE 和 RAW
	Type string

	// Builder 使用的时候, 大多数情况下你需要转换到具体的类型才能篡改查询
	Builder QueryBuilder

	// Model 本次查询对应的模型
	Model *Model

	// Disposition 本次查询要求的结果物化形态
	// SELECT类查询由执行入口填好; EXEC类语句里没有意义, 保持零值
	// 缓存类中间件靠它区分一次性的流和可以安全复用的物化结果
	Disposition Disposition
}

type Middleware func(next Handler) Handler

type Handler func(ctx context.Context, qc *QueryContext) *QueryResult

type QueryResult struct {
	// Result 在不同的查询里面, 类型是不同的
	// DispositionFirst/Last里面, 这会是*Record
	// DispositionAll里面, 这会是[]*Record
	// lean形态下是Row或[]Row
	// 流式查询是*Stream, EXEC类语句是Result
	Result any
	Err    error
}
