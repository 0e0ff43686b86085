package activerecord

import (
	"context"

	"github.com/startdusk/activerecord/internal/errs"
)

// QueryOption 调整select的形状: 分页, 排序, 投影
type QueryOption func(c *criteria)

func WithLimit(limit int) QueryOption {
	return func(c *criteria) {
		c.limit = limit
	}
}

// WithSort 指定排序列, 必须是声明过的字段
func WithSort(col string) QueryOption {
	return func(c *criteria) {
		c.sortCol = col
	}
}

func Desc() QueryOption {
	return func(c *criteria) {
		c.desc = true
	}
}

// WithColumns 指定投影列, 不指定就是*
func WithColumns(cols ...string) QueryOption {
	return func(c *criteria) {
		c.columns = cols
	}
}

// All 查整张表, 默认按主键升序, 默认LIMIT 20
func (m *Model) All(ctx context.Context, opts ...QueryOption) ([]*Record, error) {
	return m.Find(ctx, nil, opts...)
}

// Find 带条件的All, 条件为空时行为和All完全一致
func (m *Model) Find(ctx context.Context, where Where, opts ...QueryOption) ([]*Record, error) {
	db, err := m.session()
	if err != nil {
		return nil, err
	}
	c := &criteria{
		kind:  criteriaSelect,
		model: m,
		core:  db.core,
		where: where,
	}
	for _, opt := range opts {
		opt(c)
	}
	res := query(ctx, db, db.core, &QueryContext{Type: "SELECT", Builder: c, Model: m}, DispositionAll)
	if res.Err != nil {
		return nil, res.Err
	}
	recs, ok := res.Result.([]*Record)
	if !ok {
		return nil, errs.NewErrUnexpectedResult(res.Result)
	}
	return recs, nil
}

// One 按主键查一行
// id是零值直接报ErrMissingID, 根本不会碰连接池
// 没查到报ErrNotFound, 这个语义全API统一
func (m *Model) One(ctx context.Context, id any) (*Record, error) {
	if missingID(id) {
		return nil, errs.ErrMissingID
	}
	db, err := m.session()
	if err != nil {
		return nil, err
	}
	c := &criteria{
		kind:  criteriaSelect,
		model: m,
		core:  db.core,
		where: Where{Eq(colID, id)},
		limit: 1,
	}
	res := query(ctx, db, db.core, &QueryContext{Type: "SELECT", Builder: c, Model: m}, DispositionFirst)
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Result == nil {
		return nil, errs.ErrNotFound
	}
	rec, ok := res.Result.(*Record)
	if !ok {
		return nil, errs.NewErrUnexpectedResult(res.Result)
	}
	return rec, nil
}

// Count count(*)标量, WHERE语义和Find一致, 没有ORDER BY和LIMIT
func (m *Model) Count(ctx context.Context, where Where) (int64, error) {
	db, err := m.session()
	if err != nil {
		return 0, err
	}
	c := &criteria{
		kind:      criteriaSelect,
		model:     m,
		core:      db.core,
		countOnly: true,
		where:     where,
	}
	res := count(ctx, db, db.core, &QueryContext{Type: "SELECT", Builder: c, Model: m})
	if res.Err != nil {
		return 0, res.Err
	}
	cnt, ok := res.Result.(int64)
	if !ok {
		return 0, errs.NewErrUnexpectedResult(res.Result)
	}
	return cnt, nil
}

// Stream 流式查询, 行是惰性读出来的
// 返回的流独占一条连接, 用完必须Close
func (m *Model) Stream(ctx context.Context, where Where, opts ...QueryOption) (*Stream, error) {
	db, err := m.session()
	if err != nil {
		return nil, err
	}
	c := &criteria{
		kind:  criteriaSelect,
		model: m,
		core:  db.core,
		where: where,
	}
	for _, opt := range opts {
		opt(c)
	}
	res := query(ctx, db, db.core, &QueryContext{Type: "SELECT", Builder: c, Model: m}, DispositionStream)
	if res.Err != nil {
		return nil, res.Err
	}
	s, ok := res.Result.(*Stream)
	if !ok {
		return nil, errs.NewErrUnexpectedResult(res.Result)
	}
	return s, nil
}

type rawQuery struct {
	sql  string
	args []any
}

func (r *rawQuery) Build() (*Query, error) {
	return &Query{
		SQL:  r.sql,
		Args: r.args,
	}, nil
}

// RunQuery 所有动词最终都汇到的执行原语, 这里直接暴露给手写SQL用
// 返回值的具体类型由disposition决定, 见QueryResult的说明
func (m *Model) RunQuery(ctx context.Context, sqlText string, args []any, d Disposition) (any, error) {
	db, err := m.session()
	if err != nil {
		return nil, err
	}
	res := query(ctx, db, db.core, &QueryContext{
		Type:    "RAW",
		Builder: &rawQuery{sql: sqlText, args: args},
		Model:   m,
	}, d)
	return res.Result, res.Err
}
