package activerecord

import "database/sql"

// Query 是编译好的一条SQL语句
// SQL 里面只有占位符, 用户输入的值全部在 Args 里面
type Query struct {
	SQL  string
	Args []any
}

type QueryBuilder interface {
	Build() (*Query, error)
}

// Row 是一行未包装的原始数据, 即 lean 形态
// key 是数据库列名
type Row map[string]any

// Result 包装 EXEC 类语句(INSERT, UPDATE, DELETE, DDL)的执行结果
type Result struct {
	res sql.Result
	err error
}

func (r Result) Err() error {
	return r.err
}

func (r Result) LastInsertId() (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	return r.res.LastInsertId()
}

func (r Result) RowsAffected() (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	return r.res.RowsAffected()
}
