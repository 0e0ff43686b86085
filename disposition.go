package activerecord

import (
	"database/sql"

	"github.com/startdusk/activerecord/internal/errs"
)

// Disposition 决定一次查询的结果如何物化
// 用封闭的枚举而不是lean/first/last/stream几个布尔量的组合,
// 每个变体的行为一次性定死, 不存在没定义过的组合
type Disposition uint8

const (
	// DispositionLast 取最后一行包装成Record, 是runQuery的默认行为
	DispositionLast Disposition = iota
	DispositionFirst
	DispositionAll
	DispositionLastLean
	DispositionFirstLean
	DispositionAllLean
	DispositionStream
)

// materialize 把结果集按disposition物化
// 空结果集统一解析成空值: 单行形态返回nil, 多行形态返回空切片
func materialize(rows *sql.Rows, m *Model, d Disposition) (any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	switch d {
	case DispositionFirst, DispositionFirstLean:
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return nil, err
			}
			return nil, nil
		}
		row, err := scanRow(rows, cols)
		if err != nil {
			return nil, err
		}
		if d == DispositionFirstLean {
			return row, nil
		}
		return m.NewRecord(row), nil
	case DispositionLast, DispositionLastLean:
		var last Row
		for rows.Next() {
			row, err := scanRow(rows, cols)
			if err != nil {
				return nil, err
			}
			last = row
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
		if last == nil {
			return nil, nil
		}
		if d == DispositionLastLean {
			return last, nil
		}
		return m.NewRecord(last), nil
	case DispositionAll:
		res := make([]*Record, 0, 16)
		for rows.Next() {
			row, err := scanRow(rows, cols)
			if err != nil {
				return nil, err
			}
			res = append(res, m.NewRecord(row))
		}
		return res, rows.Err()
	case DispositionAllLean:
		res := make([]Row, 0, 16)
		for rows.Next() {
			row, err := scanRow(rows, cols)
			if err != nil {
				return nil, err
			}
			res = append(res, row)
		}
		return res, rows.Err()
	}
	return nil, errs.NewErrUnsupportedDisposition(d)
}

// scanRow 把当前行scan成列名到值的映射
// 利用 columns 来解决 select 的列顺序 和 列字段类型的问题
func scanRow(rows *sql.Rows, cols []string) (Row, error) {
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	row := make(Row, len(cols))
	for i, col := range cols {
		row[col] = vals[i]
	}
	return row, nil
}
