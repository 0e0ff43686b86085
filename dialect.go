package activerecord

import (
	"fmt"

	"github.com/startdusk/activerecord/internal/errs"
)

var (
	DialectPostgres Dialect = &postgresDialect{}
	DialectSQLite   Dialect = &sqliteDialect{}
	DialectMySQL    Dialect = &mysqlDialect{}
)

type Dialect interface {
	// quoter 就是为了解决引号问题
	// PostgreSQL 是双引号
	// MySQL, SQLite 反引号 `
	quoter() byte

	// placeholder 返回第n个参数占位符(n从1开始)
	// PostgreSQL, SQLite 是 $n, MySQL 是 ?
	placeholder(n int) string

	// supportsReturning 是否支持 INSERT/UPDATE ... RETURNING
	// 不支持的方言走 LastInsertId + 回查 的路径
	supportsReturning() bool

	// columnType 输出字段定义的类型部分(自增主键在这里处理)
	columnType(def ColumnDef) (string, error)
}

type standardSQL struct{}

func (d standardSQL) quoter() byte {
	return '"'
}

func (d standardSQL) placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

func (d standardSQL) supportsReturning() bool {
	return true
}

type postgresDialect struct {
	standardSQL
}

func (d postgresDialect) columnType(def ColumnDef) (string, error) {
	switch def.typ {
	case typeSerial:
		return "BIGSERIAL PRIMARY KEY", nil
	case typeInteger:
		return "BIGINT", nil
	case typeReal:
		return "DOUBLE PRECISION", nil
	case typeText:
		return "TEXT", nil
	case typeBoolean:
		return "BOOLEAN", nil
	case typeTimestamp:
		return "TIMESTAMP", nil
	}
	return "", errs.NewErrInvalidColumnDef(fmt.Sprintf("%d", def.typ))
}

type sqliteDialect struct {
	standardSQL
}

func (d sqliteDialect) quoter() byte {
	return '`'
}

func (d sqliteDialect) columnType(def ColumnDef) (string, error) {
	switch def.typ {
	case typeSerial:
		// SQLite的自增主键必须是 INTEGER PRIMARY KEY
		return "INTEGER PRIMARY KEY AUTOINCREMENT", nil
	case typeInteger:
		return "INTEGER", nil
	case typeReal:
		return "REAL", nil
	case typeText:
		return "TEXT", nil
	case typeBoolean:
		return "BOOLEAN", nil
	case typeTimestamp:
		return "TIMESTAMP", nil
	}
	return "", errs.NewErrInvalidColumnDef(fmt.Sprintf("%d", def.typ))
}

type mysqlDialect struct {
	standardSQL
}

func (d mysqlDialect) quoter() byte {
	return '`'
}

func (d mysqlDialect) placeholder(n int) string {
	return "?"
}

func (d mysqlDialect) supportsReturning() bool {
	return false
}

func (d mysqlDialect) columnType(def ColumnDef) (string, error) {
	switch def.typ {
	case typeSerial:
		return "BIGINT AUTO_INCREMENT PRIMARY KEY", nil
	case typeInteger:
		return "BIGINT", nil
	case typeReal:
		return "DOUBLE", nil
	case typeText:
		return "TEXT", nil
	case typeBoolean:
		return "BOOLEAN", nil
	case typeTimestamp:
		return "TIMESTAMP", nil
	}
	return "", errs.NewErrInvalidColumnDef(fmt.Sprintf("%d", def.typ))
}
