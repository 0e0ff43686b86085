package activerecord

import (
	"context"
	"database/sql"

	lru "github.com/hashicorp/golang-lru/v2"
)

var (
	_ Session = &DB{}
)

const defaultStmtCacheSize = 256

type DBOption func(db *DB)

// DB 是对进程级共享连接池的包装
// 整个进程只初始化一次, 所有模型共享, 不属于任何一个实例
type DB struct {
	core
	db *sql.DB

	stmtCacheSize int
}

func Open(driver string, dataSourceName string, opts ...DBOption) (*DB, error) {
	db, err := sql.Open(driver, dataSourceName)
	if err != nil {
		return nil, err
	}

	return OpenDB(db, opts...)
}

func OpenDB(db *sql.DB, opts ...DBOption) (*DB, error) {
	newDB := &DB{
		core: core{
			dialect: DialectPostgres,
		},
		db:            db,
		stmtCacheSize: defaultStmtCacheSize,
	}

	for _, opt := range opts {
		opt(newDB)
	}

	if newDB.stmtCacheSize > 0 {
		cache, err := lru.New[string, string](newDB.stmtCacheSize)
		if err != nil {
			return nil, err
		}
		newDB.stmtCache = cache
	}

	return newDB, nil
}

func MustOpen(driver string, dataSourceName string, opts ...DBOption) *DB {
	newDB, err := Open(driver, dataSourceName, opts...)
	if err != nil {
		panic(err)
	}
	return newDB
}

func MustOpenDB(db *sql.DB, opts ...DBOption) *DB {
	newDB, err := OpenDB(db, opts...)
	if err != nil {
		panic(err)
	}
	return newDB
}

func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) getCore() core {
	return db.core
}

func (db *DB) queryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

func (db *DB) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

func DBWithDialect(dialect Dialect) DBOption {
	return func(db *DB) {
		db.dialect = dialect
	}
}

func DBWithMiddlewares(mdls ...Middleware) DBOption {
	return func(db *DB) {
		db.mdls = mdls
	}
}

// DBWithQueryLog 设置查询日志钩子, 每次提交前调用
// 钩子只做观察, 不能吞掉或改写错误
func DBWithQueryLog(fn func(query string, args []any)) DBOption {
	return func(db *DB) {
		db.logQuery = fn
	}
}

// DBWithStmtCacheSize 设置SQL文本缓存的容量, 传0关闭缓存
func DBWithStmtCacheSize(size int) DBOption {
	return func(db *DB) {
		db.stmtCacheSize = size
	}
}
