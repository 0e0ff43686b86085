package activerecord

import (
	"context"
	"database/sql"

	lru "github.com/hashicorp/golang-lru/v2"
)

type core struct {
	dialect Dialect

	// logQuery 每次提交查询前都会调用, 纯观察用途, 不影响控制流
	logQuery func(query string, args []any)

	// 同形状查询的SQL文本缓存
	stmtCache *lru.Cache[string, string]

	mdls []Middleware
}

// Session 是查询执行的抽象, 背后是进程级共享的连接池
type Session interface {
	getCore() core
	queryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	execContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (c core) submit(q *Query) {
	if c.logQuery != nil {
		c.logQuery(q.SQL, q.Args)
	}
}

func chain(c core, root Handler) Handler {
	for i := len(c.mdls) - 1; i >= 0; i-- {
		root = c.mdls[i](root)
	}
	return root
}

// query SELECT类语句的执行入口, 结果按disposition物化
func query(ctx context.Context, sess Session, c core, qc *QueryContext, d Disposition) *QueryResult {
	qc.Disposition = d
	root := Handler(func(ctx context.Context, qc *QueryContext) *QueryResult {
		return queryHandler(ctx, sess, c, qc, d)
	})
	return chain(c, root)(ctx, qc)
}

func queryHandler(ctx context.Context, sess Session, c core, qc *QueryContext, d Disposition) *QueryResult {
	qr := &QueryResult{}
	q, err := qc.Builder.Build()
	if err != nil {
		qr.Err = err
		return qr
	}
	c.submit(q)

	rows, err := sess.queryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		// 驱动层的错误原样上抛, 不重试不包装
		qr.Err = err
		return qr
	}

	if d == DispositionStream {
		// 流持有一条专用连接, 释放交给Stream.Close
		qr.Result = &Stream{model: qc.Model, rows: rows}
		return qr
	}

	defer rows.Close()
	qr.Result, qr.Err = materialize(rows, qc.Model, d)
	return qr
}

// exec INSERT/UPDATE/DELETE/DDL的执行入口
func exec(ctx context.Context, sess Session, c core, qc *QueryContext) *QueryResult {
	root := Handler(func(ctx context.Context, qc *QueryContext) *QueryResult {
		return execHandler(ctx, sess, c, qc)
	})
	return chain(c, root)(ctx, qc)
}

func execHandler(ctx context.Context, sess Session, c core, qc *QueryContext) *QueryResult {
	qr := &QueryResult{}
	q, err := qc.Builder.Build()
	if err != nil {
		qr.Err = err
		qr.Result = Result{err: err}
		return qr
	}
	c.submit(q)

	res, err := sess.execContext(ctx, q.SQL, q.Args...)
	qr.Err = err
	qr.Result = Result{res: res, err: err}
	return qr
}

// count count(*)投影的标量入口
func count(ctx context.Context, sess Session, c core, qc *QueryContext) *QueryResult {
	root := Handler(func(ctx context.Context, qc *QueryContext) *QueryResult {
		return countHandler(ctx, sess, c, qc)
	})
	return chain(c, root)(ctx, qc)
}

func countHandler(ctx context.Context, sess Session, c core, qc *QueryContext) *QueryResult {
	qr := &QueryResult{}
	q, err := qc.Builder.Build()
	if err != nil {
		qr.Err = err
		return qr
	}
	c.submit(q)

	rows, err := sess.queryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		qr.Err = err
		return qr
	}
	defer rows.Close()

	var cnt int64
	if rows.Next() {
		if err := rows.Scan(&cnt); err != nil {
			qr.Err = err
			return qr
		}
	}
	qr.Result = cnt
	qr.Err = rows.Err()
	return qr
}
