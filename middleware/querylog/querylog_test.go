package querylog

import (
	"context"
	"testing"

	"github.com/startdusk/activerecord"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_QueryLog(t *testing.T) {
	var queries []string
	var args [][]any
	builder := NewMiddlewareBuilder(func(query string, as []any) {
		queries = append(queries, query)
		args = append(args, as)
	})

	db, err := activerecord.Open("sqlite3",
		"file:querylog.db?cache=shared&mode=memory",
		activerecord.DBWithDialect(activerecord.DialectSQLite),
		activerecord.DBWithMiddlewares(builder.Build()))
	require.NoError(t, err)
	defer db.Close()

	r := activerecord.NewRegistry()
	m, err := r.Get("TestModel")
	require.NoError(t, err)
	require.NoError(t, m.Attribute("first_name", activerecord.Text()))
	require.NoError(t, m.Init(context.Background(), db))

	// 建表语句也走中间件
	require.Len(t, queries, 1)
	assert.Contains(t, queries[0], "CREATE TABLE IF NOT EXISTS `test_models`")

	_, err = m.Find(context.Background(), activerecord.Where{
		activerecord.Eq("first_name", "Tom"),
	})
	require.NoError(t, err)

	require.Len(t, queries, 2)
	assert.Equal(t, "SELECT * FROM `test_models` WHERE `first_name` = $1 ORDER BY `id` ASC LIMIT $2;", queries[1])
	assert.Equal(t, []any{"Tom", 20}, args[1])
}
