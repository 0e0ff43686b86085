package safedml

import (
	"context"
	"testing"

	"github.com/startdusk/activerecord"

	"github.com/stretchr/testify/assert"
)

type rawBuilder struct {
	sql string
}

func (b rawBuilder) Build() (*activerecord.Query, error) {
	return &activerecord.Query{SQL: b.sql}, nil
}

func Test_SafeDML(t *testing.T) {
	cases := []struct {
		name string
		typ  string
		sql  string

		wantBlocked bool
	}{
		{
			name:        "delete_without_where",
			typ:         "DELETE",
			sql:         `DELETE FROM "users";`,
			wantBlocked: true,
		},
		{
			name:        "update_without_where",
			typ:         "UPDATE",
			sql:         `UPDATE "users" SET "name" = $1;`,
			wantBlocked: true,
		},
		{
			name: "delete_with_where",
			typ:  "DELETE",
			sql:  `DELETE FROM "users" WHERE "id" = $1;`,
		},
		{
			name: "select_passes_through",
			typ:  "SELECT",
			sql:  `SELECT * FROM "users";`,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var called bool
			next := activerecord.Handler(func(ctx context.Context, qc *activerecord.QueryContext) *activerecord.QueryResult {
				called = true
				return &activerecord.QueryResult{}
			})
			res := NewMiddlewareBuilder().Build()(next)(context.Background(), &activerecord.QueryContext{
				Type:    c.typ,
				Builder: rawBuilder{sql: c.sql},
			})
			if c.wantBlocked {
				assert.Error(t, res.Err)
				assert.False(t, called)
			} else {
				assert.NoError(t, res.Err)
				assert.True(t, called)
			}
		})
	}
}
