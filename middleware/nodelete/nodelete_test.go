package nodelete

import (
	"context"
	"testing"

	"github.com/startdusk/activerecord"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NoDelete(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))

	db, err := activerecord.OpenDB(mockDB,
		activerecord.DBWithMiddlewares(NewMiddlewareBuilder().Build()))
	require.NoError(t, err)

	r := activerecord.NewRegistry()
	m, err := r.Get("TestModel")
	require.NoError(t, err)
	require.NoError(t, m.Attribute("first_name", activerecord.Text()))
	require.NoError(t, m.Init(context.Background(), db))

	rec := m.NewRecord(map[string]any{"id": int64(1), "first_name": "Tom"})
	err = rec.Delete(context.Background())
	assert.Equal(t, ErrDeleteForbidden, err)
	// DELETE被拦截, 不会打到数据库
	assert.NoError(t, mock.ExpectationsWereMet())
}
