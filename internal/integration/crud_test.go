//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/startdusk/activerecord"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

func TestSQLiteCRUD(t *testing.T) {
	suite.Run(t, &CRUDSuite{
		Suite{
			driver:  "sqlite3",
			dsn:     "file:crud_test.db?cache=shared&mode=memory",
			dialect: activerecord.DialectSQLite,
		},
	})
}

func TestMySQLCRUD(t *testing.T) {
	suite.Run(t, &CRUDSuite{
		Suite{
			driver:  "mysql",
			dsn:     "root:root@tcp(localhost:13306)/integration_test",
			dialect: activerecord.DialectMySQL,
		},
	})
}

type CRUDSuite struct {
	Suite
}

func (s *CRUDSuite) TestRoundTrip() {
	t := s.T()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// uuid做用户名, 跑多少遍都不会和库里的旧数据撞上
	username := uuid.NewString()

	rec := s.users.NewRecord(nil).Set("username", username).Set("age", 18)
	require.NoError(t, rec.Save(ctx))
	id := rec.ID()
	require.NotNil(t, id)
	// 成功的Save带回了数据库生成的字段
	assert.NotNil(t, rec.Get("created_at"))

	got, err := s.users.One(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, username, got.Get("username"))

	got.Set("age", 19)
	require.NoError(t, got.Save(ctx))
	again, err := s.users.One(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 19, again.Get("age"))

	cnt, err := s.users.Count(ctx, activerecord.Where{
		activerecord.Eq("username", username),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), cnt)

	recs, err := s.users.Find(ctx, activerecord.Where{
		activerecord.Eq("username", username),
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)

	stream, err := s.users.Stream(ctx, activerecord.Where{
		activerecord.Eq("username", username),
	})
	require.NoError(t, err)
	var streamed int
	for stream.Next() {
		_, err := stream.Record()
		require.NoError(t, err)
		streamed++
	}
	require.NoError(t, stream.Err())
	require.NoError(t, stream.Close())
	assert.Equal(t, 1, streamed)

	require.NoError(t, again.Delete(ctx))
	_, err = s.users.One(ctx, id)
	assert.Equal(t, activerecord.ErrNotFound, err)
}

func (s *CRUDSuite) TestConcurrentSaves() {
	t := s.T()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 同一批用户名共享一个前缀, 方便收尾统计
	prefix := uuid.NewString()

	const n = 8
	var eg errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		eg.Go(func() error {
			rec := s.users.NewRecord(nil).
				Set("username", prefix+uuid.NewString()).
				Set("age", 20+i)
			return rec.Save(ctx)
		})
	}
	require.NoError(t, eg.Wait())

	cnt, err := s.users.Count(ctx, activerecord.Where{
		activerecord.Like("username", prefix+"%"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(n), cnt)
}

func (s *CRUDSuite) TestRunQuery() {
	t := s.T()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	username := uuid.NewString()
	rec := s.users.NewRecord(nil).Set("username", username)
	require.NoError(t, rec.Save(ctx))
	defer func() {
		_ = rec.Delete(ctx)
	}()

	res, err := s.users.RunQuery(ctx,
		"SELECT * FROM "+s.users.TableName(),
		nil, activerecord.DispositionAllLean)
	require.NoError(t, err)
	rows, ok := res.([]activerecord.Row)
	require.True(t, ok)
	assert.NotEmpty(t, rows)
}
