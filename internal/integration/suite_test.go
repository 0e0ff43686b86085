//go:build integration

package integration

import (
	"context"

	"github.com/startdusk/activerecord"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// Suite 真实数据库上的基础套件: 打开连接池, 注册并初始化User模型
type Suite struct {
	suite.Suite

	driver  string
	dsn     string
	dialect activerecord.Dialect

	db    *activerecord.DB
	users *activerecord.Model
}

func (s *Suite) SetupSuite() {
	db, err := activerecord.Open(s.driver, s.dsn,
		activerecord.DBWithDialect(s.dialect))
	require.NoError(s.T(), err)
	s.db = db

	r := activerecord.NewRegistry()
	m, err := r.Get("User")
	require.NoError(s.T(), err)
	require.NoError(s.T(), m.Attribute("username", activerecord.Text().NotNull()))
	require.NoError(s.T(), m.Attribute("age", activerecord.Integer()))
	require.NoError(s.T(), m.Init(context.Background(), db))
	s.users = m
}

func (s *Suite) TearDownSuite() {
	if s.db != nil {
		_ = s.db.Close()
	}
}
