package activerecord

import (
	"database/sql"

	"github.com/startdusk/activerecord/internal/errs"
)

// Stream 是只进不退的流式游标
// 流的生命周期内独占一条连接, 所以不管是读完, 出错
// 还是消费方提前放弃, 都必须调用Close把连接还给池子
// Close是幂等的, 放心defer
type Stream struct {
	model  *Model
	rows   *sql.Rows
	cols   []string
	closed bool
}

// Next 推进到下一行, 没有下一行的时候自动释放连接
func (s *Stream) Next() bool {
	if s.closed {
		return false
	}
	if !s.rows.Next() {
		// 读完(或出错)了, 底层连接立刻归还
		_ = s.Close()
		return false
	}
	return true
}

// Row 当前行的lean形态
func (s *Stream) Row() (Row, error) {
	if s.closed {
		return nil, errs.ErrStreamClosed
	}
	if s.cols == nil {
		cols, err := s.rows.Columns()
		if err != nil {
			return nil, err
		}
		s.cols = cols
	}
	return scanRow(s.rows, s.cols)
}

// Record 当前行包装成模型实例
func (s *Stream) Record() (*Record, error) {
	row, err := s.Row()
	if err != nil {
		return nil, err
	}
	return s.model.NewRecord(row), nil
}

func (s *Stream) Err() error {
	return s.rows.Err()
}

func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.rows.Close()
}
