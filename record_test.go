package activerecord

import (
	"context"
	"testing"

	"github.com/startdusk/activerecord/internal/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Record_GetSet(t *testing.T) {
	m, _ := buildTestModel(t)

	cases := []struct {
		name string
		rec  func() *Record

		field string
		want  any
	}{
		{
			name: "unset_field_is_nil",
			rec: func() *Record {
				return m.NewRecord(nil)
			},
			field: "username",
			want:  nil,
		},
		{
			name: "dirty_only",
			rec: func() *Record {
				return m.NewRecord(nil).Set("username", "tom")
			},
			field: "username",
			want:  "tom",
		},
		{
			name: "canonical_only",
			rec: func() *Record {
				return m.NewRecord(map[string]any{"id": int64(1), "username": "tom"})
			},
			field: "username",
			want:  "tom",
		},
		{
			// 读的规则: dirty优先于canonical, 和Set的先后顺序无关
			name: "dirty_wins_over_canonical",
			rec: func() *Record {
				return m.NewRecord(map[string]any{"id": int64(1), "username": "tom"}).
					Set("username", "ben")
			},
			field: "username",
			want:  "ben",
		},
		{
			name: "set_twice_last_wins",
			rec: func() *Record {
				return m.NewRecord(nil).Set("age", 18).Set("age", 19)
			},
			field: "age",
			want:  19,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.rec().Get(c.field))
		})
	}
}

func Test_Record_ToMap(t *testing.T) {
	m, _ := buildTestModel(t)

	cases := []struct {
		name string
		rec  func() *Record
		want map[string]any
	}{
		{
			name: "empty_record",
			rec: func() *Record {
				return m.NewRecord(nil)
			},
			want: map[string]any{},
		},
		{
			name: "union_dirty_wins",
			rec: func() *Record {
				return m.NewRecord(map[string]any{"id": int64(1), "username": "tom", "age": int64(18)}).
					Set("username", "ben")
			},
			want: map[string]any{"id": int64(1), "username": "ben", "age": int64(18)},
		},
		{
			// 带id构造再导出, 必须原样还原这一行, dirty不能污染
			name: "row_round_trip",
			rec: func() *Record {
				return m.NewRecord(map[string]any{"id": int64(111), "username": "phobosman", "age": int64(30)})
			},
			want: map[string]any{"id": int64(111), "username": "phobosman", "age": int64(30)},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.rec().ToMap())
		})
	}
}

func Test_Record_Seeding(t *testing.T) {
	m, _ := buildTestModel(t)

	// 带id的种子进canonical, 实例代表已持久化的行
	persisted := m.NewRecord(map[string]any{"id": int64(5), "username": "tom"})
	assert.Equal(t, int64(5), persisted.ID())
	assert.Empty(t, persisted.dirty)

	// 不带id的种子进dirty, 实例是个新记录
	fresh := m.NewRecord(map[string]any{"username": "tom"})
	assert.Nil(t, fresh.ID())
	assert.Empty(t, fresh.canonical)
	assert.Equal(t, "tom", fresh.Get("username"))

	// id是零值等于没有id
	zeroID := m.NewRecord(map[string]any{"id": int64(0), "username": "tom"})
	assert.Nil(t, zeroID.ID())
	assert.Empty(t, zeroID.canonical)
}

func Test_Record_Save_EmptyDirty_NoQuery(t *testing.T) {
	// 模型没Init, 只要dirty为空, Save连session都不会碰
	r := NewRegistry()
	m, err := r.Get("NeverInited")
	require.NoError(t, err)

	rec := &Record{model: m, canonical: map[string]any{}, dirty: map[string]any{}}
	assert.NoError(t, rec.Save(context.Background()))
	assert.Empty(t, rec.canonical)
}

func Test_Record_Save_UnknownField(t *testing.T) {
	m, _ := buildTestModel(t)
	rec := m.NewRecord(nil).Set("xxx", 1)
	err := rec.Save(context.Background())
	assert.Equal(t, errs.NewErrUnknownField("xxx"), err)
}

func Test_Record_Delete_NoID_NoQuery(t *testing.T) {
	m, _ := buildTestModel(t)
	rec := m.NewRecord(nil).Set("username", "tom")
	// 没有canonical id, 没东西可删
	assert.NoError(t, rec.Delete(context.Background()))
}

func Test_missingID(t *testing.T) {
	cases := []struct {
		name string
		id   any
		want bool
	}{
		{name: "nil", id: nil, want: true},
		{name: "zero_int", id: 0, want: true},
		{name: "zero_int64", id: int64(0), want: true},
		{name: "empty_string", id: "", want: true},
		{name: "int", id: 111, want: false},
		{name: "string", id: "abc", want: false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, missingID(c.id))
		})
	}
}
