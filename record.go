package activerecord

import (
	"context"
	"encoding/json"
	"reflect"
	"sort"

	"github.com/startdusk/activerecord/internal/errs"
)

// Record 代表一行数据, 已经落库的或者正在构造的
// canonical 是最后一次确认持久化的状态, 没保存过就是空的
// dirty 是本地未提交的修改
// 读的规则: 先dirty后canonical; 写的规则: 只写dirty
type Record struct {
	model     *Model
	canonical map[string]any
	dirty     map[string]any
}

// NewRecord 构造一个实例
// 带id的数据被当成已持久化的行, 进canonical
// 不带id的被当成新记录, 进dirty
func (m *Model) NewRecord(data map[string]any) *Record {
	r := &Record{
		model:     m,
		canonical: make(map[string]any, len(data)),
		dirty:     make(map[string]any, 4),
	}
	if len(data) == 0 {
		return r
	}
	dst := r.dirty
	if id, ok := data[colID]; ok && !missingID(id) {
		dst = r.canonical
	}
	for k, v := range data {
		dst[k] = v
	}
	return r
}

func (r *Record) Model() *Model {
	return r.model
}

// Get 读字段: dirty优先, 其次canonical, 都没有就是nil
func (r *Record) Get(field string) any {
	if v, ok := r.dirty[field]; ok {
		return v
	}
	if v, ok := r.canonical[field]; ok {
		return v
	}
	return nil
}

// Set 写字段, 永远只写dirty, canonical只能被成功的写操作推进
func (r *Record) Set(field string, val any) *Record {
	r.dirty[field] = val
	return r
}

// ID 返回已持久化的主键, 没保存过返回nil
func (r *Record) ID() any {
	id, ok := r.canonical[colID]
	if !ok || missingID(id) {
		return nil
	}
	return id
}

// ToMap 实例的逻辑状态: canonical和dirty的并集, 冲突时dirty赢
func (r *Record) ToMap() map[string]any {
	m := make(map[string]any, len(r.canonical)+len(r.dirty))
	for k, v := range r.canonical {
		m[k] = v
	}
	for k, v := range r.dirty {
		m[k] = v
	}
	return m
}

func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToMap())
}

// Save 把dirty落库
// dirty为空直接是no-op, 连编译器都不会碰
// 没有canonical id走INSERT, 有就按id走UPDATE
// 只有写入确认成功, dirty才会晋升进canonical
func (r *Record) Save(ctx context.Context) error {
	if len(r.dirty) == 0 {
		return nil
	}
	db, err := r.model.session()
	if err != nil {
		return err
	}

	assigns, err := r.dirtyAssigns()
	if err != nil {
		return err
	}

	id := r.ID()
	c := &criteria{
		model: r.model,
		core:  db.core,
	}
	typ := "INSERT"
	if id == nil {
		c.kind = criteriaInsert
	} else {
		c.kind = criteriaUpdate
		c.idArg = id
		typ = "UPDATE"
	}
	c.assigns = assigns
	qc := &QueryContext{Type: typ, Builder: c, Model: r.model}

	if db.dialect.supportsReturning() {
		res := query(ctx, db, db.core, qc, DispositionFirstLean)
		if res.Err != nil {
			return res.Err
		}
		if res.Result == nil {
			// UPDATE没命中任何行, 说明canonical id对应的行已经没了
			return errs.ErrNotFound
		}
		row, ok := res.Result.(Row)
		if !ok {
			return errs.NewErrUnexpectedResult(res.Result)
		}
		r.promote(row)
		return nil
	}

	// 方言不支持RETURNING, 退化成 执行 + 回查
	res := exec(ctx, db, db.core, qc)
	if res.Err != nil {
		return res.Err
	}
	if id == nil {
		result, _ := res.Result.(Result)
		newID, err := result.LastInsertId()
		if err != nil {
			return err
		}
		id = newID
	}
	row, err := r.model.fetchRow(ctx, db, id)
	if err != nil {
		return err
	}
	if row == nil {
		return errs.ErrNotFound
	}
	r.promote(row)
	return nil
}

// Delete 删掉canonical id对应的行
// 没保存过的实例没东西可删, 直接no-op
// 删除确认之后, 这个实例代表一行已经不存在的数据, 再读写它是未定义行为
func (r *Record) Delete(ctx context.Context) error {
	id := r.ID()
	if id == nil {
		return nil
	}
	db, err := r.model.session()
	if err != nil {
		return err
	}
	res := exec(ctx, db, db.core, &QueryContext{
		Type: "DELETE",
		Builder: &criteria{
			kind:  criteriaDelete,
			model: r.model,
			core:  db.core,
			idArg: id,
		},
		Model: r.model,
	})
	return res.Err
}

// fetchRow 按主键回查一行的lean形态, 没查到返回(nil, nil)
func (m *Model) fetchRow(ctx context.Context, db *DB, id any) (Row, error) {
	c := &criteria{
		kind:  criteriaSelect,
		model: m,
		core:  db.core,
		where: Where{Eq(colID, id)},
		limit: 1,
	}
	res := query(ctx, db, db.core, &QueryContext{Type: "SELECT", Builder: c, Model: m}, DispositionFirstLean)
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Result == nil {
		return nil, nil
	}
	row, ok := res.Result.(Row)
	if !ok {
		return nil, errs.NewErrUnexpectedResult(res.Result)
	}
	return row, nil
}

// dirtyAssigns 按schema声明顺序收集dirty列
// map遍历是无序的, 按schema顺序排才能产出确定的SQL
func (r *Record) dirtyAssigns() ([]assign, error) {
	assigns := make([]assign, 0, len(r.dirty))
	for _, fd := range r.model.fields {
		if v, ok := r.dirty[fd.colName]; ok {
			assigns = append(assigns, assign{col: fd.colName, val: v})
		}
	}
	if len(assigns) != len(r.dirty) {
		// 有没声明过的字段, 挑一个报出来
		keys := make([]string, 0, len(r.dirty))
		for k := range r.dirty {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, ok := r.model.fieldMap[k]; !ok {
				return nil, errs.NewErrUnknownField(k)
			}
		}
	}
	return assigns, nil
}

// promote 确认写入成功后, 用返回的行整体推进canonical, 清空dirty
func (r *Record) promote(row Row) {
	canonical := make(map[string]any, len(row))
	for k, v := range row {
		canonical[k] = v
	}
	r.canonical = canonical
	r.dirty = make(map[string]any, 4)
}

func missingID(id any) bool {
	if id == nil {
		return true
	}
	return reflect.ValueOf(id).IsZero()
}
