package activerecord

import (
	"strconv"
	"strings"

	"github.com/startdusk/activerecord/internal/errs"
)

// 查询形状是一个封闭集合, 这一层不做通用查询构造
type criteriaKind uint8

const (
	criteriaSelect criteriaKind = iota
	criteriaInsert
	criteriaUpdate
	criteriaDelete
	criteriaCreateTable
)

const defaultLimit = 20

// assign 是INSERT/UPDATE的一列赋值, 顺序按schema声明顺序排
type assign struct {
	col string
	val any
}

// criteria 是一次查询的结构化描述, 动词构造它, 编译后就丢弃
// 表名/列名/排序方向来自封闭的schema元数据, 允许直接拼接
// 用户的值只会以占位符形式出现
type criteria struct {
	kind  criteriaKind
	model *Model
	core  core

	// select
	columns   []string // 空表示 *
	countOnly bool     // count(*) 投影, 丢掉 ORDER BY 和 LIMIT
	where     Where
	sortCol   string // 默认主键
	desc      bool
	limit     int // 默认20, 永远显式有限

	// insert/update
	assigns []assign

	// update/delete 按主键定位
	idArg any

	sb          strings.Builder
	placeholder int
}

var _ QueryBuilder = &criteria{}

func (c *criteria) Build() (*Query, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	// SQL文本只和查询形状有关, 和参数值无关, 所以文本可以缓存
	// 参数每次都重新收集
	if cache := c.core.stmtCache; cache != nil && c.kind != criteriaCreateTable {
		fp := c.fingerprint()
		if sql, ok := cache.Get(fp); ok {
			return &Query{SQL: sql, Args: c.buildArgs()}, nil
		}
		sql, err := c.buildSQL()
		if err != nil {
			return nil, err
		}
		cache.Add(fp, sql)
		return &Query{SQL: sql, Args: c.buildArgs()}, nil
	}

	sql, err := c.buildSQL()
	if err != nil {
		return nil, err
	}
	return &Query{SQL: sql, Args: c.buildArgs()}, nil
}

func (c *criteria) validate() error {
	fieldMap := c.model.fieldMap
	for _, col := range c.columns {
		if _, ok := fieldMap[col]; !ok {
			return errs.NewErrUnknownField(col)
		}
	}
	for _, cond := range c.where {
		if _, ok := fieldMap[cond.col]; !ok {
			return errs.NewErrUnknownField(cond.col)
		}
	}
	for _, a := range c.assigns {
		if _, ok := fieldMap[a.col]; !ok {
			return errs.NewErrUnknownField(a.col)
		}
	}
	if c.sortCol != "" {
		if _, ok := fieldMap[c.sortCol]; !ok {
			return errs.NewErrUnknownField(c.sortCol)
		}
	}
	return nil
}

// fingerprint 是查询形状的指纹, 同形状的查询共享一份SQL文本
func (c *criteria) fingerprint() string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(int(c.kind)))
	sb.WriteByte('|')
	sb.WriteString(c.model.tableName)
	sb.WriteByte('|')
	if c.countOnly {
		sb.WriteString("count")
	}
	sb.WriteByte('|')
	sb.WriteString(strings.Join(c.columns, ","))
	sb.WriteByte('|')
	for _, cond := range c.where {
		sb.WriteString(cond.col)
		sb.WriteString(cond.op.String())
		sb.WriteByte(',')
	}
	sb.WriteByte('|')
	sb.WriteString(c.sortColumn())
	if c.desc {
		sb.WriteString(" DESC")
	}
	sb.WriteByte('|')
	for _, a := range c.assigns {
		sb.WriteString(a.col)
		sb.WriteByte(',')
	}
	return sb.String()
}

func (c *criteria) sortColumn() string {
	if c.sortCol != "" {
		return c.sortCol
	}
	return colID
}

func (c *criteria) limitValue() int {
	if c.limit > 0 {
		return c.limit
	}
	return defaultLimit
}

// buildArgs 按占位符出现的顺序收集参数
// 顺序必须和buildSQL里写占位符的顺序严格一致
func (c *criteria) buildArgs() []any {
	args := make([]any, 0, len(c.where)+len(c.assigns)+2)
	switch c.kind {
	case criteriaSelect:
		for _, cond := range c.where {
			args = append(args, cond.val)
		}
		if !c.countOnly {
			args = append(args, c.limitValue())
		}
	case criteriaInsert:
		for _, a := range c.assigns {
			args = append(args, a.val)
		}
	case criteriaUpdate:
		for _, a := range c.assigns {
			args = append(args, a.val)
		}
		args = append(args, c.idArg)
	case criteriaDelete:
		args = append(args, c.idArg)
	}
	if len(args) == 0 {
		return nil
	}
	return args
}

func (c *criteria) buildSQL() (string, error) {
	c.sb.Reset()
	c.placeholder = 0

	var err error
	switch c.kind {
	case criteriaSelect:
		err = c.buildSelect()
	case criteriaInsert:
		err = c.buildInsert()
	case criteriaUpdate:
		err = c.buildUpdate()
	case criteriaDelete:
		err = c.buildDelete()
	case criteriaCreateTable:
		err = c.buildCreateTable()
	}
	if err != nil {
		return "", err
	}
	c.sb.WriteByte(';')
	return c.sb.String(), nil
}

func (c *criteria) buildSelect() error {
	c.sb.WriteString("SELECT ")
	if c.countOnly {
		c.sb.WriteString("count(*)")
	} else if len(c.columns) == 0 {
		c.sb.WriteByte('*')
	} else {
		for i, col := range c.columns {
			if i > 0 {
				c.sb.WriteString(", ")
			}
			c.quote(col)
		}
	}
	c.sb.WriteString(" FROM ")
	c.quote(c.model.tableName)

	if err := c.buildWhere(); err != nil {
		return err
	}

	// count语义没有排序和分页
	if c.countOnly {
		return nil
	}

	c.sb.WriteString(" ORDER BY ")
	c.quote(c.sortColumn())
	if c.desc {
		c.sb.WriteString(" DESC")
	} else {
		c.sb.WriteString(" ASC")
	}

	// LIMIT永远显式且有限, 上层想要更多就显式传更大的值
	c.sb.WriteString(" LIMIT ")
	c.writePlaceholder()
	return nil
}

func (c *criteria) buildInsert() error {
	c.sb.WriteString("INSERT INTO ")
	c.quote(c.model.tableName)
	c.sb.WriteString(" (")
	for i, a := range c.assigns {
		if i > 0 {
			c.sb.WriteString(", ")
		}
		c.quote(a.col)
	}
	c.sb.WriteString(") VALUES (")
	for i := range c.assigns {
		if i > 0 {
			c.sb.WriteString(", ")
		}
		c.writePlaceholder()
	}
	c.sb.WriteByte(')')
	c.buildReturning()
	return nil
}

func (c *criteria) buildUpdate() error {
	c.sb.WriteString("UPDATE ")
	c.quote(c.model.tableName)
	c.sb.WriteString(" SET ")
	for i, a := range c.assigns {
		if i > 0 {
			c.sb.WriteString(", ")
		}
		c.quote(a.col)
		c.sb.WriteString(" = ")
		c.writePlaceholder()
	}
	c.sb.WriteString(" WHERE ")
	c.quote(colID)
	c.sb.WriteString(" = ")
	c.writePlaceholder()
	c.buildReturning()
	return nil
}

func (c *criteria) buildDelete() error {
	c.sb.WriteString("DELETE FROM ")
	c.quote(c.model.tableName)
	c.sb.WriteString(" WHERE ")
	c.quote(colID)
	c.sb.WriteString(" = ")
	c.writePlaceholder()
	return nil
}

func (c *criteria) buildCreateTable() error {
	c.sb.WriteString("CREATE TABLE IF NOT EXISTS ")
	c.quote(c.model.tableName)
	c.sb.WriteString(" (")
	for i, fd := range c.model.fields {
		if i > 0 {
			c.sb.WriteString(", ")
		}
		c.quote(fd.colName)
		c.sb.WriteByte(' ')
		typ, err := c.core.dialect.columnType(fd.def)
		if err != nil {
			return err
		}
		c.sb.WriteString(typ)
		if fd.def.pk && fd.def.typ != typeSerial {
			c.sb.WriteString(" PRIMARY KEY")
		}
		if fd.def.notNull {
			c.sb.WriteString(" NOT NULL")
		}
		if fd.def.defaultSQL != "" {
			// 默认值是schema里写死的SQL片段, 不是用户输入
			c.sb.WriteString(" DEFAULT ")
			c.sb.WriteString(fd.def.defaultSQL)
		}
	}
	c.sb.WriteByte(')')
	return nil
}

func (c *criteria) buildWhere() error {
	if len(c.where) == 0 {
		// 没有条件就没有WHERE子句, 而不是一个永假的子句
		return nil
	}
	c.sb.WriteString(" WHERE ")
	for i, cond := range c.where {
		if i > 0 {
			c.sb.WriteString(" AND ")
		}
		c.quote(cond.col)
		c.sb.WriteByte(' ')
		c.sb.WriteString(cond.op.String())
		c.sb.WriteByte(' ')
		c.writePlaceholder()
	}
	return nil
}

// RETURNING带回所有声明的字段, 用于写回canonical
func (c *criteria) buildReturning() {
	if !c.core.dialect.supportsReturning() {
		return
	}
	c.sb.WriteString(" RETURNING ")
	for i, fd := range c.model.fields {
		if i > 0 {
			c.sb.WriteString(", ")
		}
		c.quote(fd.colName)
	}
}

func (c *criteria) quote(name string) {
	quoter := c.core.dialect.quoter()
	c.sb.WriteByte(quoter)
	c.sb.WriteString(name)
	c.sb.WriteByte(quoter)
}

func (c *criteria) writePlaceholder() {
	c.placeholder++
	c.sb.WriteString(c.core.dialect.placeholder(c.placeholder))
}
