package activerecord

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/startdusk/activerecord/internal/errs"
)

const (
	colID        = "id"
	colCreatedAt = "created_at"
	colUpdatedAt = "updated_at"
)

// 合法的SQL标识符, 表名和列名都要过这个校验
// 过了校验的标识符才允许直接拼进SQL文本
var regexIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Registry 代表模型元数据的注册中心, 按模型名索引
// 同一个注册中心里, 一个模型名对应一份schema, 进程生命周期内不变
type Registry struct {
	models map[string]*Model

	// 保护map
	// 也可以使用sync.Map, 但sync.Map有线程覆盖的问题
	// 使用严格的读写锁, 采用double check的读写锁写法就没有线程覆盖的问题
	lock sync.RWMutex
}

func NewRegistry() *Registry {
	// 一个项目如果超过64张表, 说明需要拆分了
	return &Registry{
		models: make(map[string]*Model, 64),
	}
}

func (r *Registry) Get(name string) (*Model, error) {
	if name == "" {
		return nil, errs.ErrEmptyModelName
	}
	if !regexIdentifier.MatchString(name) {
		return nil, errs.NewErrInvalidModelName(name)
	}

	r.lock.RLock()
	m, ok := r.models[name]
	r.lock.RUnlock()
	if ok {
		return m, nil
	}

	r.lock.Lock()
	defer r.lock.Unlock()
	// double check 写法, 保证不重复创建对象
	m, ok = r.models[name]
	if ok {
		return m, nil
	}

	m = &Model{
		name:      name,
		tableName: pluralize(underscoreName(name)),
		attrMap:   make(map[string]*field, 8),
	}
	r.models[name] = m
	return m, nil
}

var defaultRegistry = NewRegistry()

// New 在默认注册中心注册(或取回)一个模型
func New(name string) (*Model, error) {
	return defaultRegistry.Get(name)
}

func MustNew(name string) *Model {
	m, err := New(name)
	if err != nil {
		panic(err)
	}
	return m
}

// Model 代表一张表的schema: 表名 + 字段定义
// 字段在Init之前用Attribute声明, Init之后schema就封闭了
type Model struct {
	name      string
	tableName string

	mutex   sync.RWMutex
	attrs   []*field // 用户声明的字段, 保持声明顺序
	attrMap map[string]*field

	// Init之后才有值
	fields   []*field // id + attrs + created_at + updated_at
	fieldMap map[string]*field
	db       *DB
	inited   bool
}

func (m *Model) Name() string {
	return m.name
}

func (m *Model) TableName() string {
	return m.tableName
}

// Attribute 声明一个字段, 必须在Init之前调用
func (m *Model) Attribute(name string, def ColumnDef) error {
	if name == "" {
		return errs.ErrEmptyAttributeName
	}
	if !regexIdentifier.MatchString(name) {
		return errs.NewErrInvalidColumnDef(name)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.inited {
		return errs.ErrSchemaClosed
	}
	fd, ok := m.attrMap[name]
	if ok {
		// 重复声明, 后者覆盖前者
		fd.def = def
		return nil
	}
	fd = &field{colName: name, def: def}
	m.attrs = append(m.attrs, fd)
	m.attrMap[name] = fd
	return nil
}

// Init 把声明的字段和强制的id/created_at/updated_at合并,
// 绑定共享连接池, 并发出幂等的建表语句
// 每个模型只能Init一次, Init之前调用任何动词都会立刻失败
func (m *Model) Init(ctx context.Context, db *DB) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.inited {
		return errs.ErrSchemaInitialized
	}

	fields := make([]*field, 0, len(m.attrs)+3)
	fieldMap := make(map[string]*field, len(m.attrs)+3)
	appendField := func(fd *field) {
		fields = append(fields, fd)
		fieldMap[fd.colName] = fd
	}
	appendField(&field{colName: colID, def: Serial()})
	for _, fd := range m.attrs {
		switch fd.colName {
		case colID, colCreatedAt, colUpdatedAt:
			// 强制字段不允许用户覆盖
			continue
		}
		appendField(fd)
	}
	appendField(&field{colName: colCreatedAt, def: Timestamp().Default("CURRENT_TIMESTAMP")})
	appendField(&field{colName: colUpdatedAt, def: Timestamp().Default("CURRENT_TIMESTAMP")})

	m.fields = fields
	m.fieldMap = fieldMap

	res := exec(ctx, db, db.core, &QueryContext{
		Type: "CREATE",
		Builder: &criteria{
			kind:  criteriaCreateTable,
			model: m,
			core:  db.core,
		},
		Model: m,
	})
	if res.Err != nil {
		m.fields = nil
		m.fieldMap = nil
		return res.Err
	}

	m.db = db
	m.inited = true
	return nil
}

// session 返回绑定的连接池, 未Init直接报错
func (m *Model) session() (*DB, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if !m.inited {
		return nil, errs.ErrSchemaNotInitialized
	}
	return m.db, nil
}

// 驼峰名字符串转下划线命名
func underscoreName(name string) string {
	var buf []byte
	for i, v := range name {
		if unicode.IsUpper(v) {
			if i != 0 && i < len(name)-1 && !unicode.IsUpper([]rune(name)[i+1]) {
				buf = append(buf, '_')
			}
			buf = append(buf, byte(unicode.ToLower(v)))
		} else {
			buf = append(buf, byte(v))
		}
	}
	return string(buf)
}

// 朴素的复数化, 命名约定不是这一层的重点
func pluralize(name string) string {
	if strings.HasSuffix(name, "s") {
		return name
	}
	return name + "s"
}
