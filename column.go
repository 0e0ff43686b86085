package activerecord

type columnType uint8

const (
	typeSerial columnType = iota + 1
	typeInteger
	typeReal
	typeText
	typeBoolean
	typeTimestamp
)

// ColumnDef 是一个字段定义: 类型标签 + 可空性 + 默认值 + 主键标记
// 它是值类型, 链式方法返回副本, 可以安全复用
// 如: Text().NotNull().Default("''")
type ColumnDef struct {
	typ        columnType
	notNull    bool
	defaultSQL string
	pk         bool
}

func Serial() ColumnDef {
	// 自增主键, id 字段用的就是它
	return ColumnDef{typ: typeSerial, pk: true}
}

func Integer() ColumnDef {
	return ColumnDef{typ: typeInteger}
}

func Real() ColumnDef {
	return ColumnDef{typ: typeReal}
}

func Text() ColumnDef {
	return ColumnDef{typ: typeText}
}

func Boolean() ColumnDef {
	return ColumnDef{typ: typeBoolean}
}

func Timestamp() ColumnDef {
	return ColumnDef{typ: typeTimestamp}
}

func (d ColumnDef) NotNull() ColumnDef {
	d.notNull = true
	return d
}

// Default 设置默认值表达式
// 注意: 这里是SQL片段, 只能来自程序员写死的元数据, 不能是用户输入
// 如: Default("0"), Default("''"), Default("CURRENT_TIMESTAMP")
func (d ColumnDef) Default(expr string) ColumnDef {
	d.defaultSQL = expr
	return d
}

func (d ColumnDef) PrimaryKey() ColumnDef {
	d.pk = true
	return d
}

// field 是注册到模型上的一列: 列名 + 定义
type field struct {
	colName string
	def     ColumnDef
}
