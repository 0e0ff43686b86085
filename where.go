package activerecord

type op string

const (
	opEq   op = "="
	opNeq  op = "!="
	opLt   op = "<"
	opLte  op = "<="
	opGt   op = ">"
	opGte  op = ">="
	opLike op = "LIKE"
)

func (o op) String() string {
	return string(o)
}

// Cond 是WHERE里面的一个叶子条件: 列名 op 占位符
// 列名必须是模型声明过的字段, 编译的时候校验
type Cond struct {
	col string
	op  op
	val any
}

// Where 是有序的条件列表, 条件之间用AND连接
// 用切片不用map是为了保证占位符的顺序是确定的(map遍历是无序的)
type Where []Cond

func Eq(col string, val any) Cond {
	return Cond{col: col, op: opEq, val: val}
}

func Neq(col string, val any) Cond {
	return Cond{col: col, op: opNeq, val: val}
}

func Lt(col string, val any) Cond {
	return Cond{col: col, op: opLt, val: val}
}

func Lte(col string, val any) Cond {
	return Cond{col: col, op: opLte, val: val}
}

func Gt(col string, val any) Cond {
	return Cond{col: col, op: opGt, val: val}
}

func Gte(col string, val any) Cond {
	return Cond{col: col, op: opGte, val: val}
}

func Like(col string, pattern string) Cond {
	return Cond{col: col, op: opLike, val: pattern}
}
