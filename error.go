package activerecord

import (
	"github.com/startdusk/activerecord/internal/errs"
)

// 通过桥接的方式将内部错误导出外部
// 当然这种方式也有取舍, 就是重构的时候, 如果调用这个变量的文件被移动到另外一个包了, 那么这里就得跟着移动
var (
	// ErrNotFound One查询没有命中任何行
	ErrNotFound = errs.ErrNotFound

	// ErrMissingID One的id参数是零值(0, nil, 空字符串)
	ErrMissingID = errs.ErrMissingID

	// ErrSchemaNotInitialized 在Init之前调用了查询动词
	ErrSchemaNotInitialized = errs.ErrSchemaNotInitialized

	// ErrSchemaInitialized 重复调用Init
	ErrSchemaInitialized = errs.ErrSchemaInitialized

	// ErrSchemaClosed Init之后再调用Attribute
	ErrSchemaClosed = errs.ErrSchemaClosed

	// ErrStreamClosed 在已关闭的流上读取
	ErrStreamClosed = errs.ErrStreamClosed
)
