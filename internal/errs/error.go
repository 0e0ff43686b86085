package errs

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("activerecord: 没有数据")
	ErrEmptyModelName       = errors.New("activerecord: 模型名不能为空")
	ErrMissingID            = errors.New("activerecord: 缺少id")
	ErrEmptyAttributeName   = errors.New("activerecord: 字段名不能为空")
	ErrSchemaNotInitialized = errors.New("activerecord: 模型未初始化, 先调用Init")
	ErrSchemaInitialized    = errors.New("activerecord: 模型已经初始化, 不能重复初始化")
	ErrSchemaClosed         = errors.New("activerecord: 模型初始化后不能再声明字段")
	ErrStreamClosed         = errors.New("activerecord: 流已经关闭")
)

func NewErrUnknownField(name string) error {
	return fmt.Errorf("activerecord: 未知字段 %s", name)
}

func NewErrUnsupportedDisposition(d any) error {
	return fmt.Errorf("activerecord: 不支持的结果处理方式 %v", d)
}

func NewErrInvalidColumnDef(name string) error {
	return fmt.Errorf("activerecord: 非法字段定义 %s", name)
}

func NewErrInvalidModelName(name string) error {
	return fmt.Errorf("activerecord: 非法模型名 %s", name)
}

// NewErrUnexpectedResult 查询结果不是动词预期的类型
// 正常流程不会出现, 一般是中间件篡改了结果
func NewErrUnexpectedResult(res any) error {
	return fmt.Errorf("activerecord: 非预期的查询结果类型 %T", res)
}
