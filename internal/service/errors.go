package service

import "fmt"

// 业务层错误分类，handler 通过 errors.As 映射到 HTTP 状态码。

// NotFoundError 引用的实体不存在。
type NotFoundError struct {
	Resource string
	Key      any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.Key)
}

// ConflictError 唯一字段取值重复。
type ConflictError struct {
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Field, e.Value)
}

// ValidationError 字段取值不满足约束。
type ValidationError struct {
	Field      string
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %s violates constraint %s", e.Field, e.Constraint)
}
