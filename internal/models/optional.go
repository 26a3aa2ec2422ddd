package models

import "encoding/json"

// Optional 包装 PATCH 请求里的可选字段，区分三种状态：
// 字段未出现（!Present）、出现且为 null（Present && Null）、出现且有值。
// 普通指针无法区分前两者。
type Optional[T any] struct {
	Present bool
	Null    bool
	Value   T
}

// UnmarshalJSON 只要字段出现在 JSON 中就会被调用。
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// Get 返回字段值以及"该值是否应该被应用"。
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Present && !o.Null
}
