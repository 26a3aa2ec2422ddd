package models

import "time"

// User 对外输出的用户数据，password 永远不进入该结构。
type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Message 用户留言，创建后不可修改、不可删除。
type Message struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUserRequest 创建（POST）与整体替换（PUT）共用的请求体。
// password 仅参与校验，不存储、不回显。
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// UpdateUserRequest 部分更新（PATCH）请求体。
// Optional 区分“未传”与“传了”：未传的字段保持原值。
type UpdateUserRequest struct {
	Username Optional[string] `json:"username"`
	Email    Optional[string] `json:"email"`
	IsActive Optional[bool]   `json:"is_active"`
}

// CreateMessageRequest 为指定用户创建留言的请求体。
type CreateMessageRequest struct {
	Content string `json:"content" binding:"required,min=1,max=1000"`
}

// ListUsersQuery 用户列表接口的查询参数。
type ListUsersQuery struct {
	Limit            int    `form:"limit,default=10" binding:"min=1,max=100"`
	Skip             int    `form:"skip,default=0" binding:"min=0"`
	ActiveOnly       bool   `form:"active_only,default=false"`
	UsernameContains string `form:"username_contains"`
}

// ListMessagesQuery 留言列表接口的查询参数。
type ListMessagesQuery struct {
	UserID int    `form:"user_id" binding:"omitempty,min=1"`
	Limit  int    `form:"limit,default=20" binding:"min=1,max=100"`
	Sort   string `form:"sort,default=desc" binding:"oneof=asc desc"`
}

// SearchUsersQuery 用户搜索接口的查询参数。
type SearchUsersQuery struct {
	Q               string `form:"q" binding:"required,min=2"`
	Limit           int    `form:"limit,default=10" binding:"min=1,max=50"`
	IncludeInactive bool   `form:"include_inactive,default=false"`
}
