package service

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Pyyho/Technology-MIREA/internal/metrics"
	"github.com/Pyyho/Technology-MIREA/internal/models"
	"github.com/Pyyho/Technology-MIREA/internal/store"
)

// UserService 封装用户相关的业务逻辑。
type UserService struct {
	store *store.Store
}

func NewUserService(st *store.Store) *UserService {
	return &UserService{store: st}
}

// GetByID 按 id 查找用户。
func (s *UserService) GetByID(id int) (models.User, error) {
	u, ok := s.store.GetUser(id)
	if !ok {
		return models.User{}, &NotFoundError{Resource: "user", Key: id}
	}
	return u, nil
}

// GetByUsername 按用户名精确查找，返回第一个匹配。
func (s *UserService) GetByUsername(username string) (models.User, error) {
	for _, u := range s.store.Users() {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, &NotFoundError{Resource: "user", Key: username}
}

// Delete 删除用户。留言不级联删除，user_id 允许悬空。
func (s *UserService) Delete(id int) error {
	if !s.store.DeleteUser(id) {
		return &NotFoundError{Resource: "user", Key: id}
	}
	metrics.UsersStored.Set(float64(s.store.CountUsers()))
	return nil
}

// List 按 活跃过滤 → 用户名子串过滤 → skip/limit 分页 的顺序返回用户。
func (s *UserService) List(q models.ListUsersQuery) []models.User {
	users := s.store.Users()

	if q.ActiveOnly {
		filtered := users[:0]
		for _, u := range users {
			if u.IsActive {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}

	if q.UsernameContains != "" {
		needle := strings.ToLower(q.UsernameContains)
		filtered := users[:0]
		for _, u := range users {
			if strings.Contains(strings.ToLower(u.Username), needle) {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}

	if q.Skip >= len(users) {
		return []models.User{}
	}
	users = users[q.Skip:]
	if len(users) > q.Limit {
		users = users[:q.Limit]
	}
	return users
}

// Create 创建新用户。email 完全相等（区分大小写）视为冲突。
func (s *UserService) Create(req models.CreateUserRequest) (models.User, error) {
	for _, u := range s.store.Users() {
		if u.Email == req.Email {
			return models.User{}, &ConflictError{Field: "email", Value: req.Email}
		}
	}
	u := s.store.InsertUser(models.User{
		Username:  req.Username,
		Email:     req.Email,
		IsActive:  true,
		CreatedAt: time.Now(),
	})
	metrics.UsersStored.Set(float64(s.store.CountUsers()))
	return u, nil
}

// Replace 整体替换 username 和 email。id、created_at、is_active 不变，
// password 只校验不存储。
func (s *UserService) Replace(id int, req models.CreateUserRequest) (models.User, error) {
	u, ok := s.store.UpdateUser(id, func(u *models.User) {
		u.Username = req.Username
		u.Email = req.Email
	})
	if !ok {
		return models.User{}, &NotFoundError{Resource: "user", Key: id}
	}
	return u, nil
}

// Patch 只应用请求中出现的字段；显式传 null 视为非法取值。
func (s *UserService) Patch(id int, req models.UpdateUserRequest) (models.User, error) {
	if req.Username.Present && req.Username.Null {
		return models.User{}, &ValidationError{Field: "username", Constraint: "non-null"}
	}
	if req.Email.Present && req.Email.Null {
		return models.User{}, &ValidationError{Field: "email", Constraint: "non-null"}
	}
	if req.IsActive.Present && req.IsActive.Null {
		return models.User{}, &ValidationError{Field: "is_active", Constraint: "non-null"}
	}
	if v, ok := req.Username.Get(); ok {
		// 与创建路径的 binding 约束一致：按字符数而不是字节数
		if n := utf8.RuneCountInString(v); n < 3 || n > 50 {
			return models.User{}, &ValidationError{Field: "username", Constraint: "min=3,max=50"}
		}
	}

	u, found := s.store.UpdateUser(id, func(u *models.User) {
		if v, ok := req.Username.Get(); ok {
			u.Username = v
		}
		if v, ok := req.Email.Get(); ok {
			u.Email = v
		}
		if v, ok := req.IsActive.Get(); ok {
			u.IsActive = v
		}
	})
	if !found {
		return models.User{}, &NotFoundError{Resource: "user", Key: id}
	}
	return u, nil
}

// Search 在 username 与 email 上做不区分大小写的子串匹配，
// 结果保持存储的插入顺序。
func (s *UserService) Search(q models.SearchUsersQuery) []models.User {
	needle := strings.ToLower(q.Q)
	results := make([]models.User, 0)
	for _, u := range s.store.Users() {
		if !strings.Contains(strings.ToLower(u.Username), needle) &&
			!strings.Contains(strings.ToLower(u.Email), needle) {
			continue
		}
		if !q.IncludeInactive && !u.IsActive {
			continue
		}
		results = append(results, u)
		if len(results) == q.Limit {
			break
		}
	}
	return results
}
