package store

import (
	"sync"
	"time"

	"github.com/Pyyho/Technology-MIREA/internal/models"
)

// Store 进程内唯一的数据存储，替代真实数据库。
// 所有读写都经过同一把锁；两个自增计数器在删除后也不回退，
// 保证 id 不被复用。
type Store struct {
	mu            sync.RWMutex
	users         map[int]*models.User
	userOrder     []int
	messages      []models.Message
	nextUserID    int
	nextMessageID int
}

func New() *Store {
	return &Store{
		users:         make(map[int]*models.User),
		nextUserID:    1,
		nextMessageID: 1,
	}
}

// Seed 写入两个演示用户，模拟服务启动时的初始数据。
func (s *Store) Seed() {
	now := time.Now()
	s.InsertUser(models.User{Username: "vasya", Email: "vasya@example.com", IsActive: true, CreatedAt: now})
	s.InsertUser(models.User{Username: "katya", Email: "katya@example.com", IsActive: true, CreatedAt: now})
}

// InsertUser 分配下一个用户 id 并保存，返回落库后的完整实体。
func (s *Store) InsertUser(u models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.nextUserID
	s.nextUserID++
	s.users[u.ID] = &u
	s.userOrder = append(s.userOrder, u.ID)
	return u
}

// GetUser 按 id 查找用户。
func (s *Store) GetUser(id int) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, false
	}
	return *u, true
}

// DeleteUser 删除用户，id 之后不再复用。返回是否存在。
func (s *Store) DeleteUser(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return false
	}
	delete(s.users, id)
	for i, uid := range s.userOrder {
		if uid == id {
			s.userOrder = append(s.userOrder[:i], s.userOrder[i+1:]...)
			break
		}
	}
	return true
}

// UpdateUser 在锁内对用户执行 fn，保证修改要么整体可见要么不发生。
// 用户不存在时 fn 不会被调用。
func (s *Store) UpdateUser(id int, fn func(*models.User)) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, false
	}
	fn(u)
	return *u, true
}

// Users 按插入顺序返回全量用户快照。
func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		out = append(out, *s.users[id])
	}
	return out
}

// InsertMessage 分配下一个留言 id 并追加保存。
func (s *Store) InsertMessage(m models.Message) models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.nextMessageID
	s.nextMessageID++
	s.messages = append(s.messages, m)
	return m
}

// Messages 返回全量留言快照，保持追加顺序。
func (s *Store) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// CountUsers 当前用户数。
func (s *Store) CountUsers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// CountMessages 当前留言数。
func (s *Store) CountMessages() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}
