package service

import (
	"sort"
	"time"

	"github.com/Pyyho/Technology-MIREA/internal/metrics"
	"github.com/Pyyho/Technology-MIREA/internal/models"
	"github.com/Pyyho/Technology-MIREA/internal/store"
)

// MessageService 封装留言相关的业务逻辑。
type MessageService struct {
	store *store.Store
}

func NewMessageService(st *store.Store) *MessageService {
	return &MessageService{store: st}
}

// List 按 user_id 过滤后按 created_at 排序（默认倒序），再截断到 limit。
// 时间相同的留言保持追加顺序。
func (s *MessageService) List(q models.ListMessagesQuery) []models.Message {
	msgs := s.store.Messages()

	if q.UserID > 0 {
		filtered := msgs[:0]
		for _, m := range msgs {
			if m.UserID == q.UserID {
				filtered = append(filtered, m)
			}
		}
		msgs = filtered
	}

	if q.Sort == "asc" {
		sort.SliceStable(msgs, func(i, j int) bool {
			return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
		})
	} else {
		sort.SliceStable(msgs, func(i, j int) bool {
			return msgs[j].CreatedAt.Before(msgs[i].CreatedAt)
		})
	}

	if len(msgs) > q.Limit {
		msgs = msgs[:q.Limit]
	}
	return msgs
}

// CreateForUser 为指定用户创建留言。仅在创建时校验用户存在，
// 之后用户被删除也不会清理留言。
func (s *MessageService) CreateForUser(userID int, req models.CreateMessageRequest) (models.Message, error) {
	if _, ok := s.store.GetUser(userID); !ok {
		return models.Message{}, &NotFoundError{Resource: "user", Key: userID}
	}
	m := s.store.InsertMessage(models.Message{
		UserID:    userID,
		Content:   req.Content,
		CreatedAt: time.Now(),
	})
	metrics.MessagesCreatedTotal.Inc()
	return m, nil
}
