package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Pyyho/Technology-MIREA/internal/config"
	"github.com/Pyyho/Technology-MIREA/internal/models"
	"github.com/Pyyho/Technology-MIREA/internal/service"
	"github.com/Pyyho/Technology-MIREA/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// Handler 聚合所有 HTTP handler，依赖注入 service 层。
type Handler struct {
	cfg     config.Config
	store   *store.Store
	userSvc *service.UserService
	msgSvc  *service.MessageService
}

func NewHandler(cfg config.Config, st *store.Store, userSvc *service.UserService, msgSvc *service.MessageService) *Handler {
	return &Handler{cfg: cfg, store: st, userSvc: userSvc, msgSvc: msgSvc}
}

// fieldError 校验失败时对外输出的单字段明细。
type fieldError struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
}

// bindError 把绑定/校验错误转成带字段明细的 400 响应。
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]fieldError, 0, len(verrs))
		for _, fe := range verrs {
			constraint := fe.Tag()
			if fe.Param() != "" {
				constraint += "=" + fe.Param()
			}
			fields = append(fields, fieldError{Field: fe.Field(), Constraint: constraint})
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
}

// serviceError 把业务层错误映射到 HTTP 状态码。
func serviceError(c *gin.Context, err error) {
	var nf *service.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
		return
	}
	var cf *service.ConflictError
	if errors.As(err, &cf) {
		c.JSON(http.StatusConflict, gin.H{"error": cf.Error()})
		return
	}
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": []fieldError{{Field: ve.Field, Constraint: ve.Constraint}},
		})
		return
	}
	log.Error().Err(err).Msg("unexpected service error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// userID 解析路径里的用户 id，要求正整数。
func userID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	return id, true
}

// Root 根路径问候。
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":  "Hello, MIREA!",
		"app_name": h.cfg.AppName,
		"version":  h.cfg.AppVersion,
		"topic":    "path, query and body parameters",
	})
}

// GetUserByID 按 id 获取用户（路径参数示例）。
func (h *Handler) GetUserByID(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	u, err := h.userSvc.GetByID(id)
	if err != nil {
		log.Warn().Int("user_id", id).Msg("user not found")
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// GetUserByUsername 按用户名获取用户（路径参数示例）。
func (h *Handler) GetUserByUsername(c *gin.Context) {
	username := c.Param("username")
	u, err := h.userSvc.GetByUsername(username)
	if err != nil {
		log.Warn().Str("username", username).Msg("user not found")
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// DeleteUser 按 id 删除用户。
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	if err := h.userSvc.Delete(id); err != nil {
		serviceError(c, err)
		return
	}
	log.Info().Int("user_id", id).Msg("user deleted")
	c.JSON(http.StatusOK, gin.H{"message": "user " + strconv.Itoa(id) + " deleted"})
}

// ListUsers 用户列表：活跃过滤、用户名子串过滤、skip/limit 分页（查询参数示例）。
func (h *Handler) ListUsers(c *gin.Context) {
	var q models.ListUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	users := h.userSvc.List(q)
	log.Debug().Int("count", len(users)).Int("limit", q.Limit).Int("skip", q.Skip).Msg("list users")
	c.JSON(http.StatusOK, users)
}

// ListMessages 留言列表：按用户过滤、按时间排序、截断（查询参数示例）。
func (h *Handler) ListMessages(c *gin.Context) {
	var q models.ListMessagesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.msgSvc.List(q))
}

// CreateUser 创建用户（请求体参数示例）。email 重复返回 409。
func (h *Handler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	u, err := h.userSvc.Create(req)
	if err != nil {
		var cf *service.ConflictError
		if errors.As(err, &cf) {
			log.Warn().Str("email", req.Email).Msg("duplicate email")
		}
		serviceError(c, err)
		return
	}
	log.Info().Int("user_id", u.ID).Str("username", u.Username).Msg("user created")
	c.JSON(http.StatusCreated, u)
}

// CreateMessage 为指定用户创建留言（路径 + 请求体参数示例）。
func (h *Handler) CreateMessage(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var req models.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	m, err := h.msgSvc.CreateForUser(id, req)
	if err != nil {
		serviceError(c, err)
		return
	}
	log.Info().Int("message_id", m.ID).Int("user_id", id).Msg("message created")
	c.JSON(http.StatusOK, m)
}

// ReplaceUser 整体替换（PUT）：要求完整请求体，覆盖 username 和 email。
func (h *Handler) ReplaceUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	u, err := h.userSvc.Replace(id, req)
	if err != nil {
		serviceError(c, err)
		return
	}
	log.Info().Int("user_id", id).Msg("user replaced")
	c.JSON(http.StatusOK, u)
}

// PatchUser 部分更新（PATCH）：只应用请求中出现的字段。
func (h *Handler) PatchUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	u, err := h.userSvc.Patch(id, req)
	if err != nil {
		serviceError(c, err)
		return
	}
	log.Info().Int("user_id", id).Msg("user patched")
	c.JSON(http.StatusOK, u)
}

// SearchUsers 在用户名和 email 上搜索（组合查询参数示例）。
func (h *Handler) SearchUsers(c *gin.Context) {
	var q models.SearchUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	results := h.userSvc.Search(q)
	log.Debug().Str("q", q.Q).Int("count", len(results)).Msg("search users")
	c.JSON(http.StatusOK, results)
}

// Info 应用元信息与存储统计。
func (h *Handler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"app_name":       h.cfg.AppName,
		"version":        h.cfg.AppVersion,
		"debug_mode":     h.cfg.Debug,
		"database_url":   h.cfg.DatabaseURL,
		"total_users":    h.store.CountUsers(),
		"total_messages": h.store.CountMessages(),
	})
}
