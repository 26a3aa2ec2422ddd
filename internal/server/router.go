package server

import (
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/Pyyho/Technology-MIREA/internal/config"
	"github.com/Pyyho/Technology-MIREA/internal/metrics"
	"github.com/Pyyho/Technology-MIREA/internal/mw"
	"github.com/Pyyho/Technology-MIREA/internal/service"
	"github.com/Pyyho/Technology-MIREA/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

func init() {
	// 校验错误按 json/form 标签名报告字段，而不是 Go 字段名。
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return fld.Name
		})
	}
}

// SetupRouter 统一初始化 Gin 中间件与全部 REST 端点。
func SetupRouter(cfg config.Config, st *store.Store) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mw.RequestLog())
	r.Use(mw.CORS(cfg.Env))
	r.Use(metrics.GinMiddleware())
	// 控制单个 IP 的速率，避免教学环境被刷爆。
	r.Use(mw.RateLimit(rate.Every(time.Second/20), 40))

	h := NewHandler(cfg, st, service.NewUserService(st), service.NewMessageService(st))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/", h.Root)
	r.GET("/info", h.Info)

	r.GET("/users", h.ListUsers)
	r.POST("/users", h.CreateUser)
	r.GET("/users/by-username/:username", h.GetUserByUsername)
	r.GET("/users/:id", h.GetUserByID)
	r.PUT("/users/:id", h.ReplaceUser)
	r.PATCH("/users/:id", h.PatchUser)
	r.DELETE("/users/:id", h.DeleteUser)
	r.POST("/users/:id/messages", h.CreateMessage)

	r.GET("/messages", h.ListMessages)
	r.GET("/search", h.SearchUsers)

	return r
}
