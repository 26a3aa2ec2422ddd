package mw

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	lim  *rate.Limiter
	seen time.Time
}

// RL 按客户端 IP 维护一组令牌桶，闲置条目定期回收。
type RL struct {
	mu    sync.Mutex
	m     map[string]*clientLimiter
	rate  rate.Limit
	burst int
	ttl   time.Duration
	stop  chan struct{}
}

func NewRateLimiter(r rate.Limit, burst int, ttl time.Duration) *RL {
	return &RL{m: make(map[string]*clientLimiter), rate: r, burst: burst, ttl: ttl, stop: make(chan struct{})}
}

func (rl *RL) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cl, ok := rl.m[ip]
	if ok {
		cl.seen = time.Now()
		return cl.lim
	}
	lim := rate.NewLimiter(rl.rate, rl.burst)
	rl.m[ip] = &clientLimiter{lim: lim, seen: time.Now()}
	return lim
}

func (rl *RL) gc() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			now := time.Now()
			rl.mu.Lock()
			for ip, cl := range rl.m {
				if now.Sub(cl.seen) > rl.ttl {
					delete(rl.m, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Stop 停止 GC goroutine，用于优雅停服。
func (rl *RL) Stop() {
	select {
	case <-rl.stop:
	default:
		close(rl.stop)
	}
}

// RateLimit 返回基于客户端 IP 的令牌桶限速中间件，避免教学环境被刷爆。
func RateLimit(r rate.Limit, burst int) gin.HandlerFunc {
	rl := NewRateLimiter(r, burst, 2*time.Minute)
	go rl.gc()
	return func(c *gin.Context) {
		if !rl.get(clientIP(c.Request.RemoteAddr)).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

func clientIP(remote string) string {
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		return remote
	}
	return host
}
