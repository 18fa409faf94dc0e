package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	cfgpkg "github.com/taoyao-code/bau-server/internal/config"
	"github.com/taoyao-code/bau-server/internal/health"
	"github.com/taoyao-code/bau-server/internal/protocol/ebds"
	"github.com/taoyao-code/bau-server/internal/storage/models"
	redisstore "github.com/taoyao-code/bau-server/internal/storage/redis"
)

// StatusGetter 状态缓存读取能力
type StatusGetter interface {
	Get(ctx context.Context, acceptorID int64) (ebds.StatusView, error)
}

// EventLister 接收器档案与入账记录查询能力
type EventLister interface {
	GetAcceptor(ctx context.Context, id int64) (*models.Acceptor, error)
	ListCreditEvents(ctx context.Context, acceptorID int64, limit int) ([]models.CreditEvent, error)
	LatestStatus(ctx context.Context, acceptorID int64) (*models.StatusLog, error)
}

// EscrowControl 暂存位控制能力（压钞/退钞）
type EscrowControl interface {
	Stack()
	Return()
}

// API 接收器查询与控制接口的依赖
type API struct {
	AcceptorID int64
	Status     StatusGetter // 可为 nil（未启用 Redis）
	Repo       EventLister
	Control    EscrowControl
}

// Server HTTP 服务封装
type Server struct {
	srv *http.Server
}

// New 创建并配置 Gin + HTTP Server，注册健康检查、指标与业务路由
func New(cfg cfgpkg.HTTPConfig, metricsPath string, metricsHandler http.Handler, readyFn func() bool, api *API, agg *health.Aggregator) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/readyz", func(c *gin.Context) {
		if readyFn == nil || readyFn() {
			c.String(http.StatusOK, "ready")
			return
		}
		c.String(http.StatusServiceUnavailable, "not-ready")
	})
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	if metricsHandler != nil {
		r.GET(metricsPath, gin.WrapH(metricsHandler))
	}

	if agg != nil {
		health.RegisterHTTPRoutes(r, agg)
	}

	if api != nil {
		v1 := r.Group("/api/v1")
		v1.GET("/acceptors/:id", api.getAcceptor)
		v1.GET("/acceptors/:id/status", api.getStatus)
		v1.GET("/acceptors/:id/events", api.listEvents)
		if api.Control != nil {
			v1.POST("/acceptors/:id/stack", api.stack)
			v1.POST("/acceptors/:id/return", api.returnNote)
		}
	}

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return &Server{srv: srv}
}

// Start 启动 HTTP 服务（阻塞）
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown 优雅关闭
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (a *API) acceptorID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id != a.AcceptorID {
		c.JSON(http.StatusNotFound, gin.H{"error": "acceptor not found"})
		return 0, false
	}
	return id, true
}

// getAcceptor 返回接收器档案（串口、型号、件号、最近在线时间）
func (a *API) getAcceptor(c *gin.Context) {
	id, ok := a.acceptorID(c)
	if !ok {
		return
	}

	acceptor, err := a.Repo.GetAcceptor(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "acceptor not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"acceptor": acceptor})
}

// getStatus 返回接收器最新状态：优先缓存，缺失时回退数据库
func (a *API) getStatus(c *gin.Context) {
	id, ok := a.acceptorID(c)
	if !ok {
		return
	}

	if a.Status != nil {
		view, err := a.Status.Get(c.Request.Context(), id)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"source": "cache", "status": view})
			return
		}
		if !errors.Is(err, redisstore.ErrStatusNotCached) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	entry, err := a.Repo.LatestStatus(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no status recorded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"source": "db", "status": entry})
}

// listEvents 返回接收器最近的入账记录
func (a *API) listEvents(c *gin.Context) {
	id, ok := a.acceptorID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	events, err := a.Repo.ListCreditEvents(c.Request.Context(), id, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// stack 指示暂存位上的纸币压钞
func (a *API) stack(c *gin.Context) {
	if _, ok := a.acceptorID(c); !ok {
		return
	}
	a.Control.Stack()
	c.JSON(http.StatusAccepted, gin.H{"action": "stack"})
}

// returnNote 指示暂存位上的纸币退钞
func (a *API) returnNote(c *gin.Context) {
	if _, ok := a.acceptorID(c); !ok {
		return
	}
	a.Control.Return()
	c.JSON(http.StatusAccepted, gin.H{"action": "return"})
}
