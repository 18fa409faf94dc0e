package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/bau-server/internal/config"
	"github.com/taoyao-code/bau-server/internal/health"
	"github.com/taoyao-code/bau-server/internal/host"
	"github.com/taoyao-code/bau-server/internal/httpserver"
	"github.com/taoyao-code/bau-server/internal/logging"
	"github.com/taoyao-code/bau-server/internal/metrics"
	"github.com/taoyao-code/bau-server/internal/storage/pg"
	redisstore "github.com/taoyao-code/bau-server/internal/storage/redis"
	"github.com/taoyao-code/bau-server/internal/transport/serialport"
)

func main() {
	// 1) 加载配置
	cfg, err := cfgpkg.Load("")
	if err != nil {
		panic(err)
	}

	// 2) 初始化日志
	logger, err := logging.InitLogger(cfg.Logging)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)
	log := zap.L()

	// 3) 指标注册与处理器
	reg := metrics.NewRegistry()
	appMetrics := metrics.NewAppMetrics(reg)
	metricsHandler := metrics.Handler(reg)

	// 4) 数据库
	db, err := pg.Open(cfg.Database)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	if err := pg.Migrate(db); err != nil {
		log.Fatal("migrate database", zap.Error(err))
	}
	repo := pg.NewRepo(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	acceptor, err := repo.EnsureAcceptor(ctx, cfg.Serial.Port)
	if err != nil {
		log.Fatal("ensure acceptor", zap.Error(err))
	}

	// 5) 健康检查聚合器
	agg := health.NewAggregator(health.NewDatabaseChecker(db))

	// 6) Redis 状态缓存（可选）
	var statusCache *redisstore.StatusCache
	if cfg.Redis.Enabled {
		rdb, err := redisstore.NewClient(cfg.Redis)
		if err != nil {
			log.Fatal("connect redis", zap.Error(err))
		}
		defer func() { _ = rdb.Close() }()
		statusCache = redisstore.NewStatusCache(rdb, cfg.Redis.StatusTTL)
		agg.AddChecker(health.NewRedisChecker(rdb))
	}

	// 7) 串口与轮询协程
	port, err := serialport.Open(cfg.Serial)
	if err != nil {
		log.Fatal("open serial port", zap.Error(err))
	}
	defer func() { _ = port.Close() }()

	poller := host.NewPoller(port, cfg.Acceptor, log, appMetrics)
	agg.AddChecker(health.NewAcceptorChecker(poller))

	var cacheSetter host.StatusSetter
	if statusCache != nil {
		cacheSetter = statusCache
	}
	recorder := host.NewRecorder(acceptor.ID, repo, cacheSetter, log)

	go recorder.Run(ctx, poller.Events())
	go func() {
		if err := poller.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("poller stopped", zap.Error(err))
		}
	}()

	// 8) HTTP 服务
	api := &httpserver.API{
		AcceptorID: acceptor.ID,
		Repo:       repo,
		Control:    poller,
	}
	if statusCache != nil {
		api.Status = statusCache
	}
	readyFn := func() bool { return agg.Ready(context.Background()) }
	httpSrv := httpserver.New(cfg.HTTP, cfg.Metrics.Path, metricsHandler, readyFn, api, agg)

	go func() {
		if err := httpSrv.Start(); err != nil {
			log.Error("http server error", zap.Error(err))
		}
	}()

	log.Info("bau-server started",
		zap.String("serial", cfg.Serial.Port),
		zap.String("http", cfg.HTTP.Addr),
		zap.Int64("acceptorId", acceptor.ID))

	// 信号处理，优雅关闭
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = httpSrv.Shutdown(shutdownCtx)
}
