package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"TimeWise/internal/handler/api"
	"TimeWise/internal/repository"
	icache "TimeWise/internal/service/cache"
	"TimeWise/internal/usecase"
	pkgcache "TimeWise/pkg/cache"
	pkgch "TimeWise/pkg/clickhouse"
	"TimeWise/pkg/config"
	xhttp "TimeWise/pkg/http"
	pkgkafka "TimeWise/pkg/kafka"
	applogger "TimeWise/pkg/logger"
	"TimeWise/pkg/queue"

	"github.com/redis/go-redis/v9"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	collector   *usecase.PointCollector
	consumer    *pkgkafka.Consumer
	kh          pkgkafka.MessageHandler
	chClient    *pkgch.Client
	analyzer    *usecase.TrendAnalyzer
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
	hub         *api.LiveHub
	refitQueue  *queue.RedisQueue
	PointProc   *usecase.PointProcessor
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	collector *usecase.PointCollector,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	analyzer *usecase.TrendAnalyzer,
) *App {
	return &App{
		cfg:       cfg,
		collector: collector,
		consumer:  consumer,
		kh:        kh,
		chClient:  chClient,
		analyzer:  analyzer,
	}
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// init app logger (console info by default)
	l, _ := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})

	analyzer := a.analyzer
	if analyzer == nil && a.chClient != nil {
		store := repository.NewClickHouseStore(a.chClient.DB(),
			a.cfg.ClickHouse.Database+".series_points",
			a.cfg.ClickHouse.Database+".trend_reports")
		analyzer = usecase.NewTrendAnalyzer(store, nil, nil)
	}

	// Optional Redis wiring: report cache and background refit queue.
	var rdb *redis.Client
	if a.cfg.Analysis.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     a.cfg.Analysis.Redis.Addr,
			Password: a.cfg.Analysis.Redis.Password,
			DB:       a.cfg.Analysis.Redis.DB,
		})
		if analyzer != nil {
			analyzer.SetCache(icache.NewRedisCache(icache.RedisConfig{
				Addr:     a.cfg.Analysis.Redis.Addr,
				Password: a.cfg.Analysis.Redis.Password,
				DB:       a.cfg.Analysis.Redis.DB,
			}), a.cfg.Analysis.CacheTTL)
		}
	} else if analyzer != nil {
		analyzer.SetCache(icache.NewTTLCache(), a.cfg.Analysis.CacheTTL)
	}

	if analyzer != nil {
		analyzer.SetLogger(l)
		a.hub = api.NewLiveHub(l)
		analyzer.SetSink(a.hub)
	}

	// Setup Echo HTTP server using pkg/http and register routes via handler
	httpHandler := a.httpHandler
	if httpHandler == nil && analyzer != nil {
		th := api.NewTrendEchoHandler(l, analyzer)
		if a.hub != nil {
			th.SetHub(a.hub)
		}
		httpHandler = th
	}

	a.httpServer = xhttp.NewServer(httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Start collector when a feed is configured
	if a.collector != nil {
		go func() {
			if err := a.collector.Start(ctx); err != nil {
				l.Error("collector error", applogger.Error(err))
			}
		}()
		l.Info("collector started", applogger.Strings("series", a.cfg.Feed.Series))
	}

	// Start consumer if configured
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Start background refit workers when the queue is enabled
	if rdb != nil && analyzer != nil && a.cfg.Analysis.Queue.Enabled {
		job := usecase.NewRefitJob(analyzer, a.cfg.Analysis.Window, a.cfg.Analysis.Horizon)
		if locker, err := a.newRefitLocker(); err != nil {
			l.Warn("refit lock cache unavailable", applogger.Error(err))
		} else {
			job.SetLocker(locker)
		}
		a.refitQueue = queue.NewRedisConsumer(l, &queue.QueueConfig{
			Workers:    a.cfg.Analysis.Queue.Workers,
			RetryLimit: a.cfg.Analysis.Queue.RetryLimit,
			RetryDelay: a.cfg.Analysis.Queue.RetryDelay,
		}, rdb, []queue.Job{job})
		if err := a.refitQueue.Start(); err != nil {
			l.Error("refit queue start error", applogger.Error(err))
		} else {
			a.refitQueue.StartRetryProcessor()
			l.Info("refit queue started", applogger.Int("workers", a.cfg.Analysis.Queue.Workers))
			// aggregate error logs onto the queue for offline inspection
			l.AddCollector(&applogger.CollectionConfig{
				TimeInterval:   30 * time.Second,
				CountThreshold: 100,
				Topic:          "logs",
				Publisher:      a.refitQueue,
			})
		}
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// newRefitLocker builds a layered cache over the analysis Redis for the
// refit workers' per-series locks.
func (a *App) newRefitLocker() (pkgcache.Service, error) {
	host, portStr, err := net.SplitHostPort(a.cfg.Analysis.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("redis addr: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("redis port: %w", err)
	}
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(a.cfg.Analysis.Redis.Password),
		pkgcache.WithRedisDB(a.cfg.Analysis.Redis.DB),
	)
	if err != nil {
		return nil, err
	}
	return pkgcache.NewLayeredCache(rc), nil
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	l, err := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		log.Printf("failed to create logger: %v", err)
		return err
	}
	l.Info("shutting down...")

	// Stop collector (pipeline + stream)
	if a.collector != nil {
		if err := a.collector.Shutdown(ctx); err != nil {
			l.Warn("collector stop error", applogger.Error(err))
		}
	}

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	// Disconnect live subscribers
	if a.hub != nil {
		a.hub.Close()
	}

	// Stop refit workers
	if a.refitQueue != nil {
		if err := a.refitQueue.Stop(shutdownCtx); err != nil {
			l.Warn("refit queue stop error", applogger.Error(err))
		}
	}

	// Close infrastructure clients
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	// Stop consumer
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Close point processor resources (publisher/storage)
	if a.PointProc != nil {
		a.PointProc.Close()
	}

	l.Info("shutdown complete")
	return nil
}
