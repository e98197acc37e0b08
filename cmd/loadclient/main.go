package main

import (
	"context"
	"flag"
	"math/rand"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"

	"socialweb/logger"
	"socialweb/models"
	"socialweb/storage"
	"socialweb/store"
	"socialweb/transport"
)

type Stats struct {
	TotalRequests   int64
	SuccessRequests int64
	FailedRequests  int64
	TotalDuration   int64
}

type Config struct {
	APIURL         string
	Username       string
	Password       string
	Workers        int
	Duration       int
	RequestsPerSec int
	PostIDFrom     int64
	PostIDTo       int64
}

var stats Stats

// loadclient гоняет операции кешей против бэкенда из нескольких горутин
// и печатает статистику, как нагрузочный клиент
func main() {
	config := parseFlags()

	log, err := logger.New("info")
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()
	log.Info("Starting load client",
		zap.String("url", config.APIURL),
		zap.Int("workers", config.Workers),
		zap.Int("rps", config.RequestsPerSec),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if config.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(config.Duration)*time.Second)
		defer cancel()
	}

	app := store.New(store.Deps{
		API:     transport.New(transport.Options{BaseURL: config.APIURL, Logger: log.Named("api")}),
		Storage: storage.NewMemory(),
		Logger:  log.Named("store"),
	})
	if err = app.Auth.Login(ctx, config.Username, config.Password); err != nil {
		log.Fatal("Login failed", zap.Error(err))
	}

	requestsPerWorker := config.RequestsPerSec / config.Workers
	if requestsPerWorker == 0 {
		requestsPerWorker = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go worker(ctx, i, app, config, requestsPerWorker, log, &wg)
	}
	go printStats(ctx, log)

	wg.Wait()
	printFinalStats(log)
}

func parseFlags() Config {
	config := Config{}

	flag.StringVar(&config.APIURL, "url", "http://localhost:8000", "Backend API URL")
	flag.StringVar(&config.Username, "username", "", "Account used for the run")
	flag.StringVar(&config.Password, "password", "", "Account password")
	flag.IntVar(&config.Workers, "workers", 10, "Number of concurrent workers")
	flag.IntVar(&config.Duration, "duration", 60, "Test duration in seconds (0 for infinite)")
	flag.IntVar(&config.RequestsPerSec, "rps", 50, "Requests per second target")
	flag.Int64Var(&config.PostIDFrom, "post-from", 1, "Starting post/reel ID range")
	flag.Int64Var(&config.PostIDTo, "post-to", 100, "Ending post/reel ID range")

	flag.Parse()
	config.normalize()
	return config
}

// normalize чинит значения флагов, с которыми воркеры не смогут работать
func (c *Config) normalize() {
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.PostIDFrom < 1 {
		c.PostIDFrom = 1
	}
	if c.PostIDTo < c.PostIDFrom {
		c.PostIDFrom, c.PostIDTo = c.PostIDTo, c.PostIDFrom
		if c.PostIDFrom < 1 {
			c.PostIDFrom = 1
		}
	}
}

func worker(ctx context.Context, id int, app *store.Store, config Config, requestsPerSec int, log *zap.Logger, wg *sync.WaitGroup) {
	defer wg.Done()

	ticker := time.NewTicker(time.Second / time.Duration(requestsPerSec))
	defer ticker.Stop()

	operations := []string{"fetch_posts", "fetch_post", "vote_post", "fetch_reels", "like_reel", "fetch_comments"}
	done := 0
	for {
		select {
		case <-ctx.Done():
			log.Info("Worker stopping", zap.Int("worker", id), zap.Int("operations", done))
			return
		case <-ticker.C:
			operation := operations[rand.Intn(len(operations))]
			target := randID(config.PostIDFrom, config.PostIDTo)

			start := time.Now()
			var err error
			switch operation {
			case "fetch_posts":
				_, err = app.Posts.FetchPosts(ctx, models.PostQuery{Limit: 10, Skip: rand.Intn(5) * 10})
			case "fetch_post":
				_, err = app.Posts.FetchPostByID(ctx, target)
			case "vote_post":
				err = app.Posts.VotePost(ctx, target)
			case "fetch_reels":
				_, err = app.Reels.FetchReels(ctx, models.ReelQuery{Limit: 10})
			case "like_reel":
				err = app.Reels.LikeReel(ctx, target)
			case "fetch_comments":
				_, err = app.Comments.FetchComments(ctx, target)
			}
			duration := time.Since(start)
			done++

			atomic.AddInt64(&stats.TotalRequests, 1)
			atomic.AddInt64(&stats.TotalDuration, duration.Milliseconds())
			if err != nil {
				atomic.AddInt64(&stats.FailedRequests, 1)
				log.Debug("operation failed", zap.String("operation", operation), zap.Error(err))
			} else {
				atomic.AddInt64(&stats.SuccessRequests, 1)
			}
		}
	}
}

func randID(from, to int64) int64 {
	return from + rand.Int63n(to-from+1)
}

func snapshot() (total, success, failed, avgLatency int64, successRate float64) {
	total = atomic.LoadInt64(&stats.TotalRequests)
	success = atomic.LoadInt64(&stats.SuccessRequests)
	failed = atomic.LoadInt64(&stats.FailedRequests)
	if total > 0 {
		avgLatency = atomic.LoadInt64(&stats.TotalDuration) / total
		successRate = float64(success) / float64(total) * 100
	}
	return
}

func printStats(ctx context.Context, log *zap.Logger) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			total, success, failed, avg, rate := snapshot()
			log.Info("[STATS]",
				zap.Int64("total", total),
				zap.Int64("success", success),
				zap.Int64("failed", failed),
				zap.Float64("success_rate", rate),
				zap.Int64("avg_latency_ms", avg),
			)
		}
	}
}

func printFinalStats(log *zap.Logger) {
	total, success, failed, avg, rate := snapshot()
	log.Info("========== FINAL STATISTICS ==========",
		zap.Int64("total", total),
		zap.Int64("success", success),
		zap.Int64("failed", failed),
		zap.Float64("success_rate", rate),
		zap.Int64("avg_latency_ms", avg),
	)
}
