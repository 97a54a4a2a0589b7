package main

import (
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"routing/config"
	"routing/controller/route_api"
	"routing/dao"
	"routing/executor"
	"routing/graph"
	"routing/middleware"
	"routing/models"
	"routing/planner"
)

// log init
func init() {
	logDir := "./logs"
	os.MkdirAll(logDir, 0755)

	fileLogger := &lumberjack.Logger{
		Filename:   logDir + "/routing.log",
		MaxSize:    100, // MB
		MaxBackups: 7,
		MaxAge:     30, // Days
		Compress:   true,
	}

	// Output to both file and stdout (for systemd)
	multiWriter := io.MultiWriter(os.Stdout, fileLogger)
	log.SetOutput(multiWriter)

	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetLevel(log.InfoLevel)

	log.Infof("Logging initialized: file=%s/routing.log, stdout=enabled", logDir)
}

// buildStore loads the topology from MySQL when configured, otherwise it
// falls back to the seeded default network.
func buildStore(cfg *config.Config) *graph.Store {
	if cfg.Database.Enabled {
		db := middleware.ConnectToDB(cfg.Database)
		if db != nil {
			store, err := models.LoadGraph(db)
			if err == nil {
				return store
			}
			log.Warnf("loading topology from MySQL failed, using seed network: %v", err)
		}
	}
	log.Infof("using seeded default road network")
	return graph.SeedNetwork()
}

func main() {
	cfg, err := middleware.LoadConfig("routing_config.toml")
	if err != nil {
		log.Fatalf("loading configuration failed, err:%v", err)
	}

	store := buildStore(cfg)
	summary := store.Summarize()
	log.Infof("road network ready: %d nodes, %d roads", summary.TotalNodes, summary.TotalRoads)

	var plOpts []planner.Option
	if cfg.Planner.TruckMinCapacity > 0 {
		plOpts = append(plOpts, planner.WithTruckMinCapacity(cfg.Planner.TruckMinCapacity))
	}
	pl := planner.New(store, plOpts...)

	var opts []executor.Option
	if cfg.Redis.Enabled {
		pool := middleware.CreateRedisPool(cfg.Redis.Address)
		opts = append(opts, executor.WithArchiver(dao.NewTaskArchive(pool, cfg.Redis.ArchiveSeconds)))
		defer middleware.CloseRedisPool()
	}

	exec, err := executor.New(
		pl,
		cfg.Executor.MaxWorkers,
		cfg.Executor.QueueSize,
		time.Duration(cfg.Executor.RequestTimeout)*time.Second,
		opts...,
	)
	if err != nil {
		log.Fatalf("creating task executor failed, err:%v", err)
	}
	defer exec.Close()

	port := cfg.Server.Port
	if port == "" {
		port = "8000"
	}
	server := route_api.NewServer(store, exec, port)
	server.Start()

	log.Infof("routing core init success")

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	<-signalChan
	log.Infof("received signal, shutting down")

	server.Stop()
	middleware.CloseDB()
}
