package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"codepair/internal/api"
	"codepair/internal/autocomplete"
	"codepair/internal/config"
	"codepair/internal/metrics"
	"codepair/internal/routers"
	"codepair/internal/store"
)

func newRoomStore(cfg *config.Config, logger *zap.Logger) store.RoomStore {
	switch cfg.StoreBackend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		logger.Info("using redis room store", zap.String("addr", cfg.RedisAddr))
		return store.NewRedisStore(rdb)
	default:
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		gs := store.NewGormStore(db)
		if err := gs.Migrate(); err != nil {
			logger.Fatal("failed to migrate database", zap.Error(err))
		}
		logger.Info("using postgres room store")
		return gs
	}
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()

	roomStore := newRoomStore(cfg, logger)

	suggester, err := autocomplete.New()
	if err != nil {
		logger.Fatal("failed to load autocomplete patterns", zap.Error(err))
	}

	h := api.NewHandlers(logger, roomStore, suggester)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(metrics.Middleware("codepair"))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())
	r.Mount("/", routers.New(h))

	addr := ":" + cfg.Port
	log.Printf("codepair-svc listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
