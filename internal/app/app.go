package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/reco-backend/internal/cfg"
	v1Http "github.com/DRSN-tech/reco-backend/internal/delivery/v1/http"
	"github.com/DRSN-tech/reco-backend/internal/infrastructure/embedder"
	"github.com/DRSN-tech/reco-backend/internal/infrastructure/genai"
	"github.com/DRSN-tech/reco-backend/internal/infrastructure/kafka"
	s3Repo "github.com/DRSN-tech/reco-backend/internal/repository/minio"
	qdrantRepo "github.com/DRSN-tech/reco-backend/internal/repository/qdrant"
	"github.com/DRSN-tech/reco-backend/internal/repository/redis"
	"github.com/DRSN-tech/reco-backend/internal/usecase"
	"github.com/DRSN-tech/reco-backend/pkg/clients"
	"github.com/DRSN-tech/reco-backend/pkg/closer"
	"github.com/DRSN-tech/reco-backend/pkg/e"
	"github.com/DRSN-tech/reco-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// App собирает зависимости сервиса: клиенты, репозитории, usecase-слои
// и HTTP-сервер. Ресурсы регистрируются в closer и закрываются в
// обратном порядке при остановке.
type App struct {
	cfg     *config.Config
	logger  logger.Logger
	httpSrv *v1Http.Server
	closer  *closer.Closer
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	cl := closer.NewCloser(2 * time.Second)

	qdrantClient, err := initQdrant(cfg, cl)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	vectorRepo := qdrantRepo.NewPointRepo(qdrantClient.Client, cfg.Qdrant)

	redisClient, err := initRedis(cfg, cl)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cacheRepo := redis.NewCacheRepo(redisClient, cfg.Redis, log)

	minioClient, err := initMinIO(cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	datasetRepo := s3Repo.NewDatasetRepo(minioClient, cfg.Minio)

	producer, err := initKafka(cfg, log, cl)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	embedderInfra := embedder.NewEmbedder(cfg.Embedder, log)
	genaiInfra := genai.NewGenerator(cfg.GenAI, log)

	recUC := usecase.NewRecommendationUC(vectorRepo, embedderInfra, cfg.Engine, log)
	catalogUC := usecase.NewCatalogUC(vectorRepo, cacheRepo, datasetRepo, embedderInfra, genaiInfra, producer, cfg.Engine, log)
	analyticsUC := usecase.NewAnalyticsUC(vectorRepo, recUC, cfg.Engine, log)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(recUC, catalogUC, analyticsUC)

	return &App{
		cfg:     cfg,
		logger:  log,
		httpSrv: v1Http.NewServer(r, cfg.Http),
		closer:  cl,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до сигнала остановки либо
// фатальной ошибки сервера.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := a.httpSrv.Stop(shutdownCtx); err != nil {
		a.logger.Errorf(err, "HTTP server shutdown error")
	} else {
		a.logger.Infof("HTTP server stopped")
	}

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("resource shutdown: %v", err)
	}

	a.logger.Infof("Application shutdown complete")

	return appErr
}

func initQdrant(cfg *config.Config, cl *closer.Closer) (*clients.QdrantClient, error) {
	qdrantClient, err := clients.NewQdrantClient(cfg.Qdrant)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := clients.EnsureCollection(ctx, qdrantClient); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	// расхождение размерностей фатально, проверяем до первого запроса
	if err := clients.VerifyCollectionDimension(ctx, qdrantClient); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	cl.Add(func(_ context.Context) error {
		return qdrantClient.Client.Close()
	})

	return qdrantClient, nil
}

func initRedis(cfg *config.Config, cl *closer.Closer) (*clients.RedisClient, error) {
	redisClient := clients.NewRedisClient(cfg.Redis)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	cl.Add(func(_ context.Context) error {
		return redisClient.Client.Close()
	})

	return redisClient, nil
}

func initMinIO(cfg *config.Config) (*minio.Client, error) {
	minioClient, err := clients.NewMinIOClient(cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := clients.EnsureBucket(ctx, minioClient, cfg.Minio.BucketName); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return minioClient, nil
}

func initKafka(cfg *config.Config, log logger.Logger, cl *closer.Closer) (*kafka.Producer, error) {
	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	cl.Add(func(_ context.Context) error {
		return producer.Close()
	})

	return producer, nil
}
