package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/catalog-backend/internal/cfg"
	v1Grpc "github.com/DRSN-tech/catalog-backend/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/catalog-backend/internal/delivery/v1/http"
	"github.com/DRSN-tech/catalog-backend/internal/infrastructure/kafka"
	minioInfra "github.com/DRSN-tech/catalog-backend/internal/infrastructure/minio"
	s3Repo "github.com/DRSN-tech/catalog-backend/internal/repository/minio"
	"github.com/DRSN-tech/catalog-backend/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/catalog-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/catalog-backend/internal/repository/redis"
	redisConv "github.com/DRSN-tech/catalog-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/clients"
	"github.com/DRSN-tech/catalog-backend/pkg/closer"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/DRSN-tech/catalog-backend/pkg/postgres"
	"github.com/DRSN-tech/catalog-backend/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	connectTimeout    = 10 * time.Second
	ensureTopicWindow = 10 * time.Second
)

// App собирает зависимости сервиса категорий и управляет их жизненным циклом.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv *v1Http.Server
	grpcSrv *v1Grpc.GRPCServer
	outbox  *kafka.OutboxWorker

	// отменяется последним: фоновые очистки MinIO живут до конца завершения
	baseCtx    context.Context
	cancelBase context.CancelFunc
}

func NewApp(cfg *config.Config, logger logger.Logger) (_ *App, err error) {
	a := &App{
		cfg:    cfg,
		logger: logger,
		closer: closer.NewCloser(0),
	}
	a.baseCtx, a.cancelBase = context.WithCancel(context.Background())
	a.closer.Add("base context", func(context.Context) error {
		a.cancelBase()
		return nil
	})

	// при ошибке сборки освобождаем всё, что успели открыть
	defer func() {
		if err != nil {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
			defer cancel()
			if closeErr := a.closer.Close(ctx); closeErr != nil {
				logger.Warnf("partial init cleanup: %v", closeErr)
			}
		}
	}()

	db, err := a.initPGDB()
	if err != nil {
		return nil, err
	}

	catConv := pgdbConv.NewCategoryConverter()
	outboxConv := pgdbConv.NewOutboxEventConverter()
	snapshotConv := redisConv.NewCategoriesSnapshotConverter()

	categoryRepo := pgdb.NewCategoryRepo(db.Pool, catConv)
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, outboxConv)
	txManager := tr.NewManager(db.Pool)

	redisClient := clients.NewRedisClient(cfg.Redis)
	a.closer.Add("redis", func(context.Context) error {
		return redisClient.Client.Close()
	})

	redisCtx, redisCancel := context.WithTimeout(context.Background(), connectTimeout)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		logger.Errorf(err, "failed to connect to redis")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cacheRepo := redis.NewCacheRepo(redisClient, snapshotConv, cfg.Redis, logger)

	imagesInfra, err := a.initImages()
	if err != nil {
		return nil, err
	}

	producer, err := kafka.NewProducer(logger, cfg.Kafka)
	if err != nil {
		logger.Errorf(err, "failed to initialize kafka producer")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add("kafka producer", func(context.Context) error {
		return producer.Close()
	})

	// Kafka может подняться позже: события копятся в outbox до первой успешной отправки
	if err := producer.EnsureTopic(ensureTopicWindow); err != nil {
		logger.Warnf("kafka topic %s is not ready: %v", cfg.Kafka.Topic, err)
	}

	categoryUC := usecase.NewCategoryUC(
		categoryRepo,
		outboxRepo,
		cacheRepo,
		imagesInfra,
		kafka.EventCodec{},
		txManager,
		logger,
	)

	a.outbox = kafka.NewOutboxWorker(outboxRepo, logger, producer, cfg.Outbox, db.Dsn)
	a.closer.Add("outbox worker", func(context.Context) error {
		a.outbox.Stop()
		return nil
	})

	a.grpcSrv = v1Grpc.NewGRPCServer(cfg.Grpc, logger)
	a.grpcSrv.RegisterServices(categoryUC)
	a.closer.Add("grpc server", a.grpcSrv.Stop)

	r := chi.NewRouter()
	v1Http.NewRouter(r, logger).Init(categoryUC, cfg.Minio.MaxImageSize)

	a.httpSrv = v1Http.NewServer(r, cfg.Http)
	a.closer.Add("http server", a.httpSrv.Stop)

	return a, nil
}

// Run запускает серверы и outbox-воркер и блокируется до сигнала или фатальной ошибки сервера.
func (a *App) Run() error {
	a.outbox.Start(a.baseCtx)

	errCh := make(chan error, 2)
	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			errCh <- e.Wrap("gRPC server", err)
		}
	}()

	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- e.Wrap("HTTP server", err)
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.App.ShutdownTimeout)
	defer cancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
		if appErr == nil {
			appErr = err
		}
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

func (a *App) initPGDB() (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(a.cfg.Db)
	if err != nil {
		a.logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add("postgres", func(context.Context) error {
		db.Close()
		return nil
	})

	if a.cfg.App.RunMigrations {
		if err := db.RunMigrations(a.logger); err != nil {
			a.logger.Errorf(err, "failed to run migrations")
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	if err := db.Ping(); err != nil {
		a.logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}

func (a *App) initImages() (*minioInfra.MinioInfrastructure, error) {
	minioClient, err := clients.NewMinIOClient(a.cfg)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize minio client")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), connectTimeout)
	defer minioCancel()
	if err := clients.EnsureBucket(minioCtx, minioClient, a.cfg.Minio.BucketName); err != nil {
		a.logger.Errorf(err, "failed to initialize MinIO bucket")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	imageRepo := s3Repo.NewImageRepo(minioClient, a.cfg.Minio)
	imagesInfra := minioInfra.NewMinioInfrastructure(imageRepo, a.cfg.Minio, a.logger, a.baseCtx)
	a.closer.Add("minio cleanup", func(ctx context.Context) error {
		if err := imagesInfra.WaitForCleanup(ctx); err != nil {
			a.logger.Warnf("MinIO cleanup did not finish, some orphaned objects may remain: %v", err)
			return err
		}
		a.logger.Infof("MinIO cleanup completed")
		return nil
	})

	return imagesInfra, nil
}
