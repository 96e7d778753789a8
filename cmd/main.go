package main

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"airwaves/messaging-service/internal/auth"
	"airwaves/messaging-service/internal/config"
	grpcServer "airwaves/messaging-service/internal/grpc"
	"airwaves/messaging-service/internal/httpapi"
	"airwaves/messaging-service/internal/logger"
	"airwaves/messaging-service/internal/realtime"
	"airwaves/messaging-service/internal/repository"
	"airwaves/messaging-service/internal/service"
	"airwaves/messaging-service/internal/storage"

	pb "github.com/kegazani/metachat-proto/chat"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load("./config", "/app/config")
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.New(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	log.Info("Connected to PostgreSQL database")

	chatRepo := repository.NewChatRepository(db)
	if err := chatRepo.InitializeTables(ctx); err != nil {
		log.Fatalf("Failed to initialize database tables: %v", err)
	}
	userRepo := repository.NewUserRepository(db)

	broker := newBroker(ctx, cfg.Redis, log)
	defer broker.Close()

	uploader := newUploader(ctx, cfg.Storage, log)

	authService := auth.NewService(userRepo, auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL), log)
	chatService := service.NewChatService(chatRepo, uploader, broker, log, service.Options{
		PageSize:       cfg.Messaging.PageSize,
		ThreadCacheTTL: cfg.Messaging.ThreadCacheTTL,
	})

	sessions := service.NewSessionManager(chatService, broker, log, cfg.Messaging.RefreshDelay)
	unbind := sessions.BindAuth(authService)
	defer unbind()

	address := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	lis, err := net.Listen("tcp", address)
	if err != nil {
		log.Fatalf("Failed to listen on %s: %v", address, err)
	}

	s := grpc.NewServer(grpc.UnaryInterceptor(auth.UnaryInterceptor(authService)))
	pb.RegisterChatServiceServer(s, grpcServer.NewChatServer(chatService, log))

	if cfg.GRPC.ReflectionEnabled {
		reflection.Register(s)
		log.Info("gRPC reflection enabled")
	}

	go func() {
		log.Infof("Starting gRPC server on %s", address)
		if err := s.Serve(lis); err != nil {
			log.Fatalf("Failed to start gRPC server: %v", err)
		}
	}()

	var httpSrv *http.Server
	if cfg.HTTP.Enabled {
		api := httpapi.NewServer(chatService, authService, sessions, cfg.HTTP, log)
		httpSrv = &http.Server{
			Addr:              net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port),
			Handler:           api.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Infof("Starting HTTP server on %s", httpSrv.Addr)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("Failed to start HTTP server: %v", err)
			}
		}()
	}

	<-ctx.Done()

	log.Info("Shutting down servers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GRPC.ShutdownTimeout)
	defer cancel()

	sessions.CloseAll()

	if httpSrv != nil {
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("HTTP server shutdown")
		}
	}

	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		log.Info("gRPC server exited gracefully")
	case <-shutdownCtx.Done():
		log.Info("gRPC server shutdown timeout")
		s.Stop()
	}

	log.Info("Server exited")
}

func newBroker(ctx context.Context, cfg config.RedisConfig, log *logrus.Logger) realtime.Broker {
	if cfg.URL == "" {
		log.Info("Using in-process realtime broker")
		return realtime.NewLocalBroker()
	}
	broker, err := realtime.NewRedisBroker(ctx, cfg.URL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Info("Connected to Redis realtime broker")
	return broker
}

func newUploader(ctx context.Context, cfg config.StorageConfig, log *logrus.Logger) storage.Uploader {
	if cfg.Bucket == "" {
		log.Warn("No storage bucket configured, media messages are disabled")
		return nil
	}
	uploader, err := storage.NewS3Uploader(ctx, storage.S3Config{
		Bucket:          cfg.Bucket,
		Region:          cfg.Region,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		Endpoint:        cfg.Endpoint,
		PublicBaseURL:   cfg.PublicBaseURL,
		MaxSizeBytes:    cfg.MaxUploadBytes,
	})
	if err != nil {
		log.Fatalf("Failed to configure media storage: %v", err)
	}
	return uploader
}
