// Package main реализует точку входа службы аутентификации.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"authgate/internal/auth/adapters/postgres"
	authredis "authgate/internal/auth/adapters/redis"
	"authgate/internal/auth/adapters/services"
	"authgate/internal/auth/app"
	"authgate/internal/auth/config"
	postgresdb "authgate/pkg/db/postgres"
	redisdb "authgate/pkg/db/redis"
	"authgate/pkg/logger"
	"authgate/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "AUTH_LOGGER_MODE"
	EnvLoggerLevel = "AUTH_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger = "failed to initialize logger"
	ErrSyncLogger = "failed to sync logger"
	ErrLoadConfig = "failed to load configuration"
	ErrInitDB     = "failed to initialize database"
	ErrInitRedis  = "failed to initialize revocation store"
	ErrSelfCheck  = "token issue/verify self-check failed"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "authentication service started"
	LogServiceShutdownDone = "authentication service shutdown complete"
	LogClosingDB           = "closing database connections"
	LogClosingRedis        = "closing revocation store connection"
	LogInitRepo            = "initializing repositories"
	LogInitServices        = "initializing services"
	LogInitUseCases        = "initializing use cases"
)

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		database, err := postgresdb.New(ctx, cfg.Postgres.GetDSN(), cfg.Postgres.MinConn, cfg.Postgres.MaxConn)
		if err != nil {
			log.Error(ctx, ErrInitDB, zap.Error(err))
			exitCode = 1
			return
		}

		redisClient, err := redisdb.NewClient(ctx, cfg.Redis.ToClientConfig())
		if err != nil {
			log.Error(ctx, ErrInitRedis, zap.Error(err))
			database.Close(ctx)
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitRepo)
		userRepo := postgres.NewUserRepository(database.Pool())
		denylist := authredis.NewTokenDenylist(redisClient)

		log.Info(ctx, LogInitServices)
		factory := services.NewServiceFactory(
			cfg.Token.SecretKey,
			cfg.Token.GetAccessTokenTTL(),
			cfg.Token.BCryptCost,
			denylist,
		)

		log.Info(ctx, LogInitUseCases)
		authUseCase := app.NewAuthUseCase(userRepo, factory.PasswordService(), factory.TokenService())

		// Самопроверка перед началом обслуживания: выдача и проверка
		// токена затрагивает подпись и хранилище отозванных токенов.
		probe, _, err := factory.TokenService().Issue(ctx, "startup-probe", time.Minute)
		if err == nil {
			_, err = authUseCase.VerifyToken(ctx, probe)
		}
		if err != nil {
			log.Error(ctx, ErrSelfCheck, zap.Error(err))
			database.Close(ctx)
			_ = redisClient.Close()
			exitCode = 1
			return
		}

		log.Info(ctx, LogServiceStarted)

		shutdown.Wait(cfg.Shutdown.GetTimeout(),
			func(hookCtx context.Context) error {
				log.Info(hookCtx, LogClosingDB)
				database.Close(hookCtx)
				return nil
			},
			func(hookCtx context.Context) error {
				log.Info(hookCtx, LogClosingRedis)
				return redisClient.Close()
			},
		)

		log.Info(ctx, LogServiceShutdownDone)
	}()

	os.Exit(exitCode)
}
