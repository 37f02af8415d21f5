// Package shutdown предоставляет функциональность для корректного завершения приложения
// путем ожидания и обработки сигналов SIGINT и SIGTERM.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"authgate/pkg/logger"
)

const (
	msgSignalReceived  = "shutdown signal received"
	msgHookFailed      = "shutdown hook failed"
	msgShutdownTimeout = "shutdown timed out before all hooks completed"
)

// Hook - функция освобождения ресурса при завершении работы.
type Hook func(context.Context) error

// Wait блокирует выполнение до получения сигнала SIGINT или SIGTERM,
// затем выполняет все хуки параллельно в рамках заданного timeout.
func Wait(timeout time.Duration, hooks ...Hook) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log := logger.Log(ctx)
	log.Info(ctx, msgSignalReceived, zap.String("signal", sig.String()))

	var wgp sync.WaitGroup
	for _, hook := range hooks {
		wgp.Add(1)
		go func(fn Hook) {
			defer wgp.Done()
			if err := fn(ctx); err != nil {
				log.Error(ctx, msgHookFailed, zap.Error(err))
			}
		}(hook)
	}

	done := make(chan struct{})
	go func() {
		wgp.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		log.Warn(ctx, msgShutdownTimeout)
	}
}
