// Package shutdown provides the graceful shutdown plumbing shared by the long
// running commands.
package shutdown

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func CreateGracefulShutdownChannel() chan os.Signal {
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGTERM, syscall.SIGINT)
	return gracefulShutdown
}

// ListenForShutdown blocks until a shutdown signal arrives, runs the handler
// and then waits the grace period before returning.
func ListenForShutdown(
	gracefulShutdown chan os.Signal,
	done chan bool,
	handler func(),
	gracePeriod time.Duration,
	l *zap.Logger,
) {
	go func() {
		sig := <-gracefulShutdown
		l.Sugar().Infow("received shutdown signal", zap.String("signal", sig.String()))
		handler()
		time.Sleep(gracePeriod)
		done <- true
	}()
	<-done
}
