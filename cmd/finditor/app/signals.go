package app

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/sonemaro/finditor/pkg/logger"
)

// signalState tracks the state of signal handling
type signalState struct {
	shutdownInitiated atomic.Bool
}

// setupSignalHandling cancels the search on the first SIGINT or SIGTERM and
// exits immediately on the second. The returned function stops handling.
func (a *App) setupSignalHandling(cancel context.CancelFunc) (stop func()) {
	a.log.Debug("Initializing signal handlers")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go a.handleSignals(sigChan, done, cancel, &signalState{})

	return func() {
		signal.Stop(sigChan)
		close(done)
	}
}

// handleSignals processes incoming system signals until done is closed
func (a *App) handleSignals(sigChan <-chan os.Signal, done <-chan struct{}, cancel context.CancelFunc, state *signalState) {
	for {
		select {
		case <-done:
			return
		case sig := <-sigChan:
			a.log.WithFields(logger.Fields{
				"signal": sig.String(),
			}).Debug("Received system signal")

			if !state.shutdownInitiated.CompareAndSwap(false, true) {
				a.handleForcedShutdown()
				return
			}
			a.log.Warn("Interrupt received, stopping search")
			cancel()
		}
	}
}

// handleForcedShutdown performs an immediate shutdown
func (a *App) handleForcedShutdown() {
	a.log.Warn("Received second interrupt, exiting")
	a.stopProgress()
	if a.writer != nil {
		_ = a.writer.Flush()
	}
	_ = a.log.Sync()
	a.exit(130)
}
