//go:build !windows

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/kjetilfjellheim/apinae/internal/logger"
)

// waitForTerminate blocks until SIGINT or SIGTERM, mirroring the
// original's tokio::signal::unix wait (spec.md §6 terminate-signal
// collaborator). Termination is abrupt: no graceful drain (spec.md §5).
func waitForTerminate() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	received := <-sig
	logger.Infof("received signal %v, terminating", received)
}
