//go:build windows

package main

import (
	"os"
	"os/signal"

	"github.com/kjetilfjellheim/apinae/internal/logger"
)

// waitForTerminate blocks until Ctrl-C/Break/Close/Shutdown, mirroring
// the original's tokio::signal::windows wait (spec.md §6).
func waitForTerminate() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	received := <-sig
	logger.Infof("received signal %v, terminating", received)
}
