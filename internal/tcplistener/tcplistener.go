// Package tcplistener implements the TCP Listener state machine of
// spec.md §4.6, grounded on the original's accept/read/write/close
// loop (original_source/apinae-daemon/src/server/tcp.rs), translated
// to idiomatic Go: a deadline-bounded read stands in for the Rust
// readiness poll, since net.Conn has no direct readiness primitive.
package tcplistener

import (
	"errors"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/kjetilfjellheim/apinae/apperror"
	"github.com/kjetilfjellheim/apinae/config"
	liberr "github.com/kjetilfjellheim/apinae/errors"
	"github.com/kjetilfjellheim/apinae/internal/logger"
)

const pollInterval = 10 * time.Microsecond

// Listener owns one bound TCP port and replays the configured payload
// per connection according to the close-timing state machine.
type Listener struct {
	data config.TcpListenerData
	ln   net.Listener
}

// New creates a Listener capturing a copy of the configuration. No I/O
// happens until Start is called.
func New(data config.TcpListenerData) *Listener {
	return &Listener{data: data}
}

// Start binds the listener synchronously (so bind failures surface to
// the caller) and spawns the background accept loop. Implements the
// Startable capability from Design Notes §9.
func (l *Listener) Start() liberr.Error {
	addr := "127.0.0.1:" + strconv.Itoa(int(l.data.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return apperror.Bind("failed to bind tcp listener on port "+strconv.Itoa(int(l.data.Port)), err)
	}
	l.ln = ln
	logger.Infof("tcp listener %s listening on %d", l.data.Id, l.data.Port)

	go l.acceptLoop()

	return nil
}

func (l *Listener) acceptLoop() {
	for {
		if !l.data.IsAccept() {
			time.Sleep(time.Second)
			continue
		}

		conn, err := l.ln.Accept()
		if err != nil {
			logger.Errorf("tcp listener %s: accept failed: %v", l.data.Id, err)
			continue
		}

		go func() {
			defer conn.Close()
			if err := handleConnection(conn, l.data); err != nil {
				logger.Errorf("tcp listener %s: %v", l.data.Id, err)
			}
			logger.Infof("tcp listener %s: connection closed", l.data.Id)
		}()
	}
}

// handleConnection runs the per-connection state machine of spec.md §4.6.
//
// written only gates whether a payload write is still owed for the
// current read cycle; it is reset unconditionally every time the drain
// step runs, mirroring the original's readable branch which clears it
// whether or not any bytes actually arrived that tick.
func handleConnection(conn net.Conn, data config.TcpListenerData) error {
	written := true

	for {
		time.Sleep(pollInterval)

		if data.Close() == config.CloseBeforeRead {
			return nil
		}

		closed, err := drain(conn)
		if err != nil {
			return err
		}
		if closed {
			return nil
		}
		written = false

		if data.Close() == config.CloseAfterRead {
			return nil
		}

		if !written {
			if data.DelayWriteMs != nil {
				time.Sleep(time.Duration(*data.DelayWriteMs) * time.Millisecond)
			}

			writePayload(conn, data)

			if data.Close() == config.CloseAfterResponse {
				return nil
			}
			written = true
		}
	}
}

// drain reads any bytes currently available from conn, logging them,
// and reports whether the peer has closed its side of the connection.
// A deadline-bound read stands in for a readiness poll, so an empty,
// error-free read just means nothing arrived within this tick, not
// that the peer is gone; only io.EOF means that.
func drain(conn net.Conn) (closed bool, err error) {
	buf := make([]byte, 4096)

	for {
		_ = conn.SetReadDeadline(time.Now().Add(pollInterval))
		n, rerr := conn.Read(buf)
		_ = conn.SetReadDeadline(time.Time{})

		if n > 0 {
			logger.Debugf("received %d bytes", n)
		}

		if rerr == nil {
			continue
		}
		if errors.Is(rerr, io.EOF) {
			return true, nil
		}
		if ne, ok := rerr.(net.Error); ok && ne.Timeout() {
			return false, nil
		}
		return false, rerr
	}
}

// writePayload emits the literal data if set, else the file contents
// (data wins if both are set, per spec.md §3). Read/write failures are
// logged but not fatal for the listener.
func writePayload(conn net.Conn, data config.TcpListenerData) {
	if data.Data != nil {
		logger.Infof("sending: %s", *data.Data)
		if _, err := conn.Write([]byte(*data.Data)); err != nil {
			logger.Errorf("failed to write data: %v", err)
		}
		return
	}

	if data.File != nil {
		contents, err := os.ReadFile(*data.File)
		if err != nil {
			logger.Errorf("failed to read file: %v", err)
			return
		}
		if _, err := conn.Write(contents); err != nil {
			logger.Errorf("failed to write file: %v", err)
		}
	}
}
