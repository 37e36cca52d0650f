// Package supervisor implements the Server Supervisor of spec.md §4.1:
// from a setup and its resolved parameter bindings, it instantiates
// every HTTP server and TCP listener and starts them sequentially.
package supervisor

import (
	"github.com/kjetilfjellheim/apinae/config"
	liberr "github.com/kjetilfjellheim/apinae/errors"
	"github.com/kjetilfjellheim/apinae/internal/httpserver"
	"github.com/kjetilfjellheim/apinae/internal/paramresolver"
	"github.com/kjetilfjellheim/apinae/internal/tcplistener"
)

// Startable is the common capability shared by an HTTP server and a TCP
// listener (Design Notes §9 "Polymorphism over {HTTP server, TCP
// listener}"): bind synchronously, then run in the background.
type Startable interface {
	Start() liberr.Error
}

// Supervisor holds the homogeneous collection of instances for one setup.
type Supervisor struct {
	instances []Startable
}

// Setup builds every HTTP server and TCP listener instance for the
// given setup, capturing a deep copy of its configuration and the
// resolved bindings. No I/O happens yet.
func Setup(setup *config.SetupConfiguration, bindings []paramresolver.Binding) (*Supervisor, liberr.Error) {
	s := &Supervisor{}

	for _, server := range setup.Servers {
		server := server
		srv, err := httpserver.New(server, bindings)
		if err != nil {
			return nil, err
		}
		s.instances = append(s.instances, srv)
	}

	for _, listener := range setup.Listeners {
		s.instances = append(s.instances, tcplistener.New(listener))
	}

	return s, nil
}

// StartAll starts every instance sequentially. The first bind failure
// is reported and no further instances are started (spec.md §4.1).
func (s *Supervisor) StartAll() liberr.Error {
	for _, instance := range s.instances {
		if err := instance.Start(); err != nil {
			return err
		}
	}
	return nil
}
