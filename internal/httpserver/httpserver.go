// Package httpserver implements the HTTP Server and its request-dispatch
// pipeline (spec.md §4.2-§4.5): one or two bound listening sockets
// (plain and/or TLS) built on gin, mirroring the original's actix
// default_service catch-all, dispatching every request through the
// Endpoint Matcher, Mock Responder and Route Forwarder.
package httpserver

import (
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kjetilfjellheim/apinae/apperror"
	"github.com/kjetilfjellheim/apinae/config"
	liberr "github.com/kjetilfjellheim/apinae/errors"
	"github.com/kjetilfjellheim/apinae/internal/logger"
	"github.com/kjetilfjellheim/apinae/internal/matcher"
	"github.com/kjetilfjellheim/apinae/internal/mockresponder"
	"github.com/kjetilfjellheim/apinae/internal/paramresolver"
	"github.com/kjetilfjellheim/apinae/internal/routeforwarder"
	"github.com/kjetilfjellheim/apinae/internal/tlsterm"
)

// workerPoolSize is the HTTP server's fixed worker-pool contract
// (spec.md §4.2: "a worker pool of 2 parallel workers").
const workerPoolSize = 2

const (
	notImplementedBody = "Not implemented"
)

// Server owns one ServerConfiguration's plain and/or TLS listeners.
type Server struct {
	config    config.ServerConfiguration
	bindings  []paramresolver.Binding
	endpoints []matcher.CompiledEndpoint
	workers   chan struct{}
}

// New compiles the server's endpoints and captures the resolved
// bindings. No sockets are bound yet.
func New(server config.ServerConfiguration, bindings []paramresolver.Binding) (*Server, liberr.Error) {
	compiled, err := matcher.Compile(server.Endpoints)
	if err != nil {
		return nil, err
	}

	return &Server{
		config:    server,
		bindings:  bindings,
		endpoints: compiled,
		workers:   make(chan struct{}, workerPoolSize),
	}, nil
}

// Start binds the configured plain HTTP and/or HTTPS listeners
// synchronously, surfacing bind failures to the caller, then serves
// each in its own background goroutine. Implements supervisor.Startable.
func (s *Server) Start() liberr.Error {
	engine := s.newEngine()

	if s.config.HttpPort != nil {
		if err := s.startHTTP(engine, *s.config.HttpPort); err != nil {
			return err
		}
	}

	if s.config.HttpsConfig != nil {
		if err := s.startHTTPS(engine, s.config.HttpsConfig); err != nil {
			return err
		}
	}

	return nil
}

func (s *Server) newEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.NoRoute(s.dispatch)
	return engine
}

func (s *Server) startHTTP(engine *gin.Engine, port uint16) liberr.Error {
	addr := "127.0.0.1:" + strconv.Itoa(int(port))
	ln, err := bindTCP(addr)
	if err != nil {
		return err
	}

	srv := &http.Server{Handler: engine}
	go func() {
		logger.Infof("server %s: http listening on %d", s.config.Id, port)
		if serveErr := srv.Serve(ln); serveErr != nil && serveErr != http.ErrServerClosed {
			logger.Errorf("server %s: http server stopped: %v", s.config.Id, serveErr)
		}
	}()

	return nil
}

func (s *Server) startHTTPS(engine *gin.Engine, https *config.HttpsConfiguration) liberr.Error {
	tlsConfig, err := tlsterm.Build(https)
	if err != nil {
		return err
	}

	addr := "127.0.0.1:" + strconv.Itoa(int(https.HttpsPort))
	ln, err := bindTCP(addr)
	if err != nil {
		return err
	}

	srv := &http.Server{Handler: engine, TLSConfig: tlsConfig}
	go func() {
		logger.Infof("server %s: https listening on %d", s.config.Id, https.HttpsPort)
		if serveErr := srv.ServeTLS(ln, "", ""); serveErr != nil && serveErr != http.ErrServerClosed {
			logger.Errorf("server %s: https server stopped: %v", s.config.Id, serveErr)
		}
	}()

	return nil
}

// dispatch is the catch-all handler implementing spec.md §4.2 steps 1-8.
func (s *Server) dispatch(c *gin.Context) {
	s.workers <- struct{}{}
	defer func() { <-s.workers }()

	requestID := uuid.New().String()

	var body *string
	if raw, err := io.ReadAll(c.Request.Body); err == nil {
		if str, ok := asUTF8(raw); ok {
			body = &str
		}
	}

	pathWithQuery := c.Request.URL.Path
	query := c.Request.URL.RawQuery
	if query != "" && query != "=" {
		pathWithQuery += "?" + query
	}

	endpoint := matcher.Match(s.endpoints, matcher.Request{
		PathWithQuery: pathWithQuery,
		Method:        c.Request.Method,
		Body:          body,
	})

	if endpoint == nil {
		logger.Debugf("request %s: no endpoint matched %s", requestID, pathWithQuery)
		c.Data(http.StatusNotImplemented, "text/plain", []byte(notImplementedBody))
		return
	}

	switch endpoint.Config.Type {
	case config.EndpointTypeMock:
		s.serveMock(c, requestID, endpoint.Config.Mock)
	case config.EndpointTypeRoute:
		s.serveRoute(c, requestID, endpoint.Config.Route, body)
	default:
		c.Data(http.StatusNotImplemented, "text/plain", []byte(notImplementedBody))
	}
}

func (s *Server) serveMock(c *gin.Context, requestID string, mock *config.MockResponseConfiguration) {
	resp, err := mockresponder.Generate(mock, s.bindings)
	if err != nil {
		// Dispatch pipeline step 6 (spec.md §4.2): any handler error,
		// mock or route, surfaces as 501 "Not implemented".
		logger.Errorf("request %s: mock generation failed: %v", requestID, err)
		c.Data(http.StatusNotImplemented, "text/plain", []byte(notImplementedBody))
		return
	}

	for k, v := range resp.Headers {
		c.Header(k, v)
	}
	c.Data(resp.Status, contentTypeOf(resp.Headers), []byte(resp.Body))
}

func (s *Server) serveRoute(c *gin.Context, requestID string, route *config.RouteConfiguration, body *string) {
	var raw []byte
	if body != nil {
		raw = []byte(*body)
	}

	resp, err := routeforwarder.Forward(route, &routeforwarder.InboundRequest{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.RawQuery,
		Header: c.Request.Header,
		Body:   raw,
	})
	if err != nil {
		logger.Errorf("request %s: routing failed: %v", requestID, err)
		c.Data(http.StatusNotImplemented, "text/plain", []byte(notImplementedBody))
		return
	}

	for k, values := range resp.Header {
		for _, v := range values {
			c.Header(k, v)
		}
	}
	c.Data(resp.Status, "", resp.Body)
}

func contentTypeOf(headers map[string]string) string {
	for k, v := range headers {
		if strings.EqualFold(k, "Content-Type") {
			return v
		}
	}
	return "application/octet-stream"
}

func asUTF8(b []byte) (string, bool) {
	if len(b) == 0 {
		return "", false
	}
	if !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}

func bindTCP(addr string) (net.Listener, liberr.Error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, apperror.Bind("failed to bind server on "+addr, err)
	}
	return ln, nil
}
