// Package config is the typed, serializable configuration model of
// spec.md §3: setups, servers, endpoints, listeners, routes, mock
// responses, TLS options and parameter sets.
package config

import (
	tlsvrs "github.com/kjetilfjellheim/apinae/certificates/tlsversion"
)

// AppConfiguration is the root document loaded from a configuration file.
type AppConfiguration struct {
	Name        string             `json:"name" yaml:"name" toml:"name" mapstructure:"name" validate:"required"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty" mapstructure:"description"`
	Setups      []SetupConfiguration `json:"setups" yaml:"setups" toml:"setups" mapstructure:"setups" validate:"required,dive"`
}

// SetupConfiguration is a named, independently runnable fleet.
type SetupConfiguration struct {
	Id             string            `json:"id" yaml:"id" toml:"id" mapstructure:"id" validate:"required"`
	Name           string            `json:"name" yaml:"name" toml:"name" mapstructure:"name" validate:"required"`
	Description    string            `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty" mapstructure:"description"`
	Servers        []ServerConfiguration `json:"servers,omitempty" yaml:"servers,omitempty" toml:"servers,omitempty" mapstructure:"servers" validate:"dive"`
	Listeners      []TcpListenerData     `json:"listeners,omitempty" yaml:"listeners,omitempty" toml:"listeners,omitempty" mapstructure:"listeners" validate:"dive"`
	Params         []string          `json:"params,omitempty" yaml:"params,omitempty" toml:"params,omitempty" mapstructure:"params"`
	PredefinedSets []PredefinedSet   `json:"predefinedParams,omitempty" yaml:"predefinedParams,omitempty" toml:"predefinedParams,omitempty" mapstructure:"predefinedParams" validate:"dive"`
}

// PredefinedSet is a named, reusable mapping of parameter names to values.
type PredefinedSet struct {
	Name   string            `json:"name" yaml:"name" toml:"name" mapstructure:"name" validate:"required"`
	Values map[string]string `json:"values" yaml:"values" toml:"values" mapstructure:"values"`
}

// ServerConfiguration is one HTTP and/or HTTPS server.
type ServerConfiguration struct {
	Id         string                 `json:"id" yaml:"id" toml:"id" mapstructure:"id" validate:"required"`
	Name       string                 `json:"name" yaml:"name" toml:"name" mapstructure:"name" validate:"required"`
	HttpPort   *uint16                `json:"httpPort,omitempty" yaml:"httpPort,omitempty" toml:"httpPort,omitempty" mapstructure:"httpPort"`
	HttpsConfig *HttpsConfiguration   `json:"httpsConfig,omitempty" yaml:"httpsConfig,omitempty" toml:"httpsConfig,omitempty" mapstructure:"httpsConfig"`
	Endpoints  []EndpointConfiguration `json:"endpoints,omitempty" yaml:"endpoints,omitempty" toml:"endpoints,omitempty" mapstructure:"endpoints" validate:"dive"`
}

// DefaultSupportedTlsVersions mirrors the original's {1.2, 1.3} default.
func DefaultSupportedTlsVersions() []tlsvrs.Version {
	return []tlsvrs.Version{tlsvrs.VersionTLS12, tlsvrs.VersionTLS13}
}

// HttpsConfiguration describes the TLS Terminator's inputs (spec.md §4.7).
type HttpsConfiguration struct {
	ServerCertificate    string           `json:"serverCertificate" yaml:"serverCertificate" toml:"serverCertificate" mapstructure:"serverCertificate" validate:"required"`
	PrivateKey           string           `json:"privateKey" yaml:"privateKey" toml:"privateKey" mapstructure:"privateKey" validate:"required"`
	HttpsPort            uint16           `json:"httpsPort" yaml:"httpsPort" toml:"httpsPort" mapstructure:"httpsPort" validate:"required"`
	ClientCertificate    *string          `json:"clientCertificate,omitempty" yaml:"clientCertificate,omitempty" toml:"clientCertificate,omitempty" mapstructure:"clientCertificate"`
	SupportedTlsVersions []tlsvrs.Version `json:"supportedTlsVersions,omitempty" yaml:"supportedTlsVersions,omitempty" toml:"supportedTlsVersions,omitempty" mapstructure:"supportedTlsVersions"`
}

// Versions returns the supported TLS version set, defaulting to
// {1.2, 1.3} per spec.md §3 when the configuration leaves it empty.
func (h *HttpsConfiguration) Versions() []tlsvrs.Version {
	if len(h.SupportedTlsVersions) == 0 {
		return DefaultSupportedTlsVersions()
	}
	return h.SupportedTlsVersions
}

// EndpointType discriminates Mock vs Route; Go's closest idiomatic
// rendering of the original's tagged-union EndpointType enum.
type EndpointType string

const (
	EndpointTypeMock  EndpointType = "mock"
	EndpointTypeRoute EndpointType = "route"
)

// EndpointConfiguration is one matchable route (spec.md §4.3).
type EndpointConfiguration struct {
	Id              string                     `json:"id" yaml:"id" toml:"id" mapstructure:"id" validate:"required"`
	PathExpression  *string                    `json:"pathExpression,omitempty" yaml:"pathExpression,omitempty" toml:"pathExpression,omitempty" mapstructure:"pathExpression"`
	BodyExpression  *string                    `json:"bodyExpression,omitempty" yaml:"bodyExpression,omitempty" toml:"bodyExpression,omitempty" mapstructure:"bodyExpression"`
	Method          *string                    `json:"method,omitempty" yaml:"method,omitempty" toml:"method,omitempty" mapstructure:"method"`
	Type            EndpointType               `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty" mapstructure:"type"`
	Mock            *MockResponseConfiguration `json:"mock,omitempty" yaml:"mock,omitempty" toml:"mock,omitempty" mapstructure:"mock"`
	Route           *RouteConfiguration        `json:"route,omitempty" yaml:"route,omitempty" toml:"route,omitempty" mapstructure:"route"`
}

// MockResponseConfiguration is a mock response template (spec.md §4.4).
type MockResponseConfiguration struct {
	Response *string           `json:"response,omitempty" yaml:"response,omitempty" toml:"response,omitempty" mapstructure:"response"`
	Status   string            `json:"status" yaml:"status" toml:"status" mapstructure:"status" validate:"required"`
	Headers  map[string]string `json:"headers,omitempty" yaml:"headers,omitempty" toml:"headers,omitempty" mapstructure:"headers"`
	Delay    uint64            `json:"delay,omitempty" yaml:"delay,omitempty" toml:"delay,omitempty" mapstructure:"delay"`
}

// RouteConfiguration describes an outbound forwarding rule (spec.md §4.5).
type RouteConfiguration struct {
	Url                    string           `json:"url" yaml:"url" toml:"url" mapstructure:"url" validate:"required"`
	ProxyUrl               *string          `json:"proxyUrl,omitempty" yaml:"proxyUrl,omitempty" toml:"proxyUrl,omitempty" mapstructure:"proxyUrl"`
	Http1Only              bool             `json:"http1Only,omitempty" yaml:"http1Only,omitempty" toml:"http1Only,omitempty" mapstructure:"http1Only"`
	AcceptInvalidCerts     bool             `json:"acceptInvalidCerts,omitempty" yaml:"acceptInvalidCerts,omitempty" toml:"acceptInvalidCerts,omitempty" mapstructure:"acceptInvalidCerts"`
	AcceptInvalidHostnames bool             `json:"acceptInvalidHostnames,omitempty" yaml:"acceptInvalidHostnames,omitempty" toml:"acceptInvalidHostnames,omitempty" mapstructure:"acceptInvalidHostnames"`
	MinTlsVersion          *tlsvrs.Version  `json:"minTlsVersion,omitempty" yaml:"minTlsVersion,omitempty" toml:"minTlsVersion,omitempty" mapstructure:"minTlsVersion"`
	MaxTlsVersion          *tlsvrs.Version  `json:"maxTlsVersion,omitempty" yaml:"maxTlsVersion,omitempty" toml:"maxTlsVersion,omitempty" mapstructure:"maxTlsVersion"`
	ConnectTimeoutMs       *uint64          `json:"connectTimeoutMs,omitempty" yaml:"connectTimeoutMs,omitempty" toml:"connectTimeoutMs,omitempty" mapstructure:"connectTimeoutMs"`
	ReadTimeoutMs          *uint64          `json:"readTimeoutMs,omitempty" yaml:"readTimeoutMs,omitempty" toml:"readTimeoutMs,omitempty" mapstructure:"readTimeoutMs"`
	DelayBeforeMs          *uint64          `json:"delayBeforeMs,omitempty" yaml:"delayBeforeMs,omitempty" toml:"delayBeforeMs,omitempty" mapstructure:"delayBeforeMs"`
	DelayAfterMs           *uint64          `json:"delayAfterMs,omitempty" yaml:"delayAfterMs,omitempty" toml:"delayAfterMs,omitempty" mapstructure:"delayAfterMs"`
}

// CloseConnectionWhen is the TCP Listener's close-timing enum (spec.md §4.6).
type CloseConnectionWhen string

const (
	CloseBeforeRead     CloseConnectionWhen = "beforeRead"
	CloseAfterRead      CloseConnectionWhen = "afterRead"
	CloseAfterResponse  CloseConnectionWhen = "afterResponse"
	CloseNever          CloseConnectionWhen = "never"
)

// TcpListenerData configures one raw TCP byte-replay listener.
type TcpListenerData struct {
	Id              string              `json:"id" yaml:"id" toml:"id" mapstructure:"id" validate:"required"`
	Port            uint16              `json:"port" yaml:"port" toml:"port" mapstructure:"port" validate:"required"`
	Accept          *bool               `json:"accept,omitempty" yaml:"accept,omitempty" toml:"accept,omitempty" mapstructure:"accept"`
	File            *string             `json:"file,omitempty" yaml:"file,omitempty" toml:"file,omitempty" mapstructure:"file"`
	Data            *string             `json:"data,omitempty" yaml:"data,omitempty" toml:"data,omitempty" mapstructure:"data"`
	DelayWriteMs    *uint64             `json:"delayWriteMs,omitempty" yaml:"delayWriteMs,omitempty" toml:"delayWriteMs,omitempty" mapstructure:"delayWriteMs"`
	CloseConnection CloseConnectionWhen `json:"closeConnection,omitempty" yaml:"closeConnection,omitempty" toml:"closeConnection,omitempty" mapstructure:"closeConnection"`
}

// IsAccept returns the accept flag, defaulting to true when unset
// (mirrors the original's #[serde(default = "true")]).
func (t *TcpListenerData) IsAccept() bool {
	return t.Accept == nil || *t.Accept
}

// Close returns the close-timing enum, defaulting to AfterResponse.
func (t *TcpListenerData) Close() CloseConnectionWhen {
	if t.CloseConnection == "" {
		return CloseAfterResponse
	}
	return t.CloseConnection
}
