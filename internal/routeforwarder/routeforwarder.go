// Package routeforwarder implements the Route Forwarder of spec.md §4.5:
// it builds and dispatches an outbound HTTP request mirroring the
// inbound one, honouring proxy, TLS and timeout controls, and
// translates the upstream response back.
package routeforwarder

import (
	"bytes"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kjetilfjellheim/apinae/apperror"
	tlsvrs "github.com/kjetilfjellheim/apinae/certificates/tlsversion"
	"github.com/kjetilfjellheim/apinae/config"
	liberr "github.com/kjetilfjellheim/apinae/errors"
)

// InboundRequest is the subset of the inbound request forwarded upstream.
type InboundRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// Response is the translated upstream response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Forward runs the algorithm of spec.md §4.5 steps 1-6.
func Forward(route *config.RouteConfiguration, in *InboundRequest) (*Response, liberr.Error) {
	client, err := buildClient(route)
	if err != nil {
		return nil, err
	}

	if route.DelayBeforeMs != nil {
		time.Sleep(time.Duration(*route.DelayBeforeMs) * time.Millisecond)
	}

	outboundURL := strings.TrimRight(route.Url, "/") + in.Path
	if q := rebuildQuery(in.Query); q != "" {
		outboundURL += "?" + q
	}

	req, rerr := http.NewRequest(in.Method, outboundURL, bytes.NewReader(in.Body))
	if rerr != nil {
		return nil, apperror.Routing(apperror.CodeRouting, "failed to build outbound request", rerr)
	}
	req.Header = in.Header.Clone()

	resp, rerr := client.Do(req)
	if rerr != nil {
		return nil, apperror.Routing(apperror.CodeRouting, "outbound request failed", rerr)
	}
	defer resp.Body.Close()

	body, rerr := io.ReadAll(resp.Body)
	if rerr != nil {
		return nil, apperror.Routing(apperror.CodeRouting, "failed to read upstream response body", rerr)
	}

	for _, values := range resp.Header {
		for _, v := range values {
			if !isASCII(v) {
				return nil, apperror.Routing(apperror.CodeRoutingHeader, "upstream header value is not ASCII-representable")
			}
		}
	}

	out := &Response{Status: resp.StatusCode, Header: resp.Header.Clone(), Body: body}

	if route.DelayAfterMs != nil {
		time.Sleep(time.Duration(*route.DelayAfterMs) * time.Millisecond)
	}

	return out, nil
}

// buildClient implements 4.5.1: connect/read timeouts, HTTP/1.1-only,
// TLS trust overrides, min TLS version, and proxy.
func buildClient(route *config.RouteConfiguration) (*http.Client, liberr.Error) {
	transport := &http.Transport{}

	if route.Http1Only {
		transport.ForceAttemptHTTP2 = false
		transport.TLSNextProto = make(map[string]func(string, *tls.Conn) http.RoundTripper)
	}

	tlsConfig := &tls.Config{InsecureSkipVerify: route.AcceptInvalidCerts} // #nosec: opt-in test fixture behaviour
	if route.AcceptInvalidHostnames && !route.AcceptInvalidCerts {
		tlsConfig.InsecureSkipVerify = true
	}
	if route.MinTlsVersion != nil {
		tlsConfig.MinVersion = minTLSVersion(*route.MinTlsVersion)
	}
	if route.MaxTlsVersion != nil {
		tlsConfig.MaxVersion = minTLSVersion(*route.MaxTlsVersion)
	}
	transport.TLSClientConfig = tlsConfig

	if route.ConnectTimeoutMs != nil {
		dialer := &net.Dialer{Timeout: time.Duration(*route.ConnectTimeoutMs) * time.Millisecond}
		transport.DialContext = dialer.DialContext
	}

	if route.ProxyUrl != nil {
		proxyURL, err := url.Parse(*route.ProxyUrl)
		if err != nil {
			return nil, apperror.Routing(apperror.CodeRoutingProxy, "invalid proxy URL: "+*route.ProxyUrl, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	client := &http.Client{Transport: transport}
	if route.ReadTimeoutMs != nil {
		client.Timeout = time.Duration(*route.ReadTimeoutMs) * time.Millisecond
	}

	return client, nil
}

// minTLSVersion collapses 1.0/1.1/1.2 onto TLS1.2 and 1.3 onto TLS1.3,
// same policy as the TLS Terminator (spec.md §4.5.1).
func minTLSVersion(v tlsvrs.Version) uint16 {
	if v.TLS() < tls.VersionTLS12 {
		return tls.VersionTLS12
	}
	return v.TLS()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}

// ValidateProtocolVersion checks the inbound protocol version is one of
// the recognised HTTP/0.9 through HTTP/3 strings (spec.md §4.5.2); Go's
// net/http transport always negotiates the outbound wire version itself.
// Forward does not call it and InboundRequest carries no protocol
// version, so forwarded requests are not checked.
func ValidateProtocolVersion(proto string) liberr.Error {
	switch proto {
	case "HTTP/0.9", "HTTP/1.0", "HTTP/1.1", "HTTP/2.0", "HTTP/2", "HTTP/3.0", "HTTP/3":
		return nil
	default:
		return apperror.Routing(apperror.CodeRoutingProtocolVersion, "unrecognised protocol version: "+proto)
	}
}

// rebuildQuery parses the inbound query by splitting on & then each
// pair on the first =, and re-serializes it, per spec.md §4.5.2.
func rebuildQuery(raw string) string {
	if raw == "" {
		return ""
	}
	pairs := strings.Split(raw, "&")
	values := url.Values{}
	for _, pair := range pairs {
		if pair == "" {
			continue
		}
		k, v, found := strings.Cut(pair, "=")
		if !found {
			v = ""
		}
		values.Add(k, v)
	}
	return values.Encode()
}
