// Package matcher implements the Endpoint Matcher of spec.md §4.3:
// given a request and an ordered endpoint list, it returns the first
// matching endpoint (IsValid) or none.
package matcher

import (
	"regexp"

	"github.com/kjetilfjellheim/apinae/apperror"
	"github.com/kjetilfjellheim/apinae/config"
	liberr "github.com/kjetilfjellheim/apinae/errors"
)

// CompiledEndpoint caches the compiled regexes for one endpoint
// (Design Notes §9 "Regex caching": compiled once at setup-load time
// rather than per request).
type CompiledEndpoint struct {
	Config *config.EndpointConfiguration
	Path   *regexp.Regexp
	Body   *regexp.Regexp
}

// Compile compiles every endpoint's path/body regex once. A compilation
// failure is a MatcherError per spec.md §4.3.
func Compile(endpoints []config.EndpointConfiguration) ([]CompiledEndpoint, liberr.Error) {
	compiled := make([]CompiledEndpoint, 0, len(endpoints))
	for i := range endpoints {
		ep := &endpoints[i]
		ce := CompiledEndpoint{Config: ep}

		if ep.PathExpression != nil {
			re, err := regexp.Compile(*ep.PathExpression)
			if err != nil {
				return nil, apperror.Matcher("invalid path expression for endpoint "+ep.Id, err)
			}
			ce.Path = re
		}

		if ep.BodyExpression != nil {
			re, err := regexp.Compile(*ep.BodyExpression)
			if err != nil {
				return nil, apperror.Matcher("invalid body expression for endpoint "+ep.Id, err)
			}
			ce.Body = re
		}

		compiled = append(compiled, ce)
	}
	return compiled, nil
}

// Request is the subset of an inbound request the matcher needs.
type Request struct {
	PathWithQuery string
	Method        string
	Body          *string
}

// Match returns the first endpoint whose IsValid predicate holds, in
// declaration order, or nil if none match.
func Match(endpoints []CompiledEndpoint, req Request) *CompiledEndpoint {
	for i := range endpoints {
		if IsValid(&endpoints[i], req) {
			return &endpoints[i]
		}
	}
	return nil
}

// IsValid evaluates the three predicates of spec.md §4.3: all must hold.
func IsValid(ep *CompiledEndpoint, req Request) bool {
	if ep.Path != nil && !ep.Path.MatchString(req.PathWithQuery) {
		return false
	}

	if ep.Body != nil {
		if req.Body == nil {
			return false
		}
		if !ep.Body.MatchString(*req.Body) {
			return false
		}
	}

	if ep.Config.Method != nil && *ep.Config.Method != req.Method {
		return false
	}

	return true
}
