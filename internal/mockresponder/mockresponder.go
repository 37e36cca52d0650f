// Package mockresponder implements the Mock Responder of spec.md §4.4:
// it builds a response from a mock template, interpolating ${name}
// placeholders from the resolved parameter bindings.
package mockresponder

import (
	"strconv"
	"strings"
	"time"

	"github.com/kjetilfjellheim/apinae/apperror"
	"github.com/kjetilfjellheim/apinae/config"
	liberr "github.com/kjetilfjellheim/apinae/errors"
	"github.com/kjetilfjellheim/apinae/internal/paramresolver"
)

// Response is the built status/headers/body triple.
type Response struct {
	Status  int
	Headers map[string]string
	Body    string
}

// Generate runs the algorithm of spec.md §4.4 steps 1-4.
func Generate(mock *config.MockResponseConfiguration, bindings []paramresolver.Binding) (*Response, liberr.Error) {
	if mock.Delay > 0 {
		time.Sleep(time.Duration(mock.Delay) * time.Millisecond)
	}

	status, err := strconv.Atoi(subst(mock.Status, bindings))
	if err != nil {
		return nil, apperror.Configuration("mock status does not resolve to a number: "+mock.Status, err)
	}

	headers := make(map[string]string, len(mock.Headers))
	for k, v := range mock.Headers {
		headers[subst(k, bindings)] = subst(v, bindings)
	}

	body := ""
	if mock.Response != nil {
		body = subst(*mock.Response, bindings)
	}

	return &Response{Status: status, Headers: headers, Body: body}, nil
}

// subst replaces every literal occurrence of ${k} with the bound value
// of k, for each binding. Unbound placeholders are left literal; the
// function is a no-op on strings containing no "${" (spec.md §4.4
// substitution-safety guarantee).
func subst(s string, bindings []paramresolver.Binding) string {
	if !strings.Contains(s, "${") {
		return s
	}
	for _, b := range bindings {
		s = strings.ReplaceAll(s, "${"+b.Key+"}", b.Value)
	}
	return s
}
