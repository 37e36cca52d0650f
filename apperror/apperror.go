// Package apperror defines the daemon's error taxonomy on top of the
// kept errors package, grouping codes by kind the way spec.md §7 does.
package apperror

import (
	liberr "github.com/kjetilfjellheim/apinae/errors"
)

// Code ranges, one block per error kind in spec.md §7.
const (
	CodeConfiguration liberr.CodeError = 1000 + iota
	CodeConfigCertificate
	CodeConfigStatus
	CodeConfigRegex
)

const (
	CodeParameter liberr.CodeError = 2000 + iota
	CodeParameterUnknown
	CodeParameterMissing
	CodePredefinedSetUnknown
)

const (
	CodeBind liberr.CodeError = 3000 + iota
)

const (
	CodeRouting liberr.CodeError = 4000 + iota
	CodeRoutingProtocolVersion
	CodeRoutingProxy
	CodeRoutingHeader
)

const (
	CodeMatcher liberr.CodeError = 5000 + iota
)

const (
	CodeNotFound liberr.CodeError = 6000 + iota
)

// Configuration wraps a configuration-load/parse/certificate failure.
func Configuration(msg string, parent ...error) liberr.Error {
	return liberr.New(CodeConfiguration.Uint16(), msg, parent...)
}

// Parameter wraps an unknown/missing --param or predefined-set failure.
func Parameter(code liberr.CodeError, msg string, parent ...error) liberr.Error {
	return liberr.New(code.Uint16(), msg, parent...)
}

// Bind wraps a TCP/TLS bind failure. Fatal for the setup per spec.md §7.
func Bind(msg string, parent ...error) liberr.Error {
	return liberr.New(CodeBind.Uint16(), msg, parent...)
}

// Routing wraps an outbound request construction/execution failure.
func Routing(code liberr.CodeError, msg string, parent ...error) liberr.Error {
	return liberr.New(code.Uint16(), msg, parent...)
}

// Matcher wraps an endpoint regex compilation failure.
func Matcher(msg string, parent ...error) liberr.Error {
	return liberr.New(CodeMatcher.Uint16(), msg, parent...)
}

// NotFound wraps a missing setup id or predefined-set name.
func NotFound(msg string, parent ...error) liberr.Error {
	return liberr.New(CodeNotFound.Uint16(), msg, parent...)
}
