// Package paramresolver implements the Parameter Resolver of spec.md §4.8:
// it validates supplied parameters against a setup's required set and
// produces the ordered key/value bindings consumed by mock substitution.
package paramresolver

import (
	"github.com/kjetilfjellheim/apinae/apperror"
	"github.com/kjetilfjellheim/apinae/config"
	liberr "github.com/kjetilfjellheim/apinae/errors"
)

// Binding is one resolved key/value pair. Bindings are returned as an
// ordered slice so resolution stays deterministic and testable.
type Binding struct {
	Key   string
	Value string
}

// Resolve seeds bindings from the named predefined set (if any), then
// overrides/extends them with user-supplied pairs, and checks every
// required parameter in setup.Params ended up bound.
func Resolve(setup *config.SetupConfiguration, params map[string]string, predefinedSet string) ([]Binding, liberr.Error) {
	if len(setup.Params) == 0 {
		return []Binding{}, nil
	}

	required := make(map[string]bool, len(setup.Params))
	for _, p := range setup.Params {
		required[p] = true
	}

	bound := make(map[string]string)

	if predefinedSet != "" {
		set, err := findPredefinedSet(setup, predefinedSet)
		if err != nil {
			return nil, err
		}
		for k, v := range set.Values {
			if required[k] {
				bound[k] = v
			}
		}
	}

	for k, v := range params {
		if !required[k] {
			return nil, apperror.Parameter(apperror.CodeParameterUnknown, "unknown parameter: "+k)
		}
		bound[k] = v
	}

	bindings := make([]Binding, 0, len(setup.Params))
	for _, p := range setup.Params {
		v, ok := bound[p]
		if !ok {
			return nil, apperror.Parameter(apperror.CodeParameterMissing, "missing required parameter: "+p)
		}
		bindings = append(bindings, Binding{Key: p, Value: v})
	}

	return bindings, nil
}

func findPredefinedSet(setup *config.SetupConfiguration, name string) (*config.PredefinedSet, liberr.Error) {
	for i := range setup.PredefinedSets {
		if setup.PredefinedSets[i].Name == name {
			return &setup.PredefinedSets[i], nil
		}
	}
	return nil, apperror.Parameter(apperror.CodePredefinedSetUnknown, "predefined set not found: "+name)
}
