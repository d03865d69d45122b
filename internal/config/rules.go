package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

// rule is a CEL expression over the resolved configuration that must hold.
type rule struct {
	expr    string
	message string
}

// ruleSet compiles its rules on first use.
type ruleSet struct {
	vars  []cel.EnvOption
	rules []rule

	once     sync.Once
	programs []cel.Program
	err      error
}

var libraryVars = []cel.EnvOption{
	cel.Variable("test_id_attribute", cel.StringType),
	cel.Variable("async_util_timeout", cel.IntType),
	cel.Variable("async_util_expected_state", cel.StringType),
	cel.Variable("serialization_depth", cel.IntType),
}

var libraryRules = &ruleSet{
	vars: libraryVars,
	rules: []rule{
		{`test_id_attribute.matches('^[A-Za-z_:][-A-Za-z0-9_:.]*$')`, "test_id_attribute must be a valid attribute name"},
		{`async_util_timeout >= 0`, "async_util_timeout must not be negative"},
		{`async_util_expected_state in ['visible', 'attached']`, "async_util_expected_state must be visible or attached"},
		{`serialization_depth >= 0 && serialization_depth <= 16`, "serialization_depth must be between 0 and 16"},
	},
}

var fileRules = &ruleSet{
	vars: append([]cel.EnvOption{
		cel.Variable("log_level", cel.StringType),
		cel.Variable("backend", cel.StringType),
		cel.Variable("action_timeout", cel.IntType),
	}, libraryVars...),
	rules: append([]rule{
		{`log_level in ['DEBUG', 'INFO', 'WARN', 'ERROR']`, "log.level must be one of debug, info, warn or error"},
		{`backend in ['static', 'rod']`, "browser.backend must be static or rod"},
		{`action_timeout >= 0`, "browser.action_timeout must not be negative"},
	}, libraryRules.rules...),
}

func (s *ruleSet) compile() {
	env, err := cel.NewEnv(s.vars...)
	if err != nil {
		s.err = fmt.Errorf("failed to create validation environment: %w", err)
		return
	}
	for _, r := range s.rules {
		ast, issues := env.Compile(r.expr)
		if issues.Err() != nil {
			s.err = fmt.Errorf("failed to compile rule %q: %w", r.expr, issues.Err())
			return
		}
		prog, err := env.Program(ast)
		if err != nil {
			s.err = fmt.Errorf("failed to plan rule %q: %w", r.expr, err)
			return
		}
		s.programs = append(s.programs, prog)
	}
}

func (s *ruleSet) validate(vars map[string]any) error {
	s.once.Do(s.compile)
	if s.err != nil {
		return s.err
	}
	var errs []error
	for i, prog := range s.programs {
		out, _, err := prog.Eval(vars)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.rules[i].message, err))
			continue
		}
		if ok, _ := out.Value().(bool); !ok {
			errs = append(errs, errors.New(s.rules[i].message))
		}
	}
	return errors.Join(errs...)
}
