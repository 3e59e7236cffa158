// Package runnertest provides a fake runner.Executor for tests.
package runnertest

import (
	"context"
	"io"
	"strings"

	"github.com/opmodel/smithy/internal/runner"
)

// Response is the synthesized result of a fake command.
type Response struct {
	// ExitCode is the exit status to report.
	ExitCode int

	// Stdout is written to the request's stdout writer.
	Stdout string

	// Err is returned as a start failure.
	Err error
}

// Rule maps command lines containing Match to a Response.
type Rule struct {
	Match    string
	Response Response
}

// FakeExecutor records every request and answers from rules.
// The first rule whose Match is a substring of the script wins; unmatched
// commands succeed with no output.
type FakeExecutor struct {
	Requests []runner.Request
	Rules    []Rule

	// Hook, when set, runs before each response is produced.
	Hook func(req runner.Request)
}

// On adds a rule and returns the executor for chaining.
func (f *FakeExecutor) On(match string, resp Response) *FakeExecutor {
	f.Rules = append(f.Rules, Rule{Match: match, Response: resp})
	return f
}

// Execute implements runner.Executor.
func (f *FakeExecutor) Execute(_ context.Context, req runner.Request) (int, error) {
	f.Requests = append(f.Requests, req)
	if f.Hook != nil {
		f.Hook(req)
	}

	for _, rule := range f.Rules {
		if strings.Contains(req.Script, rule.Match) {
			if rule.Response.Stdout != "" && req.Stdout != nil {
				_, _ = io.WriteString(req.Stdout, rule.Response.Stdout)
			}
			return rule.Response.ExitCode, rule.Response.Err
		}
	}
	return 0, nil
}

// Scripts returns the recorded command lines in order.
func (f *FakeExecutor) Scripts() []string {
	scripts := make([]string, 0, len(f.Requests))
	for _, req := range f.Requests {
		scripts = append(scripts, req.Script)
	}
	return scripts
}
