// Package runner executes external commands on behalf of a formula.
//
// Every command goes through a Runner, which echoes the command line, optionally
// prefixes it with the environment-module setup text, and turns any nonzero exit
// status into a *CommandExecutionError. Nothing is retried: a partially applied
// build step cannot be assumed safe to run twice.
//
// The process boundary is the Executor interface. ShellExecutor is the real
// implementation; runnertest.FakeExecutor records invocations for tests.
package runner
