package domain

import "errors"

// Common domain errors returned by contract processing operations.
var (
	// ErrInvalidInput indicates a contract processing request failed validation.
	ErrInvalidInput = errors.New("invalid contract processing input")

	// ErrUnknownAgentType indicates an agent type outside the closed analysis set.
	ErrUnknownAgentType = errors.New("unknown agent type")

	// ErrDependencyCycle indicates the requested agent set induces a cycle
	// in the dependency graph. Fatal before any provider call.
	ErrDependencyCycle = errors.New("dependency cycle in requested agent set")

	// ErrEmptyAgentSet indicates a request with no agents to run.
	ErrEmptyAgentSet = errors.New("empty required agent set")

	// ErrJobNotFound indicates the job id is not tracked by the registry.
	ErrJobNotFound = errors.New("job not found")

	// ErrJobNotRunnable indicates the job is not in a runnable state,
	// typically because it was cancelled before execution started.
	ErrJobNotRunnable = errors.New("job not runnable")

	// ErrNoClauses indicates a dependent agent was invoked without any
	// extracted clauses to work from.
	ErrNoClauses = errors.New("no extracted clauses available")
)
