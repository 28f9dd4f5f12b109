// Package reconcile compares the desired state of monitoring objects against
// the state held by the server and issues the minimal set of create, update
// and delete calls to converge them.
//
// One reconciler exists per entity kind: host group, template, host. Every
// operation returns a Result reporting whether anything changed; every error
// is fatal to the invocation and is propagated without retry.
package reconcile

import "fmt"

// Result reports the outcome of one reconciliation operation.
type Result struct {
	// Changed is true if a mutating call was issued
	Changed bool

	// Message is a human-readable summary; for template dumps it carries
	// the exported document
	Message string
}

// NotFoundError indicates that a named entity could not be resolved on the
// server.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}
