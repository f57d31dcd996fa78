// Package hal declares the collaborators the notifier drives: hardware
// hooks, the host-state sink, external notification listeners and GPIO
// lines.
//
// Hooks are plain function fields because absence is the only failure the
// notifier handles for them. Interfaces are used where a collaborator has
// identity or a lifecycle, and have generated mocks in package mocks.
package hal
