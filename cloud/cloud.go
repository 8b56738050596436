package cloud

import "context"

// UnnamedInstance is the display name used when an instance carries no Name tag
const UnnamedInstance = "Unnamed"

// Lifecycle states reported by the provider for an instance
const (
	StatePending      = "pending"
	StateRunning      = "running"
	StateShuttingDown = "shutting-down"
	StateTerminated   = "terminated"
	StateStopping     = "stopping"
	StateStopped      = "stopped"
)

// Gateway is the abstract representation of the instance capabilities of a cloud platform
// scoped to a single account and region
type Gateway interface {
	ListInstances(ctx context.Context) ([]InstanceSummary, error)
	Stop(ctx context.Context, instanceID string) error
	Start(ctx context.Context, instanceID string) error
	WaitUntilStopped(ctx context.Context, instanceID string) error
	WaitUntilRunning(ctx context.Context, instanceID string) error
}

// InstanceSummary is a read-only snapshot of an instance taken from a single listing
type InstanceSummary struct {
	ID    string
	Name  string
	State string
}

// Label is how the instance is presented in a selection menu
func (i InstanceSummary) Label() string {
	return i.ID + " (" + i.Name + ") [" + i.State + "]"
}
