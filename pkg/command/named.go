package command

import "fmt"

// Namer is implemented by commands that carry a display name.
type Namer interface {
	Name() string
}

// NamedCommand attaches a name to a Command for logs, events and metrics.
type NamedCommand[S, I any] struct {
	Command[S, I]
	name string
}

// Named wraps cmd with name.
func Named[S, I any](name string, cmd Command[S, I]) *NamedCommand[S, I] {
	return &NamedCommand[S, I]{Command: cmd, name: name}
}

// Name returns the command name.
func (n *NamedCommand[S, I]) Name() string { return n.name }

// NameOf returns the name of cmd if it has one, or its type.
func NameOf(cmd any) string {
	if n, ok := cmd.(Namer); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", cmd)
}
