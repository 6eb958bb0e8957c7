package ai

import "context"

// CommandExecutor applies one confirmed command and returns a short
// human-readable outcome. Executors run only after the operator has approved
// the proposal — the assistant itself never triggers one.
type CommandExecutor func(ctx context.Context, cmd Command) (string, error)

// CommandDefinition describes one executable action in the registry.
type CommandDefinition struct {
	Action      string
	Description string
	Execute     CommandExecutor
}

// CommandRegistry maps proposed actions to their executors. The application
// layer registers an executor per action at startup; anything unregistered is
// rejected at execution time even if the assistant proposed it.
type CommandRegistry struct {
	commands []CommandDefinition
}

// NewCommandRegistry creates an empty CommandRegistry.
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{}
}

// Register adds a command to the registry.
func (r *CommandRegistry) Register(c CommandDefinition) {
	r.commands = append(r.commands, c)
}

// Get returns the CommandDefinition for a given action, and whether it was found.
func (r *CommandRegistry) Get(action string) (CommandDefinition, bool) {
	for _, c := range r.commands {
		if c.Action == action {
			return c, true
		}
	}
	return CommandDefinition{}, false
}

// All returns all registered commands.
func (r *CommandRegistry) All() []CommandDefinition {
	return r.commands
}
