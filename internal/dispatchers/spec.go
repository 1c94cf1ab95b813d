package dispatchers

// CommandSpec is the declarative form used to build a CommandDescriptor.
type CommandSpec struct {
	Name     string
	Summary  string
	Args     []ArgumentPart
	Switches []SwitchDescriptor
	// Sets overrides Args/Switches when a command accepts several shapes.
	Sets     []ArgumentSet
	Action   HandlerFunc
	Handler  Handler
	Category CommandCategory

	Redirectable bool
	Wrappable    bool
	Strict       bool
	Hidden       bool
}
