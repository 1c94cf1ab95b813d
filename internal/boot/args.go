// Package boot parses the arguments given to the kernel on the command line.
// Pre-boot arguments take effect before the shell is built, post-boot
// arguments once it is ready.
package boot

// Stage is when a boot argument takes effect.
type Stage int

const (
	PreBoot Stage = iota
	PostBoot
)

func (s Stage) String() string {
	if s == PreBoot {
		return "pre-boot"
	}
	return "post-boot"
}

// Argument describes one boot argument.
type Argument struct {
	Name        string
	ValueHint   string
	Description string
	Stage       Stage
}

// TakesValue reports whether the argument consumes a value.
func (a Argument) TakesValue() bool {
	return a.ValueHint != ""
}

var Arguments = []Argument{
	{
		Name:        "debug",
		Description: "Log at debug level",
		Stage:       PreBoot,
	},
	{
		Name:        "safe",
		Description: "Boot without loading addons",
		Stage:       PreBoot,
	},
	{
		Name:        "quiet",
		Description: "Suppress the boot banner",
		Stage:       PreBoot,
	},
	{
		Name:        "nocolor",
		Description: "Disable colored output",
		Stage:       PreBoot,
	},
	{
		Name:        "cmdinject",
		ValueHint:   "<cmd;cmd...>",
		Description: "Run commands in the main shell before the prompt appears",
		Stage:       PostBoot,
	},
	{
		Name:        "script",
		ValueHint:   "<path>",
		Description: "Run a UESH script and exit with its result",
		Stage:       PostBoot,
	},
	{
		Name:        "lint",
		ValueHint:   "<path>",
		Description: "Lint a UESH script and exit",
		Stage:       PostBoot,
	},
}

// Lookup returns the argument called name.
func Lookup(name string) (Argument, bool) {
	for _, a := range Arguments {
		if a.Name == name {
			return a, true
		}
	}
	return Argument{}, false
}

// Names returns the names of every boot argument.
func Names() []string {
	names := make([]string, len(Arguments))
	for i, a := range Arguments {
		names[i] = a.Name
	}
	return names
}
