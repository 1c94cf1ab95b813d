package dispatchers

type CommandCategory int

const (
	CategoryUncategorized CommandCategory = iota
	CategoryGeneral                       // help, echo, version
	CategoryShell                         // shells, presets, history
	CategoryScripting                     // run, lint, conditions
	CategoryNetwork                       // http
	CategoryDatabase                      // sql
	CategoryConfig                        // configuration
	CategoryAddons                        // addon management and addon commands
)

func (c CommandCategory) String() string {
	switch c {
	case CategoryGeneral:
		return "general"
	case CategoryShell:
		return "shells and sessions"
	case CategoryScripting:
		return "scripting"
	case CategoryNetwork:
		return "network"
	case CategoryDatabase:
		return "database"
	case CategoryConfig:
		return "configuration"
	case CategoryAddons:
		return "addons"
	default:
		return "other commands"
	}
}

var categoryOrder = []CommandCategory{
	CategoryGeneral,
	CategoryShell,
	CategoryScripting,
	CategoryNetwork,
	CategoryDatabase,
	CategoryConfig,
	CategoryAddons,
	CategoryUncategorized,
}

// CategoryOrder returns the display order for categories.
func CategoryOrder() []CommandCategory {
	return categoryOrder
}
