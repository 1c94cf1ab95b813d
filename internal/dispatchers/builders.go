package dispatchers

// Command builds a built-in CommandDescriptor from a spec.
func Command(spec CommandSpec) *CommandDescriptor {
	sets := spec.Sets
	if len(sets) == 0 && (len(spec.Args) > 0 || len(spec.Switches) > 0) {
		sets = []ArgumentSet{{Parts: spec.Args, Switches: spec.Switches}}
	}

	var handler Handler = spec.Handler
	if handler == nil && spec.Action != nil {
		handler = spec.Action
	}

	return &CommandDescriptor{
		Name:                spec.Name,
		Summary:             spec.Summary,
		ArgumentSets:        sets,
		Handler:             handler,
		SupportsRedirection: spec.Redirectable,
		Wrappable:           spec.Wrappable,
		StrictArguments:     spec.Strict,
		Hidden:              spec.Hidden,
		Category:            spec.Category,
		Origin:              OriginBuiltin,
	}
}

// Required returns a required free-text argument part.
func Required(name, description string) ArgumentPart {
	return ArgumentPart{Name: name, Description: description, Required: true}
}

// Optional returns an optional free-text argument part.
func Optional(name, description string) ArgumentPart {
	return ArgumentPart{Name: name, Description: description}
}

// Numeric returns a required numeric argument part.
func Numeric(name, description string) ArgumentPart {
	return ArgumentPart{Name: name, Description: description, Required: true, Numeric: true}
}

// Choice returns an argument part restricted to the given values.
func Choice(name, description string, required bool, choices ...string) ArgumentPart {
	return ArgumentPart{Name: name, Description: description, Required: required, Choices: choices}
}

// Flag returns a switch that takes no value.
func Flag(name, description string) SwitchDescriptor {
	return SwitchDescriptor{Name: name, Description: description}
}

// ValueSwitch returns a switch that requires a value.
func ValueSwitch(name, description string, numeric bool) SwitchDescriptor {
	return SwitchDescriptor{
		Name:          name,
		Description:   description,
		AcceptsValue:  true,
		ValueRequired: true,
		Numeric:       numeric,
	}
}
