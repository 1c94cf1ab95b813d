package dispatchers

import "strconv"

// SwitchValue is one switch as given on the command line.
type SwitchValue struct {
	Name     string
	Value    string
	HasValue bool
}

// Switches provides typed access to parsed switches, in command-line order.
type Switches []SwitchValue

// Has returns true if the switch is present.
func (s Switches) Has(name string) bool {
	for _, sw := range s {
		if sw.Name == name {
			return true
		}
	}
	return false
}

// String returns the value of a switch, or defaultVal if absent or valueless.
// When a switch is repeated the last value wins.
func (s Switches) String(name, defaultVal string) string {
	val, found := defaultVal, false
	for _, sw := range s {
		if sw.Name == name && sw.HasValue {
			val, found = sw.Value, true
		}
	}
	if !found {
		return defaultVal
	}
	return val
}

// Int returns the integer value of a switch, or defaultVal if not present or invalid.
func (s Switches) Int(name string, defaultVal int) int {
	str := s.String(name, "")
	if str == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(str)
	if err != nil {
		return defaultVal
	}
	return n
}

// Names returns the switch names in order.
func (s Switches) Names() []string {
	out := make([]string, len(s))
	for i, sw := range s {
		out[i] = sw.Name
	}
	return out
}
