package uesh

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Aptivi/NitrocidKS-sub040/internal/log"
)

// Condition is a named predicate usable in if and while statements.
//
// A condition expression is a list of tokens. Position is the 1-based index
// of the token naming the condition and Arity the total number of tokens,
// name included. The remaining tokens are passed to Evaluate in order.
type Condition interface {
	Name() string
	Position() int
	Arity() int
	Evaluate(vars Lookup, operands []string) (bool, error)
}

// Unexpanded is implemented by conditions whose operands name variables.
// When Unexpanded reports true the interpreter passes the operands as
// written, before variable substitution.
type Unexpanded interface {
	Unexpanded() bool
}

func wantsRaw(cond Condition) bool {
	u, ok := cond.(Unexpanded)
	return ok && u.Unexpanded()
}

// Origin of built-in conditions.
const OriginBuiltin = "builtin"

type registered struct {
	cond   Condition
	origin string
}

// Conditions is the registry of condition plugins. It is safe for
// concurrent use.
type Conditions struct {
	mu    sync.RWMutex
	conds map[string]registered
}

// NewConditions returns a registry holding the built-in conditions.
func NewConditions() *Conditions {
	c := &Conditions{conds: make(map[string]registered)}
	for _, cond := range builtinConditions() {
		c.conds[cond.Name()] = registered{cond: cond, origin: OriginBuiltin}
	}
	return c
}

func validate(cond Condition) error {
	if cond == nil {
		return fmt.Errorf("uesh: nil condition")
	}
	if cond.Name() == "" || strings.ContainsAny(cond.Name(), " \t$") {
		return fmt.Errorf("uesh: invalid condition name %q", cond.Name())
	}
	if cond.Position() < 1 || cond.Position() > cond.Arity() {
		return fmt.Errorf("uesh: condition %s: position %d outside arity %d", cond.Name(), cond.Position(), cond.Arity())
	}
	return nil
}

// Register adds a condition contributed by origin. Names are unique.
func (c *Conditions) Register(origin string, cond Condition) error {
	if err := validate(cond); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.conds[cond.Name()]; ok {
		return fmt.Errorf("uesh: condition %s already registered by %s", cond.Name(), existing.origin)
	}
	c.conds[cond.Name()] = registered{cond: cond, origin: origin}
	log.Debug("uesh: registered condition %s (origin %s)", cond.Name(), origin)
	return nil
}

// Unregister removes a condition added with Register. Built-ins stay.
func (c *Conditions) Unregister(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.conds[name]
	if !ok {
		return fmt.Errorf("uesh: condition %s is not registered", name)
	}
	if r.origin == OriginBuiltin {
		return fmt.Errorf("uesh: condition %s is built in and cannot be removed", name)
	}
	delete(c.conds, name)
	log.Debug("uesh: unregistered condition %s", name)
	return nil
}

// Lookup returns the named condition.
func (c *Conditions) Lookup(name string) (Condition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.conds[name]
	return r.cond, ok
}

// Origin returns who registered the named condition.
func (c *Conditions) Origin(name string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conds[name].origin
}

// List returns every condition sorted by name.
func (c *Conditions) List() []Condition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Condition, 0, len(c.conds))
	for _, r := range c.conds {
		out = append(out, r.cond)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Resolve finds the condition named in tokens. A token names a condition
// only when it sits at the position the condition declares; the first such
// token wins. The token count must then equal the condition's arity.
func (c *Conditions) Resolve(tokens []string) (Condition, []string, error) {
	if len(tokens) == 0 {
		return nil, nil, fmt.Errorf("empty condition")
	}

	c.mu.RLock()
	var found, misplaced Condition
	for i, tok := range tokens {
		r, ok := c.conds[tok]
		if !ok {
			continue
		}
		if r.cond.Position() == i+1 {
			found = r.cond
			break
		}
		if misplaced == nil {
			misplaced = r.cond
		}
	}
	c.mu.RUnlock()

	if found == nil {
		if misplaced != nil {
			return nil, nil, fmt.Errorf("condition %s must be token %d of %d", misplaced.Name(), misplaced.Position(), misplaced.Arity())
		}
		return nil, nil, fmt.Errorf("unknown condition in '%s'", strings.Join(tokens, " "))
	}
	if len(tokens) != found.Arity() {
		return nil, nil, fmt.Errorf("condition %s expects %d tokens, got %d", found.Name(), found.Arity(), len(tokens))
	}

	operands := make([]string, 0, len(tokens)-1)
	for i, tok := range tokens {
		if i+1 != found.Position() {
			operands = append(operands, tok)
		}
	}
	return found, operands, nil
}

// Alias returns a condition named name that evaluates target. position
// moves the name token; zero keeps the target's position.
func Alias(name string, target Condition, position int) Condition {
	if position == 0 {
		position = target.Position()
	}
	return alias{name: name, target: target, position: position}
}

type alias struct {
	name     string
	target   Condition
	position int
}

func (a alias) Name() string     { return a.name }
func (a alias) Position() int    { return a.position }
func (a alias) Arity() int       { return a.target.Arity() }
func (a alias) Unexpanded() bool { return wantsRaw(a.target) }
func (a alias) Evaluate(vars Lookup, operands []string) (bool, error) {
	return a.target.Evaluate(vars, operands)
}
