package parsing

import (
	"github.com/twee-tools/chapbook-ls/pkg/position"
)

// PropPair is one named property of an insert call: the name token and the
// value token, both with absolute offsets.
type PropPair struct {
	Name  position.Token
	Value position.Token
}

// InsertCall is the tokenized form of one {...} span.
type InsertCall struct {
	// Name is the function-name token (or the bare variable path)
	Name position.Token

	// Bare marks the variable-read form: a single token inside the braces
	// with no top-level comma or colon.
	Bare bool

	// FirstArgument is the value after the name's colon, if any
	FirstArgument *position.Token

	// Props maps property names to their tokens; PropOrder preserves
	// source order for validation messages.
	Props     map[string]PropPair
	PropOrder []string
}

func (c *InsertCall) AddProp(name, value position.Token) {
	if c.Props == nil {
		c.Props = make(map[string]PropPair)
	}
	if _, ok := c.Props[name.Text]; !ok {
		c.PropOrder = append(c.PropOrder, name.Text)
	}
	c.Props[name.Text] = PropPair{Name: name, Value: value}
}

// ModifierCall is the tokenized form of one sub-modifier inside [...].
// Modifiers have no named properties.
type ModifierCall struct {
	Name          position.Token
	FirstArgument *position.Token
}
