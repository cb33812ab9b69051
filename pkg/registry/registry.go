// Package registry catalogs Chapbook's inserts ({...} expressions) and
// modifiers ([...] block directives), both built-in and story-defined.
// Lookup is first-match-wins in declaration order; the match regexp is the
// authoritative identity test, names are for display only.
package registry

import (
	"regexp"

	"github.com/twee-tools/chapbook-ls/pkg/format"
	"github.com/twee-tools/chapbook-ls/pkg/parsing"
	"github.com/twee-tools/chapbook-ls/pkg/symbols"
)

// Requirement states whether an insert's first argument must be present.
type Requirement int

const (
	Required Requirement = iota + 1
	Optional
	Ignored
)

func (r Requirement) String() string {
	switch r {
	case Required:
		return "required"
	case Optional:
		return "optional"
	case Ignored:
		return "ignored"
	default:
		return "unknown"
	}
}

// ValueType gives an argument value special handling beyond an opaque token.
type ValueType int

const (
	ValueNone ValueType = iota
	ValuePassage
	ValueUrlOrPassage
	ValueExpression
)

// FirstArgument is the contract for the value following an insert or
// modifier name.
type FirstArgument struct {
	Required    Requirement
	Placeholder string
	Type        ValueType
}

// PropertySpec describes one named property of an insert.
type PropertySpec struct {
	Placeholder string
	Type        ValueType
}

// FunctionInfo is the shared shape of built-in and custom inserts and
// modifiers.
type FunctionInfo struct {
	// Match is tested against raw text, case-insensitively, anchored at
	// the start. A nil match never matches (used for custom definitions
	// whose regex failed to compile).
	Match *regexp.Regexp

	Name        string
	Syntax      string
	Description string
	Completions []string
	Window      format.Window
}

// Matches reports whether text resolves to this function.
func (f *FunctionInfo) Matches(text string) bool {
	return f.Match != nil && f.Match.MatchString(text)
}

// MatchLength returns the length of the matched prefix, or 0.
func (f *FunctionInfo) MatchLength(text string) int {
	if f.Match == nil {
		return 0
	}
	loc := f.Match.FindStringIndex(text)
	if loc == nil {
		return 0
	}
	return loc[1]
}

// InsertParseFunc runs insert-specific extra checks after the generic
// argument validation.
type InsertParseFunc func(call *parsing.InsertCall, st *parsing.State)

// InsertInfo describes one insert: its identity, argument contract, and
// parse hook.
type InsertInfo struct {
	FunctionInfo

	FirstArgument FirstArgument
	RequiredProps map[string]PropertySpec
	OptionalProps map[string]PropertySpec
	Parse         InsertParseFunc
}

// ModifierParseFunc may mutate the block's ModifierKind and run
// modifier-specific checks.
type ModifierParseFunc func(call *parsing.ModifierCall, st *parsing.State)

// ModifierInfo describes one modifier. Modifiers have a single optional
// first argument and no named properties.
type ModifierInfo struct {
	FunctionInfo

	FirstArgument FirstArgument
	Parse         ModifierParseFunc
}

// CustomInsert is a story-defined insert discovered in an engine.extend
// call. It carries the definition site so uses elsewhere in the project can
// resolve to it.
type CustomInsert struct {
	InsertInfo
	Definition symbols.Symbol
}

// CustomModifier is a story-defined modifier.
type CustomModifier struct {
	ModifierInfo
	Definition symbols.Symbol
}

// Registry holds the built-in catalogs plus any custom entries collected
// from story text. Built-ins are matched before customs.
type Registry struct {
	inserts   []*InsertInfo
	modifiers []*ModifierInfo

	customInserts   []*CustomInsert
	customModifiers []*CustomModifier
}

func NewRegistry() *Registry {
	return &Registry{
		inserts:   builtinInserts(),
		modifiers: builtinModifiers(),
	}
}

// FindInsert resolves text against built-in then custom inserts,
// first-match-wins.
func (r *Registry) FindInsert(text string) (*InsertInfo, bool) {
	for _, ins := range r.inserts {
		if ins.Matches(text) {
			return ins, true
		}
	}
	for _, ins := range r.customInserts {
		if ins.Matches(text) {
			return &ins.InsertInfo, true
		}
	}
	return nil, false
}

// FindModifier resolves text against built-in then custom modifiers.
func (r *Registry) FindModifier(text string) (*ModifierInfo, bool) {
	for _, mod := range r.modifiers {
		if mod.Matches(text) {
			return mod, true
		}
	}
	for _, mod := range r.customModifiers {
		if mod.Matches(text) {
			return &mod.ModifierInfo, true
		}
	}
	return nil, false
}

// FindModifierByName resolves a bare modifier name, as recorded for a use
// site. Condition modifiers match only with a trailing separator ("if "),
// which the recorded name does not carry, so the lookup retries with one
// appended.
func (r *Registry) FindModifierByName(name string) (*ModifierInfo, bool) {
	if info, ok := r.FindModifier(name); ok {
		return info, true
	}
	return r.FindModifier(name + " ")
}

// IsBuiltinInsert reports whether the resolved info is a built-in entry.
func (r *Registry) IsBuiltinInsert(info *InsertInfo) bool {
	for _, ins := range r.inserts {
		if ins == info {
			return true
		}
	}
	return false
}

// IsBuiltinModifier reports whether the resolved info is a built-in entry.
func (r *Registry) IsBuiltinModifier(info *ModifierInfo) bool {
	for _, mod := range r.modifiers {
		if mod == info {
			return true
		}
	}
	return false
}

func (r *Registry) AddCustomInsert(ins *CustomInsert) {
	r.customInserts = append(r.customInserts, ins)
}

func (r *Registry) AddCustomModifier(mod *CustomModifier) {
	r.customModifiers = append(r.customModifiers, mod)
}

func (r *Registry) CustomInserts() []*CustomInsert {
	return r.customInserts
}

func (r *Registry) CustomModifiers() []*CustomModifier {
	return r.customModifiers
}

// Inserts returns the built-in insert catalog in declaration order.
func (r *Registry) Inserts() []*InsertInfo {
	return r.inserts
}

// Modifiers returns the built-in modifier catalog in declaration order.
func (r *Registry) Modifiers() []*ModifierInfo {
	return r.modifiers
}
