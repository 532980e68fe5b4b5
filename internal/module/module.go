// Package module implements the Module aggregate (spec §3.3, C9): the
// mutable registries shared across every input processed in a session,
// plus the prelude source and arithmetic handlers (C11) that the session's
// LoadPrelude uses to seed them.
package module

import (
	"strconv"

	"github.com/sunholo/sysf/internal/core"
	"github.com/sunholo/sysf/internal/value"
)

// ConstructorInfo records a data constructor's shape: the data type it
// belongs to, the type's own parameters, and the constructor's field
// types (spec §3.3 `constructors`).
type ConstructorInfo struct {
	DataType   string
	DataParams []string
	Fields     []core.Type
}

// LLMMetadata is the pragma-sourced description of an LLM-backed
// primitive operation (spec §3.3 `llm_functions`).
type LLMMetadata struct {
	Name        string
	ArgTypes    []core.Type
	ArgDocs     []string
	Model       string
	Temperature string
	Provider    string
	Extra       map[string]string
}

// Module is the mutable aggregate described in spec §3.3. It is never
// partially updated: callers take a Snapshot before an input and Restore
// it if any stage fails, so that a failing input leaves every registry
// untouched (spec §5 transactional semantics).
type Module struct {
	GlobalTypes     map[string]core.Type
	GlobalValues    map[string]value.Value
	Constructors    map[string]ConstructorInfo
	PrimitiveTypes  map[string]string // type-name -> itself, presence is the fact
	PrimImpls       map[string]value.Handler
	Docstrings      map[string]string
	LLMFunctions    map[string]LLMMetadata
	// DeclOrder preserves acceptance order for list_llm_functions and
	// load's "accepted declaration names" result (spec §6).
	DeclOrder []string
}

// New returns an empty Module. Registries are created empty and populated
// by the prelude loader (spec §3.3 Lifecycle).
func New() *Module {
	return &Module{
		GlobalTypes:    map[string]core.Type{},
		GlobalValues:   map[string]value.Value{},
		Constructors:   map[string]ConstructorInfo{},
		PrimitiveTypes: map[string]string{},
		PrimImpls:      map[string]value.Handler{},
		Docstrings:     map[string]string{},
		LLMFunctions:   map[string]LLMMetadata{},
	}
}

// Snapshot is an opaque, cheap copy of every registry, taken before
// processing an input so it can be restored verbatim on failure (spec §5:
// "mutations are staged in a local scratch structure ... and committed
// only after successful evaluation").
type Snapshot struct {
	globalTypes    map[string]core.Type
	globalValues   map[string]value.Value
	constructors   map[string]ConstructorInfo
	primitiveTypes map[string]string
	primImpls      map[string]value.Handler
	docstrings     map[string]string
	llmFunctions   map[string]LLMMetadata
	declOrder      []string
}

// Snapshot captures the current state of every registry.
func (m *Module) Snapshot() Snapshot {
	return Snapshot{
		globalTypes:    copyTypes(m.GlobalTypes),
		globalValues:   copyValues(m.GlobalValues),
		constructors:   copyCtors(m.Constructors),
		primitiveTypes: copyStrings(m.PrimitiveTypes),
		primImpls:      copyHandlers(m.PrimImpls),
		docstrings:     copyStrings(m.Docstrings),
		llmFunctions:   copyLLM(m.LLMFunctions),
		declOrder:      append([]string(nil), m.DeclOrder...),
	}
}

// Restore rolls every registry back to a previously taken Snapshot.
func (m *Module) Restore(s Snapshot) {
	m.GlobalTypes = s.globalTypes
	m.GlobalValues = s.globalValues
	m.Constructors = s.constructors
	m.PrimitiveTypes = s.primitiveTypes
	m.PrimImpls = s.primImpls
	m.Docstrings = s.docstrings
	m.LLMFunctions = s.llmFunctions
	m.DeclOrder = s.declOrder
}

func copyTypes(m map[string]core.Type) map[string]core.Type {
	out := make(map[string]core.Type, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyValues(m map[string]value.Value) map[string]value.Value {
	out := make(map[string]value.Value, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyCtors(m map[string]ConstructorInfo) map[string]ConstructorInfo {
	out := make(map[string]ConstructorInfo, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyStrings(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyHandlers(m map[string]value.Handler) map[string]value.Handler {
	out := make(map[string]value.Handler, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyLLM(m map[string]LLMMetadata) map[string]LLMMetadata {
	out := make(map[string]LLMMetadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// RegisterHandler installs a host implementation for a primitive
// operation (spec §6: "a handler registry ... consumed from the
// collaborator").
func (m *Module) RegisterHandler(name string, h value.Handler) {
	m.PrimImpls[name] = h
}

// LookupType implements the §6 lookup_type operation.
func (m *Module) LookupType(name string) (core.Type, bool) {
	t, ok := m.GlobalTypes[name]
	return t, ok
}

// LookupDoc implements the §6 lookup_doc operation. A non-negative argIdx
// looks up the parameter doc keyed `<name>/arg<i>`; a negative argIdx
// looks up the top-level doc keyed by name alone.
func (m *Module) LookupDoc(name string, argIdx int) (string, bool) {
	key := name
	if argIdx >= 0 {
		key = argDocKey(name, argIdx)
	}
	doc, ok := m.Docstrings[key]
	return doc, ok
}

func argDocKey(name string, argIdx int) string {
	return name + "/arg" + strconv.Itoa(argIdx)
}

// ListLLMFunctions implements the §6 list_llm_functions operation, in
// declaration order.
func (m *Module) ListLLMFunctions() []LLMMetadata {
	var out []LLMMetadata
	for _, name := range m.DeclOrder {
		if meta, ok := m.LLMFunctions[name]; ok {
			out = append(out, meta)
		}
	}
	return out
}
