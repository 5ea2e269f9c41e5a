/*
PURPOSE:
  Defines the core data structures used throughout flexsweep.
  These models represent the parameter space, one resolved combination of it,
  and the flat result record a backend produces for that combination.

REQUIREMENTS:
  User-specified:
  - Parameters keep their declared order (CSV columns and run names depend on it).
  - Values are opaque scalars compared by equality only.

  Implementation-discovered:
  - Go maps are unordered, so every mapping here is an ordered slice of pairs.
  - YAML scalars are kept as strings; nothing downstream interprets them.

ARCHITECTURE INTEGRATION:
  - Used by: internal/sweep, internal/engine, internal/output, internal/config
  - Shared across boundaries.

ERROR HANDLING:
  - None (pure data structs). See errors.go for the error taxonomy.

IMPLEMENTATION RULES:
  - Combinations are never mutated after creation; With/Set return copies.

USAGE:
  c := model.Combination{{Name: "WIDTH", Value: "8"}}
  c2 := c.Set("WIDTH", "16")

SELF-HEALING INSTRUCTIONS:
  - If a new record column source appears, extend Record via Set, never by map access.

RELATED FILES:
  - internal/sweep/generate.go
  - internal/output/csv.go
*/

package model

import (
	"strings"
)

// Parameter is one swept dimension and its candidate values.
type Parameter struct {
	Name   string
	Values []string
}

// ParameterSet is the ordered set of swept dimensions.
type ParameterSet []Parameter

// Names returns the parameter names in declared order.
func (ps ParameterSet) Names() []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return names
}

// Param is a single name/value assignment.
type Param struct {
	Name  string
	Value string
}

// Group is an auxiliary axis layered onto the base parameter space.
type Group []Param

// Keys returns the group's names in declared order.
func (g Group) Keys() []string {
	keys := make([]string, len(g))
	for i, p := range g {
		keys[i] = p.Name
	}
	return keys
}

// Combination is one fully resolved assignment of a value to every known parameter.
type Combination []Param

// Keys returns the combination's names in order.
func (c Combination) Keys() []string {
	keys := make([]string, len(c))
	for i, p := range c {
		keys[i] = p.Name
	}
	return keys
}

// Get returns the value assigned to name.
func (c Combination) Get(name string) (string, bool) {
	for _, p := range c {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Has reports whether name is assigned.
func (c Combination) Has(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// Clone returns a deep copy.
func (c Combination) Clone() Combination {
	out := make(Combination, len(c))
	copy(out, c)
	return out
}

// Set returns a copy with name assigned to value. An existing name keeps its
// position; a new name is appended.
func (c Combination) Set(name, value string) Combination {
	out := c.Clone()
	for i := range out {
		if out[i].Name == name {
			out[i].Value = value
			return out
		}
	}
	return append(out, Param{Name: name, Value: value})
}

// Merge returns a copy with every pair of g applied through Set.
func (c Combination) Merge(g Group) Combination {
	out := c.Clone()
	for _, p := range g {
		out = out.Set(p.Name, p.Value)
	}
	return out
}

// Equal reports whether both combinations hold the same pairs in the same order.
func (c Combination) Equal(o Combination) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

// RunName builds the name a combination is logged and reported under,
// e.g. build_fifo_WIDTH_8_DEPTH_4.
func (c Combination) RunName(top string) string {
	var b strings.Builder
	b.WriteString("build_")
	b.WriteString(top)
	for _, p := range c {
		b.WriteByte('_')
		b.WriteString(p.Name)
		b.WriteByte('_')
		b.WriteString(p.Value)
	}
	return b.String()
}

// String renders the combination as NAME=value pairs.
func (c Combination) String() string {
	parts := make([]string, len(c))
	for i, p := range c {
		parts[i] = p.Name + "=" + p.Value
	}
	return strings.Join(parts, " ")
}

// Record is the flat result of one combination's run: the combination's
// parameters first, then the backend's measured fields, in production order.
type Record struct {
	columns []string
	values  map[string]string
}

// NewRecord starts a record holding every pair of c.
func NewRecord(c Combination) Record {
	r := Record{values: make(map[string]string, len(c))}
	for _, p := range c {
		r.Set(p.Name, p.Value)
	}
	return r
}

// Set assigns a column. New columns are appended to the column order.
func (r *Record) Set(column, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[column]; !ok {
		r.columns = append(r.columns, column)
	}
	r.values[column] = value
}

// Get returns a column's value.
func (r Record) Get(column string) (string, bool) {
	v, ok := r.values[column]
	return v, ok
}

// Columns returns the column names in order.
func (r Record) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// Values returns the values in column order.
func (r Record) Values() []string {
	out := make([]string, len(r.columns))
	for i, c := range r.columns {
		out[i] = r.values[c]
	}
	return out
}

// Map returns the record as an unordered map, for JSON encoding.
func (r Record) Map() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}
