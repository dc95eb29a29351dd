package update

import (
	"fmt"

	"github.com/brunoga/update/internal/core"
)

// FieldKind is the declared shape of a field. It decides which operations
// the field accepts.
type FieldKind uint8

const (
	Scalar FieldKind = iota + 1
	Map
	List
)

func (k FieldKind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Map:
		return "map"
	case List:
		return "list"
	}
	return fmt.Sprintf("FieldKind(%d)", uint8(k))
}

func (k FieldKind) valid() bool {
	return k == Scalar || k == Map || k == List
}

// Allows reports whether op may be recorded on a field of this kind.
func (k FieldKind) Allows(op OpKind) bool {
	switch op {
	case OpSet:
		return k.valid()
	case OpAdd, OpRemove:
		return k == Map || k == List
	}
	return false
}

func kindFromCore(k core.Kind) FieldKind {
	switch k {
	case core.KindMap:
		return Map
	case core.KindList:
		return List
	}
	return Scalar
}

// OpKind is one of the per-field update verbs.
type OpKind uint8

const (
	OpSet OpKind = iota
	OpAdd
	OpRemove
	numOps
)

func (o OpKind) String() string {
	switch o {
	case OpSet:
		return "set"
	case OpAdd:
		return "add"
	case OpRemove:
		return "remove"
	}
	return fmt.Sprintf("OpKind(%d)", uint8(o))
}

func parseOpKind(s string) (OpKind, bool) {
	switch s {
	case "set":
		return OpSet, true
	case "add":
		return OpAdd, true
	case "remove":
		return OpRemove, true
	}
	return 0, false
}

// FieldPatch is a read view of one recorded operation.
type FieldPatch struct {
	Field string
	Kind  FieldKind
	Op    OpKind
	Value any
}

// String names the operation variant, e.g. "SetScalar" or "RemoveMap".
func (f FieldPatch) String() string {
	var verb, noun string
	switch f.Op {
	case OpSet:
		verb = "Set"
	case OpAdd:
		verb = "Add"
	case OpRemove:
		verb = "Remove"
	}
	switch f.Kind {
	case Scalar:
		noun = "Scalar"
	case Map:
		noun = "Map"
	case List:
		noun = "List"
	}
	return verb + noun
}
