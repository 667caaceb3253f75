// Package ir defines the statement-level intermediate representation that
// Java method bodies are lowered into before analysis. Expressions and
// statements form closed sets of tagged variants so that every analysis
// can match on them exhaustively.
package ir

// Type is the declared type of a variable.
type Type int

const (
	TypeUnknown Type = iota
	TypeByte
	TypeShort
	TypeInt
	TypeLong
	TypeChar
	TypeBoolean
	TypeFloat
	TypeDouble
	TypeRef
	TypeVoid
)

var typeNames = map[Type]string{
	TypeUnknown: "unknown",
	TypeByte:    "byte",
	TypeShort:   "short",
	TypeInt:     "int",
	TypeLong:    "long",
	TypeChar:    "char",
	TypeBoolean: "boolean",
	TypeFloat:   "float",
	TypeDouble:  "double",
	TypeRef:     "ref",
	TypeVoid:    "void",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// TypeFromName maps a Java type name to a Type. Any name that is not a
// primitive type is treated as a reference type.
func TypeFromName(name string) Type {
	switch name {
	case "byte":
		return TypeByte
	case "short":
		return TypeShort
	case "int":
		return TypeInt
	case "long":
		return TypeLong
	case "char":
		return TypeChar
	case "boolean":
		return TypeBoolean
	case "float":
		return TypeFloat
	case "double":
		return TypeDouble
	case "void":
		return TypeVoid
	case "":
		return TypeUnknown
	default:
		return TypeRef
	}
}

// CanHoldInt reports whether values of t fit the 32-bit integer
// abstraction. Only variables of these types are tracked by constant
// propagation.
func CanHoldInt(t Type) bool {
	switch t {
	case TypeByte, TypeShort, TypeInt, TypeChar, TypeBoolean:
		return true
	}
	return false
}

// Var is a local variable or parameter of a method. The frontend creates
// exactly one Var per declared name, so Vars compare by pointer identity.
type Var struct {
	Name string
	Type Type
}

// NewVar returns a fresh variable with the given name and declared type.
func NewVar(name string, t Type) *Var {
	return &Var{Name: name, Type: t}
}

func (v *Var) String() string {
	return v.Name
}
