// Package object defines the runtime value representation for the axe
// virtual machine.
//
// Values are a tagged union: the concrete Go type of an Object is the tag,
// and its fields are the payload. Arithmetic, equality, ordering, and
// truthiness are implemented as free functions over Object rather than
// methods, since they must inspect two operands' tags together.
package object

import (
	"strconv"

	"github.com/axe-lang/axe/code"
)

//nolint:revive
const (
	INTEGER_OBJ           = "INTEGER"
	FLOAT_OBJ             = "FLOAT"
	BOOLEAN_OBJ           = "BOOLEAN"
	STRING_OBJ            = "STRING"
	NULL_OBJ              = "NULL"
	ERROR_OBJ             = "ERROR"
	COMPILED_FUNCTION_OBJ = "COMPILED_FUNCTION_OBJ"
)

// Type represents the type of object.
type Type string

// Object is the interface that wraps the basic operations of all axe
// runtime values.
type Object interface {
	// Type returns the type of the object as a value of Type.
	Type() Type

	// Inspect returns a string representation of the object.
	Inspect() string
}

// Integer represents an axe integer value.
type Integer struct {
	Value int64
}

// Type returns the type of the object.
func (i *Integer) Type() Type { return INTEGER_OBJ }

// Inspect returns a string representation of the object.
func (i *Integer) Inspect() string { return strconv.FormatInt(i.Value, 10) }

// Float represents an axe floating-point value.
type Float struct {
	Value float64
}

// Type returns the type of the object.
func (f *Float) Type() Type { return FLOAT_OBJ }

// Inspect returns a string representation of the object.
func (f *Float) Inspect() string { return strconv.FormatFloat(f.Value, 'g', -1, 64) }

// Boolean represents an axe boolean value.
type Boolean struct {
	Value bool
}

// Type returns the type of the object.
func (b *Boolean) Type() Type { return BOOLEAN_OBJ }

// Inspect returns a string representation of the object.
func (b *Boolean) Inspect() string { return strconv.FormatBool(b.Value) }

// String represents an axe string value.
type String struct {
	Value string
}

// Type returns the type of the object.
func (s *String) Type() Type { return STRING_OBJ }

// Inspect returns a string representation of the object.
func (s *String) Inspect() string { return s.Value }

// Null represents the absence of a value.
type Null struct{}

// Type returns the type of the object.
func (n *Null) Type() Type { return NULL_OBJ }

// Inspect returns a string representation of the object.
func (n *Null) Inspect() string { return "Null" }

// Error represents a runtime or compile error value.
type Error struct {
	Message string
}

// Type returns the type of the object.
func (e *Error) Type() Type { return ERROR_OBJ }

// Inspect returns a string representation of the object.
func (e *Error) Inspect() string { return "ERROR: " + e.Message }

// CompiledFunction is an immutable record of a function's bytecode, the
// number of local slots it needs (including its parameters), and its
// declared parameter count.
type CompiledFunction struct {
	// Instructions holds the bytecode sequence of the compiled function.
	Instructions code.Instructions

	// NumLocals is the number of local slots reserved in a call frame,
	// including parameters.
	NumLocals int

	// NumParameters is the number of parameters the function declares.
	NumParameters int
}

// Type returns the object type of the compiled function.
func (c *CompiledFunction) Type() Type { return COMPILED_FUNCTION_OBJ }

// Inspect returns a formatted string representation of the function.
func (c *CompiledFunction) Inspect() string { return "function" }

var (
	// NullValue is the single shared instance of Null values are compared to.
	NullValue = &Null{}
	// TrueValue is the single shared instance for the boolean true.
	TrueValue = &Boolean{Value: true}
	// FalseValue is the single shared instance for the boolean false.
	FalseValue = &Boolean{Value: false}
)

// NativeBool returns the shared TrueValue or FalseValue for a Go bool.
func NativeBool(b bool) *Boolean {
	if b {
		return TrueValue
	}
	return FalseValue
}

// IsTruthy reports whether obj is truthy per the language's truthiness
// rules: Bool is its payload, Integer and Float are nonzero, String is
// always true, Error and Null are always false, and a function value is
// never used as a condition so it is false too.
func IsTruthy(obj Object) bool {
	switch o := obj.(type) {
	case *Boolean:
		return o.Value
	case *Integer:
		return o.Value != 0
	case *Float:
		return o.Value != 0
	case *String:
		return true
	case *Null:
		return false
	case *Error:
		return false
	default:
		return false
	}
}

// Add implements the "+" operator. Integer, Float, and String operands
// of matching variants are combined; any other combination, including a
// variant mismatch, yields Null.
func Add(left, right Object) Object {
	switch l := left.(type) {
	case *Integer:
		if r, ok := right.(*Integer); ok {
			return &Integer{Value: l.Value + r.Value}
		}
	case *Float:
		if r, ok := right.(*Float); ok {
			return &Float{Value: l.Value + r.Value}
		}
	case *String:
		if r, ok := right.(*String); ok {
			return &String{Value: l.Value + r.Value}
		}
	}
	return NullValue
}

// Sub implements the "-" operator for Integer and Float operands of
// matching variants. Any other combination yields Null.
func Sub(left, right Object) Object {
	switch l := left.(type) {
	case *Integer:
		if r, ok := right.(*Integer); ok {
			return &Integer{Value: l.Value - r.Value}
		}
	case *Float:
		if r, ok := right.(*Float); ok {
			return &Float{Value: l.Value - r.Value}
		}
	}
	return NullValue
}

// Mul implements the "*" operator for Integer and Float operands of
// matching variants. Any other combination yields Null.
func Mul(left, right Object) Object {
	switch l := left.(type) {
	case *Integer:
		if r, ok := right.(*Integer); ok {
			return &Integer{Value: l.Value * r.Value}
		}
	case *Float:
		if r, ok := right.(*Float); ok {
			return &Float{Value: l.Value * r.Value}
		}
	}
	return NullValue
}

// Div implements the "/" operator for Integer and Float operands of
// matching variants. Any other combination yields Null.
func Div(left, right Object) Object {
	switch l := left.(type) {
	case *Integer:
		if r, ok := right.(*Integer); ok {
			return &Integer{Value: l.Value / r.Value}
		}
	case *Float:
		if r, ok := right.(*Float); ok {
			return &Float{Value: l.Value / r.Value}
		}
	}
	return NullValue
}

// Equal reports whether left and right compare equal within a variant.
// Error values always compare unequal, even to themselves. Function
// equality compares parameter count, local count, and byte-identical
// instructions.
func Equal(left, right Object) bool {
	switch l := left.(type) {
	case *Null:
		_, ok := right.(*Null)
		return ok
	case *Boolean:
		r, ok := right.(*Boolean)
		return ok && l.Value == r.Value
	case *Integer:
		r, ok := right.(*Integer)
		return ok && l.Value == r.Value
	case *Float:
		r, ok := right.(*Float)
		return ok && l.Value == r.Value
	case *String:
		r, ok := right.(*String)
		return ok && l.Value == r.Value
	case *Error:
		return false
	case *CompiledFunction:
		r, ok := right.(*CompiledFunction)
		return ok && l.NumParameters == r.NumParameters &&
			l.NumLocals == r.NumLocals &&
			string(l.Instructions) == string(r.Instructions)
	default:
		return false
	}
}

// GreaterThan is defined only for Integer vs Integer and Float vs Float;
// any other pairing yields false.
func GreaterThan(left, right Object) bool {
	switch l := left.(type) {
	case *Integer:
		if r, ok := right.(*Integer); ok {
			return l.Value > r.Value
		}
	case *Float:
		if r, ok := right.(*Float); ok {
			return l.Value > r.Value
		}
	}
	return false
}
