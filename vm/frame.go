package vm

import (
	"github.com/axe-lang/axe/code"
	"github.com/axe-lang/axe/object"
)

// Frame is a call-frame record: the compiled function being executed,
// its instruction pointer, and the base pointer into the VM's operand
// stack where this frame's local slots (including parameters) begin.
type Frame struct {
	// fn is the compiled function this frame is executing.
	fn *object.CompiledFunction

	// ip is the instruction pointer that tracks the current instruction being executed within the frame.
	ip int

	// basePointer is the index in the VM's stack, marking the beginning of the current frame's execution context.
	basePointer int
}

// NewFrame creates a new execution frame for a given compiled function and base pointer.
func NewFrame(fn *object.CompiledFunction, basePointer int) *Frame {
	return &Frame{fn: fn, ip: -1, basePointer: basePointer}
}

// Instructions retrieves the bytecode instructions of the compiled function associated with the current frame.
func (f *Frame) Instructions() code.Instructions {
	return f.fn.Instructions
}
