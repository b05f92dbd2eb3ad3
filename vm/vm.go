// Package vm implements the stack-based virtual machine that executes
// bytecode produced by the compiler package.
//
// The VM owns a fixed-size operand stack, a fixed-size frame stack, and
// a globals array. Execution is a tight fetch-decode-dispatch loop over
// the instruction stream of the current frame; function calls push a new
// frame whose base pointer marks where the callee's local slots begin.
package vm

import (
	"fmt"

	"github.com/axe-lang/axe/code"
	"github.com/axe-lang/axe/compiler"
	"github.com/axe-lang/axe/object"
)

const (
	// StackSize is the fixed capacity of the operand stack.
	StackSize = 2048

	// GlobalsSize is the fixed capacity of the globals array.
	GlobalsSize = 65536

	// MaxFrames is the fixed capacity of the frame stack.
	MaxFrames = 1024
)

// VM executes the instructions and constants produced by the compiler
// against an operand stack, a frame stack, and a globals array.
type VM struct {
	// constants is the constant pool compiled alongside the instructions.
	constants []object.Object

	// stack is the operand stack; sp points one past the topmost live element.
	stack []object.Object
	sp    int

	// globals holds values bound with OpSetGlobal/OpGetGlobal. May be
	// shared across VM runs by the driver so state persists between
	// successive compile/run cycles.
	globals []object.Object

	// frames is the frame stack; framesIndex points one past the topmost live frame.
	frames      []*Frame
	framesIndex int
}

// New constructs a VM from a freshly compiled bytecode package, with a
// fresh globals array.
func New(bytecode *compiler.Bytecode) *VM {
	return NewWithGlobalsStore(bytecode, make([]object.Object, GlobalsSize))
}

// NewWithGlobalsStore constructs a VM that shares the given globals array
// rather than allocating its own, so a REPL driver can thread global
// state across successive runs.
func NewWithGlobalsStore(bytecode *compiler.Bytecode, globals []object.Object) *VM {
	mainFn := &object.CompiledFunction{Instructions: bytecode.Instructions}
	mainFrame := NewFrame(mainFn, 0)

	frames := make([]*Frame, MaxFrames)
	frames[0] = mainFrame

	return &VM{
		constants:   bytecode.Constants,
		stack:       make([]object.Object, StackSize),
		sp:          0,
		globals:     globals,
		frames:      frames,
		framesIndex: 1,
	}
}

// currentFrame returns the topmost live frame.
func (vm *VM) currentFrame() *Frame {
	return vm.frames[vm.framesIndex-1]
}

// pushFrame pushes f onto the frame stack.
func (vm *VM) pushFrame(f *Frame) {
	vm.frames[vm.framesIndex] = f
	vm.framesIndex++
}

// popFrame pops and returns the topmost frame.
func (vm *VM) popFrame() *Frame {
	vm.framesIndex--
	return vm.frames[vm.framesIndex]
}

// StackTop returns the current top of the operand stack, or nil if the
// stack is empty.
func (vm *VM) StackTop() object.Object {
	if vm.sp == 0 {
		return nil
	}
	return vm.stack[vm.sp-1]
}

// LastPoppedStackItem returns the stack slot immediately above the
// logical top. A Pop leaves its value behind at sp, so this is how a
// driver inspects the value of the expression statement that just ran.
func (vm *VM) LastPoppedStackItem() object.Object {
	return vm.stack[vm.sp]
}

// Run executes the VM's instructions to completion, or returns the
// first runtime error encountered.
func (vm *VM) Run() error {
	var ip int
	var ins code.Instructions
	var op code.Opcode

	for vm.currentFrame().ip < len(vm.currentFrame().Instructions())-1 {
		vm.currentFrame().ip++

		ip = vm.currentFrame().ip
		ins = vm.currentFrame().Instructions()
		op = code.Opcode(ins[ip])

		switch op {
		case code.OpConstant:
			constIndex := code.ReadUint16(ins[ip+1:])
			vm.currentFrame().ip += 2

			if err := vm.push(vm.constants[constIndex]); err != nil {
				return err
			}

		case code.OpAdd, code.OpSub, code.OpMul, code.OpDiv:
			if err := vm.executeBinaryOperation(op); err != nil {
				return err
			}

		case code.OpPop:
			vm.pop()

		case code.OpTrue:
			if err := vm.push(object.TrueValue); err != nil {
				return err
			}

		case code.OpFalse:
			if err := vm.push(object.FalseValue); err != nil {
				return err
			}

		case code.OpNull:
			if err := vm.push(object.NullValue); err != nil {
				return err
			}

		case code.OpEqual, code.OpNotEqual, code.OpGreaterThan:
			if err := vm.executeComparison(op); err != nil {
				return err
			}

		case code.OpBang:
			if err := vm.executeBangOperator(); err != nil {
				return err
			}

		case code.OpMinus:
			if err := vm.executeMinusOperator(); err != nil {
				return err
			}

		case code.OpJump:
			pos := int(code.ReadUint16(ins[ip+1:]))
			vm.currentFrame().ip = pos - 1

		case code.OpJumpNotTruthy:
			pos := int(code.ReadUint16(ins[ip+1:]))
			vm.currentFrame().ip += 2

			condition := vm.pop()
			if !object.IsTruthy(condition) {
				vm.currentFrame().ip = pos - 1
			}

		case code.OpSetGlobal:
			globalIndex := code.ReadUint16(ins[ip+1:])
			vm.currentFrame().ip += 2
			vm.globals[globalIndex] = vm.pop()

		case code.OpGetGlobal:
			globalIndex := code.ReadUint16(ins[ip+1:])
			vm.currentFrame().ip += 2
			if err := vm.push(vm.globals[globalIndex]); err != nil {
				return err
			}

		case code.OpSetLocal:
			localIndex := code.ReadUint8(ins[ip+1:])
			vm.currentFrame().ip++

			frame := vm.currentFrame()
			vm.stack[frame.basePointer+int(localIndex)] = vm.pop()

		case code.OpGetLocal:
			localIndex := code.ReadUint8(ins[ip+1:])
			vm.currentFrame().ip++

			frame := vm.currentFrame()
			if err := vm.push(vm.stack[frame.basePointer+int(localIndex)]); err != nil {
				return err
			}

		case code.OpCall:
			numArgs := int(code.ReadUint8(ins[ip+1:]))
			vm.currentFrame().ip++

			if err := vm.callFunction(numArgs); err != nil {
				return err
			}

		case code.OpReturnValue:
			returnValue := vm.pop()

			frame := vm.popFrame()
			vm.sp = frame.basePointer - 1

			if err := vm.push(returnValue); err != nil {
				return err
			}

		case code.OpReturn:
			frame := vm.popFrame()
			vm.sp = frame.basePointer - 1

			if err := vm.push(object.NullValue); err != nil {
				return err
			}

		default:
			return fmt.Errorf("unknown opcode %d", op)
		}
	}

	return nil
}

// push appends obj onto the operand stack, failing with "stack overflow"
// if the stack is already at capacity.
func (vm *VM) push(obj object.Object) error {
	if vm.sp >= StackSize {
		return fmt.Errorf("stack overflow")
	}

	vm.stack[vm.sp] = obj
	vm.sp++
	return nil
}

// pop removes and returns the top of the operand stack, leaving the
// popped value behind at the new sp so LastPoppedStackItem can read it.
func (vm *VM) pop() object.Object {
	o := vm.stack[vm.sp-1]
	vm.sp--
	return o
}

// executeBinaryOperation pops rhs then lhs and pushes the result of the
// arithmetic operation named by op. Variant mismatches are handled by the
// object package's dispatch functions, which yield Null rather than error.
func (vm *VM) executeBinaryOperation(op code.Opcode) error {
	right := vm.pop()
	left := vm.pop()

	var result object.Object
	switch op {
	case code.OpAdd:
		result = object.Add(left, right)
	case code.OpSub:
		result = object.Sub(left, right)
	case code.OpMul:
		result = object.Mul(left, right)
	case code.OpDiv:
		result = object.Div(left, right)
	default:
		return fmt.Errorf("unknown integer operator: %d", op)
	}

	return vm.push(result)
}

// executeComparison pops rhs then lhs and pushes the boolean result of
// the comparison named by op.
func (vm *VM) executeComparison(op code.Opcode) error {
	right := vm.pop()
	left := vm.pop()

	switch op {
	case code.OpEqual:
		return vm.push(object.NativeBool(object.Equal(left, right)))
	case code.OpNotEqual:
		return vm.push(object.NativeBool(!object.Equal(left, right)))
	case code.OpGreaterThan:
		return vm.push(object.NativeBool(object.GreaterThan(left, right)))
	default:
		return fmt.Errorf("unknown operator: %d", op)
	}
}

// executeBangOperator pops a value and pushes the boolean negation of
// its truthiness.
func (vm *VM) executeBangOperator() error {
	operand := vm.pop()
	return vm.push(object.NativeBool(!object.IsTruthy(operand)))
}

// executeMinusOperator pops a value and pushes its negation. Only
// Integer operands are supported; anything else is a runtime error.
func (vm *VM) executeMinusOperator() error {
	operand := vm.pop()

	value, ok := operand.(*object.Integer)
	if !ok {
		return fmt.Errorf("unsupported type for negation %s", operand.Type())
	}

	return vm.push(&object.Integer{Value: -value.Value})
}

// callFunction implements the Call protocol: the callee sits at
// stack[sp-1-numArgs] with its arguments above it. A new frame is pushed
// with its base pointer at sp-numArgs, so parameters already occupy
// local slots 0..numArgs-1, and sp is advanced to reserve the rest of
// the callee's local area.
func (vm *VM) callFunction(numArgs int) error {
	callee := vm.stack[vm.sp-1-numArgs]

	fn, ok := callee.(*object.CompiledFunction)
	if !ok {
		return fmt.Errorf("calling non-function")
	}

	if numArgs != fn.NumParameters {
		return fmt.Errorf("wrong number of arguments: want %d, got %d", fn.NumParameters, numArgs)
	}

	if vm.framesIndex >= MaxFrames {
		return fmt.Errorf("stack overflow")
	}

	frame := NewFrame(fn, vm.sp-numArgs)
	vm.pushFrame(frame)
	vm.sp = frame.basePointer + fn.NumLocals

	return nil
}
