package autograd

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
)

// ErrInvalidExponent is returned by Pow when the exponent is not a finite constant.
var ErrInvalidExponent = errors.New("invalid exponent")

// Op tags how a Value was produced. The set is closed: the backward driver
// switches over it to pick the local derivative rule.
type Op uint8

const (
	OpLeaf Op = iota
	OpAdd
	OpMul
	OpNeg
	OpPow
	OpTanh
)

func (o Op) String() string {
	switch o {
	case OpLeaf:
		return ""
	case OpAdd:
		return "+"
	case OpMul:
		return "*"
	case OpNeg:
		return "neg"
	case OpPow:
		return "**"
	case OpTanh:
		return "tanh"
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

var lastID atomic.Uint64

// Value is a scalar node of the computation graph. data is fixed once the
// node is built (leaves may be rewritten by a training loop through SetData),
// grad only ever grows during Backward until ZeroGrad resets it.
type Value struct {
	id       uint64
	data     float64
	grad     float64
	op       Op
	exponent float64
	operands []*Value
	label    string
}

func newValue(data float64, op Op, operands ...*Value) *Value {
	return &Value{
		id:       lastID.Add(1),
		data:     data,
		op:       op,
		operands: operands,
	}
}

// NewValue creates a leaf.
func NewValue(data float64) *Value {
	return newValue(data, OpLeaf)
}

// NewLabeledValue creates a leaf carrying a display label.
func NewLabeledValue(data float64, label string) *Value {
	v := newValue(data, OpLeaf)
	v.label = label
	return v
}

// Leaves wraps raw numbers as leaves, preserving order.
func Leaves(xs ...float64) []*Value {
	out := make([]*Value, len(xs))
	for i, x := range xs {
		out[i] = NewValue(x)
	}
	return out
}

// Add builds a + b.
func Add(a, b *Value) *Value {
	return newValue(a.data+b.data, OpAdd, a, b)
}

// Mul builds a * b.
func Mul(a, b *Value) *Value {
	return newValue(a.data*b.data, OpMul, a, b)
}

// Neg builds -a.
func Neg(a *Value) *Value {
	return newValue(-a.data, OpNeg, a)
}

// Pow builds a ** k for a constant k. NaN and infinite exponents are rejected.
func Pow(a *Value, k float64) (*Value, error) {
	if math.IsNaN(k) || math.IsInf(k, 0) {
		return nil, fmt.Errorf("pow: %w: %v", ErrInvalidExponent, k)
	}
	return powConst(a, k), nil
}

func powConst(a *Value, k float64) *Value {
	out := newValue(math.Pow(a.data, k), OpPow, a)
	out.exponent = k
	return out
}

// Tanh builds tanh(a) as (e^2a - 1)/(e^2a + 1). Large |a| overflows to NaN;
// nothing clamps it.
func Tanh(a *Value) *Value {
	e := math.Exp(2 * a.data)
	return newValue((e-1)/(e+1), OpTanh, a)
}

func (v *Value) Add(other *Value) *Value { return Add(v, other) }
func (v *Value) Mul(other *Value) *Value { return Mul(v, other) }
func (v *Value) Neg() *Value             { return Neg(v) }
func (v *Value) Tanh() *Value            { return Tanh(v) }

// Pow is the method form of Pow.
func (v *Value) Pow(k float64) (*Value, error) { return Pow(v, k) }

// Sub builds v + (-other).
func (v *Value) Sub(other *Value) *Value {
	return Add(v, Neg(other))
}

// Div builds v * other**-1.
func (v *Value) Div(other *Value) *Value {
	return Mul(v, powConst(other, -1))
}

// AddScalar wraps c as a leaf and adds it.
func (v *Value) AddScalar(c float64) *Value {
	return Add(v, NewValue(c))
}

// MulScalar wraps c as a leaf and multiplies by it.
func (v *Value) MulScalar(c float64) *Value {
	return Mul(v, NewValue(c))
}

func (v *Value) ID() uint64        { return v.id }
func (v *Value) Data() float64     { return v.data }
func (v *Value) Grad() float64     { return v.grad }
func (v *Value) Op() Op            { return v.op }
func (v *Value) Exponent() float64 { return v.exponent }
func (v *Value) Label() string     { return v.label }

// Operands returns a copy of the operand list, in construction order.
func (v *Value) Operands() []*Value {
	return append([]*Value(nil), v.operands...)
}

func (v *Value) SetLabel(label string) { v.label = label }

// SetData overwrites the value. Only meant for parameter leaves between
// training steps; rewriting an intermediate node leaves its consumers stale.
func (v *Value) SetData(data float64) { v.data = data }

func (v *Value) ZeroGrad() { v.grad = 0 }

// OpLabel renders the op tag, with the exponent for Pow nodes.
func (v *Value) OpLabel() string {
	if v.op == OpPow {
		return fmt.Sprintf("**%g", v.exponent)
	}
	return v.op.String()
}

func (v *Value) String() string {
	if v.label != "" {
		return fmt.Sprintf("Value(label=%s, data=%.4f, grad=%.4f)", v.label, v.data, v.grad)
	}
	return fmt.Sprintf("Value(data=%.4f, grad=%.4f)", v.data, v.grad)
}
