package autograd

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

const tol = 1e-9

func TestForwardResults(t *testing.T) {
	a, b := NewValue(2), NewValue(-3)

	cases := []struct {
		name string
		v    *Value
		want float64
		op   Op
	}{
		{"add", Add(a, b), -1, OpAdd},
		{"mul", Mul(a, b), -6, OpMul},
		{"neg", Neg(a), -2, OpNeg},
		{"tanh", Tanh(a), math.Tanh(2), OpTanh},
		{"sub", a.Sub(b), 5, OpAdd},
		{"div", a.Div(b), -2.0 / 3, OpMul},
		{"addScalar", a.AddScalar(0.5), 2.5, OpAdd},
		{"mulScalar", b.MulScalar(2), -6, OpMul},
	}
	for _, c := range cases {
		if !scalar.EqualWithinAbs(c.v.Data(), c.want, tol) {
			t.Errorf("%s: data = %v, want %v", c.name, c.v.Data(), c.want)
		}
		if c.v.Op() != c.op {
			t.Errorf("%s: op = %v, want %v", c.name, c.v.Op(), c.op)
		}
		if c.v.Grad() != 0 {
			t.Errorf("%s: fresh grad = %v, want 0", c.name, c.v.Grad())
		}
	}
}

func TestPow(t *testing.T) {
	x := NewValue(3)
	p, err := Pow(x, 2)
	if err != nil {
		t.Fatalf("Pow(3, 2) error: %v", err)
	}
	if p.Data() != 9 || p.Exponent() != 2 || p.OpLabel() != "**2" {
		t.Fatalf("Pow(3, 2) = %v exponent %v label %q", p.Data(), p.Exponent(), p.OpLabel())
	}

	for _, k := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := x.Pow(k); !errors.Is(err, ErrInvalidExponent) {
			t.Errorf("Pow(x, %v) error = %v, want ErrInvalidExponent", k, err)
		}
	}
}

func TestLeavesAndIdentity(t *testing.T) {
	xs := Leaves(1, 2, 3)
	if len(xs) != 3 {
		t.Fatalf("Leaves returned %d values, want 3", len(xs))
	}
	for i, x := range xs {
		if x.Op() != OpLeaf || len(x.Operands()) != 0 {
			t.Errorf("Leaves()[%d] is not a leaf: %v", i, x.Op())
		}
		if x.Data() != float64(i+1) {
			t.Errorf("Leaves()[%d] = %v, want %v", i, x.Data(), i+1)
		}
		if i > 0 && x.ID() <= xs[i-1].ID() {
			t.Errorf("IDs not increasing: %d then %d", xs[i-1].ID(), x.ID())
		}
	}

	y := Mul(xs[0], xs[1])
	if y.ID() <= xs[2].ID() {
		t.Errorf("result ID %d not greater than operand IDs", y.ID())
	}
	ops := y.Operands()
	if len(ops) != 2 || ops[0] != xs[0] || ops[1] != xs[1] {
		t.Fatalf("Operands() = %v, want [x0 x1]", ops)
	}
	ops[0] = nil
	if y.Operands()[0] != xs[0] {
		t.Fatal("Operands() exposed internal slice")
	}
}

func TestTanhOverflowIsNotClamped(t *testing.T) {
	v := Tanh(NewValue(1000))
	if !math.IsNaN(v.Data()) {
		t.Fatalf("Tanh(1000) = %v, want NaN from overflow", v.Data())
	}
}

func TestStringAndLabel(t *testing.T) {
	v := NewLabeledValue(1.5, "w0")
	if v.Label() != "w0" {
		t.Fatalf("Label() = %q, want w0", v.Label())
	}
	if got := v.String(); got != "Value(label=w0, data=1.5000, grad=0.0000)" {
		t.Fatalf("String() = %q", got)
	}
	v.SetLabel("")
	if got := v.String(); got != "Value(data=1.5000, grad=0.0000)" {
		t.Fatalf("String() = %q", got)
	}
}
