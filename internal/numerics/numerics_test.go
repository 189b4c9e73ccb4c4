package numerics

import "testing"

func TestAlmostEqAbsoluteAndRelative(t *testing.T) {
	if !AlmostEq(1, 1+5e-10) {
		t.Fatalf("expected absolute tolerance to accept 5e-10 difference")
	}
	if !AlmostEq(1e6, 1e6+1e-4) {
		t.Fatalf("expected relative tolerance to accept 1e-4 at 1e6")
	}
	if AlmostEq(1, 1.001) {
		t.Fatalf("expected 1 and 1.001 to differ")
	}
}

func TestOrderingPredicates(t *testing.T) {
	a, b := 2.0, 2.0+1e-12
	if !Geq(a, b) || !Leq(a, b) {
		t.Fatalf("expected near-equal values to satisfy Geq and Leq")
	}
	if Lt(a, b) || Gt(a, b) {
		t.Fatalf("expected near-equal values to fail strict comparisons")
	}
	if !Lt(1, 2) || !Gt(2, 1) {
		t.Fatalf("expected strict comparisons to hold for distinct values")
	}
}

func TestClampToZero(t *testing.T) {
	if got := ClampToZero(1e-12); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := ClampToZero(0.5); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
}
