package cache

import (
	"math"
	"testing"
)

func TestKeyQuantization(t *testing.T) {
	k := func(v float64) Key {
		return NewKey(KindLinearGradient).Float(v, QuantumGeometry).Key()
	}
	if k(10) != k(10+1e-9) {
		t.Error("sub-quantum noise changed the key")
	}
	if k(10) == k(10+QuantumGeometry) {
		t.Error("a full quantum step did not change the key")
	}
	if k(0) != k(math.Copysign(0, -1)) {
		t.Error("negative zero hashed differently")
	}
	if k(math.NaN()) == k(0) {
		t.Error("NaN collided with zero")
	}
}

func TestKeyKindSeparation(t *testing.T) {
	a := NewKey(KindLinearGradient).Int(1).Key()
	b := NewKey(KindRadialGradient).Int(1).Key()
	if a == b {
		t.Error("keys of different kinds are equal")
	}
}

func TestKeyFieldBoundaries(t *testing.T) {
	a := NewKey(KindHatch).String("ab").String("c").Key()
	b := NewKey(KindHatch).String("a").String("bc").Key()
	if a == b {
		t.Error("length prefix missing: string boundaries collide")
	}
}
