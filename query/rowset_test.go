package query

import (
	"reflect"
	"testing"
)

func TestRowSet(t *testing.T) {
	for _, size := range []int{0, 1, 63, 64, 65, 130} {
		full := fullRowSet(size)
		if full.Len() != size {
			t.Errorf("fullRowSet(%d).Len() = %d", size, full.Len())
		}

		empty := newRowSet(size)
		empty.complement()
		if empty.Len() != size {
			t.Errorf("complement of empty set of %d = %d rows", size, empty.Len())
		}

		full.complement()
		if full.Len() != 0 {
			t.Errorf("complement of full set of %d = %d rows", size, full.Len())
		}
	}
}

func TestRowSet_Operations(t *testing.T) {
	a := newRowSet(70)
	for _, i := range []int{0, 5, 64, 69} {
		a.add(i)
	}
	b := newRowSet(70)
	for _, i := range []int{5, 6, 69} {
		b.add(i)
	}

	if !a.Has(64) || a.Has(63) || a.Has(-1) || a.Has(70) {
		t.Errorf("Has() reports wrong membership")
	}

	inter := newRowSet(70)
	inter.union(a)
	inter.intersect(b)
	if got, want := inter.Indices(), []int{5, 69}; !reflect.DeepEqual(got, want) {
		t.Errorf("intersection = %v, want %v", got, want)
	}

	union := newRowSet(70)
	union.union(a)
	union.union(b)
	if got, want := union.Indices(), []int{0, 5, 6, 64, 69}; !reflect.DeepEqual(got, want) {
		t.Errorf("union = %v, want %v", got, want)
	}

	a.complement()
	if a.Len() != 66 || a.Has(0) || !a.Has(1) || a.Has(69) {
		t.Errorf("complement has %d rows", a.Len())
	}
}
