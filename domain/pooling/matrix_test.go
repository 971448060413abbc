package pooling

import "testing"

func TestAssayMatrix(t *testing.T) {
	m := NewAssayMatrix(2, 3)
	if m.Pools() != 2 || m.Permutations() != 3 {
		t.Fatalf("dimensions = (%d, %d), want (2, 3)", m.Pools(), m.Permutations())
	}

	for j := 0; j < 3; j++ {
		col := m.Column(j)
		for i := range col {
			col[i] = 10*j + i + 1
		}
	}

	if got := m.At(1, 2); got != 22 {
		t.Errorf("At(1,2) = %d, want 22", got)
	}
	if got := m.ColumnTotal(0); got != 3 {
		t.Errorf("ColumnTotal(0) = %d, want 3", got)
	}
	totals := m.Totals()
	want := []int{3, 23, 43}
	for j, w := range want {
		if totals[j] != w {
			t.Errorf("Totals()[%d] = %d, want %d", j, totals[j], w)
		}
	}
}

func TestAssayMatrix_Equal(t *testing.T) {
	a := NewAssayMatrix(2, 2)
	b := NewAssayMatrix(2, 2)
	a.Column(0)[0] = 1
	b.Column(0)[0] = 1
	if !a.Equal(b) {
		t.Error("identical matrices reported unequal")
	}
	b.Column(1)[1] = 5
	if a.Equal(b) {
		t.Error("differing matrices reported equal")
	}
	if a.Equal(NewAssayMatrix(1, 2)) {
		t.Error("mismatched dimensions reported equal")
	}
	if a.Equal(nil) {
		t.Error("nil comparison reported equal")
	}
}
