package networks

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestLinearForward(t *testing.T) {
	l := &linear{
		w: mat.NewDense(2, 2, []float64{1, 2, 3, 4}),
		b: mat.NewDense(2, 1, []float64{1, -1}),
	}
	y := l.forward(mat.NewVecDense(2, []float64{1, 1}))
	if y.AtVec(0) != 4 || y.AtVec(1) != 6 {
		t.Errorf("got [%f %f], expected [4 6]", y.AtVec(0), y.AtVec(1))
	}
}

func TestReluInPlace(t *testing.T) {
	v := mat.NewVecDense(4, []float64{-1, 0, 0.5, -0.001})
	reluInPlace(v)
	expected := []float64{0, 0, 0.5, 0}
	for i, e := range expected {
		if v.AtVec(i) != e {
			t.Errorf("entry %d is %f, expected %f", i, v.AtVec(i), e)
		}
	}
}

func TestArgmaxTieBreak(t *testing.T) {
	cases := []struct {
		scores   []float64
		expected int
	}{
		{[]float64{0, 0}, 0},
		{[]float64{1, 3, 3}, 1},
		{[]float64{-2, -1, -1}, 1},
		{[]float64{5}, 0},
		{[]float64{0, 0, 1}, 2},
	}
	for _, c := range cases {
		if got := argmax(c.scores); got != c.expected {
			t.Errorf("argmax(%v) = %d, expected %d", c.scores, got, c.expected)
		}
	}
}

func TestCopyWeightsRejectsShape(t *testing.T) {
	registry := map[string]*mat.Dense{
		"a.w": mat.NewDense(2, 2, nil),
	}
	err := copyWeights(registry, map[string]*mat.Dense{
		"a.w": mat.NewDense(2, 3, nil),
	})
	if err == nil {
		t.Fatal("expected error for mismatched dimensions")
	}
	if err := copyWeights(registry, map[string]*mat.Dense{"b.w": mat.NewDense(2, 2, nil)}); err == nil {
		t.Fatal("expected error for unknown weight name")
	}
}
