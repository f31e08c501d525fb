package networks

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func latents(vals ...[]float64) []*mat.VecDense {
	out := make([]*mat.VecDense, len(vals))
	for i, v := range vals {
		out[i] = mat.NewVecDense(len(v), v)
	}
	return out
}

func TestWindowBlockWidth(t *testing.T) {
	step, width := 4, 3
	for _, length := range []int{1, 2, 4, 6} {
		vals := make([][]float64, length)
		for i := range vals {
			vals[i] = []float64{float64(i + 1), float64(i + 1), float64(i + 1)}
		}
		block := windowBlock(latents(vals...), step, width)
		if len(block) != width*step {
			t.Errorf("length %d: block width %d, expected %d", length, len(block), width*step)
		}
	}
}

func TestWindowBlockLeftPadding(t *testing.T) {
	zs := latents([]float64{1, 2, 3}, []float64{4, 5, 6})
	block := windowBlock(zs, 4, 3)

	for i := 0; i < 6; i++ {
		if block[i] != 0 {
			t.Errorf("padding entry %d is %f, expected 0", i, block[i])
		}
	}
	expected := []float64{1, 2, 3, 4, 5, 6}
	for i, v := range expected {
		if block[6+i] != v {
			t.Errorf("entry %d is %f, expected %f", 6+i, block[6+i], v)
		}
	}
}

func TestWindowBlockDropsOldest(t *testing.T) {
	zs := latents(
		[]float64{1}, []float64{2}, []float64{3},
		[]float64{4}, []float64{5}, []float64{6},
	)
	block := windowBlock(zs, 4, 1)
	expected := []float64{3, 4, 5, 6}
	for i, v := range expected {
		if block[i] != v {
			t.Errorf("entry %d is %f, expected %f", i, block[i], v)
		}
	}
}

func TestOnehotBlock(t *testing.T) {
	block := onehotBlock([]int{1, 0}, 4, 2)
	if len(block) != 8 {
		t.Fatalf("block width %d, expected 8", len(block))
	}
	expected := []float64{0, 0, 0, 0, 0, 1, 1, 0}
	for i, v := range expected {
		if block[i] != v {
			t.Errorf("entry %d is %f, expected %f", i, block[i], v)
		}
	}
}

func TestOnehotBlockSlotSums(t *testing.T) {
	step, numTreatment := 4, 3
	labels := []int{2, 0, 1}
	block := onehotBlock(labels, step, numTreatment)
	padded := step - len(labels)
	for slot := 0; slot < step; slot++ {
		sum := 0.0
		for j := 0; j < numTreatment; j++ {
			sum += block[slot*numTreatment+j]
		}
		expected := 1.0
		if slot < padded {
			expected = 0.0
		}
		if sum != expected {
			t.Errorf("slot %d sums to %f, expected %f", slot, sum, expected)
		}
	}
}

func TestOnehotBlockDropsOldest(t *testing.T) {
	block := onehotBlock([]int{0, 0, 0, 1, 1, 1}, 2, 2)
	expected := []float64{0, 1, 0, 1}
	for i, v := range expected {
		if block[i] != v {
			t.Errorf("entry %d is %f, expected %f", i, block[i], v)
		}
	}
}
