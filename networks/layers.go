package networks

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// linear is a fully connected layer y = Wx + b with W of shape
// out x in and b of shape out x 1.
type linear struct {
	w *mat.Dense
	b *mat.Dense
}

func newLinear(in, out int, src rand.Source) *linear {
	bound := 1.0 / math.Sqrt(float64(in))
	u := distuv.Uniform{Min: -bound, Max: bound, Src: src}
	wData := make([]float64, out*in)
	for i := range wData {
		wData[i] = u.Rand()
	}
	bData := make([]float64, out)
	for i := range bData {
		bData[i] = u.Rand()
	}
	return &linear{
		w: mat.NewDense(out, in, wData),
		b: mat.NewDense(out, 1, bData),
	}
}

func (l *linear) forward(x *mat.VecDense) *mat.VecDense {
	rows, _ := l.w.Dims()
	y := mat.NewVecDense(rows, nil)
	y.MulVec(l.w, x)
	for i := 0; i < rows; i++ {
		y.SetVec(i, y.AtVec(i)+l.b.At(i, 0))
	}
	return y
}

// register adds the layer's matrices to a weight map under
// prefix.w / prefix.b.
func (l *linear) register(m map[string]*mat.Dense, prefix string) {
	m[prefix+".w"] = l.w
	m[prefix+".b"] = l.b
}

func reluInPlace(v *mat.VecDense) {
	for i := 0; i < v.Len(); i++ {
		if v.AtVec(i) < 0 {
			v.SetVec(i, 0)
		}
	}
}

func vecSlice(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}

// argmax returns the index of the largest score, preferring the
// lowest index on ties.
func argmax(scores []float64) int {
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best
}

func onehot(index, size int) []float64 {
	out := make([]float64, size)
	out[index] = 1
	return out
}

// copyWeights overwrites registered matrices with the entries of src,
// validating dimensions. Names not present in the registry are
// rejected; registry entries absent from src are left unchanged.
func copyWeights(registry map[string]*mat.Dense, src map[string]*mat.Dense) error {
	for name, w := range src {
		dst, ok := registry[name]
		if !ok {
			return fmt.Errorf("unknown weight %q", name)
		}
		dr, dc := dst.Dims()
		sr, sc := w.Dims()
		if dr != sr || dc != sc {
			return fmt.Errorf("%w: weight %q is %dx%d, expected %dx%d", ErrShapeMismatch, name, sr, sc, dr, dc)
		}
		dst.Copy(w)
	}
	return nil
}
