package networks

import "gonum.org/v1/gonum/mat"

// windowBlock concatenates the last min(step, len) latent vectors in
// order and left-pads with zeros to exactly width*step. Older
// elements beyond the window are dropped, never the most recent.
func windowBlock(zs []*mat.VecDense, step, width int) []float64 {
	block := make([]float64, width*step)
	if len(zs) > step {
		zs = zs[len(zs)-step:]
	}
	offset := (step - len(zs)) * width
	for i, z := range zs {
		for j := 0; j < width; j++ {
			block[offset+i*width+j] = z.AtVec(j)
		}
	}
	return block
}

// onehotBlock encodes the last min(step, len) treatment labels as
// stacked one-hot vectors, left-padded with zeros to
// numTreatment*step. Every non-padding slot sums to exactly 1; an
// all-zero slot only ever appears as padding.
func onehotBlock(labels []int, step, numTreatment int) []float64 {
	block := make([]float64, numTreatment*step)
	if len(labels) > step {
		labels = labels[len(labels)-step:]
	}
	offset := (step - len(labels)) * numTreatment
	for i, label := range labels {
		block[offset+i*numTreatment+label] = 1
	}
	return block
}
