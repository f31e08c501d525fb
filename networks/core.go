package networks

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// core is the encoding path shared by all variants: the per-timestep
// state encoder and the treatment classification head.
type core struct {
	cfg Config

	enc1, enc2 *linear // state encoder, StateSize -> FC1 -> FC2
	t1, t2     *linear // treatment head, FC2 -> FC2/2 -> NumTreatment
}

func newCore(cfg Config, src rand.Source) (*core, error) {
	if err := cfg.check(); err != nil {
		return nil, err
	}
	return &core{
		cfg:  cfg,
		enc1: newLinear(cfg.StateSize, cfg.FC1Units, src),
		enc2: newLinear(cfg.FC1Units, cfg.FC2Units, src),
		t1:   newLinear(cfg.FC2Units, cfg.FC2Units/2, src),
		t2:   newLinear(cfg.FC2Units/2, cfg.NumTreatment, src),
	}, nil
}

// validate checks a sample against the configured dimensions and the
// active mode. It never touches any head.
func (c *core) validate(s *Sample, mode Mode) error {
	if !mode.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}
	if s == nil || len(s.States) == 0 {
		return fmt.Errorf("%w: state sequence", ErrMissingField)
	}
	for i, st := range s.States {
		if len(st) != c.cfg.StateSize {
			return fmt.Errorf("%w: state %d has dimension %d, expected %d", ErrShapeMismatch, i, len(st), c.cfg.StateSize)
		}
	}
	if mode == Training {
		if s.Treatments == nil {
			return fmt.Errorf("%w: treatment sequence required in training mode", ErrMissingField)
		}
		if len(s.Treatments) != len(s.States) {
			return fmt.Errorf("%w: %d treatment labels for %d states", ErrShapeMismatch, len(s.Treatments), len(s.States))
		}
		for i, t := range s.Treatments {
			if t < 0 || t >= c.cfg.NumTreatment {
				return fmt.Errorf("%w: treatment label %d at step %d outside [0, %d)", ErrShapeMismatch, t, i, c.cfg.NumTreatment)
			}
		}
	}
	return nil
}

// forwardState carries the shared intermediates of one forward call:
// the windowed latent vectors, the per-timestep treatment logits over
// the window, and the assembled window block.
type forwardState struct {
	zs     []*mat.VecDense
	logits [][]float64
	window []float64
}

// run encodes the full state sequence, scores the windowed timesteps
// with the treatment head and assembles the window block. The sample
// must already be validated.
func (c *core) run(s *Sample) *forwardState {
	zs := make([]*mat.VecDense, len(s.States))
	for i, st := range s.States {
		z := c.enc1.forward(mat.NewVecDense(len(st), st))
		reluInPlace(z)
		z = c.enc2.forward(z)
		reluInPlace(z)
		zs[i] = z
	}
	if len(zs) > c.cfg.Step {
		zs = zs[len(zs)-c.cfg.Step:]
	}
	logits := make([][]float64, len(zs))
	for i, z := range zs {
		h := c.t1.forward(z)
		reluInPlace(h)
		logits[i] = vecSlice(c.t2.forward(h))
	}
	return &forwardState{
		zs:     zs,
		logits: logits,
		window: windowBlock(zs, c.cfg.Step, c.cfg.FC2Units),
	}
}

// latestTreatment resolves the treatment indicator of the most recent
// timestep: the ground-truth label in training, the head's arg-max
// prediction in evaluation.
func (c *core) latestTreatment(s *Sample, fs *forwardState, mode Mode) int {
	if mode == Training {
		return s.Treatments[len(s.Treatments)-1]
	}
	return argmax(fs.logits[len(fs.logits)-1])
}

// windowLabels resolves the treatment labels of the windowed
// timesteps from the mode-dependent source.
func (c *core) windowLabels(s *Sample, fs *forwardState, mode Mode) []int {
	if mode == Training {
		labels := s.Treatments
		if len(labels) > c.cfg.Step {
			labels = labels[len(labels)-c.cfg.Step:]
		}
		return labels
	}
	labels := make([]int, len(fs.logits))
	for i, scores := range fs.logits {
		labels[i] = argmax(scores)
	}
	return labels
}

func (c *core) register(m map[string]*mat.Dense) {
	c.enc1.register(m, "encoder.fc1")
	c.enc2.register(m, "encoder.fc2")
	c.t1.register(m, "treatment.fc1")
	c.t2.register(m, "treatment.fc2")
}
