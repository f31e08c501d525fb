package networks

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// PotentialOutcomeQNetwork feeds the joint state/treatment features
// to two independent value heads, one modeling the response as if the
// latest treatment were 0 and one as if it were 1, and combines them
// as t*head1 + (1-t)*head0. The indicator t is the ground-truth label
// in training mode and the treatment head's arg-max prediction in
// evaluation mode; no sampling is involved.
//
// The combination assumes a strictly binary treatment, so
// construction rejects any other NumTreatment.
type PotentialOutcomeQNetwork struct {
	core *core

	fc1T0 *linear
	fc2T0 *linear
	fc1T1 *linear
	fc2T1 *linear
}

var _ QNetwork = &PotentialOutcomeQNetwork{}

func NewPotentialOutcomeQNetwork(cfg Config) (*PotentialOutcomeQNetwork, error) {
	if cfg.NumTreatment != 2 {
		return nil, fmt.Errorf("potential outcome network requires exactly 2 treatment classes, got %d", cfg.NumTreatment)
	}
	src := rand.NewSource(cfg.Seed)
	c, err := newCore(cfg, src)
	if err != nil {
		return nil, err
	}
	width := (cfg.FC2Units + cfg.NumTreatment) * cfg.Step
	return &PotentialOutcomeQNetwork{
		core:  c,
		fc1T0: newLinear(width, width/2, src),
		fc2T0: newLinear(width/2, cfg.ActionSize, src),
		fc1T1: newLinear(width, width/2, src),
		fc2T1: newLinear(width/2, cfg.ActionSize, src),
	}, nil
}

func (n *PotentialOutcomeQNetwork) Name() string {
	return "potential-outcome"
}

func (n *PotentialOutcomeQNetwork) Validate(s *Sample, mode Mode) error {
	return n.core.validate(s, mode)
}

func (n *PotentialOutcomeQNetwork) Forward(s *Sample, mode Mode) (*Output, error) {
	if err := n.Validate(s, mode); err != nil {
		return nil, err
	}
	fs := n.core.run(s)
	cfg := n.core.cfg

	tblock := onehotBlock(n.core.windowLabels(s, fs, mode), cfg.Step, cfg.NumTreatment)
	joint := make([]float64, 0, len(fs.window)+len(tblock))
	joint = append(joint, fs.window...)
	joint = append(joint, tblock...)
	jointVec := mat.NewVecDense(len(joint), joint)

	h0 := n.fc1T0.forward(jointVec)
	reluInPlace(h0)
	y0 := vecSlice(n.fc2T0.forward(h0))

	h1 := n.fc1T1.forward(jointVec)
	reluInPlace(h1)
	y1 := vecSlice(n.fc2T1.forward(h1))

	t := float64(n.core.latestTreatment(s, fs, mode))
	values := make([]float64, cfg.ActionSize)
	for i := range values {
		values[i] = t*y1[i] + (1-t)*y0[i]
	}

	return &Output{
		TreatmentLogits: fs.logits[len(fs.logits)-1],
		ActionValues:    values,
		WindowBlock:     fs.window,
	}, nil
}

func (n *PotentialOutcomeQNetwork) Weights() map[string]*mat.Dense {
	m := make(map[string]*mat.Dense)
	n.core.register(m)
	n.fc1T0.register(m, "value0.fc1")
	n.fc2T0.register(m, "value0.fc2")
	n.fc1T1.register(m, "value1.fc1")
	n.fc2T1.register(m, "value1.fc2")
	return m
}

func (n *PotentialOutcomeQNetwork) SetWeights(w map[string]*mat.Dense) error {
	return copyWeights(n.Weights(), w)
}
