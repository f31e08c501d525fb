package networks

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// ConcatQNetwork estimates action values from the windowed state
// features concatenated with the one-hot treatment block. The
// treatment signal is learned as an ordinary feature; there is no
// substitution branch. Ground-truth labels fill the block in training
// mode, per-timestep arg-max predictions in evaluation mode.
type ConcatQNetwork struct {
	core *core
	fc1  *linear
	fc2  *linear
}

var _ QNetwork = &ConcatQNetwork{}

func NewConcatQNetwork(cfg Config) (*ConcatQNetwork, error) {
	src := rand.NewSource(cfg.Seed)
	c, err := newCore(cfg, src)
	if err != nil {
		return nil, err
	}
	width := (cfg.FC2Units + cfg.NumTreatment) * cfg.Step
	return &ConcatQNetwork{
		core: c,
		fc1:  newLinear(width, width/2, src),
		fc2:  newLinear(width/2, cfg.ActionSize, src),
	}, nil
}

func (n *ConcatQNetwork) Name() string {
	return "concat"
}

func (n *ConcatQNetwork) Validate(s *Sample, mode Mode) error {
	return n.core.validate(s, mode)
}

func (n *ConcatQNetwork) Forward(s *Sample, mode Mode) (*Output, error) {
	if err := n.Validate(s, mode); err != nil {
		return nil, err
	}
	fs := n.core.run(s)
	cfg := n.core.cfg

	tblock := onehotBlock(n.core.windowLabels(s, fs, mode), cfg.Step, cfg.NumTreatment)
	joint := make([]float64, 0, len(fs.window)+len(tblock))
	joint = append(joint, fs.window...)
	joint = append(joint, tblock...)

	h := n.fc1.forward(mat.NewVecDense(len(joint), joint))
	reluInPlace(h)
	values := vecSlice(n.fc2.forward(h))

	return &Output{
		TreatmentLogits: fs.logits[len(fs.logits)-1],
		ActionValues:    values,
		WindowBlock:     fs.window,
	}, nil
}

func (n *ConcatQNetwork) Weights() map[string]*mat.Dense {
	m := make(map[string]*mat.Dense)
	n.core.register(m)
	n.fc1.register(m, "value.fc1")
	n.fc2.register(m, "value.fc2")
	return m
}

func (n *ConcatQNetwork) SetWeights(w map[string]*mat.Dense) error {
	return copyWeights(n.Weights(), w)
}
