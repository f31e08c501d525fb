package networks

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// activeTreatment is the treatment class under which the previous
// action is repeated instead of trusting the value head.
const activeTreatment = 1

// SubstitutionQNetwork estimates action values from the windowed
// state features alone. Whenever the latest treatment indicator
// equals the active-intervention class the action-value output is
// replaced, bit for bit, by the one-hot expansion of the previous
// action: ground-truth labels decide in training mode, the treatment
// head's own prediction decides in evaluation mode.
//
// When the substitution fires in training, the returned action values
// carry no learning signal for the value head; the training loop is
// expected to restrict its loss to the treatment logits for those
// samples.
type SubstitutionQNetwork struct {
	core *core
	fc1  *linear
	fc2  *linear
}

var _ QNetwork = &SubstitutionQNetwork{}

func NewSubstitutionQNetwork(cfg Config) (*SubstitutionQNetwork, error) {
	src := rand.NewSource(cfg.Seed)
	c, err := newCore(cfg, src)
	if err != nil {
		return nil, err
	}
	width := cfg.FC2Units * cfg.Step
	return &SubstitutionQNetwork{
		core: c,
		fc1:  newLinear(width, width/2, src),
		fc2:  newLinear(width/2, cfg.ActionSize, src),
	}, nil
}

func (n *SubstitutionQNetwork) Name() string {
	return "substitution"
}

func (n *SubstitutionQNetwork) Validate(s *Sample, mode Mode) error {
	if err := n.core.validate(s, mode); err != nil {
		return err
	}
	if s.PrevAction < 0 || s.PrevAction >= n.core.cfg.ActionSize {
		return fmt.Errorf("%w: prev action %d outside [0, %d)", ErrShapeMismatch, s.PrevAction, n.core.cfg.ActionSize)
	}
	return nil
}

func (n *SubstitutionQNetwork) Forward(s *Sample, mode Mode) (*Output, error) {
	if err := n.Validate(s, mode); err != nil {
		return nil, err
	}
	fs := n.core.run(s)

	h := n.fc1.forward(mat.NewVecDense(len(fs.window), fs.window))
	reluInPlace(h)
	values := vecSlice(n.fc2.forward(h))

	if n.core.latestTreatment(s, fs, mode) == activeTreatment {
		values = onehot(s.PrevAction, n.core.cfg.ActionSize)
	}

	return &Output{
		TreatmentLogits: fs.logits[len(fs.logits)-1],
		ActionValues:    values,
		WindowBlock:     fs.window,
	}, nil
}

func (n *SubstitutionQNetwork) Weights() map[string]*mat.Dense {
	m := make(map[string]*mat.Dense)
	n.core.register(m)
	n.fc1.register(m, "value.fc1")
	n.fc2.register(m, "value.fc2")
	return m
}

func (n *SubstitutionQNetwork) SetWeights(w map[string]*mat.Dense) error {
	return copyWeights(n.Weights(), w)
}
