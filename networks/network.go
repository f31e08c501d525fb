package networks

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// Mode selects which treatment signal feeds the value computation:
// ground-truth labels in Training, the treatment head's own
// predictions in Evaluation.
type Mode int

const (
	Training Mode = iota
	Evaluation
)

func (m Mode) valid() bool {
	return m == Training || m == Evaluation
}

func (m Mode) String() string {
	switch m {
	case Training:
		return "training"
	case Evaluation:
		return "evaluation"
	}
	return "unknown"
}

// Config fixes the network dimensions at construction time.
type Config struct {
	StateSize    int
	ActionSize   int
	FC1Units     int
	FC2Units     int
	Step         int
	NumTreatment int
	Seed         uint64
}

func DefaultConfig() Config {
	return Config{
		StateSize:    4,
		ActionSize:   2,
		FC1Units:     32,
		FC2Units:     32,
		Step:         4,
		NumTreatment: 2,
		Seed:         1,
	}
}

func (cfg Config) check() error {
	if cfg.StateSize < 1 || cfg.ActionSize < 1 || cfg.Step < 1 || cfg.NumTreatment < 1 {
		return fmt.Errorf("config sizes must be positive: %+v", cfg)
	}
	if cfg.FC1Units < 1 || cfg.FC2Units < 2 {
		return fmt.Errorf("config units too small: fc1=%d fc2=%d", cfg.FC1Units, cfg.FC2Units)
	}
	return nil
}

// Sample is one batch element: the state history up to the current
// decision point, the action taken immediately before it, and the
// aligned ground-truth treatment labels.
//
// Treatments is required in Training mode and ignored in Evaluation
// mode, where the treatment must be predicted instead.
type Sample struct {
	States     [][]float64
	PrevAction int
	Treatments []int
}

// Batch is an ordered collection of samples sharing the batch
// dimension.
type Batch []*Sample

// Output is the result of one forward evaluation of a single sample.
type Output struct {
	// TreatmentLogits are the raw treatment-class scores for the
	// latest timestep.
	TreatmentLogits []float64
	// ActionValues is the estimated Q-value per action.
	ActionValues []float64
	// WindowBlock is the assembled fixed-width state feature block,
	// exposed for auxiliary objectives in the training loop.
	WindowBlock []float64
}

// QNetwork is a treatment-aware action-value estimator. Forward is a
// pure function of the sample, the mode and the current weights; the
// weights are only mutated externally between calls.
type QNetwork interface {
	Name() string
	// Validate checks a sample against the configured dimensions and
	// the active mode without touching any network head.
	Validate(*Sample, Mode) error
	Forward(*Sample, Mode) (*Output, error)
	// Weights returns the live weight matrices, keyed by layer name.
	Weights() map[string]*mat.Dense
	// SetWeights copies the given matrices over the named layers.
	// Entries absent from the map are left untouched.
	SetWeights(map[string]*mat.Dense) error
}

// ForwardBatch validates every sample up front and then evaluates
// them concurrently. Output order matches batch order. The first
// validation failure aborts the whole batch before any head runs.
func ForwardBatch(net QNetwork, batch Batch, mode Mode) ([]*Output, error) {
	if !mode.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}
	for i, s := range batch {
		if err := net.Validate(s, mode); err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
	}
	outs := make([]*Output, len(batch))
	errs := make([]error, len(batch))
	var wg sync.WaitGroup
	for i, s := range batch {
		wg.Add(1)
		go func(i int, s *Sample) {
			defer wg.Done()
			outs[i], errs[i] = net.Forward(s, mode)
		}(i, s)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
	}
	return outs, nil
}
