package synth

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/zeu5/treatment-rl/networks"
)

// Config describes the synthetic sample distribution.
type Config struct {
	StateSize    int
	ActionSize   int
	NumTreatment int
	// Episode lengths are drawn uniformly from [MinLength, MaxLength].
	MinLength int
	MaxLength int
	// TreatmentWeights are the unnormalized per-class weights used to
	// draw treatment labels. Nil means uniform.
	TreatmentWeights []float64
	Seed             uint64
}

// Generator draws synthetic treatment-RL samples for evaluation runs
// and tests. A generator is deterministic for a given seed.
type Generator struct {
	cfg     Config
	rng     *rand.Rand
	state   distuv.Normal
	weights []float64
}

func NewGenerator(cfg Config) *Generator {
	if cfg.MinLength < 1 {
		cfg.MinLength = 1
	}
	if cfg.MaxLength < cfg.MinLength {
		cfg.MaxLength = cfg.MinLength
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	weights := cfg.TreatmentWeights
	if weights == nil {
		weights = make([]float64, cfg.NumTreatment)
		for i := range weights {
			weights[i] = 1
		}
	}
	return &Generator{
		cfg:     cfg,
		rng:     rng,
		state:   distuv.Normal{Mu: 0, Sigma: 1, Src: rng},
		weights: weights,
	}
}

// Sample draws one state history with aligned treatment labels and a
// previous action.
func (g *Generator) Sample() *networks.Sample {
	length := g.cfg.MinLength + g.rng.Intn(g.cfg.MaxLength-g.cfg.MinLength+1)
	states := make([][]float64, length)
	treatments := make([]int, length)
	for i := 0; i < length; i++ {
		s := make([]float64, g.cfg.StateSize)
		for j := range s {
			s[j] = g.state.Rand()
		}
		states[i] = s
		treatments[i] = g.drawTreatment()
	}
	return &networks.Sample{
		States:     states,
		PrevAction: g.rng.Intn(g.cfg.ActionSize),
		Treatments: treatments,
	}
}

// Batch draws n samples.
func (g *Generator) Batch(n int) networks.Batch {
	batch := make(networks.Batch, n)
	for i := range batch {
		batch[i] = g.Sample()
	}
	return batch
}

func (g *Generator) drawTreatment() int {
	// sampleuv.Weighted reweights in place, so it is built fresh from
	// a copy for every draw.
	w := append([]float64(nil), g.weights...)
	i, ok := sampleuv.NewWeighted(w, g.rng).Take()
	if !ok {
		return 0
	}
	return i
}
