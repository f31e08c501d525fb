package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/zeu5/treatment-rl/networks"
	"github.com/zeu5/treatment-rl/synth"
)

func EvalCommand() *cobra.Command {
	var (
		episodes      int
		batchSize     int
		minLength     int
		maxLength     int
		treatmentRate float64
		plotFile      string
	)
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Forward synthetic batches through all variants and summarize",
		RunE: func(cmd *cobra.Command, args []string) error {
			nets := buildAll()
			if len(nets) == 0 {
				return fmt.Errorf("no network could be constructed")
			}

			weights := []float64(nil)
			if numTreatment == 2 {
				weights = []float64{1 - treatmentRate, treatmentRate}
			}
			gen := synth.NewGenerator(synth.Config{
				StateSize:        stateSize,
				ActionSize:       actionSize,
				NumTreatment:     numTreatment,
				MinLength:        minLength,
				MaxLength:        maxLength,
				TreatmentWeights: weights,
				Seed:             seed,
			})

			series := make([]plotter.XYs, len(nets))
			meanQ := make([]float64, len(nets))
			activeRate := make([]float64, len(nets))
			for ep := 0; ep < episodes; ep++ {
				fmt.Printf("\rEpisode: %d/%d", ep+1, episodes)
				batch := gen.Batch(batchSize)
				for i, net := range nets {
					outs, err := networks.ForwardBatch(net, batch, networks.Evaluation)
					if err != nil {
						fmt.Println("")
						return err
					}
					sum := 0.0
					active := 0
					for _, out := range outs {
						sum += out.ActionValues[argmax(out.ActionValues)]
						if argmax(out.TreatmentLogits) == 1 {
							active++
						}
					}
					mean := sum / float64(len(outs))
					series[i] = append(series[i], plotter.XY{X: float64(ep), Y: mean})
					meanQ[i] += mean
					activeRate[i] += float64(active) / float64(len(outs))
				}
			}
			fmt.Println("")

			for i, net := range nets {
				fmt.Printf("Network: %s, mean max Q: %.4f, predicted active treatment rate: %.4f\n",
					net.Name(), meanQ[i]/float64(episodes), activeRate[i]/float64(episodes))
			}
			if plotFile != "" {
				return savePlot(plotFile, nets, series)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&episodes, "episodes", "e", 100, "Number of evaluation episodes")
	cmd.Flags().IntVarP(&batchSize, "batch-size", "b", 32, "Samples per episode")
	cmd.Flags().IntVar(&minLength, "min-length", 1, "Minimum history length")
	cmd.Flags().IntVar(&maxLength, "max-length", 8, "Maximum history length")
	cmd.Flags().Float64Var(&treatmentRate, "treatment-rate", 0.3, "Probability of the active treatment class per timestep")
	cmd.Flags().StringVar(&plotFile, "plot", "", "Save a mean max-Q plot to the given file")
	return cmd
}

// buildAll constructs every variant that the current configuration
// admits. The potential outcome network only exists for binary
// treatments.
func buildAll() []networks.QNetwork {
	nets := make([]networks.QNetwork, 0, 3)
	for _, name := range []string{"substitution", "concat", "potential-outcome"} {
		net, err := buildNetwork(name)
		if err != nil {
			fmt.Printf("Skipping %s: %s\n", name, err)
			continue
		}
		nets = append(nets, net)
	}
	return nets
}

func savePlot(path string, nets []networks.QNetwork, series []plotter.XYs) error {
	p := plot.New()
	p.Title.Text = "Evaluation"
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = "Mean max Q"
	for i, net := range nets {
		line, err := plotter.NewLine(series[i])
		if err != nil {
			continue
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(net.Name(), line)
	}
	return p.Save(8*vg.Inch, 8*vg.Inch, path)
}

func argmax(values []float64) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}
