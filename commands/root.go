package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zeu5/treatment-rl/networks"
)

var (
	stateSize    int
	actionSize   int
	fc1Units     int
	fc2Units     int
	step         int
	numTreatment int
	seed         uint64
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:   "treatment-rl",
		Short: "Treatment-aware Q-value estimation",
	}
	rootCommand.PersistentFlags().IntVar(&stateSize, "state-size", 4, "Dimension of each raw state vector")
	rootCommand.PersistentFlags().IntVar(&actionSize, "action-size", 2, "Number of discrete actions")
	rootCommand.PersistentFlags().IntVar(&fc1Units, "fc1-units", 32, "Width of the first encoder layer")
	rootCommand.PersistentFlags().IntVar(&fc2Units, "fc2-units", 32, "Width of the latent feature vector")
	rootCommand.PersistentFlags().IntVar(&step, "step", 4, "Window length in timesteps")
	rootCommand.PersistentFlags().IntVar(&numTreatment, "num-treatment", 2, "Number of treatment classes")
	rootCommand.PersistentFlags().Uint64Var(&seed, "seed", 1, "Seed for weight initialization")
	// adding the subcommands here
	rootCommand.AddCommand(EvalCommand())
	rootCommand.AddCommand(ServeCommand())
	return rootCommand
}

func networkConfig() networks.Config {
	return networks.Config{
		StateSize:    stateSize,
		ActionSize:   actionSize,
		FC1Units:     fc1Units,
		FC2Units:     fc2Units,
		Step:         step,
		NumTreatment: numTreatment,
		Seed:         seed,
	}
}

func buildNetwork(name string) (networks.QNetwork, error) {
	cfg := networkConfig()
	switch name {
	case "substitution":
		return networks.NewSubstitutionQNetwork(cfg)
	case "concat":
		return networks.NewConcatQNetwork(cfg)
	case "potential-outcome":
		return networks.NewPotentialOutcomeQNetwork(cfg)
	}
	return nil, fmt.Errorf("unknown network %q", name)
}
