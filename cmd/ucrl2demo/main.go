// Command ucrl2demo drives the RiverSwim benchmark through UCRL2 and prints
// or charts the results. It is pure plumbing over the core packages: no
// numerical logic lives here, only flag parsing and wiring.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asmuth-labs/ucrl2/diagnostics"
	"github.com/asmuth-labs/ucrl2/reporting"
	"github.com/asmuth-labs/ucrl2/riverswim"
	"github.com/asmuth-labs/ucrl2/ucrl2"
)

// riverSwimFlags holds the RiverSwim construction parameters shared by every
// subcommand.
type riverSwimFlags struct {
	states   int
	progress float64
	backflow float64
	lazy     float64
	win      float64
	seed     int64
}

func (f *riverSwimFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.states, "states", 6, "number of RiverSwim states")
	cmd.Flags().Float64Var(&f.progress, "progress", 0.35, "rightward progress chance")
	cmd.Flags().Float64Var(&f.backflow, "backflow", 0.05, "backflow chance")
	cmd.Flags().Float64Var(&f.lazy, "lazy-reward", 0.05, "reward for staying at state 0 under LEFT")
	cmd.Flags().Float64Var(&f.win, "win-reward", 1.0, "reward for reaching the rightmost state under RIGHT")
	cmd.Flags().Int64Var(&f.seed, "seed", 1, "PRNG seed")
}

func (f *riverSwimFlags) build() (*riverswim.Config, error) {
	if f.states < 2 {
		return nil, fmt.Errorf("--states must be at least 2, got %d", f.states)
	}
	return &riverswim.Config{
		States:         f.states,
		ProgressChance: f.progress,
		BackflowChance: f.backflow,
		LazyReward:     f.lazy,
		WinReward:      f.win,
		Discount:       1.0,
		Seed:           f.seed,
	}, nil
}

func main() {
	root := &cobra.Command{
		Use:   "ucrl2demo",
		Short: "Run UCRL2 over the RiverSwim benchmark and report its progress.",
	}

	var rs riverSwimFlags
	var delta float64
	var tMax, kMax int

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run UCRL2 for a step or episode budget, printing each episode as it starts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rs.build()
			if err != nil {
				return err
			}
			m, err := riverswim.New(*cfg)
			if err != nil {
				return err
			}
			driver, err := ucrl2.NewDriver(m, cfg.States, riverswim.NumActions, delta, tMax, kMax, nil)
			if err != nil {
				return err
			}
			driver.OnEpisode = reporting.EpisodePrinter()

			_, episodes, err := driver.Run()
			if err != nil {
				return fmt.Errorf("ucrl2demo: run failed after %d episodes: %w", len(episodes), err)
			}
			fmt.Printf("total reward: %.4f\n", m.TotalReward())
			return nil
		},
	}
	rs.register(runCmd)
	runCmd.Flags().Float64Var(&delta, "delta", 0.05, "UCRL2 confidence parameter")
	runCmd.Flags().IntVar(&tMax, "tmax", 20000, "step budget (0 = unlimited)")
	runCmd.Flags().IntVar(&kMax, "kmax", 0, "episode budget (0 = unlimited)")

	var chartDir string
	diagnoseCmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Run UCRL2, then replay the recorded history to chart optimist vs final-policy gain",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rs.build()
			if err != nil {
				return err
			}
			m, err := riverswim.New(*cfg)
			if err != nil {
				return err
			}
			driver, err := ucrl2.NewDriver(m, cfg.States, riverswim.NumActions, delta, tMax, kMax, nil)
			if err != nil {
				return err
			}
			driver.OnEpisode = reporting.EpisodePrinter()

			history, episodes, err := driver.Run()
			if err != nil {
				return fmt.Errorf("ucrl2demo: run failed after %d episodes: %w", len(episodes), err)
			}
			if len(episodes) == 0 {
				return fmt.Errorf("ucrl2demo: no episodes recorded, nothing to diagnose")
			}

			legalActions := make([][]int, cfg.States)
			for x := 0; x < cfg.States; x++ {
				legalActions[x] = m.LegalActions(x)
			}
			finalPolicy := episodes[len(episodes)-1].Policy

			gOpt, gRestricted, err := diagnostics.PerformanceReplay(history, legalActions, riverswim.NumActions, finalPolicy, delta)
			if err != nil {
				return fmt.Errorf("ucrl2demo: performance replay: %w", err)
			}

			path, err := reporting.RenderRegretChart(chartDir, "riverswim", gOpt, gRestricted)
			if err != nil {
				return err
			}
			fmt.Printf("chart written to %s\n", path)

			bad := diagnostics.FindBadEpisode(episodes, 0, finalPolicy)
			if bad >= 0 {
				fmt.Printf("first episode diverging from the final policy: %d\n", bad)
			} else {
				fmt.Println("no episode diverged from the final policy")
			}
			return nil
		},
	}
	rs.register(diagnoseCmd)
	diagnoseCmd.Flags().Float64Var(&delta, "delta", 0.05, "UCRL2 confidence parameter")
	diagnoseCmd.Flags().IntVar(&tMax, "tmax", 20000, "step budget (0 = unlimited)")
	diagnoseCmd.Flags().IntVar(&kMax, "kmax", 0, "episode budget (0 = unlimited)")
	diagnoseCmd.Flags().StringVar(&chartDir, "chart-dir", "charts", "directory to write the regret chart into")

	root.AddCommand(runCmd, diagnoseCmd)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
