package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/petriflow/petrisim"
	"github.com/petriflow/petrisim/control"
	"github.com/petriflow/petrisim/env"
	"github.com/petriflow/petrisim/policy"
)

var (
	modeName        string
	seed            int64
	speed           float64
	maxSteps        int
	breakIDs        []string
	watchIDs        []string
	exportPath      string
	baseIntervalMs  int
	timeoutMs       int
	enforceCapacity bool
)

// notifier bridges engine callbacks to the command loop. Channels are
// buffered so the step path never waits on the terminal.
type notifier struct {
	control.NopListener
	states chan control.State
	done   chan *control.Report
	hits   chan string
}

func (n *notifier) OnStateChange(s control.State, _ petrisim.Marking, _ int, _ time.Duration, _ []string) {
	select {
	case n.states <- s:
	default:
	}
}

func (n *notifier) OnCompletion(r *control.Report) {
	n.done <- r
}

func (n *notifier) OnBreakpointHit(id string) {
	select {
	case n.hits <- id:
	default:
	}
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a net until it completes or deadlocks",
	Long: `Execute a net from a yaml run file until the enabled set empties.
Breakpoints pause the run and wait for confirmation on stdin; interactive
mode asks for every transition.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults := env.LoadEnv(logger)
		if inputFile == "" {
			inputFile = defaults.Input
		}
		if modeName == "" {
			modeName = defaults.Mode
		}
		if speed == 0 && defaults.Speed != 0 {
			speed = defaults.Speed
		}
		if seed == 0 {
			seed = defaults.Seed
		}
		if inputFile == "" {
			return fmt.Errorf("no input file: pass --input or set PETRISIM_INPUT")
		}

		def, err := loadDefinition(inputFile)
		if err != nil {
			return err
		}
		net, err := def.Net()
		if err != nil {
			return err
		}
		mode, err := policy.ParseKind(modeName)
		if err != nil {
			return err
		}
		cfg := control.Config{
			Mode:               mode,
			Seed:               seed,
			SpeedMultiplier:    speed,
			BaseInterval:       time.Duration(baseIntervalMs) * time.Millisecond,
			MaxSteps:           maxSteps,
			Breakpoints:        breakIDs,
			WatchedPlaces:      watchIDs,
			InteractionTimeout: time.Duration(timeoutMs) * time.Millisecond,
			EnforceCapacity:    enforceCapacity,
		}
		n := &notifier{
			states: make(chan control.State, 16),
			done:   make(chan *control.Report, 1),
			hits:   make(chan string, 16),
		}
		ctrl, err := control.New(net, def.Initial, cfg,
			control.WithLogger(logger),
			control.WithListener(control.LogListener{L: logger}),
			control.WithListener(n),
		)
		if err != nil {
			return err
		}
		if err := ctrl.Start(); err != nil {
			return err
		}

		in := bufio.NewScanner(os.Stdin)
		for {
			select {
			case r := <-n.done:
				return finish(ctrl, r)
			case id := <-n.hits:
				fmt.Printf("breakpoint at %s; press enter to fire it and resume\n", id)
				in.Scan()
				if err := ctrl.Step(); err != nil {
					return err
				}
				if ctrl.State() == control.Paused {
					if err := ctrl.Start(); err != nil {
						return err
					}
				}
			case s := <-n.states:
				switch s {
				case control.Interactive:
					if err := prompt(ctrl, in); err != nil {
						return err
					}
				case control.Paused:
					if ctrl.Pending() != "" {
						// the breakpoint channel drives this pause
						continue
					}
					if err := ctrl.Err(); err != nil {
						return err
					}
					logger.Info("run paused", zap.Int("steps", ctrl.StepCount()))
					return nil
				case control.Errored:
					return ctrl.Err()
				}
			}
		}
	},
}

func prompt(ctrl *control.Controller, in *bufio.Scanner) error {
	for {
		offer := ctrl.Offer()
		if len(offer) == 0 {
			return nil
		}
		fmt.Printf("enabled: %s\nchoose transition: ", strings.Join(offer, ", "))
		if !in.Scan() {
			return ctrl.CancelInteraction()
		}
		choice := strings.TrimSpace(in.Text())
		if err := ctrl.Choose(choice); err != nil {
			fmt.Println(err)
			continue
		}
		return nil
	}
}

func finish(ctrl *control.Controller, r *control.Report) error {
	logger.Info("terminal state reached",
		zap.Stringer("state", r.State),
		zap.Int("steps", r.Steps),
		zap.Stringer("marking", r.Final),
	)
	if exportPath == "" {
		return nil
	}
	f, err := os.Create(exportPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	if err := ctrl.Export().Encode(f); err != nil {
		return err
	}
	logger.Info("history exported", zap.String("path", exportPath))
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&modeName, "mode", "", "selection mode: deterministic, stochastic or interactive")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "seed for stochastic selection")
	runCmd.Flags().Float64Var(&speed, "speed", 0, "speed multiplier")
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "pause after this many firings (0 = unbounded)")
	runCmd.Flags().StringSliceVar(&breakIDs, "break", nil, "transition ids to break on")
	runCmd.Flags().StringSliceVar(&watchIDs, "watch", nil, "place ids to watch")
	runCmd.Flags().StringVar(&exportPath, "export", "", "write the replayable history bundle to this file")
	runCmd.Flags().IntVar(&baseIntervalMs, "interval", 0, "base step interval in milliseconds")
	runCmd.Flags().IntVar(&timeoutMs, "timeout", 0, "interactive choice timeout in milliseconds (0 = wait forever)")
	runCmd.Flags().BoolVar(&enforceCapacity, "enforce-capacity", false, "treat place capacities as hard limits")
}
