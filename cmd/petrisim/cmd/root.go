package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/petriflow/petrisim"
	pyaml "github.com/petriflow/petrisim/yaml"
)

var (
	inputFile string
	logger    *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "petrisim",
	Short: "Run and replay Petri net workflow simulations",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = zap.NewDevelopment()
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&inputFile, "input", "i", "", "input file")
}

func loadDefinition(path string) (*petrisim.Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	svc := &pyaml.Service{}
	return svc.Load(f)
}
