// Command guigen generates immediate-mode widget routines and events types
// from structs whose fields carry `gui` directives.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-guigen/internal/prompt"
)

type app struct {
	verbose    bool
	configPath string

	logger  *zap.Logger
	config  Config
	prompts prompt.Driver
}

func main() {
	if err := newRootCmd(&app{prompts: prompt.NewSurveyDriver()}).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "guigen",
		Short: "Generate widget routines from annotated structs",
		Long: `guigen reads Go source, schema documents or OpenAPI documents, compiles
the gui directives on struct fields and writes one Draw<Type> routine plus a
<Type>Events result type per selected struct.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.logger == nil {
				config := zap.NewProductionConfig()
				if a.verbose {
					config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
				}
				logger, err := config.Build()
				if err != nil {
					return fmt.Errorf("failed to initialize logger: %w", err)
				}
				a.logger = logger
			}

			cfg, err := loadConfig(a.configPath)
			if err != nil {
				return err
			}
			a.config = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default "+defaultConfigFile+" when present)")

	root.AddCommand(newGenerateCmd(a), newCheckCmd(a), newKindsCmd(a))
	return root
}
