// Package main provides the normalize CLI: parse, convert, scale and total
// ingredient lists read from stdin.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recipe-normalizer/internal/core/ingredient"
	"recipe-normalizer/internal/core/recipe"
	"recipe-normalizer/internal/core/unit"
	"recipe-normalizer/internal/infrastructure/config"
	"recipe-normalizer/internal/pkg/common"
)

// options 全域旗標
type options struct {
	system     string
	outputJSON bool
	verbose    bool

	cfg *config.Config
	svc *recipe.Service
}

// targetSystem 旗標指定的制度，未指定時使用設定預設值
func (o *options) targetSystem() (unit.System, error) {
	if o.system == "" {
		return o.svc.DefaultSystem(), nil
	}
	return unit.ParseSystem(o.system)
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "normalize",
		Short: "Parse and normalize ingredient lists",
		Long: `normalize reads ingredient lines (or a JSON array of rows) from stdin.

Use this tool to:
- Split pasted lines into quantity, unit, item and prep
- Convert rows between imperial and metric units
- Scale rows by a factor or by portions
- Total a batch yield
- Convert oven temperatures in free text

Rows are printed one per line, or as JSON with --json.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose {
				logger, err := zap.NewDevelopment()
				if err != nil {
					return fmt.Errorf("init logger: %w", err)
				}
				common.Logger = logger
			}
			opts.cfg = config.Default()
			opts.svc = recipe.NewService(opts.cfg, ingredient.Default(), nil, nil)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			common.Sync()
		},
	}

	root.PersistentFlags().StringVarP(&opts.system, "system", "s", "", "target measurement system: imperial or metric")
	root.PersistentFlags().BoolVar(&opts.outputJSON, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging on stderr")

	root.AddCommand(
		newParseCmd(opts),
		newConvertCmd(opts),
		newScaleCmd(opts),
		newYieldCmd(opts),
		newTempCmd(opts),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
