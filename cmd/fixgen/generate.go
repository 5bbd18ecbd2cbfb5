package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/maciejwalesiak/easyfix/internal/dictionary"
	"github.com/maciejwalesiak/easyfix/internal/generate"
	"github.com/maciejwalesiak/easyfix/internal/generate/gofix"
	"github.com/maciejwalesiak/easyfix/internal/schema"
)

var (
	genConfig  string
	genOut     string
	genPackage string
	genVerbose bool
)

func init() {
	generateCmd.Flags().StringVar(&genConfig, "config", "", "fixgen.toml config file")
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "", "output directory for generated code")
	generateCmd.Flags().StringVarP(&genPackage, "package", "p", "", "package name for generated code")
	generateCmd.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "log compilation details")
}

var generateCmd = &cobra.Command{
	Use:   "generate [dictionary.xml ...]",
	Short: "Compile dictionaries and emit Go schema code",
	Long:  "Compile each dictionary into a typed message schema and write the generated Go source",
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs, err := loadJobs(genConfig, args, genOut, genPackage)
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			return fmt.Errorf("no dictionaries provided")
		}

		logger := zap.NewNop()
		if genVerbose {
			logger, err = zap.NewDevelopment()
			if err != nil {
				return err
			}
		}
		defer logger.Sync()

		// Compilations share nothing, so independent dictionaries run
		// in parallel.
		var g errgroup.Group
		for _, j := range jobs {
			j := j
			g.Go(func() error { return runJob(logger, j) })
		}
		return g.Wait()
	},
}

func runJob(logger *zap.Logger, j job) error {
	dict, err := dictionary.LoadFile(j.Path)
	if err != nil {
		return err
	}
	s, err := schema.Compile(dict)
	if err != nil {
		return fmt.Errorf("%s: %w", j.Path, err)
	}

	outputs, err := gofix.Generator{}.Generate(s, generate.Options{
		Package: j.Package,
		Out:     j.Out,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", j.Path, err)
	}
	if err := generate.WriteFiles(outputs); err != nil {
		return err
	}

	logger.Info("generated",
		zap.String("dictionary", j.Path),
		zap.String("begin_string", string(s.BeginString)),
		zap.Int("messages", len(s.Messages)),
		zap.Int("groups", len(s.Groups)),
		zap.Int("enums", len(s.Enums)),
		zap.Int("files", len(outputs)),
	)
	return nil
}
