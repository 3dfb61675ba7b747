package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cartola-dev/cartola/internal/config"
	"github.com/cartola-dev/cartola/internal/extract"
	"github.com/cartola-dev/cartola/internal/ingest"
	"github.com/cartola-dev/cartola/internal/logging"
	"github.com/cartola-dev/cartola/internal/movements"
	"github.com/cartola-dev/cartola/internal/structure"
)

func newProcessCommand() *cobra.Command {
	var out string
	var source string
	var cfgPath string
	var all bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "process <statement.xlsx> | process --all [workspace]",
		Short: "Extract movements from bank statement spreadsheets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logging.New(verbose)
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			defer log.Sync() //nolint:errcheck // stderr sync failure is harmless

			if all {
				workspace := "."
				if len(args) > 0 {
					workspace = args[0]
				}
				return runProcessAll(cmd, workspace, source, log)
			}

			if len(args) != 1 {
				return fmt.Errorf("expected a statement file (or --all)")
			}

			cfg, err := loadOrDefault(cfgPath)
			if err != nil {
				return err
			}
			return runProcess(cmd, args[0], out, source, cfg, log)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "movements.csv", "output CSV path")
	cmd.Flags().StringVar(&source, "source", "", "source tag (defaults to config)")
	cmd.Flags().StringVar(&cfgPath, "config", "", "path to cartola.yaml")
	cmd.Flags().BoolVar(&all, "all", false, "process every workbook in <workspace>/statements")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose diagnostics")

	return cmd
}

func loadOrDefault(cfgPath string) (*config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	return config.Load(cfgPath)
}

func runProcess(cmd *cobra.Command, path, out, source string, cfg *config.Config, log *zap.Logger) error {
	if source == "" {
		source = cfg.Source
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening statement: %w", err)
	}
	defer f.Close()

	grid, sheet, err := ingest.Read(f)
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", path, err)
	}

	analysis, err := structure.Analyze(grid)
	if err != nil {
		return fmt.Errorf("analyzing %s: %w", path, err)
	}
	log.Info("statement structure detected",
		zap.String("file", filepath.Base(path)),
		zap.String("sheet", sheet),
		zap.Int("header_row", analysis.HeaderRow),
		zap.Int("data_start_row", analysis.DataStartRow),
		zap.Int("total_rows", analysis.TotalRows))

	extracted := extract.NewExtractor(source, cfg.Rules(), log).Extract(grid, analysis)
	log.Info("movements extracted", zap.Int("count", len(extracted)))

	outFile, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer outFile.Close()

	if err := movements.Write(outFile, extracted); err != nil {
		return fmt.Errorf("writing movements: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d movements from %q to %s\n", len(extracted), sheet, out)
	return nil
}

// runProcessAll processes every workbook in <workspace>/statements,
// writing one CSV per file under <workspace>/movements and moving handled
// workbooks to statements/processed. One bad file does not stop the batch.
func runProcessAll(cmd *cobra.Command, workspace, source string, log *zap.Logger) error {
	cfg := config.Default()
	cfgPath := filepath.Join(workspace, "cartola.yaml")
	if _, err := os.Stat(cfgPath); err == nil {
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
	}

	files, err := ingest.Scan(workspace)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No statements to process")
		return nil
	}

	outDir := filepath.Join(workspace, "movements")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating movements dir: %w", err)
	}

	failed := 0
	for _, file := range files {
		base := strings.TrimSuffix(file.Name, filepath.Ext(file.Name))
		out := filepath.Join(outDir, base+".csv")

		if err := runProcess(cmd, file.Path, out, source, cfg, log); err != nil {
			failed++
			log.Error("statement failed, continuing batch",
				zap.String("file", file.Name), zap.Error(err))
			continue
		}
		if err := ingest.MarkProcessed(workspace, file.Name); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Processed %d of %d statements\n", len(files)-failed, len(files))
	return nil
}
