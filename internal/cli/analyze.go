package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jaspreetjk20/docrank/internal/pipeline"
)

var (
	inputDir   string
	outputPath string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <request.json>",
	Short: "Rank document sections for a persona and task",
	Long: `Run one ranking batch from a request file.

The request names the documents, the persona role and the job to be done:

  {
    "documents": [{"filename": "south-of-france.pdf"}],
    "persona": {"role": "Travel Planner"},
    "job_to_be_done": {"task": "Plan a 4-day trip for college friends"}
  }

Document files are resolved relative to --input-dir (default: the request
file's directory). The ranked result is written as JSON to --output or
stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&inputDir, "input-dir", "i", "", "directory holding the document files")
	analyzeCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	log := newLogger(cfg)

	reqPath := args[0]
	f, err := os.Open(reqPath)
	if err != nil {
		return fmt.Errorf("open request: %w", err)
	}
	req, err := pipeline.ParseRequest(f)
	f.Close()
	if err != nil {
		return err
	}

	dir := inputDir
	if dir == "" {
		dir = filepath.Dir(reqPath)
	}
	open := func(_ context.Context, filename string) (io.ReadCloser, error) {
		return os.Open(filepath.Join(dir, filepath.Base(filename)))
	}

	orch := pipeline.New(cfg.Pipeline(), log)
	result, err := orch.Run(cmd.Context(), req, open)
	if err != nil {
		return err
	}

	out := os.Stdout
	if outputPath != "" {
		out, err = os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer out.Close()
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
