package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"coursefit-backend/internal/bootstrap"
	"coursefit-backend/internal/catalog"
	"coursefit-backend/internal/recommendation"
)

type scoreOutput struct {
	Recommendation recommendation.Result `json:"recommendation"`
	Completeness   catalog.Completeness  `json:"completeness"`
}

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score an answer set and print the recommendation as JSON",
		Long:  "Reads a JSON object of question id to option value (or {\"answers\": {...}}) and prints the engine result.",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("answers")
			if path == "" {
				return fmt.Errorf("--answers is required (use - for stdin)")
			}
			answers, err := readAnswers(cmd, path)
			if err != nil {
				return err
			}
			cat, engine, err := bootstrap.LoadQuestionnaire(loadConfig(cmd))
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(scoreOutput{
				Recommendation: engine.Compute(answers),
				Completeness:   cat.Check(answers),
			})
		},
	}
	cmd.Flags().String("answers", "", "JSON file with answers, or - for stdin")
	return cmd
}

func readAnswers(cmd *cobra.Command, path string) (map[string]string, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open answers: %w", err)
		}
		defer f.Close()
		r = f
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}

	var wrapped struct {
		Answers map[string]string `json:"answers"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Answers != nil {
		return wrapped.Answers, nil
	}
	var answers map[string]string
	if err := json.Unmarshal(raw, &answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	return answers, nil
}
