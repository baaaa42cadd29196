package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"truthle-quiz-service/internal/dataset"
	"truthle-quiz-service/internal/quizgen"
)

// NewDailyCmd builds a date's quiz from the embedded dataset and prints it.
// Handy for eyeballing what players will see before the day rolls over.
func NewDailyCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Print the generated quiz for a date as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = time.Now().UTC().Format("2006-01-02")
			}
			loader := dataset.NewStaticLoader()
			countries, err := loader.LoadCountries(cmd.Context())
			if err != nil {
				return err
			}
			correlations, err := loader.LoadCorrelations(cmd.Context())
			if err != nil {
				return err
			}
			quiz := quizgen.BuildDaily(countries, correlations, date, quizgen.DefaultTargetCount)
			out, err := json.MarshalIndent(quiz, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "quiz date (YYYY-MM-DD), defaults to today UTC")
	return cmd
}
