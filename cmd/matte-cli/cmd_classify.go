package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"matte/internal/matte/intent"
	"matte/internal/matte/prompt"
)

func newClassifyCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "classify <question>",
		Short: "Show how a question is routed, without touching any data",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdClassify(cmd.OutOrStdout(), strings.Join(args, " "), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func cmdClassify(w io.Writer, question string, asJSON bool) error {
	res := intent.NewClassifier().Analyze(question)

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintf(w, "Question:    %s\n", question)
	fmt.Fprintf(w, "Normalized:  %s\n", res.Normalized)
	fmt.Fprintf(w, "Intent:      %s\n", res.Intent)
	fmt.Fprintf(w, "Stage:       %s\n", res.Stage)
	if res.Entities.Subject != "" {
		fmt.Fprintf(w, "Subject:     %s\n", res.Entities.Subject)
	}
	if res.Entities.Relationship != "" {
		fmt.Fprintf(w, "Relation:    %s\n", res.Entities.Relationship)
	}
	if res.Entities.DateRange != "" {
		fmt.Fprintf(w, "Date range:  %s\n", res.Entities.DateRange)
	}
	if !prompt.Supported(res.Intent) {
		fmt.Fprintln(w, "Answer:      fixed out-of-scope reply")
	}
	return nil
}
