package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"matte/internal/matte/intent"
)

func newRulesCmd() *cobra.Command {
	var showPatterns bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the routing rules in the order they are tried",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdRules(cmd.OutOrStdout(), showPatterns)
		},
	}
	cmd.Flags().BoolVar(&showPatterns, "patterns", false, "print every pattern, not just the count")
	return cmd
}

func cmdRules(w io.Writer, showPatterns bool) error {
	for i, r := range intent.DefaultRules() {
		fmt.Fprintf(w, "%2d. %-26s patterns=%d", i+1, r.Intent, len(r.Patterns))
		if len(r.Keywords) > 0 {
			fmt.Fprintf(w, " keywords=%s", strings.Join(r.Keywords, ", "))
		}
		fmt.Fprintln(w)
		if showPatterns {
			for _, p := range r.Patterns {
				fmt.Fprintf(w, "      %s\n", p.String())
			}
		}
	}
	return nil
}
