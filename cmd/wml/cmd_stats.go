// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"fmt"

	"github.com/creachadair/wml/stats"
	"github.com/spf13/cobra"
)

func newStatsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Print summary statistics for a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := new(stats.Stats)
			if err := opts.parseFile(cmd, args[0], s.Visitor()); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "nodes:       %d\n", s.Nodes)
			fmt.Fprintf(w, "attributes:  %d\n", s.Attributes)
			fmt.Fprintf(w, "value bytes: %d\n", s.ValueBytes)
			fmt.Fprintf(w, "max depth:   %d\n", s.MaxDepth)
			for _, tc := range s.ByCount() {
				fmt.Fprintf(w, "  [%s] %d\n", tc.Tag, tc.Count)
			}
			return nil
		},
	}
	return cmd
}
