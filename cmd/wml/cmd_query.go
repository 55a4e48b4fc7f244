// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"fmt"

	"github.com/creachadair/wml/ast"
	"github.com/creachadair/wml/query"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func newQueryCmd(opts *options) *cobra.Command {
	var attrKey string

	cmd := &cobra.Command{
		Use:   "query <file> <path>",
		Short: "Select nodes from a document by a path expression",
		Long: `Select nodes from a document by a path expression.

A path is a sequence of tags separated by "/", for example:

   scenario/side[0]
   **/unit[?(attrs.type == 'Elvish Fighter')]

The selected nodes are printed as a JSON array. With --attr, the values
of the named attribute are printed instead, one per line.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := query.Parse(args[1])
			if err != nil {
				return fmt.Errorf("invalid path: %w", err)
			}
			root := new(ast.Node)
			if err := opts.parseFile(cmd, args[0], ast.NewBuilder(root)); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			ns, err := query.Eval(root, q)
			if err != nil {
				return fmt.Errorf("query: %w", err)
			}
			log.Infof("selected %d nodes", len(ns))

			w := cmd.OutOrStdout()
			if attrKey != "" {
				for _, v := range query.Values(ns, attrKey) {
					fmt.Fprintln(w, v)
				}
				return nil
			}
			if ns == nil {
				ns = []*ast.Node{}
			}
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(ns)
		},
	}
	cmd.Flags().StringVarP(&attrKey, "attr", "a", "", "print values of this attribute only")
	return cmd
}
