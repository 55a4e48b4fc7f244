// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"fmt"

	"github.com/creachadair/wml/ast"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newDumpCmd(opts *options) *cobra.Command {
	var dumpFormat string

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Dump the syntax tree of a document as JSON or YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := new(ast.Node)
			if err := opts.parseFile(cmd, args[0], ast.NewBuilder(root)); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			w := cmd.OutOrStdout()
			switch dumpFormat {
			case "json":
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(root); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
			case "yaml":
				enc := yaml.NewEncoder(w)
				enc.SetIndent(2)
				if err := enc.Encode(root); err != nil {
					return fmt.Errorf("encode yaml: %w", err)
				}
				if err := enc.Close(); err != nil {
					return fmt.Errorf("encode yaml: %w", err)
				}
			default:
				return fmt.Errorf("unknown format: %s", dumpFormat)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&dumpFormat, "format", "f", "json", "output format (json, yaml)")
	return cmd
}
