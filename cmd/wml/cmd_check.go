// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"fmt"

	"github.com/creachadair/wml"
	"github.com/creachadair/wml/schema"
	"github.com/spf13/cobra"
)

func newCheckCmd(opts *options) *cobra.Command {
	var schemaPath string

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Check that documents are well-formed, and optionally valid",
		Long: `Check that each document is well-formed WML.

If a schema is given, each document must also conform to the schema.
Each invalid document is reported as "file: error".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sch *schema.Schema
			if schemaPath != "" {
				s, err := schema.Load(schemaPath)
				if err != nil {
					return fmt.Errorf("load schema: %w", err)
				}
				log.Infof("loaded schema %q with %d tags", schemaPath, len(s.Tags()))
				sch = s
			}

			var nfail int
			for _, path := range args {
				v := wml.Discard
				if sch != nil {
					v = sch.Visitor()
				}
				if err := opts.parseFile(cmd, path, v); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					nfail++
					continue
				}
				log.Infof("%s: ok", path)
			}
			if nfail > 0 {
				return fmt.Errorf("%d of %d files failed", nfail, len(args))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "HuJSON schema file to validate against")
	return cmd
}
