// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Program wml checks, summarizes, queries, and converts simple WML documents.
package main

import (
	"io"
	"os"

	"github.com/creachadair/wml"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("wml")

// options are the flags shared by all subcommands.
type options struct {
	verbose  int
	maxDepth int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := new(options)
	rootCmd := &cobra.Command{
		Use:          "wml",
		Short:        "Check, summarize, and convert simple WML documents",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(opts.verbose, nil)
		},
	}
	rootCmd.PersistentFlags().CountVarP(&opts.verbose, "verbose", "v", "increase log verbosity")
	rootCmd.PersistentFlags().IntVar(&opts.maxDepth, "max-depth", 0, "maximum nesting depth of nodes (0 means unlimited)")

	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newStatsCmd(opts))
	rootCmd.AddCommand(newDumpCmd(opts))
	rootCmd.AddCommand(newQueryCmd(opts))
	return rootCmd
}

// parseFile parses the document in the named file, delivering its structure
// to v. The name "-" denotes the standard input of cmd.
func (o *options) parseFile(cmd *cobra.Command, path string, v wml.AttributeVisitor) error {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	st := wml.NewStream(wml.NewScanner(r))
	st.SetMaxDepth(o.maxDepth)
	if err := st.Parse(v); err != nil {
		return err
	}
	log.Debugf("%s: parsed %d tokens", path, st.Tokens())
	return nil
}
