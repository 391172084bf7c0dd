// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	return newRootCommandWith(&commandContext{})
}

func newRootCommandWith(ctx *commandContext) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mangabridge",
		Short:         "Search and read across manga and web-novel sources",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&ctx.sourcesFile, "sources", "", "Per-source settings file (overrides SOURCES_FILE)")
	flags.StringVarP(&ctx.sourceID, "source", "s", "", "Route to this source instead of inferring it from the id")
	flags.BoolVar(&ctx.asJSON, "json", false, "Print JSON instead of a table")
	flags.BoolVarP(&ctx.verbose, "verbose", "v", false, "Log upstream failures to stderr")

	rootCmd.AddCommand(newSearchCommand(ctx))
	rootCmd.AddCommand(newDetailsCommand(ctx))
	rootCmd.AddCommand(newChaptersCommand(ctx))
	rootCmd.AddCommand(newPagesCommand(ctx))
	rootCmd.AddCommand(newSourcesCommand(ctx))

	return rootCmd
}
