// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taibuivan/mangabridge/internal/source"
	"github.com/taibuivan/mangabridge/pkg/pagination"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var limit, page int
	var nsfw bool

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search one source (the default source unless --source or --nsfw is given)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.ensureService(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if limit < 1 || limit > pagination.MaxLimit {
				return fmt.Errorf("--limit must be between 1 and %d", pagination.MaxLimit)
			}
			params := pagination.Params{Page: max(page, 1), Limit: limit}

			results, err := service.Search(cmd.Context(), source.SearchOptions{
				Query:       strings.Join(args, " "),
				Limit:       params.Limit,
				Offset:      params.Offset(),
				IncludeNSFW: nsfw,
			}, ctx.sourceID)
			if err != nil {
				return err
			}

			if ctx.asJSON {
				return writeJSON(cmd, results)
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No results.")
				return nil
			}

			rows := make([][]string, 0, len(results))
			for _, manga := range results {
				rows = append(rows, []string{manga.ID, manga.Title, manga.Author, string(manga.Status)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(cmd.OutOrStdout(), []string{"ID", "Title", "Author", "Status"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", pagination.DefaultLimit, "Maximum number of results")
	cmd.Flags().IntVarP(&page, "page", "p", pagination.DefaultPage, "Result page (1-indexed)")
	cmd.Flags().BoolVar(&nsfw, "nsfw", false, "Search the NSFW source")

	return cmd
}

func newDetailsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "details <manga-id>",
		Short: "Show the full record of a title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.ensureService(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			manga, err := service.GetMangaDetails(cmd.Context(), args[0], ctx.sourceID)
			if err != nil {
				return err
			}
			if manga == nil {
				return fmt.Errorf("manga %q not found", args[0])
			}

			if ctx.asJSON {
				return writeJSON(cmd, manga)
			}

			rows := [][]string{
				{"ID", manga.ID},
				{"Title", manga.Title},
				{"Author", manga.Author},
				{"Artist", manga.Artist},
				{"Status", string(manga.Status)},
				{"Genres", strings.Join(manga.Genres, ", ")},
				{"Rating", formatNumber(manga.Rating)},
				{"Latest", manga.LatestChapter},
				{"Cover", manga.Cover},
				{"Description", manga.Description},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(cmd.OutOrStdout(), []string{"Field", "Value"}, rows, nil))
			return nil
		},
	}
}

func newChaptersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "chapters <manga-id>",
		Short: "List chapters, resolving metadata-only titles against content sources",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.ensureService(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			chapters, err := service.GetChapters(cmd.Context(), args[0], ctx.sourceID)
			if err != nil {
				return err
			}

			if ctx.asJSON {
				return writeJSON(cmd, chapters)
			}
			if len(chapters) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No readable content available.")
				return nil
			}

			rows := make([][]string, 0, len(chapters))
			for _, chapter := range chapters {
				date := ""
				if !chapter.Date.IsZero() {
					date = chapter.Date.Format("2006-01-02")
				}
				rows = append(rows, []string{formatNumber(chapter.Number), chapter.Title, date, chapter.ID})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(cmd.OutOrStdout(),
				[]string{"#", "Title", "Date", "ID"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newPagesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "pages <chapter-id>",
		Short: "Print page image URLs, or the text of a prose chapter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.ensureService(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			pages, err := service.GetChapterPages(cmd.Context(), args[0], ctx.sourceID)
			if err != nil {
				return err
			}

			if ctx.asJSON {
				return writeJSON(cmd, pages)
			}
			if len(pages) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No pages.")
				return nil
			}
			for _, page := range pages {
				fmt.Fprintln(cmd.OutOrStdout(), page)
			}
			return nil
		},
	}
}

func newSourcesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List registered sources and their capabilities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.ensureService(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			infos := service.Sources()
			if ctx.asJSON {
				return writeJSON(cmd, infos)
			}

			rows := make([][]string, 0, len(infos))
			for _, info := range infos {
				id := info.ID
				if id == service.DefaultSource() {
					id += " (default)"
				}
				rows = append(rows, []string{id, info.Name, strconv.FormatBool(info.SupportsChapters), strconv.FormatBool(info.IsNSFW)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(cmd.OutOrStdout(), []string{"ID", "Name", "Chapters", "NSFW"}, rows, nil))
			return nil
		},
	}
}
