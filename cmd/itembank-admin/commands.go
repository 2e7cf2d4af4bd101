package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tendant/itembank/pkg/itembank"
	"github.com/tendant/itembank/pkg/itembank/fixture"
)

// NewMigrateCommand creates the migrate command
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the item bank schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema ready (%s)\n", cfg.DatabaseType)
			return nil
		},
	}
}

// NewSeedCommand creates the seed command
func NewSeedCommand() *cobra.Command {
	var file string
	var reset bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a YAML fixture bundle into the database",
		Long:  `Load users, concepts, tags, media assets, draft and published items from a YAML fixture file.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := fixture.LoadFile(file)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			_, store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			if err := fixture.Apply(ctx, store.DB, bundle, fixture.ApplyOptions{Reset: reset, Now: time.Now()}); err != nil {
				return err
			}

			c := bundle.Counts()
			fmt.Fprintf(cmd.OutOrStdout(),
				"Seeded %d users, %d concepts, %d tags, %d media assets, %d drafts, %d published items\n",
				c.Users, c.Concepts, c.Tags, c.Media, c.Drafts, c.Published)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "fixture YAML file")
	cmd.Flags().BoolVar(&reset, "reset", false, "delete existing rows before loading")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// NewStatsCommand creates the stats command
func NewStatsCommand() *cobra.Command {
	var useJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregated item bank statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := cfg.BuildAdminService(store).GetStatistics(ctx)
			if err != nil {
				return fmt.Errorf("failed to get statistics: %w", err)
			}

			out := cmd.OutOrStdout()
			if useJSON {
				return writeJSON(out, stats)
			}

			fmt.Fprintln(out, "=== Item Bank Statistics ===")
			fmt.Fprintf(out, "\nDraft items: %d\n", stats.Drafts.TotalCount)
			printCounts(out, "By Status", stats.Drafts.ByStatus)
			printCounts(out, "By Item Type", stats.Drafts.ByItemType)
			if stats.Drafts.NewestUpdate != nil {
				fmt.Fprintf(out, "  Last updated: %s\n", stats.Drafts.NewestUpdate.Format(time.RFC3339))
			}

			fmt.Fprintf(out, "\nPublished items: %d\n", stats.Published.TotalCount)
			printCounts(out, "By Item Type", stats.Published.ByItemType)
			if stats.Published.NewestPublished != nil {
				fmt.Fprintf(out, "  Last published: %s\n", stats.Published.NewestPublished.Format(time.RFC3339))
			}

			fmt.Fprintf(out, "\nConcepts: %d\nTags: %d\nMedia assets: %d\nUsers: %d\n",
				stats.Concepts, stats.Tags, stats.MediaAssets, stats.Users)
			return nil
		},
	}

	cmd.Flags().BoolVar(&useJSON, "json", false, "output as JSON")
	return cmd
}

// NewDraftsCommand creates the drafts command
func NewDraftsCommand() *cobra.Command {
	var status string
	var page, pageSize int
	var useJSON bool

	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "List draft items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			svc, err := cfg.BuildService(ctx, store, slog.Default())
			if err != nil {
				return err
			}

			filters := itembank.Filters{}
			if status != "" {
				filters["status"] = status
			}
			q := itembank.NewListQuery(strconv.Itoa(page), strconv.Itoa(pageSize), filters, nil)

			result, err := svc.ListDraftItems(ctx, q)
			if err != nil {
				return fmt.Errorf("failed to list drafts: %w", err)
			}

			out := cmd.OutOrStdout()
			if useJSON {
				return writeJSON(out, result)
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "ID\tSTATUS\tTYPE\tSTEM\tUPDATED\n")
			for _, item := range result.Data {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					item.ID,
					item.Status,
					item.ItemType,
					truncate(item.StemAr, 40),
					item.UpdatedAt.Format("2006-01-02 15:04:05"),
				)
			}
			w.Flush()

			fmt.Fprintf(out, "\nPage %d (size %d), total: %d\n", result.Page, result.PageSize, result.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (draft, in_review, approved, rejected)")
	cmd.Flags().IntVar(&page, "page", itembank.DefaultPage, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", itembank.DefaultPageSize, "page size")
	cmd.Flags().BoolVar(&useJSON, "json", false, "output as JSON")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printCounts(w io.Writer, title string, counts map[string]int64) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(w, "  %s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(w, "    %-15s: %d\n", k, counts[k])
	}
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
