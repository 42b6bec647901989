package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"teludub/internal/translate"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the translation cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show translation cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := cfg.TranslationCachePath()
			out := cmd.OutOrStdout()
			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(out, "Translation cache %s does not exist yet\n", path)
				return nil
			}
			cache, err := translate.OpenCache(path)
			if err != nil {
				return err
			}
			defer cache.Close()

			stats, err := cache.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, stats)
			}
			fmt.Fprintf(out, "Cache:   %s\n", path)
			fmt.Fprintf(out, "Entries: %d\n", stats.Entries)
			fmt.Fprintf(out, "Hits:    %d\n", stats.Hits)
			if len(stats.Pairs) == 0 {
				return nil
			}
			rows := make([][]string, 0, len(stats.Pairs))
			for _, pair := range stats.Pairs {
				rows = append(rows, []string{
					pair.Backend,
					pair.Source,
					pair.Target,
					strconv.FormatInt(pair.Entries, 10),
					strconv.FormatInt(pair.Hits, 10),
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Backend", "Source", "Target", "Entries", "Hits"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print statistics as JSON")
	return cmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete cached translations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := cfg.TranslationCachePath()
			out := cmd.OutOrStdout()
			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
				fmt.Fprintln(out, "No translation cache to clear")
				return nil
			}
			cache, err := translate.OpenCache(path)
			if errors.Is(err, translate.ErrSchemaMismatch) {
				if err := removeCacheFiles(path); err != nil {
					return err
				}
				fmt.Fprintf(out, "Removed incompatible translation cache %s\n", path)
				return nil
			}
			if err != nil {
				return err
			}
			defer cache.Close()

			removed, err := cache.Clear(cmd.Context(), olderThan)
			if err != nil {
				return err
			}
			if removed == 0 {
				fmt.Fprintln(out, "No cached translations removed")
				return nil
			}
			fmt.Fprintf(out, "Removed %d cached translations\n", removed)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "Only remove entries unused for this long (e.g. 720h)")
	return cmd
}

// removeCacheFiles deletes the database and its WAL sidecars.
func removeCacheFiles(path string) error {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return nil
}
