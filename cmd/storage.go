package cmd

import (
	"fmt"
	"time"

	"beatbox/db"
	"beatbox/logger"
	"beatbox/storage"

	"github.com/spf13/cobra"
)

var (
	storageOrphans bool
	storagePrune   bool
	storageMinAge  time.Duration
)

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Inspect stored media files",
	Long:  `List the files in music/beats, music/prods and music/vocals, report files no catalog row references and optionally delete them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx := cmd.Context()
		cat, gdb, err := openCatalog(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close(gdb)

		out := cmd.OutOrStdout()
		if !storageOrphans && !storagePrune {
			files, err := cat.Files(ctx)
			if err != nil {
				return err
			}
			for _, dir := range storage.Dirs {
				var total int64
				for _, f := range files[dir] {
					total += f.Size
				}
				fmt.Fprintf(out, "%-8s %5d files %12d bytes\n", dir, len(files[dir]), total)
			}
			return nil
		}

		orphans, err := cat.Orphans(ctx, storageMinAge)
		if err != nil {
			return err
		}
		for _, o := range orphans {
			fmt.Fprintf(out, "%s/%s\t%d\t%s\n", o.Dir, o.File.Name, o.File.Size, o.File.ModTime.Format(time.RFC3339))
		}
		fmt.Fprintf(out, "%d orphaned files\n", len(orphans))

		if storagePrune {
			removed, err := cat.Prune(ctx, orphans)
			if err != nil {
				return fmt.Errorf("pruned %d of %d files: %w", removed, len(orphans), err)
			}
			fmt.Fprintf(out, "removed %d files\n", removed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(storageCmd)

	storageCmd.Flags().BoolVarP(&storageOrphans, "orphans", "o", false, "list files that no catalog row references")
	storageCmd.Flags().BoolVarP(&storagePrune, "prune", "p", false, "delete orphaned files (implies --orphans)")
	storageCmd.Flags().DurationVar(&storageMinAge, "min-age", time.Hour, "ignore files modified more recently than this")

	storageCmd.Example = `  # Show file counts per directory
  beatbox storage

  # List orphaned files
  beatbox storage --orphans

  # Delete orphaned files older than a day
  beatbox storage --prune --min-age 24h`
}
