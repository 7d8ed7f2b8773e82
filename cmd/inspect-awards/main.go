package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/Amund211/awardtracker/internal/adapters/catalog"
	"github.com/Amund211/awardtracker/internal/adapters/progressrepository"
	"github.com/Amund211/awardtracker/internal/config"
	"github.com/Amund211/awardtracker/internal/domain"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "inspect-awards",
		Short:        "Inspect stored award data",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newPlayerCmd(), newCatalogCmd())

	return rootCmd
}

func newPlayerCmd() *cobra.Command {
	var saveDir string
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "player <player id>",
		Short: "Print the stored awards of a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := progressrepository.NewFile(saveDir)
			if err != nil {
				return err
			}

			records, err := repo.Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to load player: %w", err)
			}

			definitions := map[string]domain.AwardDefinition{}
			if catalogPath != "" {
				loaded, err := catalog.LoadFile(catalogPath)
				if err != nil {
					return err
				}
				for _, definition := range loaded {
					definitions[definition.ID] = definition
				}
			}

			return printRecords(cmd.OutOrStdout(), records, definitions)
		},
	}

	cmd.Flags().StringVar(&saveDir, "dir", config.DEFAULT_SAVE_DIR, "directory containing the player save files")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "award catalog used to show names and thresholds")

	return cmd
}

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog <path>",
		Short: "Validate an award catalog and print its awards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			definitions, err := catalog.LoadFile(args[0])
			if err != nil {
				return err
			}

			return printCatalog(cmd.OutOrStdout(), definitions)
		},
	}
}

func printRecords(w io.Writer, records []domain.PlayerAward, definitions map[string]domain.AwardDefinition) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "AWARD\tNAME\tPROGRESS\tUNLOCKED")
	for _, record := range records {
		name := "?"
		progress := fmt.Sprintf("%d", record.Progress)
		if definition, ok := definitions[record.AwardID]; ok {
			name = definition.Name
			progress = fmt.Sprintf("%d/%d", record.Progress, definition.RequiredProgress)
		}

		unlocked := "-"
		if record.UnlockedAt != nil {
			unlocked = record.UnlockedAt.Local().Format(time.DateTime)
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", record.AwardID, name, progress, unlocked)
	}

	return tw.Flush()
}

func printCatalog(w io.Writer, definitions []domain.AwardDefinition) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "AWARD\tNAME\tREQUIRED\tICON")
	for _, definition := range definitions {
		fmt.Fprintf(
			tw,
			"%s\t%s\t%d\t%s/%s (%d)\n",
			definition.ID,
			definition.Name,
			definition.RequiredProgress,
			definition.Icon.Library,
			definition.Icon.Name,
			definition.Icon.Color,
		)
	}

	return tw.Flush()
}
