package cmd

import (
	"fmt"
	"strings"

	"github.com/ne3mer/supplychainweb/internal/contract"
	"github.com/ne3mer/supplychainweb/internal/outwriter"
	"github.com/ne3mer/supplychainweb/schema"
	"github.com/spf13/cobra"
)

// signalsCmd groups the external signal commands.
var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "Record controversies and media sentiment for suppliers",
	Long: `Record external signals about stored suppliers.

Stored signals fill in the external fields of a supplier when they are absent
from its record: unresolved controversies are counted, and media sentiment is
averaged per source. Rescore the supplier to pick up new signals.

Subcommands:
  controversy - Record a controversy
  media       - Record a sentiment observation
  list        - Show the signals recorded for a supplier

Examples:
  supplychain signals controversy 3f0c... --title "Factory fire" --severity high
  supplychain signals media 3f0c... --source news --score -0.4 --headline "Audit failed"
  supplychain suppliers rescore 3f0c...`,
}

// signalsControversyCmd records a controversy.
var signalsControversyCmd = &cobra.Command{
	Use:     "controversy <supplier-id>",
	Short:   "Record a controversy against a supplier",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		title, _ := flags.GetString("title")
		severity, _ := flags.GetString("severity")
		status, _ := flags.GetString("status")

		c := schema.Controversy{
			SupplierID: args[0],
			Title:      title,
			Severity:   schema.ControversySeverity(strings.ToLower(severity)),
			Status:     schema.ControversyStatus(strings.ToLower(status)),
		}
		if err := mustService(rootCtx).AddControversy(rootCtx, &c); err != nil {
			contract.LogFatal("Failed to record controversy", err)
		}
		fmt.Printf("Controversy %s recorded.\n", c.ID)
	},
}

// signalsMediaCmd records a media sentiment observation.
var signalsMediaCmd = &cobra.Command{
	Use:   "media <supplier-id>",
	Short: "Record a media sentiment observation for a supplier",
	Long: `Record a sentiment observation. Scores range from -1 to 1 for social_media and
news, and from 0 to 5 for worker_review.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		source, _ := flags.GetString("source")
		score, _ := flags.GetFloat64("score")
		headline, _ := flags.GetString("headline")

		m := schema.MediaSignal{
			SupplierID: args[0],
			Source:     schema.SignalSource(strings.ToLower(source)),
			Score:      score,
			Headline:   headline,
		}
		if err := mustService(rootCtx).AddMediaSignal(rootCtx, &m); err != nil {
			contract.LogFatal("Failed to record media signal", err)
		}
		fmt.Printf("Media signal %s recorded.\n", m.ID)
	},
}

// signalsListCmd prints the controversies, or with --media the sentiment
// observations, of one supplier.
var signalsListCmd = &cobra.Command{
	Use:   "list <supplier-id>",
	Short: "Show the controversies or media signals of a supplier",
	Long: `Show the controversies recorded for a supplier, oldest first. With --media,
show its media sentiment observations instead.

Examples:
  supplychain signals list 3f0c...
  supplychain signals list 3f0c... --media --output csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		svc := mustService(rootCtx)
		if _, err := svc.Supplier(rootCtx, args[0]); err != nil {
			contract.LogFatal("Failed to load supplier", err)
		}
		signals := svc.Stores.GetSignalStore()
		ow := outwriter.NewOutWriter()

		if media, _ := cmd.Flags().GetBool("media"); media {
			items, err := signals.ListMediaSignals(rootCtx, args[0])
			if err != nil {
				contract.LogFatal("Failed to list media signals", err)
			}
			if err := ow.WriteMediaSignals(items, cfg); err != nil {
				contract.LogFatal("Failed to write media signals", err)
			}
			return
		}

		items, err := signals.ListControversies(rootCtx, args[0])
		if err != nil {
			contract.LogFatal("Failed to list controversies", err)
		}
		if err := ow.WriteControversies(items, cfg); err != nil {
			contract.LogFatal("Failed to write controversies", err)
		}
	},
}
