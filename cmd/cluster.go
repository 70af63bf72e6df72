package cmd

import (
	"errors"
	"fmt"

	"github.com/ne3mer/supplychainweb/core/cluster"
	"github.com/ne3mer/supplychainweb/internal/contract"
	"github.com/ne3mer/supplychainweb/internal/outwriter"
	"github.com/spf13/cobra"
)

// clusterCmd groups peer clustering commands.
var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Train and inspect the supplier peer clusters",
	Long: `Group stored suppliers into peer clusters with k-means over their metrics.

Clusters drive peer comparison in recommendations, explanations and analysis.
Without a trained model, suppliers are compared with their industry instead.
Training needs at least 5 stored suppliers and is disabled by setting
clustering.enabled to false in the config file.

Subcommands:
  train  - Train a model from all stored suppliers and assign clusters
  status - Show the active model

Examples:
  supplychain cluster train
  supplychain cluster status --output json`,
}

// clusterTrainCmd trains and persists a model.
var clusterTrainCmd = &cobra.Command{
	Use:     "train",
	Short:   "Train peer clusters from all stored suppliers",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		svc := mustService(rootCtx)
		model, err := svc.TrainClusters(rootCtx)
		switch {
		case errors.Is(err, cluster.ErrInsufficientPeers):
			fmt.Println("Not enough scored suppliers to train clusters (need at least 5).")
			return
		case errors.Is(err, cluster.ErrClusteringUnavailable):
			fmt.Println("Clustering is disabled in the configuration.")
			return
		case err != nil:
			contract.LogFatal("Failed to train clusters", err)
		}
		fmt.Printf("Trained %d clusters on %d suppliers.\n", model.K, model.PeerCount)
	},
}

// clusterStatusCmd prints the active model.
var clusterStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show the active cluster model",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := mustService(rootCtx).ClusterStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to read cluster status", err)
		}
		if err := outwriter.NewOutWriter().WriteClusterStatus(status, cfg); err != nil {
			contract.LogFatal("Failed to write cluster status", err)
		}
	},
}
