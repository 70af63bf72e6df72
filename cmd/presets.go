package cmd

import (
	"fmt"

	"github.com/ne3mer/supplychainweb/internal/contract"
	"github.com/ne3mer/supplychainweb/internal/outwriter"
	"github.com/ne3mer/supplychainweb/schema"
	"github.com/spf13/cobra"
)

// presetsCmd groups weight preset management.
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Manage named weight presets",
	Long: `Manage the weight presets stored alongside suppliers.

A preset is a named weight table. The default preset replaces the built-in
weights for every command; --preset picks another one for a single run.

Subcommands:
  list    - List stored presets
  show    - Show the weights of one preset
  import  - Save a preset from a YAML or JSON file
  default - Make a preset the default
  delete  - Remove a preset

Examples:
  # Store a preset that favours environmental performance and make it the default
  supplychain presets import green.yaml --default

  # Score once with a different preset
  supplychain score acme.yaml --preset strict`,
}

// presetsListCmd lists stored presets.
var presetsListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List stored weight presets",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		presets, err := mustService(rootCtx).Presets(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to list presets", err)
		}
		if err := outwriter.NewOutWriter().WritePresets(presets, cfg); err != nil {
			contract.LogFatal("Failed to write presets", err)
		}
	},
}

// presetsShowCmd prints one preset's weights.
var presetsShowCmd = &cobra.Command{
	Use:     "show <name>",
	Short:   "Show the weights of a stored preset",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		p, err := mustService(rootCtx).Preset(rootCtx, args[0])
		if err != nil {
			contract.LogFatal("Failed to load preset", err)
		}
		if err := outwriter.NewOutWriter().WriteWeights(p.Weights, cfg); err != nil {
			contract.LogFatal("Failed to write preset", err)
		}
	},
}

// presetFile is the on-disk preset format. Omitted weights keep their built-in defaults.
type presetFile struct {
	Name        string              `json:"name" yaml:"name"`
	Description string              `json:"description" yaml:"description"`
	IsDefault   bool                `json:"is_default" yaml:"is_default"`
	Weights     schema.WeightConfig `json:"weights" yaml:"weights"`
}

// readPreset loads a preset file on top of the built-in weights.
func readPreset(path string) (schema.WeightPreset, error) {
	pf := presetFile{Weights: schema.DefaultWeights()}
	if err := decodeFile(path, &pf); err != nil {
		return schema.WeightPreset{}, err
	}
	return schema.WeightPreset{
		Name:        pf.Name,
		Description: pf.Description,
		IsDefault:   pf.IsDefault,
		Weights:     pf.Weights,
	}, nil
}

// presetsImportCmd saves a preset from a file.
var presetsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Save a weight preset from a YAML or JSON file",
	Long: `Save a weight preset. An existing preset with the same name is replaced.

File format:
  name: green
  description: Environmental focus
  weights:
    categories:
      environmental: 0.5
      social: 0.25
      governance: 0.15
      external_data: 0.1

Weights left out of the file keep their built-in values.

Examples:
  supplychain presets import green.yaml
  supplychain presets import green.yaml --default`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		p, err := readPreset(args[0])
		if err != nil {
			contract.LogFatal("Failed to read preset", err)
		}
		if makeDefault, _ := cmd.Flags().GetBool("default"); makeDefault {
			p.IsDefault = true
		}
		if err := mustService(rootCtx).SavePreset(rootCtx, &p); err != nil {
			contract.LogFatal("Failed to save preset", err)
		}
		fmt.Printf("Preset %s saved.\n", p.Name)
	},
}

// presetsDefaultCmd switches the default preset.
var presetsDefaultCmd = &cobra.Command{
	Use:     "default <name>",
	Short:   "Make a stored preset the default weights",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := mustService(rootCtx).SetDefaultPreset(rootCtx, args[0]); err != nil {
			contract.LogFatal("Failed to set default preset", err)
		}
		fmt.Printf("Preset %s is now the default. Run 'supplychain suppliers rescore' to refresh stored scores.\n", args[0])
	},
}

// presetsDeleteCmd removes a preset.
var presetsDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Short:   "Delete a stored preset",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := mustService(rootCtx).DeletePreset(rootCtx, args[0]); err != nil {
			contract.LogFatal("Failed to delete preset", err)
		}
		fmt.Printf("Preset %s deleted.\n", args[0])
	},
}

// weightsCmd prints the weights the scoring commands would use.
var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Show the active scoring weights",
	Long: `Show the weight table used by the scoring commands. The first source that
applies wins: the preset named by --preset, the stored default preset, then the
built-in weights with the overrides from the weights section of the config file.

Examples:
  supplychain weights
  supplychain weights --preset strict --output yaml`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		svc := mustService(rootCtx)
		if err := outwriter.NewOutWriter().WriteWeights(svc.Engine.Weights(), cfg); err != nil {
			contract.LogFatal("Failed to write weights", err)
		}
	},
}
