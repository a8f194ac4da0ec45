package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect repository configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration: config.yml merged over the defaults, with
BIBSTAT_CURRENT_YEAR applied.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

// ConfigResponse is the response for config show.
type ConfigResponse struct {
	Root   string      `json:"root"`
	Config interface{} `json:"config"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	if humanOutput {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			exitWithError(ExitError, "encoding config: %v", err)
		}
		fmt.Printf("# %s\n%s", repoRoot, data)
		return nil
	}
	outputJSON(ConfigResponse{Root: repoRoot, Config: cfg})
	return nil
}
