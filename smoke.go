package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"calebs/ccsWebsite/internal/config"
	"calebs/ccsWebsite/internal/smoke"
)

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Check the generated page, and the served page when --url is given",
	Example: `  ccsite smoke
  ccsite smoke --url http://localhost:8080/`,
	RunE: runSmoke,
}

func init() {
	smokeCmd.Flags().String("out", "", "output directory holding index.html")
	smokeCmd.Flags().String("url", "", "served page to check in a headless browser")
	smokeCmd.Flags().String("control-url", "", "DevTools URL of a running browser to use instead of launching one")
	smokeCmd.Flags().Int("min-reviews", 10, "minimum number of review cards")
}

func runSmoke(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return err
	}
	minReviews, _ := cmd.Flags().GetInt("min-reviews")
	pageURL, _ := cmd.Flags().GetString("url")
	controlURL, _ := cmd.Flags().GetString("control-url")

	ids := make([]string, len(cfg.Nav))
	for i, n := range cfg.Nav {
		ids[i] = n.ID
	}

	report, err := smoke.Static{NavIDs: ids, MinReviews: minReviews}.CheckFile(filepath.Join(cfg.Paths.Output, "index.html"))
	if err != nil {
		return err
	}

	if pageURL != "" {
		live, err := smoke.Live{URL: pageURL, ControlURL: controlURL, Log: logger}.Run(cmd.Context())
		report.Merge(live)
		if err != nil {
			report.Print(cmd.OutOrStdout())
			return err
		}
	}

	report.Print(cmd.OutOrStdout())
	return report.Err()
}
