package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"calebs/ccsWebsite/internal/config"
	"calebs/ccsWebsite/internal/pagegen"
	"calebs/ccsWebsite/internal/utils"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate the static site",
	RunE:  runBuild,
}

func init() {
	addBuildFlags(buildCmd)
	addBuildFlags(rootCmd)
	buildCmd.Flags().Bool("relay", false, "post forms to this binary's /api routes instead of the form endpoint")
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().String("out", "", "output directory")
	cmd.Flags().String("endpoint", "", "form relay endpoint; empty sends every form to mail")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return err
	}
	return buildSite(cfg, logger)
}

// buildSite renders the pages and copies static files into cfg.Paths.Output.
func buildSite(cfg *config.Config, log *zap.Logger) error {
	log.Info("starting static site generation", zap.String("out", cfg.Paths.Output))

	reviews, err := utils.LoadReviews(cfg.Data.Reviews)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Paths.Output, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := utils.GenerateColorScheme(cfg.Brand, localLogo(cfg, log), cfg.Paths.CSS); err != nil {
		return err
	}

	if err := utils.CopyDir(cfg.Paths.Static, cfg.Paths.Output); err != nil {
		return err
	}
	if err := utils.CopyDir(cfg.Paths.Assets, filepath.Join(cfg.Paths.Output, "assets")); err != nil {
		return err
	}

	gen := pagegen.Generator{TemplatesDir: cfg.Paths.Templates, Log: log}
	data := pagegen.NewPageData(cfg, reviews)
	for _, page := range []string{"index.html", "error.html"} {
		if err := gen.GeneratePage(cfg.Paths.Output, page, data); err != nil {
			return err
		}
	}

	if cfg.Forms.Endpoint == "" && !cfg.Forms.Relay {
		log.Warn("no form endpoint configured; every submission will open the visitor's mail client")
	}
	log.Info("static site generation complete", zap.Int("reviews", len(reviews)))
	return nil
}

// localLogo maps a site-relative logo URL such as /assets/logo.png to the
// file it is copied from, so its colors can be extracted.
func localLogo(cfg *config.Config, log *zap.Logger) string {
	rel, ok := strings.CutPrefix(cfg.Brand.LogoURL, "/assets/")
	if !ok {
		return ""
	}
	path := filepath.Join(cfg.Paths.Assets, filepath.FromSlash(rel))
	if _, err := os.Stat(path); err != nil {
		log.Warn("logo not found, skipping logo colors", zap.String("path", path))
		return ""
	}
	return path
}
