package main

import (
	"github.com/spf13/cobra"

	"calebs/ccsWebsite/internal/config"
	"calebs/ccsWebsite/internal/relay"
	"calebs/ccsWebsite/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the site and serve it locally, relaying forms through /api",
	RunE:  runServe,
}

func init() {
	addBuildFlags(serveCmd)
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().Bool("no-build", false, "serve the output directory as it is")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return err
	}
	// The served page always posts to this server, which forwards to the endpoint.
	cfg.Forms.Relay = true

	if noBuild, _ := cmd.Flags().GetBool("no-build"); !noBuild {
		if err := buildSite(cfg, logger); err != nil {
			return err
		}
	}

	client := relay.New(cfg.Forms.Endpoint, cfg.Brand.Email, relay.WithLogger(logger))
	srv := server.New(server.Options{
		Root:      cfg.Paths.Output,
		Submitter: client,
		Log:       logger,
	})
	return srv.Run(cmd.Context(), cfg.Server.Addr)
}
