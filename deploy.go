package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"calebs/ccsWebsite/internal/config"
	"calebs/ccsWebsite/internal/s3deploy"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Build the site and publish it to S3 behind CloudFront",
	Example: `  ccsite deploy --bucket ccs-website
  CCS_DEPLOY_BUCKET=ccs-website ccsite deploy`,
	RunE: runDeploy,
}

func init() {
	addBuildFlags(deployCmd)
	deployCmd.Flags().String("bucket", "", "S3 bucket name to deploy to")
}

func runDeploy(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.Deploy.Bucket == "" {
		return s3deploy.ErrNoBucket
	}

	if err := buildSite(cfg, logger); err != nil {
		return err
	}

	d, err := s3deploy.New(cmd.Context(), cfg.Deploy.Bucket, logger)
	if err != nil {
		return err
	}
	res, err := d.Deploy(cmd.Context(), cfg.Paths.Output)
	if err != nil {
		return err
	}

	logger.Info("site published",
		zap.String("bucket", cfg.Deploy.Bucket),
		zap.Int("files", res.Uploaded),
		zap.String("distribution", res.DistributionID),
		zap.String("invalidation", res.InvalidationID),
	)
	return nil
}
