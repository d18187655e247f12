package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/vietdv277/bucketscope/internal/config"
	"github.com/vietdv277/bucketscope/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the bucketscope config file",
	Long: `Manage the config file holding the automation bucket, admission
requirements and the optional S3 mirror.

Examples:
  bucketscope config init --bucket finops-reports
  bucketscope config init --bucket finops-reports --mirror-s3-bucket finops-copy
  bucketscope config show`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create or update the config file",
	Long: `Create or update the config file. Only the flags given are changed.

Examples:
  bucketscope config init --bucket finops-reports --automation-project ops-prj
  bucketscope config init --max-concurrency 8`,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current config file",
	RunE:  runConfigShow,
}

var (
	cfgInitBucket         string
	cfgInitProject        string
	cfgInitReportPrefix   string
	cfgInitMaxConcurrency int
	cfgInitMirrorBucket   string
	cfgInitMirrorProfile  string
	cfgInitMirrorRegion   string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	f := configInitCmd.Flags()
	f.StringVar(&cfgInitBucket, "bucket", "", "Automation bucket receiving reports")
	f.StringVar(&cfgInitProject, "automation-project", "", "Automation project ID")
	f.StringVar(&cfgInitReportPrefix, "report-prefix", "", "Object prefix for reports")
	f.IntVar(&cfgInitMaxConcurrency, "max-concurrency", 0, "Maximum projects collected at once")
	f.StringVar(&cfgInitMirrorBucket, "mirror-s3-bucket", "", "S3 bucket mirroring every report")
	f.StringVar(&cfgInitMirrorProfile, "mirror-aws-profile", "", "AWS profile for the S3 mirror")
	f.StringVar(&cfgInitMirrorRegion, "mirror-aws-region", "", "AWS region for the S3 mirror")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := viper.GetString(keyConfig)
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return err
	}

	applyConfigFlags(cmd, cfg)

	if err := config.SaveConfig(path, cfg); err != nil {
		return err
	}
	if path == "" {
		path = config.GetConfigPath()
	}
	fmt.Println(ui.CollectedStyle.Render("✓ Saved ") + path)
	return nil
}

// applyConfigFlags copies the explicitly set init flags into cfg
func applyConfigFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("bucket") {
		cfg.Automation.Bucket = cfgInitBucket
	}
	if f.Changed("automation-project") {
		cfg.Automation.Project = cfgInitProject
	}
	if f.Changed("report-prefix") {
		cfg.Automation.ReportPrefix = cfgInitReportPrefix
	}
	if f.Changed("max-concurrency") {
		cfg.Collection.MaxConcurrency = cfgInitMaxConcurrency
	}
	if f.Changed("mirror-s3-bucket") {
		cfg.Mirror.S3Bucket = cfgInitMirrorBucket
	}
	if f.Changed("mirror-aws-profile") {
		cfg.Mirror.AWSProfile = cfgInitMirrorProfile
	}
	if f.Changed("mirror-aws-region") {
		cfg.Mirror.AWSRegion = cfgInitMirrorRegion
	}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(viper.GetString(keyConfig))
	if err != nil {
		return err
	}
	return yaml.NewEncoder(os.Stdout).Encode(cfg)
}
