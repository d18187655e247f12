package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vietdv277/bucketscope/internal/inventory"
)

// Viper keys, identical to the flag names
const (
	keyConfig         = "config"
	keyServiceAccount = "service-account"
	keyLogLevel       = "log-level"
	keyProjectIDs     = "project-ids"
	keyTextFileName   = "text-file-name"
	keyCSVFileName    = "csv-file-name"
	keyBuildNo        = "build-no"
	keyBucket         = "bucket"
	keyReportPrefix   = "report-prefix"
	keyMaxConcurrency = "max-concurrency"
	keyProgress       = "progress"
)

// startedAt stamps the default file names of this invocation
var startedAt = time.Now().UTC()

var rootCmd = &cobra.Command{
	Use:   "bucketscope",
	Short: "Bucketscope - Cloud Storage inventory and cost reporting",
	Long: `Bucketscope inventories Google Cloud Storage buckets across projects and
publishes one CSV report per run.

For every project in scope it checks billing, the Storage API and the
storage.buckets.list permission, then records size and object count per
storage class together with lifecycle, retention, versioning and soft-delete
settings.

Examples:
  bucketscope                                  # Inventory all active projects
  bucketscope run --project-ids a,b            # Inventory two projects
  bucketscope run --service-account key.json   # Use a service account key
  bucketscope projects                         # Show which projects would be admitted
  bucketscope config init --bucket reports     # Save the report bucket`,
	SilenceUsage: true,
	RunE:         runInventory,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	defaultStamp := startedAt.Format("2006-01-02-15-04-05")

	// Global persistent flags (available to all subcommands)
	flags := rootCmd.PersistentFlags()
	flags.String(keyConfig, "", "Config file (default $XDG_CONFIG_HOME/bucketscope/config.yaml)")
	flags.String(keyServiceAccount, "", "Service account key file or email to impersonate (default: application default credentials)")
	flags.String(keyLogLevel, "info", "Log level: debug, info, warn, error")
	flags.StringSlice(keyProjectIDs, nil, "Project IDs to scope the run to (default: all active projects)")
	flags.String(keyTextFileName, fmt.Sprintf("%s-%s.jsonl", inventory.DefaultFilePrefix, defaultStamp), "Intermediate JSON lines file")
	flags.String(keyCSVFileName, fmt.Sprintf("%s-%s", inventory.DefaultFilePrefix, defaultStamp), "Report file name (.csv is appended)")
	flags.String(keyBuildNo, "", "Build number appended to the report file name")
	flags.String(keyBucket, "", "Bucket receiving the report (overrides automation.bucket)")
	flags.String(keyReportPrefix, "", "Object prefix for the report (default gcp-cost-analysis)")
	flags.Int(keyMaxConcurrency, 0, "Maximum projects collected at once (0 = unbounded)")
	flags.Bool(keyProgress, false, "Show a live progress view; logs go to <csv-file-name>.log")

	// Bind flags to viper
	for _, key := range []string{
		keyConfig, keyServiceAccount, keyLogLevel, keyProjectIDs, keyTextFileName,
		keyCSVFileName, keyBuildNo, keyBucket, keyReportPrefix, keyMaxConcurrency, keyProgress,
	} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}
}

func initConfig() {
	// Read from environment variables, e.g. BUCKETSCOPE_SERVICE_ACCOUNT
	viper.SetEnvPrefix("BUCKETSCOPE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
