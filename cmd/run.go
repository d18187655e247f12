package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vietdv277/bucketscope/internal/aws"
	"github.com/vietdv277/bucketscope/internal/config"
	"github.com/vietdv277/bucketscope/internal/gcp"
	"github.com/vietdv277/bucketscope/internal/inventory"
	"github.com/vietdv277/bucketscope/internal/ui"
	"github.com/vietdv277/bucketscope/pkg/provider"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Collect the bucket inventory and upload the report",
	Long: `Collect the bucket inventory of every project in scope, convert it to CSV
and upload it to {report-prefix}/{date}/{csv-file-name} in the automation bucket.

Projects without billing, without the Storage API or without the
storage.buckets.list permission are skipped with a warning.

Examples:
  bucketscope run
  bucketscope run --project-ids prj-a,prj-b --build-no 42
  bucketscope run --bucket finops-reports --progress`,
	RunE: runInventory,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runInventory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fileCfg, err := config.LoadConfig(viper.GetString(keyConfig))
	if err != nil {
		return err
	}
	st := resolveSettings(viper.GetViper(), fileCfg)
	st.Run.RunID = uuid.NewString()

	// Configuration errors are fatal before any client is created
	if st.Run.UploadBucket == "" {
		return fmt.Errorf("%w: set --bucket, BUCKETSCOPE_BUCKET or automation.bucket in %s",
			inventory.ErrNoUploadBucket, config.GetConfigPath())
	}

	var logOutputs []string
	if st.Progress {
		logOutputs = append(logOutputs, st.Run.CSVFileName+".log")
	}
	logger, err := newLogger(st.LogLevel, logOutputs...)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.With(zap.String("run_id", st.Run.RunID))

	client, err := gcp.NewClient(ctx,
		gcp.WithServiceAccount(st.ServiceAccount),
		gcp.WithProject(st.Project),
	)
	if err != nil {
		return err
	}
	if identity, err := gcp.GetCallerIdentity(ctx, client); err != nil {
		logger.Warn("Unable to resolve caller identity", zap.Error(err))
	} else {
		logger.Info("Running as", zap.String("email", identity.Email), zap.String("project", identity.ProjectID))
	}

	services, err := gcp.NewServices(ctx, client)
	if err != nil {
		return err
	}
	defer func() { _ = services.Close() }()

	uploaders, err := buildUploaders(ctx, logger, services, st)
	if err != nil {
		return err
	}

	session := &inventory.Session{
		Config:   st.Run,
		Services: services.Provider(),
		Logger:   logger,
	}

	var progress *ui.Progress
	if st.Progress {
		progress = ui.NewProgress(os.Stderr)
		session.Observer = progress
		progress.Start()
	}

	report, runErr := inventory.Run(ctx, session, uploaders)

	if progress != nil {
		if err := progress.Stop(); err != nil {
			logger.Warn("Progress view failed", zap.Error(err))
		}
	}
	if report != nil {
		ui.PrintSummary(os.Stdout, report)
	}
	return runErr
}

// buildUploaders returns the primary Cloud Storage destination followed by
// the optional S3 mirror. Mirror credentials are verified up front.
func buildUploaders(ctx context.Context, logger *zap.Logger, services *gcp.Services, st settings) ([]provider.Uploader, error) {
	uploaders := []provider.Uploader{services.Storage.NewUploader(st.Run.UploadBucket)}

	if st.Mirror.S3Bucket == "" {
		return uploaders, nil
	}

	mirror, err := aws.NewMirror(ctx, st.Mirror.S3Bucket,
		aws.WithProfile(st.Mirror.AWSProfile),
		aws.WithRegion(st.Mirror.AWSRegion),
	)
	if err != nil {
		return nil, err
	}
	identity, err := mirror.CallerIdentity(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("Report mirror enabled",
		zap.String("destination", mirror.Name()),
		zap.String("aws_account", identity.Account),
		zap.String("aws_arn", identity.Arn))

	return append(uploaders, mirror), nil
}
