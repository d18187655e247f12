package cmd

import (
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vietdv277/bucketscope/internal/config"
	"github.com/vietdv277/bucketscope/internal/gcp"
	"github.com/vietdv277/bucketscope/internal/inventory"
	"github.com/vietdv277/bucketscope/internal/ui"
)

var projectsCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"ls"},
	Short:   "Show which projects a run would admit",
	Long: `Resolve the project scope and run the admission checks (billing, Storage
API, storage.buckets.list permission) without collecting any bucket.

Examples:
  bucketscope projects
  bucketscope projects --project-ids prj-a,prj-b`,
	RunE: runProjects,
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}

func runProjects(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	fileCfg, err := config.LoadConfig(viper.GetString(keyConfig))
	if err != nil {
		return err
	}
	st := resolveSettings(viper.GetViper(), fileCfg)
	st.Run.RunID = uuid.NewString()

	logger, err := newLogger(st.LogLevel)
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
	services, err := gcp.NewServices(ctx, client)
	if err != nil {
		return err
	}
	defer func() { _ = services.Close() }()

	session := &inventory.Session{
		Config:   st.Run,
		Services: services.Provider(),
		Logger:   logger,
	}

	res, err := inventory.Resolve(ctx, session)
	if err != nil {
		return err
	}
	ui.PrintSummary(os.Stdout, inventory.ResolutionReport(st.Run.RunID, res))
	return nil
}
