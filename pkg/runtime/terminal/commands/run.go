package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/de-tools/fleximart/pkg/metrics"
	"github.com/de-tools/fleximart/pkg/services/config"
	"github.com/de-tools/fleximart/pkg/services/pipeline"
	"github.com/de-tools/fleximart/pkg/services/report"
	"github.com/de-tools/fleximart/pkg/store/source"
	"github.com/de-tools/fleximart/pkg/store/warehouse"
	"github.com/de-tools/fleximart/pkg/store/warehouse/runs"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type RunCmd struct {
	configPath   string
	envFile      string
	profile      string
	profilesPath string
}

func NewRunCmd(defaultProfilesPath string) *cobra.Command {
	rc := &RunCmd{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Clean the raw extracts and load them into the destination",
		RunE:  rc.run,
	}

	cmd.Flags().StringVarP(&rc.configPath, "config", "c", "", "Path to a config file (yaml, toml or json)")
	cmd.Flags().StringVar(&rc.envFile, "env-file", ".env", "Path to a .env file with FLEXIMART_* variables")
	cmd.Flags().StringVar(&rc.profile, "profile", "", "Destination profile to use instead of the configured destination")
	cmd.Flags().StringVar(&rc.profilesPath, "profiles-file", defaultProfilesPath, "Path to the destination profiles file")

	return cmd
}

func (rc *RunCmd) run(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(rc.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file %s: %w", rc.envFile, err)
	}

	cfg, err := config.LoadConfig(rc.configPath)
	if err != nil {
		return err
	}
	if rc.profile != "" {
		profiles, err := config.NewProfiles(rc.profilesPath)
		if err != nil {
			return fmt.Errorf("failed to read profiles file: %w", err)
		}
		cfg.Destination, err = profiles.GetDestination(cmd.Context(), rc.profile)
		if err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := NewLogger(cfg.LogLevel)
	ctx := logger.WithContext(cmd.Context())

	var s3Client source.GetObjectAPI
	if source.NeedsS3(cfg.Inputs.Customers, cfg.Inputs.Products, cfg.Inputs.Sales) {
		s3Client, err = source.NewS3Client(ctx)
		if err != nil {
			return err
		}
	}

	session, err := warehouse.Open(ctx, cfg.Destination)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close destination")
		}
	}()

	runStore, err := runs.NewStore(session.DB(), session.Dialect())
	if err != nil {
		return err
	}

	var registry *metrics.Registry
	if cfg.MetricsPath != "" {
		registry = metrics.NewRegistry()
	}

	runner := pipeline.NewRunner(pipeline.Dependencies{
		Extractor: source.NewExtractor(afero.NewOsFs(), s3Client),
		Loader:    session,
		Runs:      runStore,
		Metrics:   registry,
	}, pipeline.RunnerConfig{
		Inputs:      cfg.Inputs,
		ReportPath:  cfg.ReportPath,
		MetricsPath: cfg.MetricsPath,
	})

	res, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	logger.Info().Msg("ETL pipeline executed successfully")
	return report.NewWriter(cmd.OutOrStdout()).Handle(res.Report)
}

// NewLogger builds the stderr logger; unknown levels fall back to info.
func NewLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
