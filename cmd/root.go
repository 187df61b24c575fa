package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/EO-DataHub/eodhp-group-services/db"
	"github.com/EO-DataHub/eodhp-group-services/internal/appconfig"
	awsclient "github.com/EO-DataHub/eodhp-group-services/internal/aws"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	configPath string
	host       string
	port       int

	appCfg  *appconfig.Config
	groupDB *db.GroupDB
)

var rootCmd = &cobra.Command{
	Use:   "group-services",
	Short: "Group Services",
	Long:  `Group Services is a CLI tool for administering group membership.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn",
		"sets the log level")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"),
		"path to the YAML config file")
}

// loadConfig sets up logging and reads the config file.
func loadConfig() {
	setLogging(logLevel)

	var err error
	appCfg, err = appconfig.LoadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
}

// commonSetUp loads the config and connects to the database.
func commonSetUp() {
	loadConfig()

	source, err := databaseSource(appCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve database source")
	}

	groupDB, err = db.NewGroupDB(appCfg.Database.Driver, source, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize GroupDB")
	}
}

// databaseSource returns the configured source, or builds one from AWS
// Secrets Manager when a secret name is configured.
func databaseSource(cfg *appconfig.Config) (string, error) {
	if cfg.Database.SecretName == "" {
		return cfg.Database.Source, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	awsCfg, err := awsclient.LoadAWSConfig(ctx, cfg.AWS.Region)
	if err != nil {
		return "", err
	}

	log.Info().Str("secret", cfg.Database.SecretName).Msg("Reading database credentials from Secrets Manager")
	return awsclient.DatabaseSource(ctx, awsclient.NewSecretsManagerClient(awsCfg), cfg.Database.SecretName)
}

func setLogging(level string) {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	switch strings.ToLower(level) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}
