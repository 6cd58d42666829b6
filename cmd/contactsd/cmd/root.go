package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/izniy/NexusBook/common"
	"github.com/izniy/NexusBook/modules/directory"
	"github.com/izniy/NexusBook/modules/randomuser"
)

// cfg is the flag target. Commands read it through setup.
var cfg, envErr = common.LoadConfig()

// rootCmd is the base command. Subcommands live in serve.go and list.go.
var rootCmd = &cobra.Command{
	Use:   "contactsd",
	Short: "Contact directory backed by the random user API",
	Long: `contactsd mirrors a batch of users from a random user API and serves
them as a paginated contact directory with per-contact favorites.

The upstream endpoint is read from ` + common.EnvUpstreamURL + ` (or --upstream-url).
It is only required once the directory is first read.`,
	SilenceUsage: true,
}

// Execute runs the root command. It should be invoked from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.UpstreamURL, "upstream-url", cfg.UpstreamURL, "random user API base URL")
	flags.DurationVar(&cfg.UpstreamTimeout, "upstream-timeout", cfg.UpstreamTimeout, "timeout for each upstream request")
	flags.StringVar(&cfg.UserAgent, "user-agent", cfg.UserAgent, "User-Agent sent to the upstream")
	flags.IntVarP(&cfg.BatchSize, "batch-size", "n", cfg.BatchSize, "number of users fetched per load")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (text, json)")
}

// setup validates the merged env and flag configuration and builds the
// logger for one command run.
func setup(cmd *cobra.Command) (common.Config, *slog.Logger, error) {
	if envErr != nil {
		return common.Config{}, nil, fmt.Errorf("reading environment: %w", envErr)
	}
	c := cfg
	if err := c.Validate(); err != nil {
		return common.Config{}, nil, err
	}
	logger, err := common.NewLogger(cmd.ErrOrStderr(), c.LogLevel, c.LogFormat)
	if err != nil {
		return common.Config{}, nil, err
	}
	return c, logger, nil
}

// newDirectory wires the upstream client and the directory service.
// The upstream token is taken from the environment only.
func newDirectory(cfg common.Config, logger *slog.Logger, metrics *common.Metrics) *directory.Service {
	base := common.NewAuthorizedClient(cfg.UpstreamToken, &http.Client{})
	httpClient := common.NewHttpClient(cfg.UserAgent, base, cfg.UpstreamTimeout)
	client := randomuser.NewRandomUserClient(cfg.UpstreamURL, httpClient, metrics)

	return directory.NewService(client,
		directory.WithBatchSize(cfg.BatchSize),
		directory.WithLogger(logger),
		directory.WithMetrics(metrics),
	)
}
