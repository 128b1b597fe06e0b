package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/studysync/coursesync/internal/config"
	"github.com/studysync/coursesync/internal/logger"
	"github.com/studysync/coursesync/internal/repository"
	"github.com/studysync/coursesync/internal/scraper"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// connectTimeout bounds opening the store, including the server ping
const connectTimeout = 15 * time.Second

// options holds the flag values shared by all commands
type options struct {
	url         string
	timeout     time.Duration
	mongoURI    string
	database    string
	collection  string
	tlsInsecure bool
	dryRun      bool
	strict      bool
	format      string
	parseSort   string
	listSort    string
	logLevel    string
}

func (o *options) storeOptions() repository.Options {
	return repository.Options{
		URI:         o.mongoURI,
		Database:    o.database,
		Collection:  o.collection,
		TLSInsecure: o.tlsInsecure,
		DryRun:      o.dryRun,
	}
}

func (o *options) outputFormat() (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(o.format))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", o.format)
	}
	return format, nil
}

// NewRootCmd creates the root command with flag defaults taken from cfg
func NewRootCmd(cfg config.Config) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "coursesync",
		Short: "Sync the class schedule into the course database",
		Long: `Fetches the public class schedule page, parses the class table and
upserts every class into the course collection keyed by class number.
Unchanged classes are not rewritten, so repeated runs are safe.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd, opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSyncCmd(cmd, opts)
		},
	}

	url := cfg.ScheduleURL
	if url == "" {
		url = scraper.DefaultScheduleURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = scraper.Timeout
	}
	database := cfg.Database
	if database == "" {
		database = repository.DefaultDatabase
	}
	collection := cfg.Collection
	if collection == "" {
		collection = repository.DefaultCollection
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.url, "url", url, "Schedule page to fetch (env: SCHEDULE_URL)")
	flags.DurationVar(&opts.timeout, "timeout", timeout, "HTTP timeout for the schedule fetch (env: FETCH_TIMEOUT)")
	flags.StringVar(&opts.mongoURI, "mongo-uri", cfg.MongoURI, "Store URI: mongodb://, mongodb+srv:// or file:// (env: MONGO_URI)")
	flags.StringVar(&opts.database, "database", database, "Database name (env: MONGO_DATABASE)")
	flags.StringVar(&opts.collection, "collection", collection, "Collection name (env: MONGO_COLLECTION)")
	flags.BoolVar(&opts.tlsInsecure, "tls-insecure", cfg.TLSInsecure, "Skip TLS certificate verification (env: MONGO_TLS_INSECURE)")
	flags.StringVar(&opts.format, "format", "text", "Output format: text or json")
	flags.StringVar(&opts.logLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error (env: LOG_LEVEL)")

	syncFlags := func(c *cobra.Command) {
		c.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Compare against the store without writing")
		c.Flags().BoolVar(&opts.strict, "strict", false, "Exit non-zero on fetch failure, schema drift or failed records")
	}
	syncFlags(cmd)

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch, parse and upsert the schedule (same as the root command)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSyncCmd(cmd, opts)
		},
	}
	syncFlags(syncCmd)

	parseCmd := &cobra.Command{
		Use:   "parse",
		Short: "Fetch and parse the schedule and print the classes without storing them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParseCmd(cmd, opts)
		},
	}
	parseCmd.Flags().StringVar(&opts.parseSort, "sort", string(SortByPage), "Sort order: page, class or title")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print the classes stored in the collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListCmd(cmd, opts)
		},
	}
	listCmd.Flags().StringVar(&opts.listSort, "sort", string(SortByClass), "Sort order: class or title")

	cmd.AddCommand(syncCmd, parseCmd, listCmd)
	return cmd
}

func setupLogging(cmd *cobra.Command, opts *options) error {
	level, err := logger.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))
	logger.ResetMetrics()
	return nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd(config.Load()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
