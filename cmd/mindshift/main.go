package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/BTreeMap/MindShift/internal/api"
	"github.com/BTreeMap/MindShift/internal/flow"
	"github.com/BTreeMap/MindShift/internal/genai"
	"github.com/BTreeMap/MindShift/internal/lockfile"
	"github.com/BTreeMap/MindShift/internal/scheduler"
	"github.com/BTreeMap/MindShift/internal/store"
	"github.com/BTreeMap/MindShift/internal/util"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for MindShift state data
	DefaultStateDir = "/var/lib/mindshift"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "mindshift.db"
)

func main() {
	initializeLogger()

	config := loadEnvironmentConfig()
	flags := parseCommandLineFlags(config)

	lock, err := lockfile.AcquireLock(*flags.stateDir)
	if err != nil {
		slog.Error("Failed to lock state directory", "error", err)
		os.Exit(1)
	}
	defer lock.Release()

	st, err := buildStore(flags)
	if err != nil {
		slog.Error("Failed to initialize session store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	gateway := buildGateway(flags)

	engine := flow.NewEngine(flow.WithStore(st), flow.WithGateway(gateway))
	server := api.NewServer(engine, api.WithAddr(*flags.apiAddr))

	// Session janitor: evict sessions idle for over an hour every 15 minutes.
	sched := scheduler.NewScheduler()
	defer sched.Stop()
	if err := sched.AddJob("*/15 * * * *", func() {
		engine.PruneIdleSessions(time.Hour)
	}); err != nil {
		slog.Error("Failed to schedule session janitor", "error", err)
		os.Exit(1)
	}

	slog.Info("Bootstrapping MindShift",
		"db_driver", *flags.dbDriver, "dsn_set", *flags.dbDSN != "", "api_addr", *flags.apiAddr)
	if err := server.Run(); err != nil {
		slog.Error("MindShift failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("MindShift exited successfully")
}

// Config holds environment configuration
type Config struct {
	DbDriver       string
	DbDSN          string
	DatabaseURL    string
	StateDir       string
	OpenAIKey      string
	APIAddr        string
	AssistDisabled bool
}

// Flags holds command line flag values
type Flags struct {
	stateDir       *string
	dbDriver       *string
	dbDSN          *string
	openaiKey      *string
	apiAddr        *string
	assistDisabled *bool
}

// initializeLogger sets up structured logging with debug level
func initializeLogger() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		DbDriver:       os.Getenv("MINDSHIFT_DB_DRIVER"),
		DbDSN:          os.Getenv("MINDSHIFT_DB_DSN"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		StateDir:       util.GetenvDefault("MINDSHIFT_STATE_DIR", DefaultStateDir),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		APIAddr:        util.GetenvDefault("API_ADDR", api.DefaultAddr),
		AssistDisabled: util.ParseBoolEnv("MINDSHIFT_ASSIST_DISABLED", false),
	}

	// Fall back to DATABASE_URL when the specific DSN is not set
	if config.DbDSN == "" {
		config.DbDSN = config.DatabaseURL
	}
	return config
}

// parseCommandLineFlags parses flags with environment values as defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		stateDir:       flag.String("state-dir", config.StateDir, "Directory for MindShift state data"),
		dbDriver:       flag.String("db-driver", config.DbDriver, "Session store driver: sqlite3, postgres, or redis"),
		dbDSN:          flag.String("db-dsn", config.DbDSN, "Session store DSN"),
		openaiKey:      flag.String("openai-key", config.OpenAIKey, "OpenAI API key for the assistance gateway"),
		apiAddr:        flag.String("api-addr", config.APIAddr, "API listen address"),
		assistDisabled: flag.Bool("assist-disabled", config.AssistDisabled, "Disable the language model assistance gateway"),
	}
	flag.Parse()
	return flags
}

// buildStore selects and initializes the session store backend. With no
// driver configured, SQLite under the state directory is the default; an
// explicitly empty driver with no DSN falls back to in-memory.
func buildStore(flags Flags) (store.Store, error) {
	driver := *flags.dbDriver
	dsn := *flags.dbDSN

	if driver == "" {
		if dsn == "" {
			driver = "sqlite3"
			dsn = filepath.Join(*flags.stateDir, DefaultDBFileName)
		} else {
			// Infer from DSN shape when only a connection string is given.
			driver = "postgres"
		}
	}

	switch driver {
	case "sqlite3":
		if dsn == "" {
			dsn = filepath.Join(*flags.stateDir, DefaultDBFileName)
		}
		slog.Info("Using SQLite session store", "path", dsn)
		return store.NewSQLiteStore(store.WithDSN(dsn))
	case "postgres":
		slog.Info("Using PostgreSQL session store")
		return store.NewPostgresStore(store.WithDSN(dsn))
	case "redis":
		slog.Info("Using Redis session store")
		return store.NewRedisStore(store.WithDSN(dsn))
	case "memory":
		slog.Info("Using in-memory session store")
		return store.NewInMemoryStore(), nil
	default:
		slog.Warn("Unknown db driver, using in-memory session store", "driver", driver)
		return store.NewInMemoryStore(), nil
	}
}

// buildGateway initializes the assistance gateway. Without an API key, or
// when explicitly disabled, the gateway runs on local fallbacks only.
func buildGateway(flags Flags) flow.Gateway {
	if *flags.assistDisabled {
		slog.Info("Assistance gateway disabled by configuration")
		return flow.NewAssistanceGateway(nil)
	}
	var opts []genai.Option
	if *flags.openaiKey != "" {
		opts = append(opts, genai.WithAPIKey(*flags.openaiKey))
	}
	client, err := genai.NewClient(opts...)
	if err != nil {
		slog.Warn("Assistance gateway provider unavailable, using local fallbacks", "error", err)
		return flow.NewAssistanceGateway(nil)
	}
	return flow.NewAssistanceGateway(client)
}
