package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/MarkoPoloResearchLab/realstay/internal/httpapi"
	"github.com/MarkoPoloResearchLab/realstay/internal/store/cachestore"
	"github.com/MarkoPoloResearchLab/realstay/internal/store/gormstore"
	"github.com/MarkoPoloResearchLab/realstay/internal/store/pgstore"
	"github.com/MarkoPoloResearchLab/realstay/internal/walletrpc"
	"github.com/MarkoPoloResearchLab/realstay/pkg/booking"
	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	flagDatabaseURL    = "database-url"
	flagStoreDriver    = "store-driver"
	flagListenAddr     = "listen-addr"
	flagGRPCHealthAddr = "grpc-health-addr"
	flagRedisAddr      = "redis-addr"
	flagCacheTTL       = "cache-ttl"
	flagWalletRPCURL   = "wallet-rpc-url"
	flagAllowedOrigins = "allowed-origins"
	flagJWTSigningKey  = "jwt-signing-key"
	flagJWTIssuer      = "jwt-issuer"
	flagJWTCookieName  = "jwt-cookie-name"
	flagRequestTimeout = "request-timeout"

	defaultDatabaseURL    = "sqlite:///tmp/realstay.db"
	defaultListenAddr     = ":8080"
	defaultAllowedOrigins = "http://localhost:5173"
	defaultCacheTTL       = 5 * time.Minute
	defaultRequestTimeout = 5 * time.Second

	storeDriverGorm = "gorm"
	storeDriverPGX  = "pgx"

	driverPostgres = "postgres"
	driverSQLite   = "sqlite"
)

// envBindings maps every flag to the environment variable that overrides it.
var envBindings = map[string]string{
	flagDatabaseURL:    "DATABASE_URL",
	flagStoreDriver:    "STORE_DRIVER",
	flagListenAddr:     "HTTP_LISTEN_ADDR",
	flagGRPCHealthAddr: "GRPC_HEALTH_ADDR",
	flagRedisAddr:      "REDIS_ADDR",
	flagCacheTTL:       "CACHE_TTL",
	flagWalletRPCURL:   "WALLET_RPC_URL",
	flagAllowedOrigins: "ALLOWED_ORIGINS",
	flagJWTSigningKey:  "JWT_SIGNING_KEY",
	flagJWTIssuer:      "JWT_ISSUER",
	flagJWTCookieName:  "JWT_COOKIE_NAME",
	flagRequestTimeout: "REQUEST_TIMEOUT",
}

type runtimeConfig struct {
	DatabaseURL  string
	StoreDriver  string
	RedisAddr    string
	CacheTTL     time.Duration
	WalletRPCURL string
	API          httpapi.Config
}

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "realstayd: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := &runtimeConfig{}
	cmd := &cobra.Command{
		Use:           "realstayd",
		Short:         "RealStay booking API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd, cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg)
		},
	}

	cmd.Flags().String(flagDatabaseURL, defaultDatabaseURL, "PostgreSQL connection string or sqlite path")
	cmd.Flags().String(flagStoreDriver, storeDriverGorm, "record store implementation (gorm | pgx)")
	cmd.Flags().String(flagListenAddr, defaultListenAddr, "HTTP listen address")
	cmd.Flags().String(flagGRPCHealthAddr, "", "gRPC health listen address (empty disables)")
	cmd.Flags().String(flagRedisAddr, "", "Redis address for the read cache (empty disables)")
	cmd.Flags().Duration(flagCacheTTL, defaultCacheTTL, "read cache entry lifetime")
	cmd.Flags().String(flagWalletRPCURL, "", "wallet JSON-RPC endpoint (empty means no wallet)")
	cmd.Flags().String(flagAllowedOrigins, defaultAllowedOrigins, "comma-separated list of allowed CORS origins")
	cmd.Flags().String(flagJWTSigningKey, "", "TAuth JWT signing key (required)")
	cmd.Flags().String(flagJWTIssuer, "tauth", "expected JWT issuer")
	cmd.Flags().String(flagJWTCookieName, "app_session", "JWT cookie name")
	cmd.Flags().Duration(flagRequestTimeout, defaultRequestTimeout, "per-request store timeout")

	return cmd
}

func loadConfig(cmd *cobra.Command, cfg *runtimeConfig) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for flagName, envName := range envBindings {
		if err := v.BindEnv(flagName, envName); err != nil {
			return err
		}
		if err := v.BindPFlag(flagName, cmd.Flags().Lookup(flagName)); err != nil {
			return err
		}
	}

	cfg.DatabaseURL = strings.TrimSpace(v.GetString(flagDatabaseURL))
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = defaultDatabaseURL
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(v.GetString(flagStoreDriver)))
	switch cfg.StoreDriver {
	case "":
		cfg.StoreDriver = storeDriverGorm
	case storeDriverGorm, storeDriverPGX:
	default:
		return fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
	cfg.RedisAddr = strings.TrimSpace(v.GetString(flagRedisAddr))
	cfg.CacheTTL = v.GetDuration(flagCacheTTL)
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	cfg.WalletRPCURL = strings.TrimSpace(v.GetString(flagWalletRPCURL))

	cfg.API = httpapi.Config{
		ListenAddr:        v.GetString(flagListenAddr),
		GRPCHealthAddr:    v.GetString(flagGRPCHealthAddr),
		AllowedOrigins:    httpapi.ParseAllowedOrigins(v.GetString(flagAllowedOrigins)),
		SessionSigningKey: v.GetString(flagJWTSigningKey),
		SessionIssuer:     v.GetString(flagJWTIssuer),
		SessionCookieName: v.GetString(flagJWTCookieName),
		RequestTimeout:    v.GetDuration(flagRequestTimeout),
	}
	return cfg.API.Validate()
}

func runServer(ctx context.Context, cfg *runtimeConfig) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	gormDB, cleanup, driver, err := openDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database open: %w", err)
	}
	defer func() { _ = cleanup() }()

	if err := prepareSchema(gormDB); err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg, gormDB, driver)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer func() { _ = client.Close() }()
		redisCache := cachestore.NewRedisCache(client)
		if pingErr := redisCache.Ping(ctx); pingErr != nil {
			return fmt.Errorf("redis ping: %w", pingErr)
		}
		store = cachestore.New(store, redisCache, cachestore.WithTTL(cfg.CacheTTL), cachestore.WithLogger(logger))
		logger.Info("read cache enabled", zap.String("redis_addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CacheTTL))
	}

	options := []booking.ServiceOption{
		booking.WithOperationLogger(httpapi.NewZapOperationLogger(logger)),
	}
	if client := walletrpc.New(cfg.WalletRPCURL); client != nil {
		options = append(options, booking.WithWallet(client))
		logger.Info("wallet capability enabled", zap.String("wallet_rpc_url", cfg.WalletRPCURL))
	}

	clock := func() time.Time { return time.Now().UTC() }
	service, err := booking.NewService(store, clock, options...)
	if err != nil {
		return fmt.Errorf("booking service init: %w", err)
	}

	return httpapi.Run(ctx, cfg.API, service, logger)
}

// openStore returns the record store selected by the store driver; pgx requires a PostgreSQL database.
func openStore(ctx context.Context, cfg *runtimeConfig, gormDB *gorm.DB, driver string) (booking.Store, func(), error) {
	if cfg.StoreDriver != storeDriverPGX {
		return gormstore.New(gormDB), func() {}, nil
	}
	if driver != driverPostgres {
		return nil, nil, fmt.Errorf("store driver %q requires a postgres database url", storeDriverPGX)
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("pgx ping: %w", err)
	}
	return pgstore.New(pool), pool.Close, nil
}

func openDatabase(ctx context.Context, dsn string) (*gorm.DB, func() error, string, error) {
	driver, sqlitePath, err := resolveDriver(dsn)
	if err != nil {
		return nil, nil, "", err
	}

	cfg := &gorm.Config{}
	var db *gorm.DB
	switch driver {
	case driverPostgres:
		db, err = gorm.Open(postgres.Open(dsn), cfg)
	case driverSQLite:
		db, err = gorm.Open(sqlite.Open(sqlitePath), cfg)
	default:
		return nil, nil, "", fmt.Errorf("unsupported database scheme %q", driver)
	}
	if err != nil {
		return nil, nil, "", err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, "", err
	}
	if driver == driverSQLite {
		sqlDB.SetMaxOpenConns(1)
	}
	cleanup := func() error { return sqlDB.Close() }
	return db.WithContext(ctx), cleanup, driver, nil
}

func resolveDriver(dsn string) (string, string, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return driverPostgres, "", nil
	}
	if strings.HasPrefix(dsn, "sqlite://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", "", fmt.Errorf("parse sqlite url: %w", err)
		}
		path := u.Path
		if path == "" {
			path = u.Host
		}
		if path == "" || path == "/" {
			path = "realstay.db"
		}
		sqlitePath, err := normalizeSQLitePath(path)
		return driverSQLite, sqlitePath, err
	}
	sqlitePath, err := normalizeSQLitePath(dsn)
	return driverSQLite, sqlitePath, err
}

func normalizeSQLitePath(path string) (string, error) {
	if path == ":memory:" {
		return path, nil
	}
	if strings.HasPrefix(path, "/") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", err
		}
		return path, nil
	}
	abs := filepath.Join(".", path)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", err
	}
	return abs, nil
}

// prepareSchema migrates both drivers; the pgx store reads the same tables.
func prepareSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(gormstore.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
