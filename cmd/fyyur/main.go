//nolint:lll,gocyclo,forbidigo
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sentriz/gormstore"
	"go.senan.xyz/flagconf"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"go.senan.xyz/fyyur"
	"go.senan.xyz/fyyur/db"
	"go.senan.xyz/fyyur/events"
	"go.senan.xyz/fyyur/ratelimit"
	"go.senan.xyz/fyyur/seed"
	"go.senan.xyz/fyyur/server/ctrlapi"
	"go.senan.xyz/fyyur/server/ctrlbase"
	"go.senan.xyz/fyyur/server/ctrlweb"
)

func main() {
	confListenAddr := flag.String("listen-addr", "0.0.0.0:5000", "listen address (optional)")

	confDBDialect := flag.String("db-dialect", string(db.DialectSQLite), "database dialect, one of sqlite3, postgres, mysql (optional)")
	confDBDSN := flag.String("db-dsn", "fyyur.db", "database dsn or path (optional)")

	confProxyPrefix := flag.String("proxy-prefix", "", "url path prefix to use if behind proxy. eg '/fyyur' (optional)")
	confHTTPLog := flag.Bool("http-log", true, "http request logging (optional)")

	confSeedPath := flag.String("seed-path", "", "path to a yaml fixtures file to load into an empty database (optional)")

	confRedisAddr := flag.String("redis-addr", "", "redis address for rate limiting form submissions (optional)")
	confRateLimit := flag.Int("rate-limit", 30, "form submissions allowed per client per minute when redis is set (optional)")

	confAMQPURL := flag.String("amqp-url", "", "amqp url to publish listing events to (optional)")
	confAMQPExchange := flag.String("amqp-exchange", "fyyur.listings", "amqp topic exchange for listing events (optional)")

	confLogDebug := flag.Bool("log-debug", false, "verbose logging, including sql (optional)")

	confShowVersion := flag.Bool("version", false, "show fyyur version")
	confConfigPath := flag.String("config-path", "", "path to config (optional)")
	confEnvPath := flag.String("env-path", ".env", "path to a dotenv file (optional)")

	flag.Parse()
	// loaded between the command line and flagconf, so that variables in the
	// env file still lose to flags but win over the config file
	if err := loadEnvFile(*confEnvPath); err != nil {
		log.Fatalf("error loading env file: %v\n", err)
	}
	flagconf.ParseEnv()
	flagconf.ParseConfig(*confConfigPath)

	if *confShowVersion {
		fmt.Printf("v%s\n", fyyur.Version)
		os.Exit(0)
	}

	logConfig := zap.NewProductionConfig()
	if *confLogDebug {
		logConfig = zap.NewDevelopmentConfig()
		logConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := logConfig.Build()
	if err != nil {
		log.Fatalf("error building logger: %v\n", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)
	logs := zap.S()

	dialect, err := db.ParseDialect(*confDBDialect)
	if err != nil {
		logs.Fatalw("parsing database dialect", "err", err)
	}
	dbc, err := db.New(dialect, *confDBDSN)
	if err != nil {
		logs.Fatalw("opening database", "err", err)
	}
	defer dbc.Close()
	dbc.LogMode(*confLogDebug)

	if err := dbc.Migrate(); err != nil {
		logs.Fatalw("migrating database", "err", err)
	}

	if *confSeedPath != "" {
		fixtures, err := seed.Load(*confSeedPath)
		if err != nil {
			logs.Fatalw("loading fixtures", "path", *confSeedPath, "err", err)
		}
		switch err := seed.Apply(dbc, fixtures); {
		case errors.Is(err, seed.ErrNotEmpty):
			logs.Infow("database already has listings, not seeding", "path", *confSeedPath)
		case err != nil:
			logs.Fatalw("seeding database", "path", *confSeedPath, "err", err)
		}
	}

	proxyPrefixExpr := regexp.MustCompile(`^\/*(.*?)\/*$`)
	*confProxyPrefix = proxyPrefixExpr.ReplaceAllString(*confProxyPrefix, `/$1`)
	if *confProxyPrefix == "/" {
		*confProxyPrefix = ""
	}

	logs.Infow("starting fyyur", "version", fyyur.Version)
	flag.VisitAll(func(f *flag.Flag) {
		logs.Infow("provided config", "name", f.Name, "value", f.Value.String())
	})

	sessKey, err := dbc.SessionSecret()
	if err != nil {
		logs.Fatalw("getting session key", "err", err)
	}
	sessDB := gormstore.New(dbc.DB, sessKey)
	sessDB.SessionOpts.HttpOnly = true
	sessDB.SessionOpts.SameSite = http.SameSiteLaxMode
	sessDB.SessionOpts.Path = *confProxyPrefix + "/"

	var publisher events.Publisher = events.Nop{}
	if *confAMQPURL != "" {
		amqpPublisher, err := events.DialAMQP(*confAMQPURL, *confAMQPExchange)
		if err != nil {
			logs.Fatalw("connecting to amqp", "err", err)
		}
		publisher = amqpPublisher
	}
	defer publisher.Close()

	ctrlBase := &ctrlbase.Controller{
		DB:          dbc,
		Events:      publisher,
		ProxyPrefix: *confProxyPrefix,
		Now:         time.Now,
	}
	ctrlWeb, err := ctrlweb.New(ctrlBase, sessDB)
	if err != nil {
		logs.Fatalw("creating web controller", "err", err)
	}
	ctrlAPI := ctrlapi.New(ctrlBase)

	router := mux.NewRouter()
	ctrlbase.AddRoutes(ctrlBase, router, *confHTTPLog)
	ctrlapi.AddRoutes(ctrlAPI, router.PathPrefix("/api").Subrouter())
	webRouter := router.NewRoute().Subrouter()

	if *confRedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: *confRedisAddr})
		defer redisClient.Close()
		limiter := ratelimit.New(ratelimit.NewRedisStore(redisClient, fyyur.Name+":ratelimit:"), *confRateLimit, time.Minute)
		webRouter.Use(limiter.Middleware)
	}
	ctrlweb.AddRoutes(ctrlWeb, webRouter)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logs.Infow("starting job", "job", "http", "addr", *confListenAddr)
		server := &http.Server{
			Addr:              *confListenAddr,
			Handler:           router,
			ReadTimeout:       5 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      80 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
		errc := make(chan error, 1)
		go func() { errc <- server.ListenAndServe() }()
		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		logs.Infow("starting job", "job", "session clean")
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sessDB.Cleanup()
			case <-ctx.Done():
				return nil
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logs.Fatalw("error in job", "err", err)
	}
	logs.Info("shut down")
}

// loadEnvFile sets variables from a dotenv file without overriding ones already
// in the environment. a missing file is not an error
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %q: %w", path, err)
	}
	return nil
}
