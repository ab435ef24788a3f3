package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/maloquacious/goobcms/internal/accounts"
	"github.com/maloquacious/goobcms/internal/config"
	"github.com/maloquacious/goobcms/internal/edition"
	"github.com/maloquacious/goobcms/internal/handle"
	"github.com/maloquacious/goobcms/internal/install"
	"github.com/maloquacious/goobcms/internal/logger"
	"github.com/maloquacious/goobcms/internal/server"
	"github.com/maloquacious/goobcms/internal/state"
	"github.com/maloquacious/goobcms/internal/store"
	"github.com/maloquacious/goobcms/internal/store/sqlite"
	"github.com/maloquacious/semver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	version   = semver.Version{Minor: 1, PreRelease: "alpha", Build: semver.Commit()}
	buildDate = "" // set with -ldflags "-X main.buildDate=2006-01-02"
)

var (
	cfg       config.Config
	log       logger.Logger = logger.Default
	exitAfter time.Duration
	inputs    install.Inputs
)

func main() {
	var err error
	if cfg, err = config.Load(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:   "app",
		Short: "GoobCMS application server and admin CLI",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logger.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			log = logger.New(os.Stdout, level)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.StorePath, "store", cfg.StorePath, "directory holding the database")
	rootCmd.PersistentFlags().StringVar(&cfg.Edition, "edition", cfg.Edition, "product edition (community or pro)")
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	rootCmd.PersistentFlags().DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "graceful shutdown timeout")
	rootCmd.PersistentFlags().StringVar(&cfg.PublicDir, "public", cfg.PublicDir, "directory for static public assets")

	// serve command
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the GoobCMS server",
		RunE:  runServe,
	}
	serveCmd.Flags().IntVar(&cfg.Port, "port", cfg.Port, "public HTTP port (HTML)")
	serveCmd.Flags().IntVar(&cfg.AdminPort, "admin-port", cfg.AdminPort, "admin HTTP port (JSON, loopback only)")
	serveCmd.Flags().DurationVar(&exitAfter, "exit-after", 0, "optional runtime; if set, server exits after this duration (testing)")

	// db command group
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	dbCreateCmd := &cobra.Command{
		Use:   "create",
		Short: "Create the datastore and install the site",
		RunE:  runDBCreate,
	}
	dbCreateCmd.Flags().StringVar(&inputs.Username, "username", "", "admin username")
	dbCreateCmd.Flags().StringVar(&inputs.Email, "email", "", "admin email address")
	dbCreateCmd.Flags().StringVar(&inputs.Password, "password", "", "admin password")
	dbCreateCmd.Flags().StringVar(&inputs.SiteName, "site-name", "", "site name")
	dbCreateCmd.Flags().StringVar(&inputs.SiteURL, "site-url", "", "absolute site URL")
	dbCreateCmd.Flags().StringVar(&inputs.Language, "language", "en-US", "site language tag")
	dbCreateCmd.Flags().StringVar(&inputs.LicenseKey, "license-key", "", "license key (pro edition)")

	dbVerifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the datastore is installed and at this version",
		RunE:  runDBVerify,
	}

	dbCmd.AddCommand(dbCreateCmd, dbVerifyCmd)

	handleCmd := &cobra.Command{
		Use:   "handle TEXT...",
		Short: "Print the handle generated from TEXT",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), handle.Generate(strings.Join(args, " ")))
		},
	}

	rootCmd.AddCommand(serveCmd, dbCmd, handleCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// release returns the build being run.
func release() install.Release {
	build := version.Build
	if build == "" {
		build = "dev"
	}
	date := time.Now().UTC().Truncate(24 * time.Hour)
	if buildDate != "" {
		if t, err := time.Parse(time.DateOnly, buildDate); err == nil {
			date = t
		}
	}
	return install.Release{Version: store.ReleaseVersion(version.String()), Build: build, ReleaseDate: date}
}

func openStore() (*sqlite.SQLiteStore, error) {
	st := sqlite.New(store.GetDBPath(cfg.StorePath), version.String())
	if err := st.Open(); err != nil {
		return nil, err
	}
	return st, nil
}

func newInstaller(st *sqlite.SQLiteStore, reg prometheus.Registerer) (*install.Installer, error) {
	ed, err := edition.Lookup(cfg.Edition)
	if err != nil {
		return nil, err
	}
	return install.New(install.Options{
		Store:    st,
		Release:  release(),
		Edition:  ed,
		Accounts: accounts.New(cfg.BcryptCost, cfg.SessionTTL),
		Logger:   log,
		Metrics:  install.NewMetrics(reg),
	}), nil
}

// runServe starts both the public (HTML) and admin (JSON) servers with graceful shutdown.
func runServe(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// the installed flag is read once at startup and kept current by the installer
	installed, err := st.IsInstalled(ctx)
	if err != nil {
		return err
	}
	state.Global.Set(installed)
	if s, err := st.CheckState(ctx); err == nil && s == store.StateVersionMismatch {
		log.Warn("store was installed by a different version than %s", version.String())
	}

	reg := prometheus.NewRegistry()
	in, err := newInstaller(st, reg)
	if err != nil {
		return err
	}
	srv := server.New(server.Options{
		Version:   version.String(),
		PublicDir: cfg.PublicDir,
		Store:     st,
		Installer: in,
		Installed: state.Global,
		Gatherer:  reg,
		Logger:    log,
	})

	// optional run timer
	if exitAfter > 0 {
		log.Info("exit-after timer set: %s", exitAfter)
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, exitAfter)
		defer cancel()
	}

	return srv.ListenAndServe(ctx, cfg.Port, cfg.AdminPort, cfg.ShutdownTimeout)
}

func runDBCreate(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	in, err := newInstaller(st, nil)
	if err != nil {
		return err
	}
	rep, err := in.Run(cmd.Context(), inputs)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

func runDBVerify(cmd *cobra.Command, args []string) error {
	dbPath := store.GetDBPath(cfg.StorePath)
	exists, err := store.CheckExists(cfg.StorePath)
	if err != nil {
		return err
	}
	resp := map[string]string{
		"path":            dbPath,
		"expectedVersion": version.String(),
		"state":           store.StateMissing.String(),
	}
	if exists {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		s, err := st.CheckState(cmd.Context())
		if err != nil {
			return err
		}
		resp["state"] = s.String()
		if v, err := st.GetInstalledVersion(cmd.Context()); err == nil && v != "" {
			resp["installedVersion"] = v
		}
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
