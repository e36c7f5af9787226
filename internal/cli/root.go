// Package cli implements the console commands. Commands are thin: they
// parse input, call the session manager / list controller, and render.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/agri-dcp-console/internal/api"
	"github.com/noah-isme/agri-dcp-console/internal/session"
	"github.com/noah-isme/agri-dcp-console/internal/transport"
	"github.com/noah-isme/agri-dcp-console/pkg/config"
	appErrors "github.com/noah-isme/agri-dcp-console/pkg/errors"
	"github.com/noah-isme/agri-dcp-console/pkg/logger"
)

// Exit codes.
const (
	ExitOK              = 0
	ExitRequestFailed   = 1
	ExitUsage           = 2
	ExitUnauthenticated = 3
)

// App bundles the wired components every command needs.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Session *session.Manager
	API     *api.Client
}

var app *App

var rootCmd = &cobra.Command{
	Use:   "agri-console",
	Short: "Console client for the agricultural data-collection API",
	Long: `agri-console manages farmers, equipment, home gardens, CSA plots,
agro wells and poultry records against the data-collection server.

Examples:
  agri-console login --username admin
  agri-console list farmer --filter district=Anuradhapura
  agri-console list home-garden --farmer F-001 --page 2
  agri-console get farmer F-001
  agri-console export csa --format pdf -o csa.pdf`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if app != nil {
			return nil
		}
		built, err := newApp()
		if err != nil {
			return err
		}
		app = built
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
	rootCmd.AddCommand(listCmd, getCmd, createCmd, updateCmd, deleteCmd, exportCmd)
}

func newApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}

	validate := validator.New()
	sess := session.NewManager(cfg.API, store, validate, logr)

	tr := transport.New(cfg.API, sess, logr, transport.NewMetrics(), func() {
		fmt.Fprintln(os.Stderr, "session expired, please run: agri-console login")
	})

	return &App{
		Config:  cfg,
		Logger:  logr,
		Session: sess,
		API:     api.NewClient(tr, validate, logr),
	}, nil
}

func newStore(cfg *config.Config) (session.Store, error) {
	switch cfg.Session.StoreBackend {
	case config.SessionStoreRedis:
		store, err := session.NewRedisStore(cfg.Redis, cfg.Session.RedisProfile)
		if err != nil {
			return nil, fmt.Errorf("init redis session store: %w", err)
		}
		return store, nil
	default:
		return session.NewFileStore(cfg.Session.FilePath), nil
	}
}

// Execute runs the root command and maps errors onto exit codes.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", errorMessage(err))
		return exitCode(err)
	}
	return ExitOK
}

func errorMessage(err error) string {
	var typed *appErrors.Error
	if errors.As(err, &typed) {
		return typed.Message
	}
	return err.Error()
}

func exitCode(err error) int {
	switch {
	case appErrors.Is(err, appErrors.ErrSessionExpired),
		appErrors.Is(err, appErrors.ErrUnauthenticated),
		appErrors.Is(err, appErrors.ErrInvalidCredentials):
		return ExitUnauthenticated
	case appErrors.Is(err, appErrors.ErrValidation):
		return ExitUsage
	default:
		return ExitRequestFailed
	}
}
