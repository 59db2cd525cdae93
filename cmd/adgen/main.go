package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"adstudio/internal/adgen"
	"adstudio/internal/domain"
	"adstudio/internal/infra"
	"adstudio/internal/providers/video"
	"adstudio/internal/session"
)

// env holds everything a command needs once configuration is loaded.
type env struct {
	cfg      *infra.Config
	logger   infra.Logger
	backend  *video.Client
	auth     *session.AuthClient
	sessions *session.Accessor
}

func (e *env) submitter() *adgen.Submitter {
	return adgen.NewSubmitter(e.backend, e.sessions, adgen.Options{Logger: &e.logger, Timeout: e.cfg.SubmitTimeout})
}

func (e *env) resolver() *adgen.Resolver {
	return adgen.NewResolver(e.backend, adgen.Options{Logger: &e.logger, Timeout: e.cfg.RequestTimeout})
}

func (e *env) lister() *adgen.Lister {
	return adgen.NewLister(e.backend, e.sessions, adgen.Options{Logger: &e.logger, Timeout: e.cfg.RequestTimeout})
}

func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := infra.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger := infra.NewLogger(cfg.AppEnv)
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.WarnLevel)
	}

	store, err := session.NewFileStore(cfg.SessionFile)
	if err != nil {
		return nil, err
	}
	auth := session.NewAuthClient(session.AuthOptions{
		BaseURL:        cfg.AuthURL,
		AnonKey:        cfg.AuthAnonKey,
		Logger:         &logger,
		RequestTimeout: cfg.RequestTimeout,
	})
	return &env{
		cfg:    cfg,
		logger: logger,
		backend: video.NewClient(video.Options{
			BaseURL:        cfg.BackendURL,
			Logger:         &logger,
			RequestTimeout: cfg.SubmitTimeout,
		}),
		auth:     auth,
		sessions: session.NewAccessor(auth, store, &logger),
	}, nil
}

// explain turns taxonomy errors into an instruction for the terminal user.
func explain(err error) error {
	msg := domain.UserMessage(err)
	if errors.Is(err, domain.ErrNotAuthenticated) || errors.Is(err, domain.ErrSessionExpired) {
		return fmt.Errorf("%s Run `adgen login` and try again", msg)
	}
	return errors.New(msg)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "adgen",
		Short:         "Create AI advertisement videos from a product photo and a script",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "log backend calls")
	root.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newGenerateCmd(),
		newPreviewCmd(),
		newVideosCmd(),
	)
	return root
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
