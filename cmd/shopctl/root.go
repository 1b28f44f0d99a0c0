package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-storefront/logging"
	"go-storefront/mirror"
	"go-storefront/storefront"
)

type globalOptions struct {
	api     string
	mirror  string
	demo    bool
	verbose bool
	timeout time.Duration
}

// app is the storefront opened for the running command
type app struct {
	*storefront.Storefront
	ctx    context.Context
	cancel context.CancelFunc
}

func (a *app) close() {
	a.cancel()
	if err := a.Close(); err != nil {
		zap.L().Warn("failed to close mirror", zap.Error(err))
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "shopctl",
		Short:         "Jojo's storefront from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !opts.verbose {
				zap.ReplaceGlobals(zap.NewNop())
				return nil
			}
			_, err := logging.Setup("development", "")
			return err
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.api, "api", envOr("SHOP_API_URL", "http://localhost:8000"), "backend base URL")
	flags.StringVar(&opts.mirror, "mirror", envOr("SHOP_MIRROR", "storefront-mirror.db"), "local mirror: bolt file path, redis:// URL or \"memory\"")
	flags.BoolVar(&opts.demo, "demo", cast.ToBool(os.Getenv("DEMO_MODE")), "INSECURE demo mode for offline logins")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log engine activity")
	flags.DurationVar(&opts.timeout, "timeout", time.Minute, "overall time limit for the command")

	root.AddCommand(
		newProductsCmd(opts),
		newCartCmd(opts),
		newLoginCmd(opts),
		newRegisterCmd(opts),
		newGoogleCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
		newCheckoutCmd(opts),
		newSyncCmd(opts),
	)
	return root
}

// open builds the storefront for one command and loads the catalog
func open(cmd *cobra.Command, opts *globalOptions) (*app, error) {
	m, err := mirror.Open(opts.mirror)
	if err != nil {
		return nil, fmt.Errorf("failed to open mirror %s: %w", opts.mirror, err)
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	sf := storefront.Dial(ctx, opts.api, nil, m, storefront.Options{
		DemoMode:    opts.demo,
		PersistCart: true,
	})
	source := sf.Catalog.Load(ctx)
	zap.L().Debug("catalog loaded", zap.String("source", string(source)))
	if source != storefront.SourceRemote {
		fmt.Fprintf(cmd.ErrOrStderr(), "backend unavailable, working offline (%s)\n", source)
	}
	return &app{Storefront: sf, ctx: ctx, cancel: cancel}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
