package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/citadel/internal/app"
	"github.com/five82/citadel/internal/route"
)

type globalFlags struct {
	configPath string
	prefsPath  string
	routePath  string
}

func (g *globalFlags) options() app.Options {
	return app.Options{ConfigPath: g.configPath, PrefsPath: g.prefsPath}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "citadel",
		Short: "Browse Rick and Morty characters, star favorites and keep notes",
		Long: `Citadel lists characters from the Rick and Morty GraphQL API.

Favorites and per-character comments are kept in a local store that every
running citadel shares, so a change made in one terminal shows up in the
others.

Run without arguments to start the interactive interface.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := route.Parse(flags.routePath)
			if r.Kind == route.KindUnknown {
				return fmt.Errorf("unknown route %q (want / or /character/<id>)", flags.routePath)
			}
			opts := flags.options()
			opts.Route = r
			return app.Run(cmd.Context(), opts)
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default ~/.config/citadel/config.toml)")
	root.PersistentFlags().StringVar(&flags.prefsPath, "prefs", "", "preferences file (default ~/.config/citadel/prefs.toml)")
	root.Flags().StringVar(&flags.routePath, "route", "/", "start at / or /character/<id>")

	root.AddCommand(
		newListCmd(flags),
		newShowCmd(flags),
		newFavCmd(flags),
		newCommentCmd(flags),
		newHomeCmd(flags),
		newLogsCmd(flags),
	)
	return root
}

// withEnv opens the shared components for the duration of fn.
func withEnv(ctx context.Context, flags *globalFlags, fn func(context.Context, *app.Env) error) (err error) {
	env, err := app.Open(ctx, flags.options())
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, env.Close())
	}()
	return fn(ctx, env)
}
