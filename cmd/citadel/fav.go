package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/citadel/internal/app"
	"github.com/five82/citadel/internal/favorites"
)

var errUnknownAction = errors.New("unknown favorite action")

func newFavCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fav",
		Short: "Star, unstar or list favorite characters",
	}

	action := func(use, short string) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withEnv(cmd.Context(), flags, func(ctx context.Context, env *app.Env) error {
					set, err := applyFav(ctx, env.Favorites, use, args[0])
					if err != nil {
						return err
					}
					return printFavorites(cmd.OutOrStdout(), set)
				})
			},
		}
	}

	cmd.AddCommand(
		action("toggle", "Star the character if unstarred, else unstar it"),
		action("add", "Star a character"),
		action("rm", "Unstar a character"),
		&cobra.Command{
			Use:   "ls",
			Short: "List favorite ids in the order they were starred",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withEnv(cmd.Context(), flags, func(ctx context.Context, env *app.Env) error {
					return printFavorites(cmd.OutOrStdout(), env.Favorites.Load(ctx))
				})
			},
		},
	)
	return cmd
}

func applyFav(ctx context.Context, mgr *favorites.Manager, action, id string) (favorites.Set, error) {
	var (
		set favorites.Set
		err error
	)
	switch action {
	case "toggle":
		set, err = mgr.Toggle(ctx, id)
	case "add":
		set, err = mgr.Add(ctx, id)
	case "rm":
		set, err = mgr.Remove(ctx, id)
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownAction, action)
	}
	if err != nil {
		return nil, fmt.Errorf("%s favorite: %w", action, err)
	}
	return set, nil
}
