package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/five82/citadel/internal/app"
	"github.com/five82/citadel/internal/favorites"
	"github.com/five82/citadel/internal/rickmorty"
	"github.com/five82/citadel/internal/route"
	"github.com/five82/citadel/internal/view"
)

func newListCmd(flags *globalFlags) *cobra.Command {
	var scope, species, search, sortOrder string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List characters grouped into starred and others",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := view.DefaultState()
			var err error
			if st.Scope, err = view.ParseScope(scope); err != nil {
				return err
			}
			if st.Sort, err = view.ParseSort(sortOrder); err != nil {
				return err
			}
			st.Species = view.ParseSpecies(species)
			st.Search = search

			return withEnv(cmd.Context(), flags, func(ctx context.Context, env *app.Env) error {
				if err := env.Reload(ctx); err != nil {
					return fmt.Errorf("fetch characters: %w", err)
				}
				res := view.Select(env.List.Snapshot().Characters, env.Favorites.Load(ctx), st, view.SidebarOptions)
				return printGroups(cmd.OutOrStdout(), res)
			})
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "all", "all, starred or others")
	cmd.Flags().StringVar(&species, "species", view.SpeciesAll, "All, Human, Alien or any exact species")
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive name filter")
	cmd.Flags().StringVar(&sortOrder, "sort", "a-z", "a-z or z-a")
	return cmd
}

func printGroups(w io.Writer, res view.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	group := func(title string, items []rickmorty.Character) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintln(tw, title)
		for _, c := range items {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", c.ID, c.DisplayName(), c.DisplaySpecies(), c.DisplayStatus())
		}
	}
	group("Starred", res.Starred)
	group("Characters", res.Others)
	if len(res.Items) == 0 {
		fmt.Fprintln(tw, "No characters match.")
	}
	return tw.Flush()
}

func newHomeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Print where the home view redirects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd.Context(), flags, func(ctx context.Context, env *app.Env) error {
				if err := env.Reload(ctx); err != nil {
					return fmt.Errorf("fetch characters: %w", err)
				}
				target, ok := route.HomeTarget(env.List.Snapshot().Characters, env.Favorites.Load(ctx))
				if !ok {
					target = route.Home
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), target.Path())
				return err
			})
		},
	}
}

func printFavorites(w io.Writer, set favorites.Set) error {
	if len(set) == 0 {
		_, err := fmt.Fprintln(w, "No favorites.")
		return err
	}
	for _, id := range set {
		if _, err := fmt.Fprintln(w, id); err != nil {
			return err
		}
	}
	return nil
}
