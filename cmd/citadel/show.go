package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/citadel/internal/app"
	"github.com/five82/citadel/internal/rickmorty"
	"github.com/five82/citadel/internal/state"
)

func newShowCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a character and its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return withEnv(cmd.Context(), flags, func(ctx context.Context, env *app.Env) error {
				var tracker state.DetailTracker
				ticket := tracker.Begin(id)
				c, err := env.Source.FetchCharacter(ctx, id)
				tracker.Resolve(ticket, c, err)

				d := tracker.Current()
				switch d.Status {
				case state.DetailNotFound:
					return fmt.Errorf("character %s: %w", id, rickmorty.ErrNotFound)
				case state.DetailFailed:
					return fmt.Errorf("fetch character %s: %w", id, d.Err)
				}
				out := cmd.OutOrStdout()
				printCharacter(out, d.Character, env.Favorites.IsFavorite(ctx, id))
				printComments(out, env.Comments.Load(ctx, id))
				return nil
			})
		},
	}
}

func printCharacter(w io.Writer, c rickmorty.Character, starred bool) {
	name := c.DisplayName()
	if starred {
		name = "★ " + name
	}
	fmt.Fprintln(w, name)
	fmt.Fprintf(w, "  Status:  %s\n", c.DisplayStatus())
	fmt.Fprintf(w, "  Species: %s\n", c.DisplaySpecies())
	fmt.Fprintf(w, "  Gender:  %s\n", c.DisplayGender())
	fmt.Fprintf(w, "  Origin:  %s\n", c.DisplayOrigin())
	if c.Image != "" {
		fmt.Fprintf(w, "  Image:   %s\n", c.Image)
	}
}

func printComments(w io.Writer, items []string) {
	fmt.Fprintf(w, "Comments (%d)\n", len(items))
	if len(items) == 0 {
		fmt.Fprintln(w, "No comments yet.")
		return
	}
	for i, text := range items {
		fmt.Fprintf(w, "  %d. %s\n", i, text)
	}
}

func newCommentCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Add, remove or list comments on a character",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <id> <text...>",
			Short: "Append a comment (blank text is ignored)",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withEnv(cmd.Context(), flags, func(ctx context.Context, env *app.Env) error {
					items, err := env.Comments.Add(ctx, args[0], strings.Join(args[1:], " "))
					if err != nil {
						return fmt.Errorf("add comment: %w", err)
					}
					printComments(cmd.OutOrStdout(), items)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "rm <id> <index>",
			Short: "Remove the comment at index (as shown by comment ls)",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				index, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("parse index %q: %w", args[1], err)
				}
				return withEnv(cmd.Context(), flags, func(ctx context.Context, env *app.Env) error {
					items, err := env.Comments.Remove(ctx, args[0], index)
					if err != nil {
						return fmt.Errorf("remove comment: %w", err)
					}
					printComments(cmd.OutOrStdout(), items)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "ls <id>",
			Short: "List comments",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withEnv(cmd.Context(), flags, func(ctx context.Context, env *app.Env) error {
					printComments(cmd.OutOrStdout(), env.Comments.Load(ctx, args[0]))
					return nil
				})
			},
		},
	)
	return cmd
}
