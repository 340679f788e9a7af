package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/citadel/internal/comments"
	"github.com/five82/citadel/internal/favorites"
	"github.com/five82/citadel/internal/rickmorty"
	"github.com/five82/citadel/internal/state"
)

// Messages

type listLoadedMsg struct {
	err error
}

type detailMsg struct {
	ticket    state.Ticket
	character *rickmorty.Character
	err       error
}

type favoritesSavedMsg struct {
	set favorites.Set
	err error
}

type commentsSavedMsg struct {
	id    string
	items []string
	err   error
}

// Commands

func reloadCmd(ctx context.Context, reload func(context.Context) error) tea.Cmd {
	if reload == nil {
		return nil
	}
	return func() tea.Msg {
		return listLoadedMsg{err: reload(ctx)}
	}
}

func fetchDetailCmd(ctx context.Context, source rickmorty.CharacterSource, ticket state.Ticket) tea.Cmd {
	return func() tea.Msg {
		if source == nil {
			return detailMsg{ticket: ticket, err: rickmorty.ErrNotFound}
		}
		c, err := source.FetchCharacter(ctx, ticket.ID)
		return detailMsg{ticket: ticket, character: c, err: err}
	}
}

func toggleFavoriteCmd(ctx context.Context, mgr *favorites.Manager, id string) tea.Cmd {
	if mgr == nil || id == "" {
		return nil
	}
	return func() tea.Msg {
		set, err := mgr.Toggle(ctx, id)
		return favoritesSavedMsg{set: set, err: err}
	}
}

func addCommentCmd(ctx context.Context, mgr *comments.Manager, id, text string) tea.Cmd {
	if mgr == nil || id == "" {
		return nil
	}
	return func() tea.Msg {
		items, err := mgr.Add(ctx, id, text)
		return commentsSavedMsg{id: id, items: items, err: err}
	}
}

func removeCommentCmd(ctx context.Context, mgr *comments.Manager, id string, index int) tea.Cmd {
	if mgr == nil || id == "" {
		return nil
	}
	return func() tea.Msg {
		items, err := mgr.Remove(ctx, id, index)
		return commentsSavedMsg{id: id, items: items, err: err}
	}
}
