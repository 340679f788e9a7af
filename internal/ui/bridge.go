package ui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/citadel/internal/comments"
	"github.com/five82/citadel/internal/favorites"
)

type favoritesChangedMsg struct {
	set favorites.Set
}

type commentsChangedMsg struct {
	id    string
	items []string
}

// bridge turns store notifications, which arrive on whatever goroutine
// performed the write, into tea messages. Each channel holds only the latest
// value: a notification replaces one the program has not read yet.
type bridge struct {
	favorites chan favoritesChangedMsg
	comments  chan commentsChangedMsg

	mu             sync.Mutex
	cancelFavs     func()
	cancelComments func()
}

func newBridge() *bridge {
	return &bridge{
		favorites: make(chan favoritesChangedMsg, 1),
		comments:  make(chan commentsChangedMsg, 1),
	}
}

// offer sends v, replacing any value still waiting in ch. It never blocks.
func offer[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func (b *bridge) watchFavorites(mgr *favorites.Manager) {
	if mgr == nil {
		return
	}
	cancel := mgr.Watch(func(set favorites.Set) {
		offer(b.favorites, favoritesChangedMsg{set: set})
	})
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancelFavs != nil {
		b.cancelFavs()
	}
	b.cancelFavs = cancel
}

// watchComments follows the comment log of id, dropping the previous watch.
func (b *bridge) watchComments(mgr *comments.Manager, id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancelComments != nil {
		b.cancelComments()
		b.cancelComments = nil
	}
	if mgr == nil || id == "" {
		return
	}
	b.cancelComments = mgr.Watch(id, func(items []string) {
		offer(b.comments, commentsChangedMsg{id: id, items: items})
	})
}

// next waits for the following notification.
func (b *bridge) next(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.favorites:
			return msg
		case msg := <-b.comments:
			return msg
		case <-ctx.Done():
			return nil
		}
	}
}

func (b *bridge) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancelFavs != nil {
		b.cancelFavs()
		b.cancelFavs = nil
	}
	if b.cancelComments != nil {
		b.cancelComments()
		b.cancelComments = nil
	}
}
