package cli

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/harvester/pkg/model"
	"github.com/matzehuels/harvester/pkg/store/memory"
)

func TestWatchModelLoading(t *testing.T) {
	m := newWatchModel(func() (snapshot, error) { return snapshot{}, nil }, 0)
	if m.interval != defaultWatchInterval {
		t.Errorf("interval = %v, want default", m.interval)
	}
	if !strings.Contains(m.View(), "loading") {
		t.Errorf("View() before first poll = %q", m.View())
	}
}

func TestWatchModelSnapshot(t *testing.T) {
	m := newWatchModel(nil, time.Second)

	first := snapshot{Authors: 10, Keywords: 5, Taken: time.Unix(0, 0)}
	next, cmd := m.Update(snapshotMsg{snap: first})
	if cmd == nil {
		t.Error("snapshot should schedule the next tick")
	}
	m = next.(watchModel)

	second := snapshot{
		Stages:   []model.Stage{{Worker: model.SourceNPM, LastKeyword: model.Keyword{Value: "auth", Timestamp: 1}}},
		Authors:  40,
		Keywords: 9,
		Taken:    time.Unix(60, 0),
	}
	next, _ = m.Update(snapshotMsg{snap: second})
	m = next.(watchModel)

	view := m.View()
	for _, want := range []string{"40", "auth", "npm", "+30.0 authors/min"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestWatchModelPollError(t *testing.T) {
	m := newWatchModel(nil, time.Second)
	next, _ := m.Update(snapshotMsg{err: errors.New("connection refused")})

	if view := next.(watchModel).View(); !strings.Contains(view, "connection refused") {
		t.Errorf("View() = %q, want the error", view)
	}
}

func TestWatchModelQuit(t *testing.T) {
	m := newWatchModel(nil, time.Second)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not return tea.Quit")
	}
}

func TestStoreSnapshot(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	st.Keywords().Insert(ctx, model.Keyword{Value: "role"})
	st.Stages().Save(ctx, model.Stage{Worker: model.SourceGitHub, LastKeyword: model.Keyword{Value: "role"}})

	snap, err := storeSnapshot(ctx, st)()
	if err != nil {
		t.Fatal(err)
	}
	if snap.Keywords != 1 || snap.Authors != 0 || len(snap.Stages) != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
}
