package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/harvester/pkg/model"
	"github.com/matzehuels/harvester/pkg/store"
)

const defaultWatchInterval = 2 * time.Second

// watchCommand creates the live status view.
func (c *CLI) watchCommand() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live view of worker checkpoints and collection sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(ctx context.Context, st store.Store) error {
				m := newWatchModel(storeSnapshot(ctx, st), interval)
				_, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
				return err
			})
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", defaultWatchInterval, "refresh interval")

	return cmd
}

// snapshot is one poll of the store.
type snapshot struct {
	Stages   []model.Stage
	Authors  int64
	Keywords int64
	Taken    time.Time
}

type snapshotMsg struct {
	snap snapshot
	err  error
}

type tickMsg time.Time

// storeSnapshot returns a poller reading stages and counts from st.
func storeSnapshot(ctx context.Context, st store.Store) func() (snapshot, error) {
	return func() (snapshot, error) {
		stages, err := st.Stages().List(ctx)
		if err != nil {
			return snapshot{}, err
		}
		authors, err := st.Authors().Count(ctx)
		if err != nil {
			return snapshot{}, err
		}
		keywords, err := st.Keywords().Count(ctx)
		if err != nil {
			return snapshot{}, err
		}
		return snapshot{Stages: stages, Authors: authors, Keywords: keywords, Taken: time.Now()}, nil
	}
}

// watchModel is the bubbletea model of the watch command.
type watchModel struct {
	poll     func() (snapshot, error)
	interval time.Duration

	current  snapshot
	previous snapshot
	err      error
	loaded   bool
}

func newWatchModel(poll func() (snapshot, error), interval time.Duration) watchModel {
	if interval <= 0 {
		interval = defaultWatchInterval
	}
	return watchModel{poll: poll, interval: interval}
}

func (m watchModel) fetch() tea.Msg {
	snap, err := m.poll()
	return snapshotMsg{snap: snap, err: err}
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m watchModel) Init() tea.Cmd {
	return m.fetch
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m, m.fetch
		}
	case tickMsg:
		return m, m.fetch
	case snapshotMsg:
		m.err = msg.err
		if msg.err == nil {
			if m.loaded {
				m.previous = m.current
			}
			m.current = msg.snap
			m.loaded = true
		}
		return m, m.tick()
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Harvester"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("r refresh  q quit"))
	b.WriteString("\n\n")

	if !m.loaded {
		if m.err != nil {
			b.WriteString(StyleWarning.Render("store unavailable: " + m.err.Error()))
		} else {
			b.WriteString(StyleDim.Render("loading..."))
		}
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(formatCounts(m.current.Authors, m.current.Keywords))
	if rate := m.authorRate(); rate != "" {
		b.WriteString(StyleDim.Render("  (" + rate + ")"))
	}
	b.WriteString("\n\n")

	if len(m.current.Stages) == 0 {
		b.WriteString(StyleDim.Render("no checkpoints yet"))
	} else {
		b.WriteString(renderTable([]string{"Worker", "Keyword", "Discovered"}, stageRows(m.current.Stages)))
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(StyleWarning.Render("last refresh failed: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(StyleDim.Render("updated " + m.current.Taken.Format("15:04:05")))
	b.WriteString("\n")
	return b.String()
}

// authorRate reports authors gained per minute between the last two polls.
func (m watchModel) authorRate() string {
	if m.previous.Taken.IsZero() {
		return ""
	}
	elapsed := m.current.Taken.Sub(m.previous.Taken)
	if elapsed <= 0 {
		return ""
	}
	perMin := float64(m.current.Authors-m.previous.Authors) / elapsed.Minutes()
	return fmt.Sprintf("%+.1f authors/min", perMin)
}
