package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/blocktower/pkg/errors"
	"github.com/matzehuels/blocktower/pkg/pipeline"
	"github.com/matzehuels/blocktower/pkg/scene"
	"github.com/matzehuels/blocktower/pkg/source"
)

// topTxCount is the number of transactions listed beside the grid.
const topTxCount = 8

const (
	cellFilled = "██"
	cellEmpty  = "· "
)

// =============================================================================
// watchModel - live block view
// =============================================================================

// watchModel is the bubbletea model behind `blocktower watch`.
type watchModel struct {
	ctx      context.Context
	live     *pipeline.Live
	interval time.Duration

	snap    scene.Snapshot
	delta   source.Delta
	updated time.Time
	err     error
	loaded  bool
}

type snapshotMsg struct {
	snap  scene.Snapshot
	delta source.Delta
	at    time.Time
}

type refreshErrMsg struct{ err error }

type tickMsg struct{}

func newWatchModel(ctx context.Context, live *pipeline.Live, interval time.Duration) watchModel {
	return watchModel{ctx: ctx, live: live, interval: interval}
}

func (m watchModel) Init() tea.Cmd {
	return m.refresh()
}

// refresh polls the source once off the UI goroutine.
func (m watchModel) refresh() tea.Cmd {
	return func() tea.Msg {
		delta, err := m.live.Refresh(m.ctx)
		if err != nil {
			return refreshErrMsg{err}
		}
		return snapshotMsg{snap: m.live.Snapshot(), delta: delta, at: time.Now()}
	}
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case snapshotMsg:
		m.snap = msg.snap
		if !msg.delta.Empty() {
			m.delta = msg.delta
			m.updated = msg.at
		}
		m.err = nil
		m.loaded = true
		return m, m.tick()
	case refreshErrMsg:
		m.err = msg.err
		return m, m.tick()
	case tickMsg:
		return m, m.refresh()
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("blocktower") + " " + StyleDim.Render(m.live.Source().Name()))
	b.WriteString("\n\n")

	if !m.loaded && m.err == nil {
		b.WriteString(StyleDim.Render("loading..."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, renderGrid(m.snap), "  ", renderTopTxs(m.snap)))
	b.WriteString("\n\n")
	b.WriteString(renderSummary(m.snap, m.delta, m.updated))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + errors.UserMessage(m.err))
		b.WriteString("\n")
	}
	b.WriteString(StyleDim.Render("q quit"))
	return b.String()
}

// =============================================================================
// Rendering
// =============================================================================

// renderGrid draws the snapshot with the same orientation as the SVG sink:
// grid x runs down the screen and grid y runs right to left.
func renderGrid(snap scene.Snapshot) string {
	cols := max(snap.Rows, snap.GridWidth)
	rates := make(map[[2]int]float64)
	for _, it := range snap.Items {
		sq := it.Grid
		for x := sq.X; x < sq.Right(); x++ {
			for y := sq.Y; y < sq.Top(); y++ {
				rates[[2]int{x, y}] = it.Tx.Rate()
			}
		}
	}

	lines := make([]string, 0, snap.GridWidth)
	for x := 0; x < snap.GridWidth; x++ {
		var line strings.Builder
		for y := cols - 1; y >= 0; y-- {
			if rate, ok := rates[[2]int{x, y}]; ok {
				line.WriteString(feeStyle(rate).Render(cellFilled))
			} else {
				line.WriteString(StyleDim.Render(cellEmpty))
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// renderTopTxs lists the highest fee-rate transactions.
func renderTopTxs(snap scene.Snapshot) string {
	items := slices.Clone(snap.Items)
	slices.SortStableFunc(items, func(a, b scene.Item) int {
		switch ra, rb := a.Tx.Rate(), b.Tx.Rate(); {
		case ra > rb:
			return -1
		case ra < rb:
			return 1
		}
		return strings.Compare(a.Tx.ID, b.Tx.ID)
	})
	items = items[:min(len(items), topTxCount)]

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{shortID(it.Tx.ID), fmt.Sprintf("%.1f", it.Tx.Rate()), fmt.Sprintf("%d", it.Tx.VSize)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("txid", "sat/vB", "vB").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 1 && row < len(items) {
				return feeStyle(items[row].Tx.Rate())
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	return t.Render()
}

// renderSummary prints totals and the last change.
func renderSummary(snap scene.Snapshot, delta source.Delta, updated time.Time) string {
	parts := []string{
		fmt.Sprintf("%d txs", len(snap.Items)),
		fmt.Sprintf("%d rows", snap.Rows),
		formatVBytes(snap.TotalVSize()),
	}
	if fees := snap.TotalFees(); fees > 0 {
		parts = append(parts, fmt.Sprintf("%d sat", fees))
	}
	if !updated.IsZero() {
		parts = append(parts,
			fmt.Sprintf("+%d -%d ~%d", len(delta.Add), len(delta.Remove), len(delta.Change)),
			"updated "+updated.Format("15:04:05"))
	}
	return StyleDim.Render(strings.Join(parts, " · "))
}

// shortID abbreviates a txid to its first and last four characters.
func shortID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:4] + "…" + id[len(id)-4:]
}
