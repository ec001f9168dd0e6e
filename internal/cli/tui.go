package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/almanac/pkg/almanac"
	errs "github.com/matzehuels/almanac/pkg/errors"
	"github.com/matzehuels/almanac/pkg/pipeline"
)

// Progress bar styles
var (
	barFullStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle = lipgloss.NewStyle().Foreground(colorDim)
	tuiHelpStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	barWidth     = 40
	tuiTickEvery = 100 * time.Millisecond
)

// =============================================================================
// ScanModel - Live ranged-scan progress
// =============================================================================

type (
	tickMsg      time.Time
	rangeDoneMsg almanac.RangeResult
	scanDoneMsg  struct {
		res *pipeline.Result
		err error
	}
)

// rangeRow is one seed range in the progress table.
type rangeRow struct {
	r        almanac.SeedRange
	done     bool
	min      uint64
	duration time.Duration
}

// ScanModel is the bubbletea model for the ranged-scan progress view.
type ScanModel struct {
	Rows   []rangeRow
	Total  uint64
	Result *pipeline.Result
	Err    error

	evaluated *atomic.Uint64
	cancel    context.CancelFunc
	start     time.Time
	now       time.Time
	finished  bool
}

// NewScanModel creates a model for the given ranges. evaluated is advanced by
// the scan's progress callback; cancel aborts the scan when the user quits.
func NewScanModel(ranges []almanac.SeedRange, evaluated *atomic.Uint64, cancel context.CancelFunc) ScanModel {
	m := ScanModel{
		Rows:      make([]rangeRow, len(ranges)),
		evaluated: evaluated,
		cancel:    cancel,
		start:     time.Now(),
	}
	m.now = m.start
	for i, r := range ranges {
		m.Rows[i] = rangeRow{r: r}
		m.Total += r.Length
	}
	return m
}

func tick() tea.Cmd {
	return tea.Tick(tuiTickEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m ScanModel) Init() tea.Cmd {
	return tick()
}

func (m ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			m.Err = errs.FromContext(context.Canceled, "scan aborted")
			m.finished = true
			return m, tea.Quit
		}
	case tickMsg:
		m.now = time.Time(msg)
		if m.finished {
			return m, nil
		}
		return m, tick()
	case rangeDoneMsg:
		if msg.Index >= 0 && msg.Index < len(m.Rows) {
			row := &m.Rows[msg.Index]
			row.done, row.min, row.duration = true, msg.Min, msg.Duration
		}
	case scanDoneMsg:
		m.Result, m.Err, m.finished = msg.res, msg.err, true
		m.now = time.Now()
		return m, tea.Quit
	}
	return m, nil
}

func (m ScanModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Ranged scan"))
	b.WriteString("\n\n")

	done := m.evaluated.Load()
	if m.Result != nil {
		done = m.Total
	}
	b.WriteString(progressBar(done, m.Total, barWidth))
	elapsed := m.now.Sub(m.start)
	fmt.Fprintf(&b, "  %s  %s/%s  %s\n\n",
		StyleNumber.Render(percent(done, m.Total)),
		formatCount(done), formatCount(m.Total),
		StyleDim.Render(elapsed.Round(100*time.Millisecond).String()))

	rows := make([][]string, len(m.Rows))
	for i, row := range m.Rows {
		minCell, timeCell := "…", ""
		if row.done {
			minCell = fmt.Sprint(row.min)
			timeCell = row.duration.Round(time.Millisecond).String()
		} else if row.r.Length == 0 {
			minCell = "empty"
		}
		rows[i] = []string{fmt.Sprint(i), fmt.Sprint(row.r.Start), formatCount(row.r.Length), minCell, timeCell}
	}
	b.WriteString(rangeTable(rows))
	b.WriteString("\n\n")

	switch {
	case m.Result != nil:
		b.WriteString(StyleSuccess.Render(iconSuccess+" lowest location ") + StyleNumber.Render(fmt.Sprint(m.Result.Location)))
	case m.Err != nil:
		b.WriteString(styleIconError.Render(iconError + " " + errs.UserMessage(m.Err)))
	default:
		b.WriteString(tuiHelpStyle.Render("q quit"))
	}
	b.WriteString("\n")
	return b.String()
}

// progressBar renders a fixed-width bar for done/total.
func progressBar(done, total uint64, width int) string {
	filled := 0
	if total > 0 {
		filled = int(float64(width) * float64(done) / float64(total))
	}
	filled = min(max(filled, 0), width)
	return barFullStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// solveTUI runs a ranged scan under the interactive progress view.
func (c *CLI) solveTUI(cmd *cobra.Command, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	a, err := almanac.ParseString(string(opts.Input))
	if err != nil {
		return nil, err
	}
	ranges, err := a.SeedRanges()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var evaluated atomic.Uint64
	p := tea.NewProgram(NewScanModel(ranges, &evaluated, cancel), tea.WithOutput(cmd.ErrOrStderr()))

	opts.OnProgress = func(n uint64) { evaluated.Add(n) }
	opts.OnRange = func(r almanac.RangeResult) { p.Send(rangeDoneMsg(r)) }
	// Log lines would tear the view.
	opts.Logger = log.New(io.Discard)

	go func() {
		res, err := runner.Execute(ctx, opts)
		p.Send(scanDoneMsg{res: res, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("progress view: %w", err)
	}
	m := final.(ScanModel)
	return m.Result, m.Err
}
