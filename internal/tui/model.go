// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/taja/internal/metrics"
	"github.com/verte-zerg/taja/internal/model"
	"github.com/verte-zerg/taja/internal/session"
	"github.com/verte-zerg/taja/internal/source"
)

const (
	tickInterval   = 250 * time.Millisecond
	defaultTimeout = 10 * time.Second
	sentenceLines  = 4
)

type sentencesMsg struct {
	sentences []model.Sentence
}

type tickMsg struct {
	generation uint64
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	config   model.Config
	ctrl     *session.Controller
	supplier source.Supplier
	logger   *slog.Logger

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	snap      session.Snapshot
	loading   bool
	showCaret bool
	armedGen  uint64

	width  int
	height int
}

// NewModel constructs a typing TUI model. Sentences are fetched from
// supplier once the program starts.
func NewModel(cfg model.Config, ctrl *session.Controller, supplier source.Supplier, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = currentWordStyle
	m := &Model{
		config:    cfg,
		ctrl:      ctrl,
		supplier:  supplier,
		logger:    logger,
		keys:      defaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		loading:   true,
		showCaret: cfg.ShowCaret,
	}
	ctrl.Subscribe(func(s session.Snapshot) {
		m.snap = s
	})
	m.snap = ctrl.Snapshot()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case sentencesMsg:
		m.loading = false
		if m.ctrl.State() == session.Idle {
			m.ctrl.Load(msg.sentences)
		} else {
			m.ctrl.Reload(msg.sentences)
		}
		return m, nil
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tickMsg:
		if !m.ctrl.TickLive(msg.generation) {
			return m, nil
		}
		m.snap = m.ctrl.Snapshot()
		return m, tick(msg.generation)
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case m.loading:
		return nil
	case key.Matches(msg, m.keys.Skip):
		m.ctrl.Skip()
		return nil
	case key.Matches(msg, m.keys.Reset):
		m.ctrl.Reset()
		return nil
	case key.Matches(msg, m.keys.Caret):
		m.showCaret = !m.showCaret
		return nil
	case key.Matches(msg, m.keys.Reload):
		m.ctrl.Reset()
		m.loading = true
		return tea.Batch(m.spinner.Tick, m.fetch())
	}

	switch msg.Type {
	case tea.KeyBackspace:
		m.ctrl.KeyPress(session.Key{Kind: session.KeyBackspace})
	case tea.KeyEnter:
		m.ctrl.KeyPress(session.Key{Kind: session.KeyEnter})
	case tea.KeySpace:
		m.ctrl.KeyPress(session.Key{Kind: session.KeySpace, Rune: ' '})
		m.ctrl.Type(" ")
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return nil
		}
		m.ctrl.KeyPress(session.Key{Kind: session.KeyRune, Rune: msg.Runes[0]})
		m.ctrl.Type(string(msg.Runes))
	default:
		return nil
	}
	return m.armTick()
}

// armTick starts a metrics tick loop for a newly started stopwatch run.
// Loops for earlier runs stop on their own at the next tick.
func (m *Model) armTick() tea.Cmd {
	if !m.snap.Running || m.snap.Generation == m.armedGen {
		return nil
	}
	m.armedGen = m.snap.Generation
	return tick(m.armedGen)
}

func tick(gen uint64) tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return tickMsg{generation: gen}
	})
}

func (m *Model) fetch() tea.Cmd {
	supplier := m.supplier
	logger := m.logger
	timeout := m.config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return sentencesMsg{sentences: source.Resolve(ctx, supplier, logger)}
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.loading || m.snap.State == session.Idle {
		return m.place(fmt.Sprintf("%s 문장을 불러오는 중…", m.spinner.View()))
	}

	contentWidth := int(float64(m.width) * 0.70)
	styled := buildStyledRunes(m.snap.Target, m.snap.Statuses, m.snap.Cursor, m.showCaret)
	lines := visibleLines(wrapStyledRunes(styled, contentWidth), m.snap.Cursor, sentenceLines)

	blocks := []string{
		m.renderStats(),
		"",
		joinLines(lines),
		"",
		m.renderDetails(),
	}
	if history := m.renderHistory(); history != "" {
		blocks = append(blocks, "", history)
	}
	blocks = append(blocks, "", footerStyle.Render(m.help.View(m.keys)))
	return m.place(lipgloss.JoinVertical(lipgloss.Left, blocks...))
}

func (m *Model) place(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) renderStats() string {
	metric := m.snap.Metrics
	segments := []string{
		labelStyle.Render("타수 ") + valueStyle.Render(fmt.Sprintf("%d", metric.CharsPerMinute)),
		labelStyle.Render("정확도 ") + valueStyle.Render(metrics.FormatPercent(metric.AccuracyPercent)+"%"),
		labelStyle.Render("시간 ") + valueStyle.Render(fmt.Sprintf("%ds", metric.ElapsedSeconds)),
		labelStyle.Render(fmt.Sprintf("%d/%d", m.snap.Index+1, m.snap.Total)),
	}
	return strings.Join(segments, "   ")
}

func (m *Model) renderDetails() string {
	sentence := m.snap.Sentence
	author := "작성자: " + sentence.Author
	if sentence.Profile != "" {
		author += " · " + sentence.Profile
	}
	word := m.snap.CurrentWord
	if word == "" {
		word = "—"
	}
	next := "다음: —"
	if m.snap.HasNext {
		next = "다음: " + m.snap.Next.Text
	}
	return labelStyle.Render(strings.Join([]string{
		author,
		"현재 어절: " + word,
		next,
	}, "\n"))
}

func (m *Model) renderHistory() string {
	if len(m.snap.History) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.snap.History)+1)
	lines = append(lines, labelStyle.Render("최근 기록"))
	for _, entry := range m.snap.History {
		lines = append(lines, historyStyle.Render("· "+entry))
	}
	return strings.Join(lines, "\n")
}
