package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/coachvis/coachtree/pkg/coach"
	"github.com/coachvis/coachtree/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listRootStyle     = lipgloss.NewStyle().Foreground(colorYellow)
)

// browseCommand creates the browse command: an interactive terminal view of
// the coaching hierarchy.
func (c *CLI) browseCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "browse [rows file]",
		Short: "Browse a coaching tree interactively",
		Long: `Browse a coaching tree interactively in the terminal.

Coaches are listed level by level, lineage founders first. Selecting a coach
shows their season-by-season career history, most recent first, along with
the coaches they served under and the coordinators who served under them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0], noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, input string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	reg, _, err := runner.Build(ctx, pipeline.Options{Input: input})
	if err != nil {
		return err
	}
	coach.AssignLevels(reg)

	model := newBrowseModel(reg)
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

// browseEntry is one list row: a coach with its display depth.
type browseEntry struct {
	coach *coach.Coach
	root  bool
}

// browseModel is the bubbletea model for the hierarchy browser. It has two
// screens: the leveled list, and a detail view for the selected coach.
type browseModel struct {
	entries  []browseEntry
	registry coach.Registry
	cursor   int
	offset   int
	height   int
	detail   *coach.Coach
}

func newBrowseModel(reg coach.Registry) browseModel {
	var entries []browseEntry
	maxLevel := reg.MaxLevel()
	byLevel := make(map[int][]*coach.Coach)
	for _, c := range reg.Coaches() {
		byLevel[c.Level] = append(byLevel[c.Level], c)
	}
	roots := make(map[string]bool)
	for _, name := range coach.Roots(reg) {
		roots[name] = true
	}
	for level := 0; level <= maxLevel; level++ {
		for _, c := range byLevel[level] {
			entries = append(entries, browseEntry{coach: c, root: roots[c.Name]})
		}
	}
	return browseModel{entries: entries, registry: reg, height: 20}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.detail != nil {
				m.detail = nil
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.detail == nil && m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.detail == nil && m.cursor < len(m.entries)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			if m.detail == nil && len(m.entries) > 0 {
				m.detail = m.entries[m.cursor].coach
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m browseModel) View() string {
	if m.detail != nil {
		return m.detailView()
	}
	return m.listView()
}

func (m browseModel) listView() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Coaching Tree"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.entries) {
		end = len(m.entries)
	}

	lastLevel := -1
	for i := m.offset; i < end; i++ {
		e := m.entries[i]

		if e.coach.Level != lastLevel {
			b.WriteString(listDimStyle.Render(fmt.Sprintf("Level %d", e.coach.Level)))
			b.WriteString("\n")
			lastLevel = e.coach.Level
		}

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		marker := " "
		if e.root {
			marker = listRootStyle.Render("●")
		}

		line := fmt.Sprintf("%s%s %s %s", cursor,
			strings.Repeat("  ", e.coach.Level), marker, e.coach.Name)

		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %s lineage founder",
		m.cursor+1, len(m.entries), listRootStyle.Render("●"))))

	return b.String()
}

func (m browseModel) detailView() string {
	var b strings.Builder
	c := m.detail

	b.WriteString(StyleTitle.Render(c.Name))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("level %d", c.Level)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back  q quit"))
	b.WriteString("\n\n")

	b.WriteString(StyleValue.Render("Career"))
	b.WriteString("\n")
	for _, r := range c.History() {
		line := fmt.Sprintf("  %d  %-4s %-28s %s", r.Season, r.Team, r.Title, r.Record)
		if r.IsHeadCoach() {
			b.WriteString(listNormalStyle.Render(line))
		} else {
			b.WriteString(listDimStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if len(c.HeadCoaches) > 0 {
		b.WriteString("\n")
		b.WriteString(StyleValue.Render("Served under"))
		b.WriteString("\n")
		for _, name := range sortedSet(c.HeadCoaches) {
			b.WriteString(listDimStyle.Render("  " + name))
			b.WriteString("\n")
		}
	}
	if len(c.Coordinators) > 0 {
		b.WriteString("\n")
		b.WriteString(StyleValue.Render("Coordinators"))
		b.WriteString("\n")
		for _, name := range sortedSet(c.Coordinators) {
			b.WriteString(listDimStyle.Render("  " + name))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
