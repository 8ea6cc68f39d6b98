package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/connectolab/graphmetrics/pkg/results"
	"github.com/connectolab/graphmetrics/pkg/tabular"
)

var (
	browseTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorCyan).
				MarginLeft(2).
				MarginTop(1)

	browseActiveTabStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWhite).
				Background(colorCyan).
				Padding(0, 2)

	browseInactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorDim).
				Padding(0, 2)

	browseContentStyle = lipgloss.NewStyle().
				MarginLeft(2).
				MarginTop(1)

	browseStatusStyle = lipgloss.NewStyle().
				Foreground(colorGray).
				MarginLeft(2)

	browseHelpStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			MarginTop(1).
			MarginLeft(2)
)

// browseTable is one metric table loaded from the results directory.
type browseTable struct {
	Metric  string
	Path    string
	Size    int64
	Columns []string
	Rows    [][]string
}

type browseKeyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Up       key.Binding
	Down     key.Binding
	Quit     key.Binding
}

var browseKeys = browseKeyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next table"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev table"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Up, k.Down, k.Quit}
}

func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab},
		{k.Up, k.Down},
		{k.Quit},
	}
}

type browseModel struct {
	tables   []browseTable
	active   int
	rowTable table.Model
	help     help.Model
	keys     browseKeyMap
	width    int
	height   int
}

func newBrowseModel(tables []browseTable) browseModel {
	m := browseModel{
		tables: tables,
		help:   help.New(),
		keys:   browseKeys,
	}
	m.rowTable = buildRowTable(tables[0], 0)
	return m
}

// buildRowTable constructs the bubbles table for one metric table.
// Column widths follow the widest cell, capped so wide tables still fit.
func buildRowTable(t browseTable, width int) table.Model {
	columns := make([]table.Column, len(t.Columns))
	for i, name := range t.Columns {
		w := len(name)
		for _, row := range t.Rows {
			if i < len(row) && len(row[i]) > w {
				w = len(row[i])
			}
		}
		if w > 24 {
			w = 24
		}
		columns[i] = table.Column{Title: name, Width: w + 2}
	}

	rows := make([]table.Row, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = table.Row(row)
	}

	height := 14
	if width > 0 && len(rows) < height {
		height = len(rows) + 1
	}

	tbl := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorCyan).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(colorWhite).
		Background(colorCyan).
		Bold(false)
	tbl.SetStyles(s)

	return tbl
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.active = (m.active + 1) % len(m.tables)
			m.rowTable = buildRowTable(m.tables[m.active], m.width)
			return m, nil

		case key.Matches(msg, m.keys.ShiftTab):
			m.active--
			if m.active < 0 {
				m.active = len(m.tables) - 1
			}
			m.rowTable = buildRowTable(m.tables[m.active], m.width)
			return m, nil
		}
	}

	m.rowTable, cmd = m.rowTable.Update(msg)
	return m, cmd
}

func (m browseModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var s strings.Builder

	s.WriteString(browseTitleStyle.Render("graphmetrics results browser"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	active := m.tables[m.active]
	s.WriteString(browseContentStyle.Render(m.rowTable.View()))
	s.WriteString("\n\n")
	s.WriteString(browseStatusStyle.Render(fmt.Sprintf("%s · %s rows · %s",
		active.Path,
		humanize.Comma(int64(len(active.Rows))),
		humanize.Bytes(uint64(active.Size)))))

	s.WriteString("\n")
	s.WriteString(browseHelpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m browseModel) renderTabs() string {
	rendered := make([]string, len(m.tables))
	for i, t := range m.tables {
		if i == m.active {
			rendered[i] = browseActiveTabStyle.Render(t.Metric)
		} else {
			rendered[i] = browseInactiveTabStyle.Render(t.Metric)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func newBrowseCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse metric tables in a terminal UI",
		Long:  "Browse opens an interactive terminal view over the CSV metric tables in a results directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := discoverTables(dir)
			if err != nil {
				return err
			}
			if len(tables) == 0 {
				return fmt.Errorf("no CSV metric tables in %s (run analyze first)", dir)
			}

			p := tea.NewProgram(newBrowseModel(tables), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("browser failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "results", "results directory")

	return cmd
}

// discoverTables loads every CSV metric table in dir, ordered the way
// the pipeline writes metrics. Unknown table names sort last.
func discoverTables(dir string) ([]browseTable, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read results directory: %w", err)
	}

	order := make(map[string]int)
	for i, metric := range results.AllMetrics() {
		order[metric] = i
	}

	tables := make([]browseTable, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		metric, ok := tabular.MetricFromFileName(entry.Name())
		if !ok {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		header, rows, err := tabular.ReadTableFile(path)
		if err != nil {
			return nil, err
		}

		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}

		tables = append(tables, browseTable{
			Metric:  metric,
			Path:    path,
			Size:    info.Size(),
			Columns: header,
			Rows:    rows,
		})
	}

	sort.Slice(tables, func(i, j int) bool {
		oi, iKnown := order[tables[i].Metric]
		oj, jKnown := order[tables[j].Metric]
		if iKnown != jKnown {
			return iKnown
		}
		if iKnown && jKnown && oi != oj {
			return oi < oj
		}
		return tables[i].Metric < tables[j].Metric
	})

	return tables, nil
}
