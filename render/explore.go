package render

import (
	"fmt"
	"sort"
	"strings"

	"codegnosis/scanner"

	tea "github.com/charmbracelet/bubbletea"
)

// exploreModel is the interactive graph browser state: a scrollable node list
// on the left, details for the selected node on the right.
type exploreModel struct {
	report *scanner.Report
	keys   []string
	cursor int
	offset int
	width  int
	height int
}

func newExploreModel(report *scanner.Report) exploreModel {
	keys := make([]string, 0, len(report.Files))
	for key := range report.Files {
		keys = append(keys, key)
	}
	// Most-imported first, then by name for a stable layout.
	sort.Slice(keys, func(i, j int) bool {
		a, b := report.Files[keys[i]], report.Files[keys[j]]
		if a.InboundCount != b.InboundCount {
			return a.InboundCount > b.InboundCount
		}
		return keys[i] < keys[j]
	})
	return exploreModel{
		report: report,
		keys:   keys,
		width:  GetTerminalWidth(),
		height: 24,
	}
}

func (m exploreModel) Init() tea.Cmd { return nil }

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.keys)-1 {
				m.cursor++
			}
		case "g":
			m.cursor = 0
		case "G":
			m.cursor = len(m.keys) - 1
		}
	}

	visible := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	return m, nil
}

func (m exploreModel) listHeight() int {
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

func (m exploreModel) View() string {
	if len(m.keys) == 0 {
		return "no files\n"
	}

	var sb strings.Builder
	title := fmt.Sprintf(" %s · %d files · score %d ",
		m.report.ProjectName,
		m.report.Summary.TotalFiles,
		m.report.Statistics.ConnectivityHealthScore)
	sb.WriteString(BoldWhite + title + Reset + "\n")
	sb.WriteString(DimWhite + strings.Repeat("─", min(m.width, 80)) + Reset + "\n")

	listWidth := m.width / 2
	if listWidth > 48 {
		listWidth = 48
	}

	selected := m.keys[m.cursor]
	detailLines := m.detailLines(selected)

	visible := m.listHeight()
	for i := 0; i < visible; i++ {
		idx := m.offset + i
		var left string
		if idx < len(m.keys) {
			key := m.keys[idx]
			detail := m.report.Files[key]
			label := key
			if len(label) > listWidth-10 {
				label = "…" + label[len(label)-(listWidth-11):]
			}
			marker := "  "
			if idx == m.cursor {
				marker = Bold + "▸ " + Reset
			}
			color := CategoryColor(detail.Category)
			left = fmt.Sprintf("%s%s%-*s%s %s%2d←%s", marker, color, listWidth-8, label, Reset, Dim, detail.InboundCount, Reset)
		} else {
			left = strings.Repeat(" ", listWidth)
		}

		right := ""
		if i < len(detailLines) {
			right = detailLines[i]
		}
		sb.WriteString(left + "  " + right + "\n")
	}

	sb.WriteString(DimWhite + " ↑/↓ move · g/G jump · q quit " + Reset + "\n")
	return sb.String()
}

// detailLines renders the right-hand pane for one node.
func (m exploreModel) detailLines(key string) []string {
	detail := m.report.Files[key]
	lines := []string{
		BoldWhite + key + Reset,
		fmt.Sprintf("%s%s%s · %s · %d lines", CategoryColor(detail.Category), detail.Category, Reset, detail.Size, detail.Lines),
		fmt.Sprintf("in %d · out %d · chain %d", detail.InboundCount, detail.OutboundCount, detail.ChainDepth),
	}
	if detail.IsEntryPoint {
		lines = append(lines, BoldGreen+"entry point"+Reset)
	}
	if detail.IsUnused {
		lines = append(lines, Yellow+"unreferenced"+Reset)
	}
	if detail.CycleParticipation > 0 {
		lines = append(lines, fmt.Sprintf("%sin %d cycle(s)%s", BoldRed, detail.CycleParticipation, Reset))
	}
	if len(detail.Imports) > 0 {
		lines = append(lines, "", Dim+"imports:"+Reset)
		for i, imp := range detail.Imports {
			if i >= 8 {
				lines = append(lines, fmt.Sprintf("  +%d more", len(detail.Imports)-i))
				break
			}
			lines = append(lines, "  "+imp)
		}
	}
	if len(detail.ImportedBy) > 0 {
		lines = append(lines, "", Dim+"imported by:"+Reset)
		for i, imp := range detail.ImportedBy {
			if i >= 8 {
				lines = append(lines, fmt.Sprintf("  +%d more", len(detail.ImportedBy)-i))
				break
			}
			lines = append(lines, "  "+imp)
		}
	}
	return lines
}

// Explore starts the interactive graph browser.
func Explore(report *scanner.Report) error {
	p := tea.NewProgram(newExploreModel(report), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
