package main

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5F5FD7")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff453a")).
			Padding(0, 1)

	stageStyles = map[string]lipgloss.Style{
		"incubation": lipgloss.NewStyle().Foreground(lipgloss.Color("#ffd60a")),
		"grow":       lipgloss.NewStyle().Foreground(lipgloss.Color("#30d158")),
		"retired":    lipgloss.NewStyle().Foreground(lipgloss.Color("#8e8e93")),
	}
)

// Model defines the TUI state.
type Model struct {
	mainMenu    list.Model
	batchTable  table.Model
	batches     []Batch
	detail      *Batch
	overview    *Overview
	spinner     spinner.Model
	client      *ApiClient
	currentView string
	error       string
}

// item represents a main-menu entry.
type item struct {
	title, desc string
}

func (i item) FilterValue() string { return i.title }
func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }

func initialModel(client *ApiClient) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	items := []list.Item{
		item{title: "Batches", desc: "List batches and drill into one"},
		item{title: "Dashboard", desc: "Aggregate yield and contamination figures"},
		item{title: "Exit", desc: "Quit"},
	}
	mainMenu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "mushtrack"
	mainMenu.SetSize(60, 14)

	columns := []table.Column{
		{Title: "Label", Width: 14},
		{Title: "Stage", Width: 12},
		{Title: "Variety", Width: 18},
		{Title: "Units", Width: 6},
		{Title: "Contam", Width: 7},
		{Title: "Harvest kg", Width: 10},
	}
	batchTable := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	return Model{
		mainMenu:    mainMenu,
		batchTable:  batchTable,
		spinner:     s,
		client:      client,
		currentView: "main",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.EnterAltScreen)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "enter":
			if m.currentView == "main" {
				if selected, ok := m.mainMenu.SelectedItem().(item); ok {
					switch selected.title {
					case "Exit":
						return m, tea.Quit
					case "Batches":
						m.currentView = "batches"
						m.error = ""
						return m, fetchBatches(m.client)
					case "Dashboard":
						m.currentView = "dashboard"
						m.error = ""
						return m, fetchOverview(m.client)
					}
				}
			} else if m.currentView == "batches" {
				if i := m.batchTable.Cursor(); i >= 0 && i < len(m.batches) {
					m.detail = &m.batches[i]
					m.currentView = "detail"
				}
			}
		case "esc":
			switch m.currentView {
			case "detail":
				m.currentView = "batches"
				m.detail = nil
			case "batches", "dashboard":
				m.currentView = "main"
			}
		case "r":
			switch m.currentView {
			case "batches":
				return m, fetchBatches(m.client)
			case "dashboard":
				return m, fetchOverview(m.client)
			}
		}
	case batchesMsg:
		m.batches = msg.batches
		m.batchTable.SetRows(batchRows(msg.batches))
		m.error = ""
		return m, nil
	case overviewMsg:
		m.overview = msg.overview
		m.error = ""
		return m, nil
	case errorMsg:
		m.error = msg.err
		return m, nil
	}

	var cmd tea.Cmd
	switch m.currentView {
	case "main":
		m.mainMenu, cmd = m.mainMenu.Update(msg)
	case "batches":
		m.batchTable, cmd = m.batchTable.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	switch m.currentView {
	case "main":
		return docStyle.Render(m.mainMenu.View())
	case "batches":
		help := "\nPress 'enter' for details, 'r' to refresh, 'esc' to go back\n"
		if m.error != "" {
			help += errorStyle.Render(m.error) + "\n"
		}
		return docStyle.Render(titleStyle.Render("Batches") + "\n\n" + m.batchTable.View() + help)
	case "detail":
		if m.detail == nil {
			return docStyle.Render("No batch selected")
		}
		return docStyle.Render(batchDetailView(*m.detail))
	case "dashboard":
		if m.error != "" {
			return docStyle.Render(errorStyle.Render(m.error))
		}
		if m.overview == nil {
			return docStyle.Render(m.spinner.View() + " Loading dashboard...")
		}
		return docStyle.Render(dashboardView(*m.overview))
	default:
		return "Loading..."
	}
}

// Custom message types for the tea.Model
type batchesMsg struct {
	batches []Batch
}

type overviewMsg struct {
	overview *Overview
}

type errorMsg struct {
	err string
}

func fetchBatches(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		batches, err := client.ListBatches()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching batches: %v", err)}
		}
		return batchesMsg{batches: batches}
	}
}

func fetchOverview(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		overview, err := client.GetOverview()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching dashboard: %v", err)}
		}
		return overviewMsg{overview: overview}
	}
}

func batchRows(batches []Batch) []table.Row {
	rows := make([]table.Row, len(batches))
	for i, b := range batches {
		var harvest float64
		for _, h := range b.Harvests {
			harvest += h.Weight
		}
		rows[i] = table.Row{
			b.BatchLabel,
			b.Stage,
			b.Variety,
			fmt.Sprintf("%d", b.NumUnits),
			fmt.Sprintf("%d", b.ContaminatedUnits),
			fmt.Sprintf("%.2f", harvest),
		}
	}
	return rows
}

func batchDetailView(b Batch) string {
	view := titleStyle.Render(b.BatchLabel) + "\n\n"
	stage := b.Stage
	if style, ok := stageStyles[b.Stage]; ok {
		stage = style.Render(b.Stage)
	}
	view += fmt.Sprintf("Stage: %s\n", stage)
	view += fmt.Sprintf("Variety: %s\n", b.Variety)
	view += fmt.Sprintf("Substrate: %s\n", b.SubstrateRecipe)
	view += fmt.Sprintf("Supplier: %s\n", b.SpawnSupplier)
	view += fmt.Sprintf("Units: %d %s x %.2f kg\n", b.NumUnits, b.UnitType, b.UnitWeight)
	view += fmt.Sprintf("Contaminated: %d\n", b.ContaminatedUnits)
	view += fmt.Sprintf("Inoculated: %s\n", b.InoculationDate)
	if b.ColonisationCompleteDate != nil {
		view += fmt.Sprintf("Colonised: %s\n", *b.ColonisationCompleteDate)
	}
	if b.GrowRoomEntryDate != nil {
		view += fmt.Sprintf("Grow room entry: %s\n", *b.GrowRoomEntryDate)
	}
	if b.RetirementDate != nil {
		view += fmt.Sprintf("Retired: %s\n", *b.RetirementDate)
	}
	if b.ParentBatchID != nil {
		view += fmt.Sprintf("Split from: %s\n", *b.ParentBatchID)
	}

	if len(b.Harvests) > 0 {
		view += "\nHarvests:\n"
		var total float64
		for _, h := range b.Harvests {
			view += fmt.Sprintf("  %s  %.2f kg\n", h.Date, h.Weight)
			total += h.Weight
		}
		view += fmt.Sprintf("  total %.2f kg\n", total)
	}
	if b.Notes != "" {
		view += "\nNotes: " + b.Notes + "\n"
	}

	view += "\nPress 'esc' to go back to the list"
	return view
}

func dashboardView(o Overview) string {
	view := titleStyle.Render("Dashboard") + "\n\n"
	view += summaryBlock("All time", o.AllTime)
	view += "\n" + summaryBlock("Last 30 days", o.Last30Days)

	if len(o.WeeklyHarvests) > 0 {
		view += "\nHarvests this week:\n"
		varieties := make([]string, 0, len(o.WeeklyHarvests))
		for v := range o.WeeklyHarvests {
			varieties = append(varieties, v)
		}
		sort.Strings(varieties)
		for _, v := range varieties {
			view += fmt.Sprintf("  %s: %.2f kg\n", v, o.WeeklyHarvests[v])
		}
	}

	view += "\nPress 'r' to refresh, 'esc' to go back"
	return view
}

func summaryBlock(heading string, s Summary) string {
	view := heading + ":\n"
	view += fmt.Sprintf("  %d batches, %d units\n", s.Count, s.TotalUnits)
	view += fmt.Sprintf("  contamination %.1f%%, success %.1f%%\n", s.ContaminationRate, s.SuccessRate)
	view += fmt.Sprintf("  harvest %.2f kg, %.2f kg per successful unit\n", s.TotalHarvestWeight, s.YieldPerSuccessfulUnit)
	return view
}
