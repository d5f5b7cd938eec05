package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
)

// App is the top-level Bubble Tea model that routes between pages.
type App struct {
	pages      map[string]Page
	order      []string
	activePage string
	zones      *zone.Manager
	width      int
	height     int
}

// NewApp creates a new App with the given pages. The first page is the
// default. zones may be nil, which disables mouse hit-testing.
func NewApp(zones *zone.Manager, pages ...Page) *App {
	pageMap := make(map[string]Page, len(pages))
	order := make([]string, 0, len(pages))
	for _, p := range pages {
		pageMap[p.ID()] = p
		order = append(order, p.ID())
	}
	var firstID string
	if len(order) > 0 {
		firstID = order[0]
	}
	return &App{
		pages:      pageMap,
		order:      order,
		activePage: firstID,
		zones:      zones,
	}
}

// ActivePage returns the ID of the page receiving input.
func (a *App) ActivePage() string {
	return a.activePage
}

func (a *App) Init() tea.Cmd {
	if p, ok := a.pages[a.activePage]; ok {
		return p.Init()
	}
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Every page tracks dimensions, not only the visible one.
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = wsm.Width
		a.height = wsm.Height

		var cmds []tea.Cmd
		for _, id := range a.order {
			cmd, _ := a.pages[id].Update(wsm)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)
	}

	// Timer messages belong to the page that scheduled them, even when the
	// user has since switched pages.
	if t, ok := msg.(targetedMsg); ok && t.targetPage() != a.activePage {
		if p, exists := a.pages[t.targetPage()]; exists {
			cmd, _ := p.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	p, ok := a.pages[a.activePage]
	if !ok {
		return a, nil
	}

	cmd, nav := p.Update(msg)

	if nav != nil {
		if _, exists := a.pages[nav.PageID]; exists {
			a.activePage = nav.PageID
			initCmd := a.pages[a.activePage].Init()
			return a, tea.Batch(cmd, initCmd)
		}
	}

	return a, cmd
}

func (a *App) View() string {
	p, ok := a.pages[a.activePage]
	if !ok {
		return "No active page"
	}
	view := p.View(a.width, a.height)
	if a.zones != nil {
		return a.zones.Scan(view)
	}
	return view
}
