// seehuhn.de/go/aqt - a client library for out-of-process plot viewers
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/exp/slices"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/aqt/event"
	"seehuhn.de/go/aqt/graphic"
	"seehuhn.de/go/aqt/internal/float"
	"seehuhn.de/go/aqt/renderer"
)

const (
	sidebarWidth = 30
	headerHeight = 1
	footerHeight = 1
	tableHeight  = 6
)

var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	borderCol = lipgloss.Color("#243141")

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
)

// plotsChangedMsg is sent whenever the server state changes.
type plotsChangedMsg struct{}

type plotItem struct {
	info renderer.PlotInfo
}

func (p plotItem) Title() string {
	title := p.info.Title
	if title == "" {
		title = fmt.Sprintf("plot %d", p.info.ID.Ref)
	}
	switch {
	case p.info.Detached:
		title += " (closed)"
	case p.info.Accepting:
		title += " *"
	}
	return title
}

func (p plotItem) Description() string {
	client := p.info.Client
	if client == "" {
		client = "disconnected"
	}
	return fmt.Sprintf("%s, %d objects", client, p.info.Len)
}

func (p plotItem) FilterValue() string { return p.Title() }

type model struct {
	srv  *renderer.Server
	addr string

	width  int
	height int

	plots   list.Model
	objects table.Model

	current  renderer.PlotID
	hasPlot  bool
	snapshot *graphic.Model

	pointer vec.Vec2
	status  string
}

func newModel(srv *renderer.Server, addr string) model {
	m := model{
		srv:    srv,
		addr:   addr,
		status: "listening on " + addr,
	}
	d := list.NewDefaultDelegate()
	m.plots = list.New(nil, d, 0, 0)
	m.plots.Title = "Plots"
	m.plots.SetShowHelp(false)
	m.plots.SetShowStatusBar(false)
	m.plots.SetFilteringEnabled(false)

	m.objects = table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "kind", Width: 8},
			{Title: "points", Width: 7},
			{Title: "width", Width: 6},
			{Title: "color", Width: 26},
		}),
		table.WithHeight(tableHeight),
	)
	m.refresh()
	return m
}

func (m model) Init() tea.Cmd { return nil }

// refresh reloads the plot list and the selected plot from the server.
func (m *model) refresh() {
	infos := m.srv.Plots()
	items := make([]list.Item, len(infos))
	for i, info := range infos {
		items[i] = plotItem{info: info}
	}
	m.plots.SetItems(items)

	if item, ok := m.plots.SelectedItem().(plotItem); ok {
		m.current = item.info.ID
		m.hasPlot = true
		m.snapshot, _ = m.srv.Plot(m.current)
	} else {
		m.hasPlot = false
		m.snapshot = nil
	}
	m.objects.SetRows(objectRows(m.snapshot))
}

func objectRows(snap *graphic.Model) []table.Row {
	if snap == nil {
		return nil
	}
	rows := make([]table.Row, 0, snap.Len())
	for i, obj := range snap.Objects() {
		style := obj.ObjectStyle()
		rows = append(rows, table.Row{
			fmt.Sprint(i + 1),
			obj.Kind().String(),
			fmt.Sprint(len(graphic.Points(obj))),
			float.Format(style.LineWidth, 2),
			style.Color.String(),
		})
	}
	return rows
}

// canvasBox returns the position and size of the drawing area, inside the
// border of the canvas box.
func (m model) canvasBox() (x, y, w, h int) {
	x = sidebarWidth + 1
	y = headerHeight + 1
	w = max(m.width-sidebarWidth-2, 10)
	h = max(m.height-headerHeight-footerHeight-tableHeight-2-4, 4)
	return x, y, w, h
}

func (m model) canvasSize() vec.Vec2 {
	if m.snapshot == nil {
		return graphic.DefaultSize
	}
	return m.snapshot.Size
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.plots.SetSize(sidebarWidth, m.height-headerHeight-footerHeight)
		_, _, w, _ := m.canvasBox()
		m.objects.SetWidth(w)
		return m, nil

	case plotsChangedMsg:
		m.refresh()
		return m, nil

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || !m.hasPlot {
			return m, nil
		}
		x0, y0, w, h := m.canvasBox()
		if msg.X < x0 || msg.X >= x0+w || msg.Y < y0 || msg.Y >= y0+h {
			return m, nil
		}
		c := newCanvas(w, h, m.canvasSize())
		m.pointer = c.fromCell(msg.X-x0, msg.Y-y0)
		ev := event.Mouse(m.current.Ref, m.pointer, int(msg.Button))
		m.status = m.inject(ev)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.accepting() && msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
			ev := event.Key(m.current.Ref, m.pointer, int(msg.Runes[0]))
			m.status = m.inject(ev)
			return m, nil
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.plots, cmd = m.plots.Update(msg)
		m.refresh()
		return m, cmd
	}
	return m, nil
}

func (m model) accepting() bool {
	if !m.hasPlot {
		return false
	}
	id, ok := m.srv.Accepting()
	return ok && id == m.current
}

func (m model) inject(ev event.Event) string {
	if m.srv.Inject(m.current, ev) {
		return "sent " + ev.String()
	}
	return "plot does not accept events"
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := titleStyle.Render(" aqtview ") + dimStyle.Render(m.addr)
	header = lipgloss.NewStyle().Width(m.width).Render(header)

	sidebar := lipgloss.NewStyle().Width(sidebarWidth).Render(m.plots.View())

	_, _, w, h := m.canvasBox()
	c := newCanvas(w, h, m.canvasSize())
	if m.snapshot != nil {
		c.draw(m.snapshot)
	}
	canvasView := boxStyle.Render(c.String())
	tableView := boxStyle.Render(m.objects.View())
	right := lipgloss.JoinVertical(lipgloss.Left, canvasView, tableView)

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, right)
	footer := dimStyle.Render(m.footer())
	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, body, footer))
}

func (m model) footer() string {
	var parts []string
	if m.hasPlot && m.snapshot != nil {
		counts := m.snapshot.Counts()
		kinds := make([]graphic.Kind, 0, len(counts))
		for k := range counts {
			kinds = append(kinds, k)
		}
		slices.Sort(kinds)
		for _, k := range kinds {
			parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
		}
	}
	parts = append(parts, m.status, "q quit")
	return strings.Join(parts, "  ")
}
