// SPDX-License-Identifier: MIT

// Package tui is the interactive skin browser. It lists the installed
// skins with their classified type and lets the user inspect one before
// pointing the engine at it.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vumeter/internal/skin"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5"))

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#25A065")).
			Bold(true)
)

// ScreenType selects the active screen.
type ScreenType int

const (
	ListScreen ScreenType = iota
	DetailScreen
)

// skinEntry is one loaded descriptor with its classification.
type skinEntry struct {
	name string
	kind skin.Kind
	desc *skin.Descriptor
	err  error
}

// SkinListModel is the Bubble Tea model for browsing skins.
type SkinListModel struct {
	source        skin.Source
	skins         []skinEntry
	selectedIndex int
	viewport      viewport.Model
	ready         bool
	err           error
	activeScreen  ScreenType
}

// NewSkinListModel creates a browser over the given skin source.
func NewSkinListModel(source skin.Source) SkinListModel {
	return SkinListModel{source: source, activeScreen: ListScreen}
}

// Init implements tea.Model.
func (m SkinListModel) Init() tea.Cmd {
	return m.fetchSkins
}

type skinsMsg struct {
	skins []skinEntry
}

type errMsg struct {
	err error
}

func (m SkinListModel) fetchSkins() tea.Msg {
	names, err := m.source.Names()
	if err != nil {
		return errMsg{err}
	}
	entries := make([]skinEntry, 0, len(names))
	for _, name := range names {
		e := skinEntry{name: name}
		if e.desc, e.err = m.source.Load(name); e.err == nil {
			e.kind = skin.Classify(e.desc)
		}
		entries = append(entries, e)
	}
	return skinsMsg{entries}
}

// Update implements tea.Model.
func (m SkinListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-4)
			m.ready = true
			if len(m.skins) > 0 {
				m.viewport.SetContent(m.renderSkins())
			}
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 4
		}

	case skinsMsg:
		m.skins = msg.skins
		if m.ready {
			m.viewport.SetContent(m.renderSkins())
		}

	case errMsg:
		m.err = msg.err

	case tea.KeyMsg:
		if key.Matches(msg, key.NewBinding(key.WithKeys("q", "ctrl+c"))) {
			return m, tea.Quit
		}

		if m.activeScreen == ListScreen {
			switch {
			case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
				if m.selectedIndex > 0 {
					m.selectedIndex--
					m.viewport.SetContent(m.renderSkins())
				}
			case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
				if m.selectedIndex < len(m.skins)-1 {
					m.selectedIndex++
					m.viewport.SetContent(m.renderSkins())
				}
			case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
				if len(m.skins) > 0 {
					m.activeScreen = DetailScreen
					m.viewport.SetContent(m.renderSkinDetail())
				}
			}
		} else {
			if key.Matches(msg, key.NewBinding(key.WithKeys("esc"))) {
				m.activeScreen = ListScreen
				m.viewport.SetContent(m.renderSkins())
			}
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m SkinListModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress q to exit.", m.err)
	}

	var title, help string
	if m.activeScreen == ListScreen {
		title = titleStyle.Render("Installed Skins")
		help = infoStyle.Render("↑/↓: Navigate • Enter: Inspect • q: Quit")
	} else {
		title = titleStyle.Render("Skin Detail")
		help = infoStyle.Render("Esc: Back • q: Quit")
	}
	return fmt.Sprintf("%s\n\n%s\n\n%s", title, m.viewport.View(), help)
}

func (m SkinListModel) renderSkins() string {
	if len(m.skins) == 0 {
		return "No skins found."
	}

	var sb strings.Builder
	for i, e := range m.skins {
		var line string
		if e.err != nil {
			line = fmt.Sprintf("%s (broken)\n    %v\n", e.name, e.err)
		} else {
			line = fmt.Sprintf("%s (%s)\n    %dx%d, %d meters\n",
				e.name, e.kind,
				e.desc.Screen.W, e.desc.Screen.H, len(e.desc.Meters))
		}
		if i == m.selectedIndex {
			line = highlightStyle.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m SkinListModel) renderSkinDetail() string {
	e := m.skins[m.selectedIndex]
	if e.err != nil {
		return fmt.Sprintf("Skin %s failed to load:\n\n%v\n", e.name, e.err)
	}
	d := e.desc

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Skin: %s\n", d.Name))
	sb.WriteString(fmt.Sprintf("Type: %s\n", e.kind))
	sb.WriteString(fmt.Sprintf("Screen: %dx%d\n\n", d.Screen.W, d.Screen.H))

	sb.WriteString(fmt.Sprintf("Meters: %d\n", len(d.Meters)))
	feature := func(name string, present bool) {
		mark := " "
		if present {
			mark = "x"
		}
		sb.WriteString(fmt.Sprintf("  [%s] %s\n", mark, name))
	}
	feature("spectrum", d.Spectrum != nil)
	feature("vinyl", d.Vinyl != nil)
	feature("tonearm", d.Tonearm != nil)
	feature("reels", d.ReelLeft != nil || d.ReelRight != nil)
	feature("album art", d.AlbumArt != nil)
	feature("time display", d.Time != nil)
	feature("progress", d.Progress != nil)
	return sb.String()
}

// StartSkinListUI launches the browser over the given source.
func StartSkinListUI(source skin.Source) error {
	p := tea.NewProgram(
		NewSkinListModel(source),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
