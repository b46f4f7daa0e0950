// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Thermoquad/pckctl/pkg/lcn"
	"github.com/Thermoquad/pckctl/pkg/pck"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

//////////////////////////////////////////////////////////////
// Types
//////////////////////////////////////////////////////////////

// frameTap passes frames on and remembers the ones that went out
type frameTap struct {
	next   lcn.Handler
	frames []pck.Frame
}

func (t *frameTap) SendPCK(frame pck.Frame) error {
	if err := t.next.SendPCK(frame); err != nil {
		return err
	}
	t.frames = append(t.frames, frame)
	return nil
}

// drain returns and forgets the frames sent since the last call
func (t *frameTap) drain() []pck.Frame {
	frames := t.frames
	t.frames = nil
	return frames
}

type eventLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

// displayModel is the Bubble Tea model for the display console
type displayModel struct {
	actions  lcn.ModuleActions
	tap      *frameTap
	connInfo string
	target   pck.Address

	// Row being edited (1-based) and the last text sent to each row
	row  int
	rows [pck.DisplayRowCount]string

	input textinput.Model

	eventLog      []eventLogEntry
	maxLogEntries int

	width    int
	height   int
	quitting bool
}

//////////////////////////////////////////////////////////////
// Model Initialization
//////////////////////////////////////////////////////////////

func initialDisplayModel(actions lcn.ModuleActions, tap *frameTap, connInfo string, target pck.Address) displayModel {
	ti := textinput.New()
	ti.Placeholder = "text for the display"
	ti.CharLimit = pck.DynTextMaxBytes + 20 // let overlong text through so truncation is visible
	ti.Width = pck.DynTextMaxBytes
	ti.Focus()

	return displayModel{
		actions:       actions,
		tap:           tap,
		connInfo:      connInfo,
		target:        target,
		row:           1,
		input:         ti,
		eventLog:      make([]eventLogEntry, 0),
		maxLogEntries: 100,
		width:         80,
		height:        24,
	}
}

//////////////////////////////////////////////////////////////
// Bubble Tea Interface
//////////////////////////////////////////////////////////////

func (m displayModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m displayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "up":
			m.row = (m.row+pck.DisplayRowCount-2)%pck.DisplayRowCount + 1
			return m, nil

		case "down":
			m.row = m.row%pck.DisplayRowCount + 1
			return m, nil

		case "enter":
			return m.sendRow(), nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m displayModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var s strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	s.WriteString(titleStyle.Render("PCKCTL DISPLAY"))
	s.WriteString(" ")
	s.WriteString(headerStyle.Render(fmt.Sprintf("| %s | %s | Up/Down=row Enter=send Esc=quit",
		m.connInfo, m.target)))
	s.WriteString("\n\n")

	s.WriteString(m.renderRows(labelStyle, valueStyle, headerStyle, boxStyle))
	s.WriteString("\n")
	s.WriteString(m.renderInput(labelStyle, warningStyle, boxStyle))
	s.WriteString("\n")
	s.WriteString(m.renderEventLog(labelStyle, warningStyle, headerStyle, boxStyle))

	return s.String()
}

//////////////////////////////////////////////////////////////
// View Helpers
//////////////////////////////////////////////////////////////

func (m displayModel) renderRows(labelStyle, valueStyle, headerStyle, boxStyle lipgloss.Style) string {
	var s strings.Builder
	s.WriteString(labelStyle.Render("ROWS"))
	for i, text := range m.rows {
		marker := " "
		if i+1 == m.row {
			marker = ">"
		}
		shown := headerStyle.Render("(empty)")
		if text != "" {
			shown = valueStyle.Render(text)
		}
		s.WriteString(fmt.Sprintf("\n%s %d  %s", labelStyle.Render(marker), i+1, shown))
	}
	return boxStyle.Width(m.width - 4).Render(s.String())
}

func (m displayModel) renderInput(labelStyle, warningStyle, boxStyle lipgloss.Style) string {
	count := utf8.RuneCountInString(m.input.Value())
	counter := fmt.Sprintf("%d/%d", count, pck.DynTextMaxBytes)
	if count > pck.DynTextMaxBytes {
		counter = warningStyle.Render(counter + " truncated")
	}

	var s strings.Builder
	s.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render(fmt.Sprintf("ROW %d", m.row)), counter))
	s.WriteString(m.input.View())
	return boxStyle.Width(m.width - 4).Render(s.String())
}

func (m displayModel) renderEventLog(labelStyle, warningStyle, headerStyle, boxStyle lipgloss.Style) string {
	var s strings.Builder
	s.WriteString(labelStyle.Render("EVENTS"))
	s.WriteString("\n")

	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	// Whatever is left below the rows and input boxes
	logHeight := m.height - 16
	if logHeight < 3 {
		logHeight = 3
	}
	startIdx := len(m.eventLog) - logHeight
	if startIdx < 0 {
		startIdx = 0
	}

	if len(m.eventLog) == 0 {
		s.WriteString(headerStyle.Render("  (nothing sent yet)"))
	} else {
		for i := startIdx; i < len(m.eventLog); i++ {
			entry := m.eventLog[i]
			icon := "i"
			style := warningStyle
			if entry.isError {
				icon = "x"
				style = errorStyle
			}
			s.WriteString(fmt.Sprintf("%s %s %s\n",
				headerStyle.Render(entry.timestamp.Format("15:04:05.000")),
				style.Render(icon),
				entry.message))
		}
	}

	return boxStyle.Width(m.width - 4).Render(s.String())
}

//////////////////////////////////////////////////////////////
// Commands
//////////////////////////////////////////////////////////////

// sendRow sends the input as dynamic text for the selected row
func (m displayModel) sendRow() displayModel {
	text := m.input.Value()
	err := m.actions.SendDynamicText(m.row, text)

	frames := m.tap.drain()
	for _, f := range frames {
		m = m.addLogEntry(pck.FormatFrame(f), false)
	}

	switch {
	case err != nil:
		m = m.addLogEntry(fmt.Sprintf("Row %d: %v", m.row, err), true)
	case len(frames) == 0:
		m = m.addLogEntry(fmt.Sprintf("Row %d: no text, nothing sent", m.row), false)
	default:
		m.rows[m.row-1] = text
		m.input.Reset()
	}
	return m
}

//////////////////////////////////////////////////////////////
// Helpers
//////////////////////////////////////////////////////////////

func (m displayModel) addLogEntry(message string, isError bool) displayModel {
	m.eventLog = append(m.eventLog, eventLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	})

	if len(m.eventLog) > m.maxLogEntries {
		m.eventLog = m.eventLog[len(m.eventLog)-m.maxLogEntries:]
	}
	return m
}
