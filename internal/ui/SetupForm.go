package ui

import (
	"strings"

	"github.com/Mshel/autosnake/internal/game"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	focusedColor = lipgloss.Color("205")
	blurredColor = lipgloss.Color("240")
	focusedStyle = lipgloss.NewStyle().Foreground(focusedColor)
	blurredStyle = lipgloss.NewStyle().Foreground(blurredColor)
	helpStyle    = blurredStyle

	optionStyle         = lipgloss.NewStyle().Padding(0, 1)
	selectedOptionStyle = optionStyle.Background(lipgloss.Color("70")).Foreground(lipgloss.Color("0"))

	buttonStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder())

	submitButtonStyle = buttonStyle.
				BorderForeground(focusedColor).
				Padding(0, 1)

	blurredButtonStyle = buttonStyle.
				BorderForeground(blurredColor).
				Padding(0, 1)
)

// Focus order of the form fields.
const (
	focusName = iota
	focusSpeed
	focusSize
	focusFruits
	focusAutopilot
	focusSubmit
	focusCount
)

type presetField struct {
	label   string
	options []string
	index   int
}

func newPresetField(label string, options []string, current string) presetField {
	f := presetField{label: label, options: options}
	for i, o := range options {
		if o == current {
			f.index = i
		}
	}
	return f
}

func (f *presetField) move(delta int) {
	f.index = (f.index + delta + len(f.options)) % len(f.options)
}

func (f presetField) value() string { return f.options[f.index] }

// SetupModel is the pre-game form: player name, presets and control mode.
type SetupModel struct {
	nameInput  textinput.Model
	presets    [3]presetField
	autopilot  bool
	focusIndex int
	submitted  bool
	width      int
	height     int
	tea.Model
}

func NewInitialSetupModel(defaults SetupSubmitMsg, w, h int) SetupModel {
	ti := textinput.New()
	ti.Placeholder = "Your snake's name"
	ti.Focus()
	ti.CharLimit = 20
	ti.PromptStyle = focusedStyle
	ti.TextStyle = focusedStyle
	ti.SetValue(defaults.Name)

	return SetupModel{
		nameInput: ti,
		presets: [3]presetField{
			newPresetField("Speed", game.SpeedPresetNames, defaults.Speed),
			newPresetField("Size", game.SizePresetNames, defaults.Size),
			newPresetField("Fruits", game.FruitPresetNames, defaults.Fruits),
		},
		autopilot:  defaults.Autopilot,
		focusIndex: focusName,
		width:      w,
		height:     h,
	}
}

func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m SetupModel) submission() SetupSubmitMsg {
	name := strings.TrimSpace(m.nameInput.Value())
	if name == "" {
		name = "anonymous"
	}
	return SetupSubmitMsg{
		Name:      name,
		Speed:     m.presets[0].value(),
		Size:      m.presets[1].value(),
		Fruits:    m.presets[2].value(),
		Autopilot: m.autopilot,
	}
}

func (m *SetupModel) setFocus(index int) {
	m.focusIndex = (index + focusCount) % focusCount
	if m.focusIndex == focusName {
		m.nameInput.Focus()
	} else {
		m.nameInput.Blur()
	}
}

func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		s := msg.String()

		switch s {
		case "tab", "down":
			m.setFocus(m.focusIndex + 1)
			return m, nil
		case "shift+tab", "up":
			m.setFocus(m.focusIndex - 1)
			return m, nil
		case "enter":
			if m.focusIndex == focusSubmit {
				m.submitted = true
				submission := m.submission()
				return m, func() tea.Msg { return submission }
			}
			m.setFocus(m.focusIndex + 1)
			return m, nil
		}

		switch m.focusIndex {
		case focusSpeed, focusSize, focusFruits:
			field := &m.presets[m.focusIndex-focusSpeed]
			switch s {
			case "left":
				field.move(-1)
			case "right":
				field.move(1)
			}
			return m, nil
		case focusAutopilot:
			if s == "left" || s == "right" || s == " " {
				m.autopilot = !m.autopilot
			}
			return m, nil
		case focusName:
			var cmd tea.Cmd
			m.nameInput, cmd = m.nameInput.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m SetupModel) View() string {
	center := func(s string) string {
		return lipgloss.NewStyle().Width(m.width).Align(lipgloss.Center).Render(s)
	}

	var b strings.Builder

	b.WriteString(center(m.nameInput.View()))
	b.WriteString("\n\n")

	for i, field := range m.presets {
		label := blurredStyle.Render(field.label + ": ")
		if m.focusIndex == focusSpeed+i {
			label = focusedStyle.Render(field.label + ": ")
		}
		var options []string
		for j, o := range field.options {
			if j == field.index {
				options = append(options, selectedOptionStyle.Render(o))
			} else {
				options = append(options, optionStyle.Render(o))
			}
		}
		b.WriteString(center(label + lipgloss.JoinHorizontal(lipgloss.Center, options...)))
		b.WriteString("\n")
	}

	mode := "manual"
	if m.autopilot {
		mode = "autopilot"
	}
	modeLabel := blurredStyle.Render("Control: ")
	if m.focusIndex == focusAutopilot {
		modeLabel = focusedStyle.Render("Control: ")
	}
	b.WriteString(center(modeLabel + selectedOptionStyle.Render(mode)))
	b.WriteString("\n\n")

	submitText := "Start"
	var submitButton string
	if m.focusIndex == focusSubmit {
		submitButton = submitButtonStyle.Render(submitText)
	} else {
		submitButton = blurredButtonStyle.Render(submitText)
	}
	b.WriteString(center(submitButton))
	b.WriteString("\n\n")

	b.WriteString(center(helpStyle.Render("(left/right to change, tab/arrows to navigate, enter to confirm, ctrl+c to quit)")))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}
