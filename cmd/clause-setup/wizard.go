// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/frostbitlabs/clause/internal/config"
	"github.com/frostbitlabs/clause/internal/theme"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	brandPrimary = lipgloss.Color("160") // Holly red
	brandAccent  = lipgloss.Color("28")  // Evergreen
	textMuted    = lipgloss.Color("245")

	titleStyle = lipgloss.NewStyle().
			Foreground(brandPrimary).
			Bold(true).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(textMuted).
			Italic(true)

	successStyle = lipgloss.NewStyle().
			Foreground(brandAccent).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(textMuted)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(brandPrimary).
			Padding(1, 2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(brandPrimary).
			Bold(true)

	unselectedStyle = lipgloss.NewStyle().
			Foreground(textMuted)
)

const logo = `
 ██████╗██╗      █████╗ ██╗   ██╗███████╗███████╗
██╔════╝██║     ██╔══██╗██║   ██║██╔════╝██╔════╝
██║     ██║     ███████║██║   ██║███████╗█████╗
██║     ██║     ██╔══██║██║   ██║╚════██║██╔══╝
╚██████╗███████╗██║  ██║╚██████╔╝███████║███████╗
 ╚═════╝╚══════╝╚═╝  ╚═╝ ╚═════╝ ╚══════╝╚══════╝
`

const tagline = "Festive chat for your terminal, files included"

// =============================================================================
// WIZARD MODEL
// =============================================================================

// Phase represents the current setup phase
type Phase int

const (
	PhaseWelcome Phase = iota
	PhaseAPIKey
	PhaseProject
	PhaseTheme
	PhaseComplete
)

// Wizard is the setup wizard model
type Wizard struct {
	phase  Phase
	width  int
	height int

	keyInput     textinput.Model
	projectInput textinput.Model

	themeSelected int
	themes        []string

	cfg     *config.Config
	keySet  bool
	err     string
	saveErr string
}

// NewWizard creates the wizard with current config as the starting point.
func NewWizard() *Wizard {
	cfg, err := config.Load()
	if err != nil || cfg == nil {
		cfg = config.Default()
	}

	keyInput := textinput.New()
	keyInput.Placeholder = "sk-ant-..."
	keyInput.EchoMode = textinput.EchoPassword
	keyInput.EchoCharacter = '*'
	keyInput.CharLimit = 256
	keyInput.Width = 50

	projectInput := textinput.New()
	projectInput.Placeholder = "/path/to/your/project"
	projectInput.CharLimit = 512
	projectInput.Width = 50
	projectInput.SetValue(cfg.ProjectFolder)

	themes := theme.Names()
	selected := 0
	for idx, name := range themes {
		if strings.EqualFold(name, cfg.Theme) {
			selected = idx
		}
	}

	return &Wizard{
		phase:         PhaseWelcome,
		keyInput:      keyInput,
		projectInput:  projectInput,
		themes:        themes,
		themeSelected: selected,
		cfg:           cfg,
		keySet:        config.HasAPIKey(),
	}
}

// Init initializes the wizard
func (w *Wizard) Init() tea.Cmd {
	return textinput.Blink
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
		return w, nil

	case tea.KeyMsg:
		return w.handleKey(msg)
	}

	return w.updateInputs(msg)
}

// updateInputs forwards messages to the focused text input.
func (w *Wizard) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch w.phase {
	case PhaseAPIKey:
		w.keyInput, cmd = w.keyInput.Update(msg)
	case PhaseProject:
		w.projectInput, cmd = w.projectInput.Update(msg)
	}
	return w, cmd
}

// handleKey processes key presses
func (w *Wizard) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return w, tea.Quit
	case "esc":
		if w.phase == PhaseWelcome || w.phase == PhaseComplete {
			return w, tea.Quit
		}
		w.phase--
		return w, w.focusPhase()
	}

	switch w.phase {
	case PhaseWelcome:
		switch msg.String() {
		case "q":
			return w, tea.Quit
		case "enter", " ":
			w.phase = PhaseAPIKey
			return w, w.focusPhase()
		}

	case PhaseAPIKey:
		if msg.String() == "enter" {
			return w.submitKey()
		}
		return w.updateInputs(msg)

	case PhaseProject:
		if msg.String() == "enter" {
			return w.submitProject()
		}
		return w.updateInputs(msg)

	case PhaseTheme:
		switch msg.String() {
		case "up", "k":
			if w.themeSelected > 0 {
				w.themeSelected--
			}
		case "down", "j":
			if w.themeSelected < len(w.themes)-1 {
				w.themeSelected++
			}
		case "enter", " ":
			return w.finish()
		}
		return w, nil

	case PhaseComplete:
		switch msg.String() {
		case "enter", "q", " ":
			return w, tea.Quit
		}
	}

	return w, nil
}

// focusPhase moves input focus to match the phase.
func (w *Wizard) focusPhase() tea.Cmd {
	w.err = ""
	w.keyInput.Blur()
	w.projectInput.Blur()
	switch w.phase {
	case PhaseAPIKey:
		return w.keyInput.Focus()
	case PhaseProject:
		return w.projectInput.Focus()
	}
	return nil
}

// submitKey validates and stores the API key, or keeps the existing one
// when the field is empty.
func (w *Wizard) submitKey() (tea.Model, tea.Cmd) {
	key := strings.TrimSpace(w.keyInput.Value())
	if key == "" {
		if !w.keySet {
			w.err = "An API key is required (get one at console.anthropic.com)"
			return w, nil
		}
	} else {
		if err := config.SaveAPIKey(key); err != nil {
			w.err = err.Error()
			return w, nil
		}
		w.keySet = true
	}

	w.phase = PhaseProject
	return w, w.focusPhase()
}

// submitProject validates and records the project folder. Empty skips it.
func (w *Wizard) submitProject() (tea.Model, tea.Cmd) {
	dir := strings.TrimSpace(w.projectInput.Value())
	if dir != "" {
		resolved, err := config.ValidateProjectFolder(dir)
		if err != nil {
			w.err = err.Error()
			return w, nil
		}
		w.cfg.ProjectFolder = resolved
	}

	w.phase = PhaseTheme
	return w, w.focusPhase()
}

// finish applies the theme choice and saves the config.
func (w *Wizard) finish() (tea.Model, tea.Cmd) {
	w.cfg.Theme = w.themes[w.themeSelected]
	if err := config.Save(w.cfg); err != nil {
		w.saveErr = err.Error()
	}
	w.phase = PhaseComplete
	return w, nil
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the wizard
func (w *Wizard) View() string {
	var body string

	switch w.phase {
	case PhaseWelcome:
		body = w.viewWelcome()
	case PhaseAPIKey:
		body = w.viewAPIKey()
	case PhaseProject:
		body = w.viewProject()
	case PhaseTheme:
		body = w.viewTheme()
	case PhaseComplete:
		body = w.viewComplete()
	}

	if w.width > 0 && w.height > 0 {
		return lipgloss.Place(w.width, w.height, lipgloss.Center, lipgloss.Center, body)
	}
	return body
}

func (w *Wizard) viewWelcome() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(logo) + "\n")
	sb.WriteString(subtitleStyle.Render(tagline) + "\n\n")
	sb.WriteString("This wizard will set up:\n")
	sb.WriteString("  • Your Anthropic API key\n")
	sb.WriteString("  • The project folder for extracted files\n")
	sb.WriteString("  • A theme (festive or grinch)\n\n")
	sb.WriteString(dimStyle.Render("enter to begin · q to quit"))
	return boxStyle.Render(sb.String())
}

func (w *Wizard) viewAPIKey() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("API Key") + "\n")
	if w.keySet {
		sb.WriteString(successStyle.Render("✓") + " A key is already stored; leave empty to keep it.\n\n")
	} else {
		sb.WriteString("Create a key at " + selectedStyle.Render("console.anthropic.com/settings/keys") + "\n\n")
	}
	sb.WriteString(w.keyInput.View() + "\n")
	if w.err != "" {
		sb.WriteString("\n" + errorStyle.Render(w.err) + "\n")
	}
	sb.WriteString("\n" + dimStyle.Render("enter to continue · esc to go back"))
	return boxStyle.Render(sb.String())
}

func (w *Wizard) viewProject() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Project Folder") + "\n")
	sb.WriteString("Code blocks with file paths are written here.\n")
	sb.WriteString(dimStyle.Render("Leave empty to skip; extraction stays off until set.") + "\n\n")
	sb.WriteString(w.projectInput.View() + "\n")
	if w.err != "" {
		sb.WriteString("\n" + errorStyle.Render(w.err) + "\n")
	}
	sb.WriteString("\n" + dimStyle.Render("enter to continue · esc to go back"))
	return boxStyle.Render(sb.String())
}

func (w *Wizard) viewTheme() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Theme") + "\n\n")
	for idx, name := range w.themes {
		cursor := "  "
		style := unselectedStyle
		if idx == w.themeSelected {
			cursor = "> "
			style = selectedStyle
		}
		label := name
		if name == "festive" {
			label += "  🎄 full holiday cheer"
		} else {
			label += "  minimal, no decorations"
		}
		sb.WriteString(style.Render(cursor+label) + "\n")
	}
	sb.WriteString("\n" + dimStyle.Render("↑/↓ to choose · enter to finish · esc to go back"))
	return boxStyle.Render(sb.String())
}

func (w *Wizard) viewComplete() string {
	var sb strings.Builder
	if w.saveErr != "" {
		sb.WriteString(errorStyle.Render("Setup failed") + "\n\n")
		sb.WriteString(w.saveErr + "\n")
	} else {
		sb.WriteString(successStyle.Render("Setup complete!") + "\n\n")
		sb.WriteString("Start chatting with:\n\n")
		sb.WriteString("    " + selectedStyle.Render("clause") + "\n\n")
		sb.WriteString("Quick tips:\n")
		sb.WriteString(dimStyle.Render("    /help      show all commands\n"))
		sb.WriteString(dimStyle.Render("    /project   change the extraction folder\n"))
		sb.WriteString(dimStyle.Render("    /files     see what was written\n"))
	}
	sb.WriteString("\n" + dimStyle.Render(fmt.Sprintf("config: %s", configPathDisplay())))
	sb.WriteString("\n\n" + dimStyle.Render("enter to exit"))
	return boxStyle.Render(sb.String())
}

// configPathDisplay returns the config path for the completion screen.
func configPathDisplay() string {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return "~/.clause/config.toml"
	}
	return path
}
