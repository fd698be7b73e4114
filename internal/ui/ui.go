// package ui implements the interactive migration wizard.
//
// The wizard prompts for a YouTube playlist ID and a destination playlist
// name, confirms, then runs the migration while streaming progress updates.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ytspot/internal/tasks"
)

// ViewState represents the current view in the wizard.
type ViewState int

const (
	PlaylistPromptView ViewState = iota
	NamePromptView
	ConfirmView
	MigrateView
	ResultView
)

// Model represents the wizard application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       *tasks.MigrationEngine
	opts         tasks.MigrationOptions
	playlistID   textinput.Model
	destName     textinput.Model
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.MigrationRunResult
	err          error
	width        int
	help         help.Model
	keys         keyMap
}

// keyMap defines the key bindings for the wizard.
type keyMap struct {
	enter key.Binding
	back  key.Binding
	yes   key.Binding
	no    key.Binding
	quit  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "continue"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		yes: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yes"),
		),
		no: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "no"),
		),
		quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.enter, k.back},
		{k.yes, k.no, k.quit},
	}
}

type progressUpdateMsg tasks.ProgressUpdate

type migrationCompleteMsg struct {
	result *tasks.MigrationRunResult
	err    error
}

// NewModel creates a wizard model with the provided engine and run options.
func NewModel(ctx context.Context, engine *tasks.MigrationEngine, opts tasks.MigrationOptions) *Model {
	playlistID := textinput.New()
	playlistID.Placeholder = "PLxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx"
	playlistID.Prompt = "> "
	playlistID.CharLimit = 128
	playlistID.Focus()

	destName := textinput.New()
	destName.Placeholder = "My Migrated Playlist"
	destName.Prompt = "> "
	destName.CharLimit = 100

	return &Model{
		ctx:        ctx,
		view:       PlaylistPromptView,
		engine:     engine,
		opts:       opts,
		playlistID: playlistID,
		destName:   destName,
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init starts the cursor blink for the first prompt.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the wizard state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlaylistPromptView:
			return m.handlePlaylistPromptKeys(msg)
		case NamePromptView:
			return m.handleNamePromptKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		case MigrateView:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		}

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case migrationCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m, nil
}

// View renders the wizard based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case PlaylistPromptView:
		return m.renderPlaylistPrompt()
	case NamePromptView:
		return m.renderNamePrompt()
	case ConfirmView:
		return m.renderConfirm()
	case MigrateView:
		return m.renderMigrate()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handlePlaylistPromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		if strings.TrimSpace(m.playlistID.Value()) == "" {
			return m, nil
		}
		m.view = NamePromptView
		m.playlistID.Blur()
		return m, m.destName.Focus()
	}

	var cmd tea.Cmd
	m.playlistID, cmd = m.playlistID.Update(msg)
	return m, cmd
}

func (m *Model) handleNamePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = PlaylistPromptView
		m.destName.Blur()
		return m, m.playlistID.Focus()
	case "enter":
		if strings.TrimSpace(m.destName.Value()) == "" {
			return m, nil
		}
		m.view = ConfirmView
		m.destName.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.destName, cmd = m.destName.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "n", "esc":
		m.view = NamePromptView
		return m, m.destName.Focus()
	case "y", "enter":
		m.view = MigrateView
		return m, m.startMigration()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "enter", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) startMigration() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progress := m.progressChan

	go func() {
		result, err := m.engine.Run(m.ctx, progress, strings.TrimSpace(m.playlistID.Value()), strings.TrimSpace(m.destName.Value()), m.opts)
		m.result = result
		m.err = err
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress := m.progressChan
	return func() tea.Msg {
		if progress == nil {
			return migrationCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-progress
		if !ok {
			return migrationCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderPlaylistPrompt() string {
	title := styles.title.Render("YouTube → Spotify Migration")
	prompt := "Enter the YouTube playlist ID to migrate:"
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, prompt, m.playlistID.View(), helpView)
}

func (m *Model) renderNamePrompt() string {
	title := styles.title.Render("YouTube → Spotify Migration")
	prompt := "Enter a name for the Spotify playlist:"
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, prompt, m.destName.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render("Start migration?")
	info := fmt.Sprintf("\nYouTube playlist: %s\nSpotify playlist: %s\nMatch threshold: %d\n",
		strings.TrimSpace(m.playlistID.Value()),
		strings.TrimSpace(m.destName.Value()),
		m.opts.Threshold,
	)
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderMigrate() string {
	title := styles.title.Render("Migrating Playlist")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchPlaylist:
		phase = "Fetching YouTube playlist..."
	case tasks.CreatePlaylist:
		phase = "Creating Spotify playlist..."
	case tasks.MatchTracks:
		phase = fmt.Sprintf("Matching tracks (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.AddTracks:
		phase = "Adding tracks to playlist..."
	case tasks.WriteReports:
		phase = "Writing reports..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, styles.help.Render(m.progress.Message))
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Migration failed: %v\n\nPress q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress q to quit")
	}

	title := styles.ok.Render("✓ Migration Complete!")
	info := fmt.Sprintf(
		"\nPlaylist: %s\nMigrated: %d/%d (%.1f%%)\nFrom cache: %d\n",
		m.result.Playlist.Name,
		m.result.SuccessCount,
		m.result.TotalTracks,
		m.result.MatchPercentage,
		m.result.CachedCount,
	)

	var failed string
	if m.result.FailedCount > 0 {
		failed = styles.warn.Render(fmt.Sprintf("\nNot found on Spotify (%d):", m.result.FailedCount))
		for _, r := range m.result.Results {
			if !r.Matched() {
				failed += fmt.Sprintf("\n  • %s", r.Song.Title)
			}
		}
		failed += "\n"
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})
	return fmt.Sprintf("%s\n%s%s\n%s", title, info, failed, helpView)
}
