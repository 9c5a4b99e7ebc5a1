package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/geox55/youtrack-time-tracker/internal/models"
	"github.com/geox55/youtrack-time-tracker/internal/shared"
	"github.com/geox55/youtrack-time-tracker/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	EntryListView ViewState = iota
	ConfirmView
	TransferView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	reconcile *tasks.ReconcileEngine
	transfer  *tasks.TransferEngine
	selected  time.Time
	grouped   bool

	width  int
	height int

	entryList list.Model
	snapshot  *tasks.Snapshot
	unit      *models.GroupedTimeEntry

	progressChan   chan tasks.ProgressUpdate
	progress       tasks.ProgressUpdate
	snapshotResult snapshotMsg
	result         *tasks.TransferResult
	err            error

	help help.Model
	keys keyMap
}

type snapshotMsg struct {
	snapshot *tasks.Snapshot
	err      error
}

type progressUpdateMsg tasks.ProgressUpdate

type transferCompleteMsg struct {
	result *tasks.TransferResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, reconcile *tasks.ReconcileEngine, transfer *tasks.TransferEngine, selected time.Time, grouped bool) *Model {
	return &Model{
		ctx:       ctx,
		view:      EntryListView,
		reconcile: reconcile,
		transfer:  transfer,
		selected:  selected,
		grouped:   grouped,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init initializes the TUI by running a reconciliation pass.
func (m *Model) Init() tea.Cmd {
	return m.refresh()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.entryList.Width() == 0 {
			m.entryList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case EntryListView:
			return m.handleEntryListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case snapshotMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.snapshot = msg.snapshot
		m.transfer.Reset()
		for id := range msg.snapshot.Transferred {
			m.transfer.MarkCommitted(id)
		}
		items := make([]list.Item, len(msg.snapshot.Units))
		for i, unit := range msg.snapshot.Units {
			items[i] = entryItem{unit: unit, snapshot: msg.snapshot}
		}
		m.entryList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.entryList.Title = fmt.Sprintf("Toggl %s — %s", shared.DayKey(msg.snapshot.Start), shared.DayKey(msg.snapshot.End.AddDate(0, 0, -1)))
		m.entryList.SetSize(m.width-4, m.height-8)
		m.view = EntryListView
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case transferCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case EntryListView:
		return m.renderEntryList()
	case ConfirmView:
		return m.renderConfirm()
	case TransferView:
		return m.renderTransfer()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleEntryListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		return m, m.refresh()
	case "enter":
		selected := m.entryList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(entryItem); ok {
				unit := item.unit
				m.unit = &unit
				m.view = ConfirmView
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.entryList, cmd = m.entryList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = EntryListView
		return m, nil
	case "y":
		m.view = TransferView
		return m, m.startTransfer()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.unit = nil
		m.result = nil
		m.err = nil
		return m, m.refresh()
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == EntryListView {
		m.entryList, cmd = m.entryList.Update(msg)
	}
	return m, cmd
}

func (m *Model) refresh() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progressChan := m.progressChan

	go func() {
		snapshot, err := m.reconcile.Refresh(m.ctx, m.selected, m.grouped, progressChan)
		m.snapshotResult = snapshotMsg{snapshot: snapshot, err: err}
		close(progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) startTransfer() tea.Cmd {
	unit := *m.unit
	return func() tea.Msg {
		result, err := m.transfer.Transfer(m.ctx, unit, m.snapshot.Index, m.snapshot.User.ID, m.snapshot.Grouped)
		return transferCompleteMsg{result: result, err: err}
	}
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return m.snapshotResult
		}

		update, ok := <-m.progressChan
		if !ok {
			m.progressChan = nil
			return m.snapshotResult
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderEntryList() string {
	if m.snapshot == nil {
		return fmt.Sprintf("%s\n\n%s", styles.title.Render("Reconciling..."), m.progress.Message)
	}
	summary := styles.help.Render(fmt.Sprintf(
		"tracked %s • avg/day %s",
		shared.FormatDuration(m.snapshot.TotalSeconds()),
		shared.FormatDuration(m.snapshot.AveragePerDay()),
	))
	helpKeys := []key.Binding{m.keys.enter, m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n\n%s", m.entryList.View(), summary, helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Book '%s' in YouTrack?", m.unit.Description))
	info := fmt.Sprintf(
		"\nDay: %s\nDuration: %s (%d merged entries)\n",
		shared.FormatDay(m.unit.Start),
		shared.FormatDuration(m.unit.Duration),
		len(m.unit.OriginalIDs),
	)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderTransfer() string {
	title := styles.title.Render("Transferring to YouTrack")
	return fmt.Sprintf("%s\n\nBooking time, tagging source entries...", title)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Transfer failed: %v\n\nPress r to refresh, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to refresh, q to quit")
	}

	title := styles.ok.Render("✓ Transfer Complete!")
	info := fmt.Sprintf(
		"\nIssue: %s\nDescription: %s\nDay: %s\nBooked: %dm",
		m.result.IssueID,
		m.result.Description,
		shared.FormatDay(m.result.Date),
		m.result.Minutes,
	)

	helpKeys := []key.Binding{m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}
