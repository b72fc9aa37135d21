// Package ui implements the Hostdesk terminal interface as a bubbletea
// program. The model owns all client-side state; every user action or
// completed API call enters Update as a message, mutates the model, and the
// whole frame is re-rendered from the result.
package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/pquill/hostdesk/internal/api"
	"github.com/pquill/hostdesk/internal/config"
	"github.com/pquill/hostdesk/internal/history"
	"github.com/pquill/hostdesk/internal/session"
)

// view selects which top-level tree renders. Layout (wide vs narrow) is
// derived from terminal width at render time and is deliberately not part
// of this enum.
type view int

const (
	viewLogin view = iota
	viewConversations
	viewThread
	viewInventoryOwner
	viewInventoryCleaner
)

// wideThreshold is the terminal width (columns) at which the conversation
// list and thread render side by side.
const wideThreshold = 100

// statusTTL is how long a transient status line stays on screen.
const statusTTL = 5 * time.Second

// Backend is the slice of the API client the UI drives. *api.Client
// satisfies it; tests substitute a mock.
type Backend interface {
	Login(ctx context.Context, pin string) (role, cookie string, err error)
	Check(ctx context.Context) (*api.CheckResult, error)
	Conversations(ctx context.Context) ([]api.Conversation, error)
	Thread(ctx context.Context, reservationID int) (*api.Thread, error)
	SendMessage(ctx context.Context, reservationID int, req api.SendRequest) (*api.SendResult, error)
	GenerateDraft(ctx context.Context, reservationID int) (*api.Draft, error)
	SyncListings(ctx context.Context) (*api.SyncListingsResult, error)
	SyncReservations(ctx context.Context) (*api.SyncReservationsResult, error)
	Items(ctx context.Context, locationID int) ([]api.Item, error)
	Locations(ctx context.Context) ([]api.Location, error)
	UnresolvedReports(ctx context.Context) ([]api.Report, error)
	CreateReport(ctx context.Context, itemID int, reportType string) error
	ResolveReport(ctx context.Context, reportID int) error
	ShoppingList(ctx context.Context) ([]api.ShoppingEntry, error)
	SearchItems(ctx context.Context, query string) ([]api.Item, error)
	ParseItems(ctx context.Context, text string) ([]api.ProposedItem, error)
	BulkImportPreview(ctx context.Context, text string) ([]api.ProposedItem, error)
	BulkImportConfirm(ctx context.Context, items []api.ProposedItem) (int, error)
}

// Model is the whole client state.
type Model struct {
	backend  Backend
	cookies  cookieSetter // optional; updates the client cookie after login
	sessions *session.Store
	history  *history.Store // optional; nil disables the local send log
	logger   *zap.Logger
	houses   []config.HouseConfig

	width  int
	height int

	view view
	role string

	status    string
	statusSeq int

	login  loginState
	convs  convState
	thread threadState
	owner  ownerInvState
	clean  cleanerInvState
}

// cookieSetter is implemented by *api.Client; after a TUI login the fresh
// session cookie must be adopted for subsequent requests.
type cookieSetter interface {
	SetCookie(value string)
}

// Opts holds parameters for creating the UI model.
type Opts struct {
	Backend  Backend
	Sessions *session.Store
	History  *history.Store
	Logger   *zap.Logger
	Houses   []config.HouseConfig
	// Session is the previously persisted session, nil when logged out.
	Session *session.Session
}

// New creates the UI model. The initial view is Login; Init issues a
// session check when a persisted session exists.
func New(opts Opts) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m := Model{
		backend:  opts.Backend,
		sessions: opts.Sessions,
		history:  opts.History,
		logger:   logger,
		houses:   opts.Houses,
		view:     viewLogin,
		login:    newLoginState(),
		convs:    newConvState(),
		thread:   newThreadState(),
		owner:    newOwnerInvState(),
		clean:    newCleanerInvState(),
	}
	if cs, ok := opts.Backend.(cookieSetter); ok {
		m.cookies = cs
	}
	if opts.Session.Valid() {
		m.login.checking = true
	}
	return m
}

// Init starts the boot-time session check when a session was persisted.
func (m Model) Init() tea.Cmd {
	if m.login.checking {
		return checkSessionCmd(m.backend)
	}
	return m.login.input.Focus()
}

// Update is the single mutation point for all state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.updateKey(msg)

	case statusExpireMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case sessionCheckedMsg:
		return m.onSessionChecked(msg)
	case loggedInMsg:
		return m.onLoggedIn(msg)

	case conversationsLoadedMsg:
		return m.onConversationsLoaded(msg)
	case syncListingsDoneMsg:
		return m.onSyncListingsDone(msg)
	case syncReservationsDoneMsg:
		return m.onSyncReservationsDone(msg)

	case threadLoadedMsg:
		return m.onThreadLoaded(msg)
	case draftGeneratedMsg:
		return m.onDraftGenerated(msg)
	case messageSentMsg:
		return m.onMessageSent(msg)

	case inventoryLoadedMsg:
		return m.onInventoryLoaded(msg)
	case reportsLoadedMsg:
		return m.onReportsLoaded(msg)
	case shoppingLoadedMsg:
		return m.onShoppingLoaded(msg)
	case ownerSearchResultMsg:
		return m.onOwnerSearchResult(msg)
	case quickAddParsedMsg:
		return m.onQuickAddParsed(msg)
	case quickAddConfirmedMsg:
		return m.onQuickAddConfirmed(msg)
	case bulkPreviewMsg:
		return m.onBulkPreview(msg)
	case bulkConfirmedMsg:
		return m.onBulkConfirmed(msg)
	case reportResolvedMsg:
		return m.onReportResolved(msg)

	case cleanerSearchTickMsg:
		return m.onCleanerSearchTick(msg)
	case cleanerSearchResultMsg:
		return m.onCleanerSearchResult(msg)
	case cleanerLocationItemsMsg:
		return m.onCleanerLocationItems(msg)
	case reportFiledMsg:
		return m.onReportFiled(msg)
	}
	return m, nil
}

// updateKey routes key events to the active view.
func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.view {
	case viewLogin:
		return m.updateLogin(msg)
	case viewConversations:
		return m.updateConversations(msg)
	case viewThread:
		return m.updateThread(msg)
	case viewInventoryOwner:
		return m.updateOwnerInventory(msg)
	case viewInventoryCleaner:
		return m.updateCleanerInventory(msg)
	}
	return m, nil
}

// View renders the whole frame from state.
func (m Model) View() string {
	var body string
	switch m.view {
	case viewLogin:
		body = m.viewLogin()
	case viewConversations:
		body = m.viewConversations()
	case viewThread:
		body = m.viewThread()
	case viewInventoryOwner:
		body = m.viewOwnerInventory()
	case viewInventoryCleaner:
		body = m.viewCleanerInventory()
	}
	if m.status != "" {
		body += "\n" + statusStyle.Render(m.status)
	}
	return body
}

// wide reports whether the two-pane layout fits.
func (m Model) wide() bool { return m.width >= wideThreshold }

// headerTabs renders the top bar with the active tab highlighted. Cleaners
// only ever see the inventory tab.
func (m Model) headerTabs(active string) string {
	tabs := []string{"Conversations", "Inventory"}
	if m.role == api.RoleCleaner {
		tabs = []string{"Inventory"}
	}
	var parts []string
	for _, t := range tabs {
		if t == active {
			parts = append(parts, activeTabStyle.Render(t))
		} else {
			parts = append(parts, tabStyle.Render(t))
		}
	}
	return titleStyle.Render("Hostdesk") + "  " + strings.Join(parts, " ") + "\n"
}

// setStatus shows a transient status line that auto-dismisses.
func (m *Model) setStatus(text string) tea.Cmd {
	m.status = text
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return statusExpireMsg{seq: seq}
	})
}

// fail handles an API error uniformly: a 401 forces logout, anything else
// becomes a transient status line. The returned command may be nil.
func (m *Model) fail(err error, context string) tea.Cmd {
	if errors.Is(err, api.ErrUnauthorized) {
		return m.forceLogout()
	}
	m.logger.Warn(context, zap.Error(err))
	return m.setStatus(context + ": " + err.Error())
}

// forceLogout clears the session and discards all view state.
func (m *Model) forceLogout() tea.Cmd {
	if m.sessions != nil {
		if err := m.sessions.Clear(); err != nil {
			m.logger.Warn("session clear failed", zap.Error(err))
		}
	}
	if m.cookies != nil {
		m.cookies.SetCookie("")
	}
	m.role = ""
	m.view = viewLogin
	m.login = newLoginState()
	m.login.errText = "Session expired — log in again"
	m.convs = newConvState()
	m.thread = newThreadState()
	m.owner = newOwnerInvState()
	m.clean = newCleanerInvState()
	return m.login.input.Focus()
}

// routeHome sends an authenticated user to their role's home view and
// starts its initial load.
func (m *Model) routeHome() tea.Cmd {
	if m.role == api.RoleCleaner {
		m.view = viewInventoryCleaner
		return m.enterCleanerInventory()
	}
	m.view = viewConversations
	return loadConversationsCmd(m.backend)
}
