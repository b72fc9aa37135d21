package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pquill/hostdesk/internal/api"
)

// syncPhase tracks the two-step manual sync sequence.
type syncPhase int

const (
	syncIdle syncPhase = iota
	syncListings
	syncReservations
)

// convState holds the conversation list view.
type convState struct {
	list    []api.Conversation
	cursor  int
	loading bool
	syncing syncPhase
}

func newConvState() convState {
	return convState{loading: true}
}

func (m Model) updateConversations(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.convs.syncing != syncIdle {
		return m, nil
	}
	switch msg.String() {
	case "up", "k":
		if m.convs.cursor > 0 {
			m.convs.cursor--
		}
	case "down", "j":
		if m.convs.cursor < len(m.convs.list)-1 {
			m.convs.cursor++
		}
	case "enter":
		if len(m.convs.list) > 0 {
			return m.openThread(m.convs.list[m.convs.cursor].ReservationID)
		}
	case "r":
		m.convs.loading = true
		return m, loadConversationsCmd(m.backend)
	case "s":
		m.convs.syncing = syncListings
		return m, syncListingsCmd(m.backend)
	case "tab":
		if m.role == api.RoleOwner {
			m.view = viewInventoryOwner
			return m, m.enterOwnerInventory()
		}
	}
	return m, nil
}

func (m Model) onConversationsLoaded(msg conversationsLoadedMsg) (tea.Model, tea.Cmd) {
	m.convs.loading = false
	if msg.err != nil {
		return m, m.fail(msg.err, "load conversations")
	}
	// Replace wholesale; the server owns ordering.
	m.convs.list = msg.convs
	if m.convs.cursor >= len(m.convs.list) {
		m.convs.cursor = 0
	}
	return m, nil
}

func (m Model) onSyncListingsDone(msg syncListingsDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.convs.syncing = syncIdle
		return m, m.fail(msg.err, "sync listings")
	}
	// Step one succeeded; reservations follow immediately.
	m.convs.syncing = syncReservations
	return m, syncReservationsCmd(m.backend)
}

func (m Model) onSyncReservationsDone(msg syncReservationsDoneMsg) (tea.Model, tea.Cmd) {
	m.convs.syncing = syncIdle
	if msg.err != nil {
		return m, m.fail(msg.err, "sync reservations")
	}
	m.convs.loading = true
	status := m.setStatus(fmt.Sprintf("Synced %d reservations, %d new messages",
		msg.result.Synced, msg.result.MessagesImported))
	return m, tea.Batch(status, loadConversationsCmd(m.backend))
}

func (m Model) viewConversations() string {
	var b strings.Builder
	b.WriteString(m.headerTabs("Conversations"))
	b.WriteString("\n")

	switch m.convs.syncing {
	case syncListings:
		b.WriteString("Syncing listings...\n")
		return b.String()
	case syncReservations:
		b.WriteString("Syncing reservations...\n")
		return b.String()
	}
	if m.convs.loading {
		b.WriteString("Loading conversations...\n")
		return b.String()
	}
	if len(m.convs.list) == 0 {
		b.WriteString(dimStyle.Render("No conversations. Press s to sync.") + "\n")
		return b.String()
	}

	now := time.Now()
	for i, c := range m.convs.list {
		b.WriteString(m.renderConversationRow(c, i == m.convs.cursor, now))
		b.WriteString("\n")
	}
	b.WriteString("\n" + helpStyle.Render("enter: open · s: sync · r: reload · tab: inventory · ctrl+c: quit"))
	return b.String()
}

func (m Model) renderConversationRow(c api.Conversation, selected bool, now time.Time) string {
	marker := "  "
	if selected {
		marker = selectedStyle.Render("> ")
	}
	name := c.GuestName
	if c.NeedsAttention {
		name = attentionStyle.Render("● " + name)
	}
	status, detail := guestStatus(c.CheckIn, c.CheckOut, now)
	chip := ""
	if status != "" {
		chip = badgeStyle.Render(" [" + status + ", " + detail + "]")
	}
	line := marker + name + dimStyle.Render(" · "+c.ListingName+" · "+c.Platform) + chip

	preview := c.LastMessagePreview
	if preview != "" {
		// Width is unknown before the first WindowSizeMsg and can be
		// absurdly small mid-resize.
		width := m.width
		if width < 20 {
			width = 80
		}
		sender := c.LastMessageSender
		line += "\n    " + dimStyle.Render(sender+": "+truncate(preview, width-10))
	}
	return line
}
