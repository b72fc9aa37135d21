package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/pquill/hostdesk/internal/api"
	"github.com/pquill/hostdesk/internal/draft"
	"github.com/pquill/hostdesk/internal/history"
)

// pendingSend snapshots what is being sent so the history log can record it
// once the backend confirms.
type pendingSend struct {
	req       api.SendRequest
	guestName string
}

// threadState holds one open conversation thread and its draft machine.
type threadState struct {
	reservationID int
	thread        *api.Thread
	loading       bool
	loadFailed    bool

	machine draft.Machine

	compose   textinput.Model
	composing bool
	sending   bool
	pending   *pendingSend

	// showOriginal holds message IDs whose original (untranslated) text is
	// displayed. Replaced wholesale with the thread, never persisted.
	showOriginal map[int]bool

	cursor int // selected message index, for the translation toggle
}

func newThreadState() threadState {
	ti := textinput.New()
	ti.Placeholder = "Write a reply…"
	ti.CharLimit = 2000
	return threadState{
		compose:      ti,
		showOriginal: make(map[int]bool),
	}
}

// openThread resets all draft state and fetches the thread. Always called
// for transitions into the thread view.
func (m Model) openThread(reservationID int) (tea.Model, tea.Cmd) {
	m.view = viewThread
	m.thread = newThreadState()
	m.thread.reservationID = reservationID
	m.thread.loading = true
	m.thread.machine.Reset()
	return m, loadThreadCmd(m.backend, reservationID)
}

func (m Model) updateThread(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.thread.sending {
		return m, nil
	}

	if m.thread.composing {
		switch msg.Type {
		case tea.KeyEnter:
			return m.sendCompose()
		case tea.KeyEsc:
			m.thread.composing = false
			m.thread.compose.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.thread.compose, cmd = m.thread.compose.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "esc", "backspace":
		m.view = viewConversations
		m.convs.loading = true
		return m, loadConversationsCmd(m.backend)
	case "up", "k":
		if m.thread.cursor > 0 {
			m.thread.cursor--
		}
	case "down", "j":
		if t := m.thread.thread; t != nil && m.thread.cursor < len(t.Messages)-1 {
			m.thread.cursor++
		}
	case "o":
		return m.toggleOriginal()
	case "g":
		return m.regenerateDraft()
	case "a":
		return m.sendDraftAsIs()
	case "e":
		return m.editDraft()
	case "d":
		// Dismiss is purely local; no network call ever.
		m.thread.machine.Dismiss()
	case "i", "enter":
		m.thread.composing = true
		return m, m.thread.compose.Focus()
	}
	return m, nil
}

// onThreadLoaded installs a fetched thread. A response for a reservation
// other than the one currently open is stale and dropped.
func (m Model) onThreadLoaded(msg threadLoadedMsg) (tea.Model, tea.Cmd) {
	if m.view != viewThread || msg.reservationID != m.thread.reservationID {
		m.logger.Debug("dropping stale thread response",
			zap.Int("got", msg.reservationID),
			zap.Int("open", m.thread.reservationID),
		)
		return m, nil
	}
	m.thread.loading = false
	if msg.err != nil {
		m.thread.loadFailed = true
		return m, m.fail(msg.err, "load thread")
	}
	m.thread.loadFailed = false
	m.thread.thread = msg.thread
	m.thread.showOriginal = make(map[int]bool)
	if n := len(msg.thread.Messages); n > 0 {
		m.thread.cursor = n - 1
	}

	// Fresh thread, fresh draft state. Auto-generate when the guest spoke
	// last and it wasn't a platform template.
	m.thread.machine.Reset()
	if draft.ShouldAutoGenerate(msg.thread.Messages) {
		token := m.thread.machine.Begin()
		return m, generateDraftCmd(m.backend, msg.reservationID, token)
	}
	return m, nil
}

func (m Model) regenerateDraft() (tea.Model, tea.Cmd) {
	if m.thread.thread == nil {
		return m, nil
	}
	token := m.thread.machine.Begin()
	return m, generateDraftCmd(m.backend, m.thread.reservationID, token)
}

func (m Model) onDraftGenerated(msg draftGeneratedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Failure returns the machine to Idle; no retry is scheduled, the
		// user regenerates manually.
		if m.thread.machine.Fail(msg.token) {
			m.logger.Warn("draft generation failed",
				zap.Int("reservation_id", msg.reservationID),
				zap.Error(msg.err),
			)
		}
		return m, nil
	}
	if !m.thread.machine.Complete(msg.token, *msg.draft) {
		m.logger.Debug("dropping stale draft response",
			zap.Int("reservation_id", msg.reservationID),
			zap.Int("token", msg.token),
		)
	}
	return m, nil
}

// sendDraftAsIs sends the shown draft verbatim with full provenance.
func (m Model) sendDraftAsIs() (tea.Model, tea.Cmd) {
	d, ok := m.thread.machine.TakeForSend()
	if !ok {
		return m, nil
	}
	conf := d.Confidence
	req := api.SendRequest{
		Body:            d.Draft,
		WasEdited:       false,
		OriginalAIDraft: d.Draft,
		AIConfidence:    &conf,
		AICategory:      d.Category,
	}
	return m.startSend(req)
}

// editDraft copies the draft into the compose field; its provenance rides
// along on the next manual send.
func (m Model) editDraft() (tea.Model, tea.Cmd) {
	d, ok := m.thread.machine.Edit()
	if !ok {
		return m, nil
	}
	m.thread.compose.SetValue(d.Draft)
	m.thread.compose.CursorEnd()
	m.thread.composing = true
	return m, m.thread.compose.Focus()
}

// sendCompose sends the compose field. Whitespace-only text is a no-op.
func (m Model) sendCompose() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.thread.compose.Value())
	if text == "" {
		return m, nil
	}
	req := api.SendRequest{Body: text}
	if d, ok := m.thread.machine.TakeEditing(); ok {
		conf := d.Confidence
		req.WasEdited = true
		req.OriginalAIDraft = d.Draft
		req.AIConfidence = &conf
		req.AICategory = d.Category
	}
	m.thread.compose.SetValue("")
	m.thread.composing = false
	m.thread.compose.Blur()
	return m.startSend(req)
}

func (m Model) startSend(req api.SendRequest) (tea.Model, tea.Cmd) {
	guest := ""
	if m.thread.thread != nil {
		guest = m.thread.thread.Reservation.GuestName
	}
	// Every send path clears the draft, including a plain send while a
	// draft is still showing; pending holds the snapshot the history log
	// needs.
	m.thread.machine.Reset()
	m.thread.sending = true
	m.thread.pending = &pendingSend{req: req, guestName: guest}
	return m, sendMessageCmd(m.backend, m.thread.reservationID, req)
}

func (m Model) onMessageSent(msg messageSentMsg) (tea.Model, tea.Cmd) {
	m.thread.sending = false
	pending := m.thread.pending
	m.thread.pending = nil
	if msg.err != nil {
		return m, m.fail(msg.err, "send message")
	}

	// Best-effort local audit log.
	if m.history != nil && pending != nil {
		rec := history.SentMessage{
			ReservationID:   msg.reservationID,
			GuestName:       pending.guestName,
			Body:            pending.req.Body,
			WasEdited:       pending.req.WasEdited,
			OriginalAIDraft: pending.req.OriginalAIDraft,
			AIConfidence:    pending.req.AIConfidence,
			AICategory:      pending.req.AICategory,
		}
		if err := m.history.Record(rec); err != nil {
			m.logger.Warn("history record failed", zap.Error(err))
		}
	}

	// Full reload; the auto-generation rule re-runs on the fresh thread.
	m.thread.loading = true
	return m, loadThreadCmd(m.backend, msg.reservationID)
}

// toggleOriginal flips the selected message between translated and original
// text. Only meaningful for translated messages.
func (m Model) toggleOriginal() (tea.Model, tea.Cmd) {
	t := m.thread.thread
	if t == nil || m.thread.cursor >= len(t.Messages) {
		return m, nil
	}
	msg := t.Messages[m.thread.cursor]
	if !msg.Translated || msg.BodyOriginal == "" {
		return m, nil
	}
	m.thread.showOriginal[msg.ID] = !m.thread.showOriginal[msg.ID]
	return m, nil
}

// messageKind classifies a message's visual treatment. First matching rule
// wins: guest, template, AI auto-sent, AI draft-sent, plain host.
func messageKind(msg api.Message) string {
	switch {
	case msg.Sender == api.SenderGuest:
		return "guest"
	case msg.IsTemplate:
		return "template"
	case msg.AIAutoSent:
		return "ai-auto"
	case msg.AIGenerated:
		return "ai-draft"
	default:
		return "host"
	}
}

func kindStyle(kind string) lipgloss.Style {
	switch kind {
	case "guest":
		return guestMsgStyle
	case "template":
		return templateMsgStyle
	case "ai-auto", "ai-draft":
		return aiMsgStyle
	default:
		return hostMsgStyle
	}
}

func kindLabel(kind string) string {
	switch kind {
	case "guest":
		return "guest"
	case "template":
		return "template"
	case "ai-auto":
		return "AI auto"
	case "ai-draft":
		return "AI draft"
	default:
		return "host"
	}
}

func (m Model) viewThread() string {
	body := m.renderThreadPane()
	if m.wide() && len(m.convs.list) > 0 {
		return lipgloss.JoinHorizontal(lipgloss.Top, m.renderThreadSidebar(), "  ", body)
	}
	return body
}

// renderThreadSidebar is the condensed conversation list shown next to an
// open thread on wide terminals.
func (m Model) renderThreadSidebar() string {
	var b strings.Builder
	for _, c := range m.convs.list {
		name := truncate(c.GuestName, 18)
		if c.ReservationID == m.thread.reservationID {
			name = selectedStyle.Render(name)
		} else if c.NeedsAttention {
			name = attentionStyle.Render("● ") + name
		} else {
			name = dimStyle.Render(name)
		}
		b.WriteString(name + "\n")
	}
	return b.String()
}

func (m Model) renderThreadPane() string {
	var b strings.Builder
	t := m.thread.thread

	if m.thread.loading || t == nil {
		b.WriteString(m.headerTabs("Conversations"))
		if m.thread.loadFailed {
			b.WriteString("\n" + errorStyle.Render("Could not load this conversation.") + "\n")
			b.WriteString(helpStyle.Render("esc: back to conversations") + "\n")
		} else {
			b.WriteString("\nLoading thread...\n")
		}
		return b.String()
	}

	r := t.Reservation
	b.WriteString(m.headerTabs("Conversations"))
	b.WriteString(fmt.Sprintf("\n%s %s\n",
		titleStyle.Render(r.GuestName),
		dimStyle.Render(fmt.Sprintf("· %s · %s · %d guests · %s → %s",
			r.ListingName, r.Platform, r.NumGuests, dayOf(r.CheckIn), dayOf(r.CheckOut))),
	))
	b.WriteString("\n")

	b.WriteString(m.renderMessages(t.Messages))
	b.WriteString(m.renderDraftBox())
	b.WriteString(m.renderCompose())
	return b.String()
}

// renderMessages renders the history with calendar-date separators.
func (m Model) renderMessages(msgs []api.Message) string {
	var b strings.Builder
	lastDay := ""
	for i, msg := range msgs {
		if day := dayOf(msg.Timestamp); day != lastDay {
			if t, ok := parseTime(msg.Timestamp); ok {
				b.WriteString(dateSepStyle.Render("── "+formatDay(t)+" ──") + "\n")
			}
			lastDay = day
		}

		body := msg.Body
		toggled := m.thread.showOriginal[msg.ID]
		if toggled {
			body = msg.BodyOriginal
		}

		kind := messageKind(msg)
		marker := "  "
		if i == m.thread.cursor {
			marker = selectedStyle.Render("> ")
		}
		line := fmt.Sprintf("%s[%s] %s %s", marker,
			formatClock(msg.Timestamp), dimStyle.Render(kindLabel(kind)), kindStyle(kind).Render(body))
		if msg.Translated && msg.BodyOriginal != "" {
			note := "translated · o: show original"
			if toggled {
				note = "original · o: show translation"
			}
			line += " " + dimStyle.Render("("+note+")")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m Model) renderDraftBox() string {
	switch m.thread.machine.Phase() {
	case draft.Loading:
		return "\n" + dimStyle.Render("Generating AI draft...") + "\n"
	case draft.Present:
		d, _ := m.thread.machine.Current()
		head := fmt.Sprintf("AI draft · %s · %.0f%%", d.Category, d.Confidence*100)
		body := draftBoxStyle.Render(head + "\n\n" + d.Draft)
		keys := helpStyle.Render("a: send as-is · e: edit · g: regenerate · d: dismiss")
		return "\n" + body + "\n" + keys + "\n"
	default:
		return ""
	}
}

func (m Model) renderCompose() string {
	if m.thread.sending {
		return "\n" + dimStyle.Render("Sending...") + "\n"
	}
	var b strings.Builder
	b.WriteString("\n" + m.thread.compose.View() + "\n")
	if m.thread.composing {
		b.WriteString(helpStyle.Render("enter: send · esc: stop editing"))
	} else {
		b.WriteString(helpStyle.Render("i: write · g: draft · o: original · esc: back"))
	}
	return b.String()
}
