package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pquill/hostdesk/internal/api"
	"github.com/pquill/hostdesk/internal/draft"
)

func guestThread(lastSender string, template bool) *api.Thread {
	return &api.Thread{
		Reservation: api.Reservation{ID: 7, GuestName: "Maria", ListingName: "Birch 193"},
		Messages: []api.Message{
			{ID: 1, Sender: api.SenderHost, Body: "Welcome!", Timestamp: "2026-08-01T10:00:00"},
			{ID: 2, Sender: lastSender, Body: "Is there parking?", Timestamp: "2026-08-01T11:00:00", IsTemplate: template},
		},
	}
}

// openTestThread puts the model in the thread view with a loaded thread,
// returning the command produced by the load (the auto-draft request, if
// any).
func openTestThread(t *testing.T, b *mockBackend, th *api.Thread) (Model, tea.Cmd) {
	t.Helper()
	m := testModel(t, b)
	m.role = api.RoleOwner
	tm, _ := m.openThread(th.Reservation.ID)
	m = asModel(t, tm)
	tm, cmd := m.Update(threadLoadedMsg{reservationID: th.Reservation.ID, thread: th})
	return asModel(t, tm), cmd
}

func TestAutoDraftOnGuestLastMessage(t *testing.T) {
	b := &mockBackend{draft: &api.Draft{Draft: "Yes, free parking.", Confidence: 0.9, Category: "parking"}}
	m, cmd := openTestThread(t, b, guestThread(api.SenderGuest, false))

	if m.thread.machine.Phase() != draft.Loading {
		t.Fatalf("phase = %v, want Loading", m.thread.machine.Phase())
	}
	if cmd == nil {
		t.Fatal("expected a draft generation command")
	}
	msg := cmd()
	if b.generateCalls != 1 {
		t.Fatalf("generateCalls = %d, want 1", b.generateCalls)
	}

	tm, _ := m.Update(msg)
	m = asModel(t, tm)
	if m.thread.machine.Phase() != draft.Present {
		t.Errorf("phase = %v, want Present", m.thread.machine.Phase())
	}
	d, ok := m.thread.machine.Current()
	if !ok || d.Draft != "Yes, free parking." {
		t.Errorf("draft = %+v ok=%v", d, ok)
	}
}

func TestNoAutoDraftWhenHostSpokeLast(t *testing.T) {
	b := &mockBackend{}
	m, cmd := openTestThread(t, b, guestThread(api.SenderHost, false))

	if cmd != nil {
		t.Error("expected no command after a host-last thread load")
	}
	if m.thread.machine.Phase() != draft.Idle {
		t.Errorf("phase = %v, want Idle", m.thread.machine.Phase())
	}
	if b.generateCalls != 0 {
		t.Errorf("generateCalls = %d, want 0", b.generateCalls)
	}
}

func TestNoAutoDraftForTemplateMessage(t *testing.T) {
	b := &mockBackend{}
	m, cmd := openTestThread(t, b, guestThread(api.SenderGuest, true))

	if cmd != nil || m.thread.machine.Phase() != draft.Idle {
		t.Errorf("template guest message triggered a draft: phase=%v", m.thread.machine.Phase())
	}
}

func TestStaleThreadResponseDropped(t *testing.T) {
	b := &mockBackend{}
	m := testModel(t, b)
	m.role = api.RoleOwner
	tm, _ := m.openThread(7)
	m = asModel(t, tm)

	tm, _ = m.Update(threadLoadedMsg{reservationID: 3, thread: guestThread(api.SenderGuest, false)})
	m = asModel(t, tm)

	if m.thread.thread != nil {
		t.Error("stale thread installed")
	}
	if !m.thread.loading {
		t.Error("loading cleared by a stale response")
	}
}

func TestStaleDraftResponseDropped(t *testing.T) {
	b := &mockBackend{draft: &api.Draft{Draft: "old"}}
	m, cmd := openTestThread(t, b, guestThread(api.SenderGuest, false))
	staleMsg := cmd() // response for the first generation

	// Regenerate before the first response lands.
	tm, cmd2 := m.updateThread(keyRune('g'))
	m = asModel(t, tm)
	b.draft = &api.Draft{Draft: "new"}
	freshMsg := cmd2()

	tm, _ = m.Update(staleMsg)
	m = asModel(t, tm)
	if m.thread.machine.Phase() != draft.Loading {
		t.Fatalf("stale draft accepted: phase = %v", m.thread.machine.Phase())
	}

	tm, _ = m.Update(freshMsg)
	m = asModel(t, tm)
	d, ok := m.thread.machine.Current()
	if !ok || d.Draft != "new" {
		t.Errorf("draft = %+v ok=%v, want the fresh draft", d, ok)
	}
}

func TestSendDraftAsIsCarriesProvenance(t *testing.T) {
	b := &mockBackend{draft: &api.Draft{Draft: "Yes, free parking.", Confidence: 0.9, Category: "parking"}}
	m, cmd := openTestThread(t, b, guestThread(api.SenderGuest, false))
	tm, _ := m.Update(cmd())
	m = asModel(t, tm)

	tm, sendCmd := m.updateThread(keyRune('a'))
	m = asModel(t, tm)
	if m.thread.machine.Phase() != draft.Idle {
		t.Errorf("draft not cleared on send: phase = %v", m.thread.machine.Phase())
	}
	if sendCmd == nil {
		t.Fatal("expected a send command")
	}
	sendCmd()

	got := b.lastSend
	if got.Body != "Yes, free parking." || got.WasEdited {
		t.Errorf("send = %+v, want verbatim draft with was_edited=false", got)
	}
	if got.OriginalAIDraft != "Yes, free parking." || got.AICategory != "parking" {
		t.Errorf("provenance missing: %+v", got)
	}
	if got.AIConfidence == nil || *got.AIConfidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", got.AIConfidence)
	}
}

func TestEditedSendCarriesEditedProvenance(t *testing.T) {
	b := &mockBackend{draft: &api.Draft{Draft: "Yes.", Confidence: 0.8, Category: "parking"}}
	m, cmd := openTestThread(t, b, guestThread(api.SenderGuest, false))
	tm, _ := m.Update(cmd())
	m = asModel(t, tm)

	tm, _ = m.updateThread(keyRune('e'))
	m = asModel(t, tm)
	if m.thread.machine.Phase() != draft.Editing {
		t.Fatalf("phase = %v, want Editing", m.thread.machine.Phase())
	}
	m.thread.compose.SetValue("Yes, and it is free.")

	tm, sendCmd := m.updateThread(tea.KeyMsg{Type: tea.KeyEnter})
	m = asModel(t, tm)
	if m.thread.machine.Phase() != draft.Idle {
		t.Errorf("draft not cleared on edited send: phase = %v", m.thread.machine.Phase())
	}
	sendCmd()

	got := b.lastSend
	if got.Body != "Yes, and it is free." || !got.WasEdited {
		t.Errorf("send = %+v, want edited body with was_edited=true", got)
	}
	if got.OriginalAIDraft != "Yes." {
		t.Errorf("original draft = %q, want %q", got.OriginalAIDraft, "Yes.")
	}
}

func TestPlainSendWhileDraftPresentClearsDraft(t *testing.T) {
	b := &mockBackend{draft: &api.Draft{Draft: "Yes.", Confidence: 0.8, Category: "parking"}}
	m, cmd := openTestThread(t, b, guestThread(api.SenderGuest, false))
	tm, _ := m.Update(cmd())
	m = asModel(t, tm)
	if m.thread.machine.Phase() != draft.Present {
		t.Fatalf("phase = %v, want Present", m.thread.machine.Phase())
	}

	// Type a reply without touching the draft and send it.
	tm, _ = m.updateThread(keyRune('i'))
	m = asModel(t, tm)
	m.thread.compose.SetValue("I'll check and get back to you.")
	tm, sendCmd := m.updateThread(tea.KeyMsg{Type: tea.KeyEnter})
	m = asModel(t, tm)

	if m.thread.machine.Phase() != draft.Idle {
		t.Errorf("phase = %v, want Idle immediately after send", m.thread.machine.Phase())
	}
	sentMsg := sendCmd()
	if b.lastSend.OriginalAIDraft != "" || b.lastSend.WasEdited {
		t.Errorf("untouched draft leaked provenance: %+v", b.lastSend)
	}

	// The draft must stay cleared even when the post-send reload fails.
	tm, _ = m.Update(sentMsg)
	m = asModel(t, tm)
	tm, _ = m.Update(threadLoadedMsg{reservationID: 7, err: errors.New("connection reset")})
	m = asModel(t, tm)
	if m.thread.machine.Phase() != draft.Idle {
		t.Errorf("phase = %v after failed reload, want Idle", m.thread.machine.Phase())
	}
}

func TestFailedThreadLoadShowsErrorState(t *testing.T) {
	b := &mockBackend{}
	m := testModel(t, b)
	m.role = api.RoleOwner
	tm, _ := m.openThread(7)
	m = asModel(t, tm)

	tm, _ = m.Update(threadLoadedMsg{reservationID: 7, err: errors.New("connection reset")})
	m = asModel(t, tm)

	out := m.viewThread()
	if strings.Contains(out, "Loading thread") {
		t.Errorf("failed load still renders as loading: %q", out)
	}
	if !strings.Contains(out, "Could not load") {
		t.Errorf("no error state rendered: %q", out)
	}
}

func TestPlainSendHasNoProvenance(t *testing.T) {
	b := &mockBackend{}
	m, _ := openTestThread(t, b, guestThread(api.SenderHost, false))

	tm, _ := m.updateThread(keyRune('i'))
	m = asModel(t, tm)
	m.thread.compose.SetValue("Checkout is at 11.")
	tm, sendCmd := m.updateThread(tea.KeyMsg{Type: tea.KeyEnter})
	m = asModel(t, tm)
	sendCmd()

	got := b.lastSend
	if got.OriginalAIDraft != "" || got.AIConfidence != nil || got.AICategory != "" || got.WasEdited {
		t.Errorf("plain send carries provenance: %+v", got)
	}
}

func TestWhitespaceComposeIsNoop(t *testing.T) {
	b := &mockBackend{}
	m, _ := openTestThread(t, b, guestThread(api.SenderHost, false))

	tm, _ := m.updateThread(keyRune('i'))
	m = asModel(t, tm)
	m.thread.compose.SetValue("   ")
	_, sendCmd := m.updateThread(tea.KeyMsg{Type: tea.KeyEnter})
	if sendCmd != nil {
		t.Error("whitespace-only compose produced a send command")
	}
	if b.sendCalls != 0 {
		t.Errorf("sendCalls = %d, want 0", b.sendCalls)
	}
}

func TestDismissIsLocalRegenerateIsNot(t *testing.T) {
	b := &mockBackend{draft: &api.Draft{Draft: "Yes."}}
	m, cmd := openTestThread(t, b, guestThread(api.SenderGuest, false))
	tm, _ := m.Update(cmd())
	m = asModel(t, tm)
	if b.generateCalls != 1 {
		t.Fatalf("generateCalls = %d, want 1", b.generateCalls)
	}

	tm, dismissCmd := m.updateThread(keyRune('d'))
	m = asModel(t, tm)
	if dismissCmd != nil {
		t.Error("dismiss produced a command")
	}
	if b.generateCalls != 1 {
		t.Errorf("dismiss hit the backend: generateCalls = %d", b.generateCalls)
	}
	if m.thread.machine.Phase() != draft.Dismissed {
		t.Errorf("phase = %v, want Dismissed", m.thread.machine.Phase())
	}

	tm, genCmd := m.updateThread(keyRune('g'))
	m = asModel(t, tm)
	if genCmd == nil {
		t.Fatal("regenerate produced no command")
	}
	genCmd()
	if b.generateCalls != 2 {
		t.Errorf("generateCalls = %d, want 2", b.generateCalls)
	}
}

func TestShowOriginalToggleRoundTrips(t *testing.T) {
	th := guestThread(api.SenderHost, false)
	th.Messages[1].Translated = true
	th.Messages[1].BodyOriginal = "¿Hay aparcamiento?"
	b := &mockBackend{}
	m, _ := openTestThread(t, b, th)

	m.thread.cursor = 1
	tm, _ := m.toggleOriginal()
	m = asModel(t, tm)
	if !m.thread.showOriginal[2] {
		t.Fatal("first toggle did not show the original")
	}
	tm, _ = m.toggleOriginal()
	m = asModel(t, tm)
	if m.thread.showOriginal[2] {
		t.Error("second toggle did not restore the translation")
	}
}

func TestToggleIgnoredForUntranslatedMessage(t *testing.T) {
	b := &mockBackend{}
	m, _ := openTestThread(t, b, guestThread(api.SenderHost, false))

	m.thread.cursor = 0
	tm, _ := m.toggleOriginal()
	m = asModel(t, tm)
	if len(m.thread.showOriginal) != 0 {
		t.Error("toggle recorded state for an untranslated message")
	}
}

func TestMessageKindPriority(t *testing.T) {
	tests := []struct {
		name string
		msg  api.Message
		want string
	}{
		{"guest wins over template", api.Message{Sender: api.SenderGuest, IsTemplate: true}, "guest"},
		{"template wins over ai", api.Message{Sender: api.SenderHost, IsTemplate: true, AIGenerated: true}, "template"},
		{"auto-sent wins over draft", api.Message{Sender: api.SenderHost, AIAutoSent: true, AIGenerated: true}, "ai-auto"},
		{"ai draft", api.Message{Sender: api.SenderHost, AIGenerated: true}, "ai-draft"},
		{"plain host", api.Message{Sender: api.SenderHost}, "host"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := messageKind(tt.msg); got != tt.want {
				t.Errorf("messageKind() = %q, want %q", got, tt.want)
			}
		})
	}
}
