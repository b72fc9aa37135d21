// Package draft implements the AI reply-draft lifecycle for an open thread.
//
// The machine replaces the boolean soup a naive client would carry
// (loading flag, dismissed flag, current draft, editing draft) with one
// tagged state, and guards every generation with a token so a stale
// response from an abandoned request can never overwrite newer state.
package draft

import "github.com/pquill/hostdesk/internal/api"

// Phase is the lifecycle state of the draft subsystem.
type Phase int

const (
	// Idle: no draft, none requested.
	Idle Phase = iota
	// Loading: a generation request is in flight.
	Loading
	// Present: a draft exists and is shown.
	Present
	// Dismissed: a draft is retained in memory but hidden.
	Dismissed
	// Editing: the draft's text has been copied into the compose field;
	// its provenance is attached to the next send.
	Editing
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Present:
		return "present"
	case Dismissed:
		return "dismissed"
	case Editing:
		return "editing"
	}
	return "unknown"
}

// Machine holds the draft state for exactly one open thread. The zero value
// is Idle. Machine is not safe for concurrent use; the UI event loop is its
// only caller.
type Machine struct {
	phase Phase
	token int
	draft api.Draft
}

// Phase returns the current lifecycle state.
func (m *Machine) Phase() Phase { return m.phase }

// Current returns the live draft. ok is false in Idle and Loading.
func (m *Machine) Current() (d api.Draft, ok bool) {
	if m.phase == Present || m.phase == Dismissed || m.phase == Editing {
		return m.draft, true
	}
	return api.Draft{}, false
}

// Reset discards all draft state and invalidates any in-flight generation.
// Opening a thread always starts here.
func (m *Machine) Reset() {
	m.token++
	m.phase = Idle
	m.draft = api.Draft{}
}

// Begin starts a generation and returns its token. Any previously shown
// draft is cleared immediately, before the response arrives.
func (m *Machine) Begin() int {
	m.token++
	m.phase = Loading
	m.draft = api.Draft{}
	return m.token
}

// Complete delivers a generation result. It is accepted only when token
// matches the active generation; stale completions are dropped and the
// return value reports which happened.
func (m *Machine) Complete(token int, d api.Draft) bool {
	if m.phase != Loading || token != m.token {
		return false
	}
	m.phase = Present
	m.draft = d
	return true
}

// Fail delivers a generation failure. A matching token moves the machine
// back to Idle; the user must regenerate manually.
func (m *Machine) Fail(token int) bool {
	if m.phase != Loading || token != m.token {
		return false
	}
	m.phase = Idle
	m.draft = api.Draft{}
	return true
}

// Dismiss hides the draft, retaining it in memory. Provenance survives only
// if Edit is invoked afterward.
func (m *Machine) Dismiss() {
	if m.phase == Present {
		m.phase = Dismissed
	}
}

// Edit moves the draft into the compose field. Returns the draft text to
// copy and false when there is nothing to edit.
func (m *Machine) Edit() (api.Draft, bool) {
	if m.phase != Present && m.phase != Dismissed {
		return api.Draft{}, false
	}
	m.phase = Editing
	return m.draft, true
}

// TakeForSend captures the draft for a verbatim send-as-is. Only valid in
// Present; the machine resets so the draft is cleared regardless of the
// send's outcome.
func (m *Machine) TakeForSend() (api.Draft, bool) {
	if m.phase != Present {
		return api.Draft{}, false
	}
	d := m.draft
	m.Reset()
	return d, true
}

// TakeEditing captures provenance for a manual send while Editing, then
// resets. ok is false when no draft was being edited, in which case the
// send carries no AI provenance.
func (m *Machine) TakeEditing() (api.Draft, bool) {
	if m.phase != Editing {
		return api.Draft{}, false
	}
	d := m.draft
	m.Reset()
	return d, true
}

// ShouldAutoGenerate reports whether opening a thread with the given
// messages must immediately start a generation: the newest message exists,
// came from the guest, and is not a detected template.
func ShouldAutoGenerate(messages []api.Message) bool {
	if len(messages) == 0 {
		return false
	}
	last := messages[len(messages)-1]
	return last.Sender == api.SenderGuest && !last.IsTemplate
}
