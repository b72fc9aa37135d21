package ui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pquill/hostdesk/internal/api"
)

// Search-as-you-type settles for this long before a request is sent.
const cleanerSearchDebounce = 300 * time.Millisecond

// Queries shorter than this never hit the backend.
const cleanerSearchMinRunes = 2

// cleanerInvState is the cleaner's whole world: find an item by search or
// by walking locations, then report it low or missing.
type cleanerInvState struct {
	loading bool

	search    textinput.Model
	searching bool // input focused
	searchSeq int
	inFlight  bool
	// results is non-nil while a search result list is displayed.
	results     []api.Item
	resultQuery string

	// locations is the flattened two-level hierarchy, parents before
	// their children.
	locations []api.Location
	locCursor int

	// A selected location and its items.
	inLocation  bool
	selectedLoc api.Location
	items       []api.Item
	itemCursor  int

	// reported remembers what this cleaner already flagged, item ID to
	// report type. Lives for the session only, survives view switches.
	reported map[int]string
}

func newCleanerInvState() cleanerInvState {
	search := textinput.New()
	search.Placeholder = "Search items…"
	return cleanerInvState{
		loading:  true,
		search:   search,
		reported: make(map[int]string),
	}
}

// enterCleanerInventory switches to the cleaner view and loads the
// location hierarchy. The reported set is deliberately left alone.
func (m *Model) enterCleanerInventory() tea.Cmd {
	m.view = viewInventoryCleaner
	m.clean.loading = true
	return loadInventoryCmd(m.backend)
}

// flattenLocations lays the hierarchy out as parents followed by their
// children, ready for a flat cursor.
func flattenLocations(locs []api.Location) []api.Location {
	var out []api.Location
	for _, l := range locs {
		children := l.Children
		l.Children = nil
		out = append(out, l)
		out = append(out, children...)
	}
	return out
}

func (m Model) updateCleanerInventory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.clean

	if s.searching {
		return m.updateCleanerSearch(msg)
	}

	switch msg.String() {
	case "/":
		s.searching = true
		return m, s.search.Focus()
	case "up", "k":
		if s.results != nil || s.inLocation {
			if s.itemCursor > 0 {
				s.itemCursor--
			}
		} else if s.locCursor > 0 {
			s.locCursor--
		}
	case "down", "j":
		if s.results != nil {
			if s.itemCursor < len(s.results)-1 {
				s.itemCursor++
			}
		} else if s.inLocation {
			if s.itemCursor < len(s.items)-1 {
				s.itemCursor++
			}
		} else if s.locCursor < len(s.locations)-1 {
			s.locCursor++
		}
	case "enter":
		if s.results == nil && !s.inLocation && s.locCursor < len(s.locations) {
			loc := s.locations[s.locCursor]
			s.inLocation = true
			s.selectedLoc = loc
			s.items = nil
			s.itemCursor = 0
			return m, cleanerLocationItemsCmd(m.backend, loc.ID)
		}
	case "l":
		return m.fileCleanerReport(api.ReportLow)
	case "m", "o":
		return m.fileCleanerReport(api.ReportMissing)
	case "r":
		return m, m.enterCleanerInventory()
	case "esc":
		switch {
		case s.results != nil:
			s.results = nil
			s.resultQuery = ""
			s.search.SetValue("")
			s.itemCursor = 0
		case s.inLocation:
			s.inLocation = false
			s.items = nil
			s.itemCursor = 0
		}
	}
	return m, nil
}

// updateCleanerSearch feeds keys to the search input and debounces the
// backend query.
func (m Model) updateCleanerSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.clean
	switch msg.Type {
	case tea.KeyEsc:
		s.searching = false
		s.search.Blur()
		return m, nil
	case tea.KeyEnter:
		// Move focus to the result list; the debounce already searched.
		s.searching = false
		s.search.Blur()
		return m, nil
	default:
		var cmd tea.Cmd
		s.search, cmd = s.search.Update(msg)
		s.searchSeq++
		seq := s.searchSeq
		query := strings.TrimSpace(s.search.Value())
		if utf8.RuneCountInString(query) < cleanerSearchMinRunes {
			// Too short to search; drop any stale results.
			s.results = nil
			s.resultQuery = ""
			return m, cmd
		}
		tick := tea.Tick(cleanerSearchDebounce, func(time.Time) tea.Msg {
			return cleanerSearchTickMsg{seq: seq}
		})
		return m, tea.Batch(cmd, tick)
	}
}

// onCleanerSearchTick fires when the debounce settles. Only the newest
// tick for the current text dispatches a request.
func (m Model) onCleanerSearchTick(msg cleanerSearchTickMsg) (tea.Model, tea.Cmd) {
	s := &m.clean
	if msg.seq != s.searchSeq {
		return m, nil
	}
	query := strings.TrimSpace(s.search.Value())
	if utf8.RuneCountInString(query) < cleanerSearchMinRunes {
		return m, nil
	}
	s.inFlight = true
	return m, cleanerSearchCmd(m.backend, query)
}

func (m Model) onCleanerSearchResult(msg cleanerSearchResultMsg) (tea.Model, tea.Cmd) {
	s := &m.clean
	// The request is over either way; only installing the results depends
	// on the query still matching what the user typed.
	s.inFlight = false
	if msg.query != strings.TrimSpace(s.search.Value()) {
		return m, nil
	}
	if msg.err != nil {
		return m, m.fail(msg.err, "search")
	}
	if msg.items == nil {
		msg.items = []api.Item{}
	}
	s.results = msg.items
	s.resultQuery = msg.query
	s.itemCursor = 0
	return m, nil
}

func (m Model) onCleanerLocationItems(msg cleanerLocationItemsMsg) (tea.Model, tea.Cmd) {
	s := &m.clean
	if !s.inLocation || msg.locationID != s.selectedLoc.ID {
		return m, nil
	}
	if msg.err != nil {
		return m, m.fail(msg.err, "load location")
	}
	s.items = msg.items
	s.itemCursor = 0
	return m, nil
}

// fileCleanerReport reports the item under the cursor. Re-reporting an
// already-flagged item is a local no-op.
func (m Model) fileCleanerReport(reportType string) (tea.Model, tea.Cmd) {
	s := &m.clean
	item, ok := s.cursorItem()
	if !ok {
		return m, nil
	}
	if prev, done := s.reported[item.ID]; done {
		return m, m.setStatus(fmt.Sprintf("Already reported %s as %s", item.Name, prev))
	}
	return m, fileReportCmd(m.backend, item.ID, reportType)
}

func (s *cleanerInvState) cursorItem() (api.Item, bool) {
	var list []api.Item
	switch {
	case s.results != nil:
		list = s.results
	case s.inLocation:
		list = s.items
	default:
		return api.Item{}, false
	}
	if s.itemCursor >= len(list) {
		return api.Item{}, false
	}
	return list[s.itemCursor], true
}

func (m Model) onReportFiled(msg reportFiledMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.fail(msg.err, "report item")
	}
	m.clean.reported[msg.itemID] = msg.reportType
	return m, m.setStatus("Reported, thank you!")
}

func (m Model) viewCleanerInventory() string {
	s := &m.clean
	var b strings.Builder
	b.WriteString(m.headerTabs("Inventory"))
	b.WriteString("\nSearch: " + s.search.View() + "\n")
	if s.inFlight {
		b.WriteString(dimStyle.Render("Searching...") + "\n")
	}
	b.WriteString("\n")

	if s.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	switch {
	case s.results != nil:
		b.WriteString(dimStyle.Render(fmt.Sprintf("Results for %q", s.resultQuery)) + "\n")
		b.WriteString(m.renderCleanerItems(s.results))
		b.WriteString("\n" + helpStyle.Render("l: report low · m: report missing · esc: clear") + "\n")
	case s.inLocation:
		b.WriteString(titleStyle.Render(s.selectedLoc.Name) + " " +
			badgeStyle.Render(s.selectedLoc.HouseCode+"/"+s.selectedLoc.Code) + "\n")
		b.WriteString(m.renderCleanerItems(s.items))
		b.WriteString("\n" + helpStyle.Render("l: report low · m: report missing · esc: back") + "\n")
	default:
		for i, loc := range s.locations {
			marker := "  "
			if i == s.locCursor {
				marker = selectedStyle.Render("> ")
			}
			b.WriteString(fmt.Sprintf("%s%s %s  %s\n", marker,
				badgeStyle.Render(loc.HouseCode), loc.Name,
				dimStyle.Render(fmt.Sprintf("%d items", loc.ItemCount))))
		}
		b.WriteString("\n" + helpStyle.Render("/: search · enter: open · r: reload") + "\n")
	}
	return b.String()
}

func (m Model) renderCleanerItems(items []api.Item) string {
	s := &m.clean
	var b strings.Builder
	if len(items) == 0 {
		b.WriteString(dimStyle.Render("Nothing here.") + "\n")
	}
	for i, it := range items {
		marker := "  "
		if i == s.itemCursor {
			marker = selectedStyle.Render("> ")
		}
		note := ""
		if t, done := s.reported[it.ID]; done {
			note = " " + statusStyle.Render("✓ reported "+t)
		}
		b.WriteString(fmt.Sprintf("%s%s %s  %s%s\n", marker,
			badgeStyle.Render(it.HouseCode), it.Name,
			dimStyle.Render(fmt.Sprintf("%d %s · %s", it.Quantity, it.Unit, it.LocationName)),
			note))
	}
	return b.String()
}
