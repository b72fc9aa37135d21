package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pquill/hostdesk/internal/api"
)

type ownerTab int

const (
	tabItems ownerTab = iota
	tabAlerts
	tabShopping
	tabLocations
)

func (t ownerTab) String() string {
	switch t {
	case tabItems:
		return "Items"
	case tabAlerts:
		return "Alerts"
	case tabShopping:
		return "Shopping"
	case tabLocations:
		return "Locations"
	}
	return "?"
}

var ownerTabs = []ownerTab{tabItems, tabAlerts, tabShopping, tabLocations}

// ownerInvState holds the owner inventory view: the full item cache plus
// the alert, shopping and location side tabs.
type ownerInvState struct {
	tab     ownerTab
	loading bool
	cursor  int

	items     []api.Item
	locations []api.Location
	reports   []api.Report
	shopping  []api.ShoppingEntry

	// Client-side filters. All active filters must match (conjunction).
	houseFilter string // house code, "" = all houses
	catFilter   string // category, "" = all
	filter      textinput.Model
	filtering   bool

	// Server-side AI search. A non-nil result set replaces the item list
	// until dismissed.
	searchResults []api.Item
	searchQuery   string
	searching     bool

	quickAdd    textinput.Model
	quickAdding bool
	parsing     bool

	bulk        textarea.Model
	bulking     bool
	bulkPreview []api.ProposedItem
	bulkCursor  int
	bulkSending bool
}

func newOwnerInvState() ownerInvState {
	filter := textinput.New()
	filter.Placeholder = "Filter or AI search…"
	quick := textinput.New()
	quick.Placeholder = "e.g. 2 rolls paper towels in 193 kitchen"
	bulk := textarea.New()
	bulk.Placeholder = "Paste an item list, one per line…"
	bulk.SetHeight(6)
	return ownerInvState{
		loading:  true,
		filter:   filter,
		quickAdd: quick,
		bulk:     bulk,
	}
}

// enterOwnerInventory switches to the owner inventory view and loads all
// four data sets.
func (m *Model) enterOwnerInventory() tea.Cmd {
	m.view = viewInventoryOwner
	m.owner.loading = true
	return tea.Batch(
		loadInventoryCmd(m.backend),
		loadReportsCmd(m.backend),
		loadShoppingCmd(m.backend),
	)
}

// visibleItems applies the active filters, or returns the AI search result
// set when one is live.
func (s *ownerInvState) visibleItems() []api.Item {
	if s.searchResults != nil {
		return s.searchResults
	}
	query := strings.ToLower(strings.TrimSpace(s.filter.Value()))
	var out []api.Item
	for _, it := range s.items {
		if s.houseFilter != "" && it.HouseCode != s.houseFilter {
			continue
		}
		if s.catFilter != "" && it.Category != s.catFilter {
			continue
		}
		if query != "" && !itemMatches(it, query) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// itemMatches reports whether the lowercased query is a substring of the
// item's name, category, brand or location.
func itemMatches(it api.Item, query string) bool {
	for _, field := range []string{it.Name, it.Category, it.Brand, it.LocationName} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func (s *ownerInvState) categories() []string {
	seen := make(map[string]bool)
	for _, it := range s.items {
		if it.Category != "" {
			seen[it.Category] = true
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// cycleCategory advances the category filter through all known categories
// and back to "all".
func (s *ownerInvState) cycleCategory() {
	cats := s.categories()
	if len(cats) == 0 {
		s.catFilter = ""
		return
	}
	if s.catFilter == "" {
		s.catFilter = cats[0]
		return
	}
	for i, c := range cats {
		if c == s.catFilter {
			if i+1 < len(cats) {
				s.catFilter = cats[i+1]
			} else {
				s.catFilter = ""
			}
			return
		}
	}
	s.catFilter = ""
}

func (m *Model) cycleHouse() {
	codes := make([]string, 0, len(m.houses))
	for _, h := range m.houses {
		codes = append(codes, h.Code)
	}
	s := &m.owner
	if len(codes) == 0 {
		s.houseFilter = ""
		return
	}
	if s.houseFilter == "" {
		s.houseFilter = codes[0]
		return
	}
	for i, c := range codes {
		if c == s.houseFilter {
			if i+1 < len(codes) {
				s.houseFilter = codes[i+1]
			} else {
				s.houseFilter = ""
			}
			return
		}
	}
	s.houseFilter = ""
}

func (m Model) updateOwnerInventory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.owner

	switch {
	case s.filtering:
		return m.updateOwnerFilter(msg)
	case s.quickAdding:
		return m.updateQuickAdd(msg)
	case s.bulking:
		return m.updateBulkImport(msg)
	}

	switch msg.String() {
	case "tab":
		m.view = viewConversations
		m.convs.loading = true
		return m, loadConversationsCmd(m.backend)
	case "left", "right":
		n := len(ownerTabs)
		i := int(s.tab)
		if msg.String() == "right" {
			i = (i + 1) % n
		} else {
			i = (i + n - 1) % n
		}
		s.tab = ownerTabs[i]
		s.cursor = 0
		// Alerts and shopping are cheap and change under cleaners' feet;
		// refresh them on entry.
		switch s.tab {
		case tabAlerts:
			return m, loadReportsCmd(m.backend)
		case tabShopping:
			return m, loadShoppingCmd(m.backend)
		}
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < s.rowCount()-1 {
			s.cursor++
		}
	case "r":
		return m, m.enterOwnerInventory()
	case "/":
		if s.tab == tabItems {
			s.filtering = true
			return m, s.filter.Focus()
		}
	case "h":
		if s.tab == tabItems {
			m.cycleHouse()
			s.cursor = 0
		}
	case "c":
		if s.tab == tabItems {
			s.cycleCategory()
			s.cursor = 0
		}
	case "a":
		if s.tab == tabItems {
			s.quickAdding = true
			return m, s.quickAdd.Focus()
		}
	case "b":
		if s.tab == tabItems {
			s.bulking = true
			s.bulkPreview = nil
			return m, s.bulk.Focus()
		}
	case "x", "enter":
		if s.tab == tabAlerts && s.cursor < len(s.reports) {
			return m, resolveReportCmd(m.backend, s.reports[s.cursor].ID)
		}
	case "esc":
		if s.searchResults != nil {
			s.searchResults = nil
			s.searchQuery = ""
			s.filter.SetValue("")
			s.cursor = 0
		}
	}
	return m, nil
}

func (s *ownerInvState) rowCount() int {
	switch s.tab {
	case tabItems:
		return len(s.visibleItems())
	case tabAlerts:
		return len(s.reports)
	case tabShopping:
		return len(s.shopping)
	case tabLocations:
		return locationRowCount(s.locations)
	}
	return 0
}

func locationRowCount(locs []api.Location) int {
	n := 0
	for _, l := range locs {
		n += 1 + len(l.Children)
	}
	return n
}

// updateOwnerFilter handles keys while the filter bar is focused. Text
// filters locally as it changes; enter submits an AI search instead.
func (m Model) updateOwnerFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.owner
	switch msg.Type {
	case tea.KeyEsc:
		s.filtering = false
		s.filter.Blur()
		s.filter.SetValue("")
		s.searchResults = nil
		s.searchQuery = ""
		s.cursor = 0
		return m, nil
	case tea.KeyEnter:
		query := strings.TrimSpace(s.filter.Value())
		if query == "" {
			return m, nil
		}
		s.searching = true
		s.filtering = false
		s.filter.Blur()
		return m, ownerSearchCmd(m.backend, query)
	default:
		var cmd tea.Cmd
		s.filter, cmd = s.filter.Update(msg)
		s.cursor = 0
		return m, cmd
	}
}

// updateQuickAdd handles the one-line natural-language add bar. Enter
// parses and, when the parse yields items, confirms immediately with no
// review step.
func (m Model) updateQuickAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.owner
	switch msg.Type {
	case tea.KeyEsc:
		s.quickAdding = false
		s.quickAdd.Blur()
		s.quickAdd.SetValue("")
		return m, nil
	case tea.KeyEnter:
		text := strings.TrimSpace(s.quickAdd.Value())
		if text == "" || s.parsing {
			return m, nil
		}
		s.parsing = true
		return m, quickAddParseCmd(m.backend, text)
	default:
		var cmd tea.Cmd
		s.quickAdd, cmd = s.quickAdd.Update(msg)
		return m, cmd
	}
}

// updateBulkImport handles the two-phase paste import: preview first, then
// an explicit confirm.
func (m Model) updateBulkImport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.owner
	if s.bulkPreview != nil {
		switch msg.String() {
		case "up", "k":
			if s.bulkCursor > 0 {
				s.bulkCursor--
			}
		case "down", "j":
			if s.bulkCursor < len(s.bulkPreview)-1 {
				s.bulkCursor++
			}
		case "d", "x":
			// Drop the selected row before importing.
			s.bulkPreview = append(s.bulkPreview[:s.bulkCursor], s.bulkPreview[s.bulkCursor+1:]...)
			if len(s.bulkPreview) == 0 {
				s.bulkPreview = nil
				s.bulking = false
				s.bulk.Reset()
				return m, nil
			}
			if s.bulkCursor >= len(s.bulkPreview) {
				s.bulkCursor--
			}
		case "y", "enter":
			if s.bulkSending {
				return m, nil
			}
			s.bulkSending = true
			return m, bulkConfirmCmd(m.backend, s.bulkPreview)
		case "esc", "n":
			s.bulkPreview = nil
			s.bulking = false
			s.bulk.Reset()
			return m, nil
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		s.bulking = false
		s.bulk.Blur()
		s.bulk.Reset()
		return m, nil
	case tea.KeyCtrlS:
		text := strings.TrimSpace(s.bulk.Value())
		if text == "" {
			return m, nil
		}
		return m, bulkPreviewCmd(m.backend, text)
	default:
		var cmd tea.Cmd
		s.bulk, cmd = s.bulk.Update(msg)
		return m, cmd
	}
}

func (m Model) onInventoryLoaded(msg inventoryLoadedMsg) (tea.Model, tea.Cmd) {
	m.owner.loading = false
	m.clean.loading = false
	if msg.err != nil {
		return m, m.fail(msg.err, "load inventory")
	}
	m.owner.items = msg.items
	m.owner.locations = msg.locations
	m.clean.locations = flattenLocations(msg.locations)
	if m.owner.cursor >= m.owner.rowCount() {
		m.owner.cursor = 0
	}
	if m.clean.locCursor >= len(m.clean.locations) {
		m.clean.locCursor = 0
	}
	return m, nil
}

func (m Model) onReportsLoaded(msg reportsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.fail(msg.err, "load alerts")
	}
	m.owner.reports = msg.reports
	return m, nil
}

func (m Model) onShoppingLoaded(msg shoppingLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.fail(msg.err, "load shopping list")
	}
	m.owner.shopping = msg.entries
	return m, nil
}

func (m Model) onOwnerSearchResult(msg ownerSearchResultMsg) (tea.Model, tea.Cmd) {
	m.owner.searching = false
	if msg.err != nil {
		return m, m.fail(msg.err, "search")
	}
	if msg.items == nil {
		msg.items = []api.Item{}
	}
	m.owner.searchResults = msg.items
	m.owner.searchQuery = msg.query
	m.owner.cursor = 0
	return m, nil
}

func (m Model) onQuickAddParsed(msg quickAddParsedMsg) (tea.Model, tea.Cmd) {
	m.owner.parsing = false
	if msg.err != nil {
		return m, m.fail(msg.err, "quick add")
	}
	// An empty parse must never reach the confirm endpoint.
	if len(msg.items) == 0 {
		return m, m.setStatus("Could not parse any items from: " + truncate(msg.text, 40))
	}
	return m, quickAddConfirmCmd(m.backend, msg.items)
}

func (m Model) onQuickAddConfirmed(msg quickAddConfirmedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.fail(msg.err, "quick add")
	}
	m.owner.quickAdding = false
	m.owner.quickAdd.Blur()
	m.owner.quickAdd.SetValue("")
	return m, tea.Batch(
		m.setStatus(fmt.Sprintf("Added %d item(s)", msg.added)),
		loadInventoryCmd(m.backend),
	)
}

func (m Model) onBulkPreview(msg bulkPreviewMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.fail(msg.err, "bulk import")
	}
	if len(msg.items) == 0 {
		return m, m.setStatus("Nothing to import")
	}
	m.owner.bulkPreview = msg.items
	m.owner.bulkCursor = 0
	return m, nil
}

func (m Model) onBulkConfirmed(msg bulkConfirmedMsg) (tea.Model, tea.Cmd) {
	s := &m.owner
	s.bulkSending = false
	if msg.err != nil {
		return m, m.fail(msg.err, "bulk import")
	}
	s.bulkPreview = nil
	s.bulking = false
	s.bulk.Reset()
	return m, tea.Batch(
		m.setStatus(fmt.Sprintf("Imported %d item(s)", msg.added)),
		loadInventoryCmd(m.backend),
	)
}

// onReportResolved removes the resolved alert locally; no refetch needed.
func (m Model) onReportResolved(msg reportResolvedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.fail(msg.err, "resolve alert")
	}
	s := &m.owner
	kept := s.reports[:0]
	for _, r := range s.reports {
		if r.ID != msg.reportID {
			kept = append(kept, r)
		}
	}
	s.reports = kept
	if s.cursor >= len(s.reports) && s.cursor > 0 {
		s.cursor--
	}
	return m, tea.Batch(m.setStatus("Alert resolved"), loadShoppingCmd(m.backend))
}

func (m Model) viewOwnerInventory() string {
	s := &m.owner
	var b strings.Builder
	b.WriteString(m.headerTabs("Inventory"))

	var tabs []string
	for _, t := range ownerTabs {
		label := t.String()
		if t == tabAlerts && len(s.reports) > 0 {
			label = fmt.Sprintf("%s (%d)", label, len(s.reports))
		}
		if t == s.tab {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	b.WriteString(strings.Join(tabs, " ") + "\n\n")

	if s.loading {
		b.WriteString("Loading inventory...\n")
		return b.String()
	}

	switch s.tab {
	case tabItems:
		b.WriteString(m.viewOwnerItems())
	case tabAlerts:
		b.WriteString(m.viewOwnerAlerts())
	case tabShopping:
		b.WriteString(m.viewOwnerShopping())
	case tabLocations:
		b.WriteString(m.viewOwnerLocations())
	}
	return b.String()
}

func (m Model) viewOwnerItems() string {
	s := &m.owner
	var b strings.Builder

	if s.quickAdding {
		b.WriteString("Add: " + s.quickAdd.View() + "\n")
		if s.parsing {
			b.WriteString(dimStyle.Render("Parsing...") + "\n")
		}
		b.WriteString(helpStyle.Render("enter: add · esc: cancel") + "\n\n")
	} else if s.bulking {
		return m.viewBulkImport()
	} else if s.filtering || s.filter.Value() != "" || s.searchResults != nil {
		b.WriteString("Search: " + s.filter.View() + "\n")
		if s.searching {
			b.WriteString(dimStyle.Render("Searching...") + "\n")
		}
		if s.searchResults != nil {
			b.WriteString(dimStyle.Render(fmt.Sprintf("AI results for %q · esc: clear", s.searchQuery)) + "\n")
		}
		b.WriteString("\n")
	}

	house := s.houseFilter
	if house == "" {
		house = "all"
	}
	cat := s.catFilter
	if cat == "" {
		cat = "all"
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("house: %s · category: %s", house, cat)) + "\n\n")

	items := s.visibleItems()
	if len(items) == 0 {
		b.WriteString(dimStyle.Render("No items.") + "\n")
	}
	for i, it := range items {
		marker := "  "
		if i == s.cursor {
			marker = selectedStyle.Render("> ")
		}
		alert := ""
		if it.HasAlert {
			alert = " " + attentionStyle.Render("!")
		}
		b.WriteString(fmt.Sprintf("%s%s %s  %s%s\n", marker,
			badgeStyle.Render(it.HouseCode),
			it.Name,
			dimStyle.Render(fmt.Sprintf("%d %s · %s · %s", it.Quantity, it.Unit, it.Category, it.LocationName)),
			alert,
		))
	}
	b.WriteString("\n" + helpStyle.Render("/: search · h: house · c: category · a: quick add · b: bulk · r: reload · tab: conversations") + "\n")
	return b.String()
}

func (m Model) viewBulkImport() string {
	s := &m.owner
	var b strings.Builder
	if s.bulkPreview != nil {
		b.WriteString(titleStyle.Render("Import preview") + "\n\n")
		for i, p := range s.bulkPreview {
			marker := "  "
			if i == s.bulkCursor {
				marker = selectedStyle.Render("> ")
			}
			b.WriteString(fmt.Sprintf("%s%s  %s\n", marker, p.Name,
				dimStyle.Render(fmt.Sprintf("%d %s · %s · %s", p.Quantity, p.Unit, p.Category, p.LocationName))))
		}
		if s.bulkSending {
			b.WriteString("\n" + dimStyle.Render("Importing...") + "\n")
		} else {
			b.WriteString("\n" + helpStyle.Render("y: import · d: drop row · esc: cancel") + "\n")
		}
		return b.String()
	}
	b.WriteString(titleStyle.Render("Bulk import") + "\n\n")
	b.WriteString(s.bulk.View() + "\n")
	b.WriteString(helpStyle.Render("ctrl+s: preview · esc: cancel") + "\n")
	return b.String()
}

func (m Model) viewOwnerAlerts() string {
	s := &m.owner
	var b strings.Builder
	if len(s.reports) == 0 {
		b.WriteString(dimStyle.Render("No open alerts.") + "\n")
		return b.String()
	}
	for i, r := range s.reports {
		marker := "  "
		if i == s.cursor {
			marker = selectedStyle.Render("> ")
		}
		b.WriteString(fmt.Sprintf("%s%s %s %s  %s\n", marker,
			badgeStyle.Render(r.HouseCode),
			attentionStyle.Render(strings.ToUpper(r.ReportType)),
			r.ItemName,
			dimStyle.Render(fmt.Sprintf("%s · by %s · %s", r.LocationName, r.ReportedBy, dayOf(r.CreatedAt))),
		))
	}
	b.WriteString("\n" + helpStyle.Render("x: resolve · r: reload") + "\n")
	return b.String()
}

func (m Model) viewOwnerShopping() string {
	s := &m.owner
	var b strings.Builder
	if len(s.shopping) == 0 {
		b.WriteString(dimStyle.Render("Shopping list is empty.") + "\n")
		return b.String()
	}
	for i, e := range s.shopping {
		marker := "  "
		if i == s.cursor {
			marker = selectedStyle.Render("> ")
		}
		status := e.WorstStatus
		if status == api.ReportMissing {
			status = attentionStyle.Render(status)
		}
		brand := ""
		if e.Brand != "" {
			brand = " · " + e.Brand
		}
		b.WriteString(fmt.Sprintf("%s%s %s  %s\n", marker,
			badgeStyle.Render(e.HouseCode), e.Name,
			dimStyle.Render(e.LocationName+brand)+" "+status,
		))
	}
	return b.String()
}

func (m Model) viewOwnerLocations() string {
	s := &m.owner
	var b strings.Builder
	row := 0
	for _, loc := range s.locations {
		b.WriteString(m.renderLocationRow(loc, 0, row == s.cursor))
		row++
		for _, child := range loc.Children {
			b.WriteString(m.renderLocationRow(child, 1, row == s.cursor))
			row++
		}
	}
	if row == 0 {
		b.WriteString(dimStyle.Render("No locations.") + "\n")
	}
	return b.String()
}

func (m Model) renderLocationRow(loc api.Location, depth int, selected bool) string {
	marker := "  "
	if selected {
		marker = selectedStyle.Render("> ")
	}
	var flags []string
	if loc.Outdoor {
		flags = append(flags, "outdoor")
	}
	if loc.Locked {
		flags = append(flags, "locked")
	}
	if loc.GuestAccessible {
		flags = append(flags, "guest")
	}
	meta := fmt.Sprintf("%d items", loc.ItemCount)
	if len(flags) > 0 {
		meta += " · " + strings.Join(flags, ", ")
	}
	return fmt.Sprintf("%s%s%s %s  %s\n", marker,
		strings.Repeat("  ", depth),
		badgeStyle.Render(loc.HouseCode+"/"+loc.Code),
		loc.Name,
		dimStyle.Render(meta),
	)
}
