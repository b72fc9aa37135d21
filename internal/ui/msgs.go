package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pquill/hostdesk/internal/api"
)

// Messages delivered back into Update by async commands. Each carries
// enough identity (reservation ID, generation token, query, sequence) for
// Update to drop results that no longer match the active request.

type statusExpireMsg struct{ seq int }

type sessionCheckedMsg struct {
	result *api.CheckResult
	err    error
}

type loggedInMsg struct {
	role   string
	cookie string
	err    error
}

type conversationsLoadedMsg struct {
	convs []api.Conversation
	err   error
}

type syncListingsDoneMsg struct {
	result *api.SyncListingsResult
	err    error
}

type syncReservationsDoneMsg struct {
	result *api.SyncReservationsResult
	err    error
}

type threadLoadedMsg struct {
	reservationID int
	thread        *api.Thread
	err           error
}

type draftGeneratedMsg struct {
	reservationID int
	token         int
	draft         *api.Draft
	err           error
}

type messageSentMsg struct {
	reservationID int
	err           error
}

type inventoryLoadedMsg struct {
	items     []api.Item
	locations []api.Location
	err       error
}

type reportsLoadedMsg struct {
	reports []api.Report
	err     error
}

type shoppingLoadedMsg struct {
	entries []api.ShoppingEntry
	err     error
}

type ownerSearchResultMsg struct {
	query string
	items []api.Item
	err   error
}

type quickAddParsedMsg struct {
	text  string
	items []api.ProposedItem
	err   error
}

type quickAddConfirmedMsg struct {
	added int
	err   error
}

type bulkPreviewMsg struct {
	items []api.ProposedItem
	err   error
}

type bulkConfirmedMsg struct {
	added int
	err   error
}

type reportResolvedMsg struct {
	reportID int
	err      error
}

type cleanerSearchTickMsg struct{ seq int }

type cleanerSearchResultMsg struct {
	query string
	items []api.Item
	err   error
}

type cleanerLocationItemsMsg struct {
	locationID int
	items      []api.Item
	err        error
}

type reportFiledMsg struct {
	itemID     int
	reportType string
	err        error
}

// Commands. Every API call suspends only here; completion re-enters Update.

func checkSessionCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		res, err := b.Check(context.Background())
		return sessionCheckedMsg{result: res, err: err}
	}
}

func loginCmd(b Backend, pin string) tea.Cmd {
	return func() tea.Msg {
		role, cookie, err := b.Login(context.Background(), pin)
		return loggedInMsg{role: role, cookie: cookie, err: err}
	}
}

func loadConversationsCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		convs, err := b.Conversations(context.Background())
		return conversationsLoadedMsg{convs: convs, err: err}
	}
}

func syncListingsCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		res, err := b.SyncListings(context.Background())
		return syncListingsDoneMsg{result: res, err: err}
	}
}

func syncReservationsCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		res, err := b.SyncReservations(context.Background())
		return syncReservationsDoneMsg{result: res, err: err}
	}
}

func loadThreadCmd(b Backend, reservationID int) tea.Cmd {
	return func() tea.Msg {
		th, err := b.Thread(context.Background(), reservationID)
		return threadLoadedMsg{reservationID: reservationID, thread: th, err: err}
	}
}

func generateDraftCmd(b Backend, reservationID, token int) tea.Cmd {
	return func() tea.Msg {
		d, err := b.GenerateDraft(context.Background(), reservationID)
		return draftGeneratedMsg{reservationID: reservationID, token: token, draft: d, err: err}
	}
}

func sendMessageCmd(b Backend, reservationID int, req api.SendRequest) tea.Cmd {
	return func() tea.Msg {
		_, err := b.SendMessage(context.Background(), reservationID, req)
		return messageSentMsg{reservationID: reservationID, err: err}
	}
}

// loadInventoryCmd fetches items and locations together; entering the
// inventory root always needs both.
func loadInventoryCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		items, err := b.Items(context.Background(), 0)
		if err != nil {
			return inventoryLoadedMsg{err: err}
		}
		locs, err := b.Locations(context.Background())
		if err != nil {
			return inventoryLoadedMsg{err: err}
		}
		return inventoryLoadedMsg{items: items, locations: locs}
	}
}

func loadReportsCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		reports, err := b.UnresolvedReports(context.Background())
		return reportsLoadedMsg{reports: reports, err: err}
	}
}

func loadShoppingCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		entries, err := b.ShoppingList(context.Background())
		return shoppingLoadedMsg{entries: entries, err: err}
	}
}

func ownerSearchCmd(b Backend, query string) tea.Cmd {
	return func() tea.Msg {
		items, err := b.SearchItems(context.Background(), query)
		return ownerSearchResultMsg{query: query, items: items, err: err}
	}
}

func quickAddParseCmd(b Backend, text string) tea.Cmd {
	return func() tea.Msg {
		items, err := b.ParseItems(context.Background(), text)
		return quickAddParsedMsg{text: text, items: items, err: err}
	}
}

func quickAddConfirmCmd(b Backend, items []api.ProposedItem) tea.Cmd {
	return func() tea.Msg {
		added, err := b.BulkImportConfirm(context.Background(), items)
		return quickAddConfirmedMsg{added: added, err: err}
	}
}

func bulkPreviewCmd(b Backend, text string) tea.Cmd {
	return func() tea.Msg {
		items, err := b.BulkImportPreview(context.Background(), text)
		return bulkPreviewMsg{items: items, err: err}
	}
}

func bulkConfirmCmd(b Backend, items []api.ProposedItem) tea.Cmd {
	return func() tea.Msg {
		added, err := b.BulkImportConfirm(context.Background(), items)
		return bulkConfirmedMsg{added: added, err: err}
	}
}

func resolveReportCmd(b Backend, reportID int) tea.Cmd {
	return func() tea.Msg {
		err := b.ResolveReport(context.Background(), reportID)
		return reportResolvedMsg{reportID: reportID, err: err}
	}
}

func cleanerSearchCmd(b Backend, query string) tea.Cmd {
	return func() tea.Msg {
		items, err := b.SearchItems(context.Background(), query)
		return cleanerSearchResultMsg{query: query, items: items, err: err}
	}
}

func cleanerLocationItemsCmd(b Backend, locationID int) tea.Cmd {
	return func() tea.Msg {
		items, err := b.Items(context.Background(), locationID)
		return cleanerLocationItemsMsg{locationID: locationID, items: items, err: err}
	}
}

func fileReportCmd(b Backend, itemID int, reportType string) tea.Cmd {
	return func() tea.Msg {
		err := b.CreateReport(context.Background(), itemID, reportType)
		return reportFiledMsg{itemID: itemID, reportType: reportType, err: err}
	}
}
