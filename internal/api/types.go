package api

// Role values returned by the backend.
const (
	RoleOwner   = "owner"
	RoleCleaner = "cleaner"
)

// Message sender values.
const (
	SenderGuest = "guest"
	SenderHost  = "host"
)

// Report types accepted by the reports endpoint.
const (
	ReportLow     = "low"
	ReportMissing = "missing"
)

// CheckResult is the response of GET /auth/check.
type CheckResult struct {
	Authenticated bool   `json:"authenticated"`
	Role          string `json:"role"`
}

// Conversation is one entry of the conversation list, a read-only summary
// replaced wholesale on every fetch.
type Conversation struct {
	ReservationID      int     `json:"reservation_id"`
	GuestName          string  `json:"guest_name"`
	GuestPictureURL    string  `json:"guest_picture_url"`
	ListingName        string  `json:"listing_name"`
	HouseCode          string  `json:"house_code"`
	Platform           string  `json:"platform"`
	CheckIn            string  `json:"check_in"`
	CheckOut           string  `json:"check_out"`
	NumGuests          int     `json:"num_guests"`
	LastMessageTime    string  `json:"last_message_time"`
	LastMessagePreview string  `json:"last_message_preview"`
	LastMessageSender  string  `json:"last_message_sender"`
	NeedsAttention     bool    `json:"needs_attention"`
	PendingDrafts      int     `json:"pending_drafts"`
	MessageCount       int     `json:"message_count"`
}

// Reservation describes the guest stay a thread belongs to.
type Reservation struct {
	ID              int    `json:"id"`
	GuestName       string `json:"guest_name"`
	GuestPictureURL string `json:"guest_picture_url"`
	ListingName     string `json:"listing_name"`
	HouseCode       string `json:"house_code"`
	Platform        string `json:"platform"`
	CheckIn         string `json:"check_in"`
	CheckOut        string `json:"check_out"`
	NumGuests       int    `json:"num_guests"`
}

// Message is one message in a conversation thread. Immutable once fetched.
type Message struct {
	ID               int      `json:"id"`
	Timestamp        string   `json:"timestamp"`
	Sender           string   `json:"sender"`
	Body             string   `json:"body"`
	BodyOriginal     string   `json:"body_original"`
	DetectedLanguage string   `json:"detected_language"`
	Translated       bool     `json:"translated"`
	IsDraft          bool     `json:"is_draft"`
	IsSent           bool     `json:"is_sent"`
	AIGenerated      bool     `json:"ai_generated"`
	AIConfidence     *float64 `json:"ai_confidence"`
	AIAutoSent       bool     `json:"ai_auto_sent"`
	WasEdited        bool     `json:"was_edited"`
	IsTemplate       bool     `json:"is_template"`
}

// Thread is a reservation together with its ordered message history.
type Thread struct {
	Reservation Reservation `json:"reservation"`
	Messages    []Message   `json:"messages"`
}

// Draft is an AI-generated reply suggestion.
type Draft struct {
	Draft      string  `json:"draft"`
	Confidence float64 `json:"confidence"`
	Category   string  `json:"category"`
}

// SendRequest is the body of POST /conversations/{id}/send. The AI fields
// carry draft provenance and are omitted for plain host messages.
type SendRequest struct {
	Body            string   `json:"body"`
	WasEdited       bool     `json:"was_edited,omitempty"`
	OriginalAIDraft string   `json:"original_ai_draft,omitempty"`
	AIConfidence    *float64 `json:"ai_confidence,omitempty"`
	AICategory      string   `json:"ai_category,omitempty"`
}

// SendResult is the response of a successful send.
type SendResult struct {
	Sent      bool `json:"sent"`
	MessageID int  `json:"message_id"`
}

// SyncListingsResult is the response of POST /sync/listings.
type SyncListingsResult struct {
	Synced   int      `json:"synced"`
	Listings []string `json:"listings"`
}

// SyncReservationsResult is the response of POST /sync/reservations.
type SyncReservationsResult struct {
	Synced           int `json:"synced"`
	MessagesImported int `json:"messages_imported"`
	TemplatesTagged  int `json:"templates_tagged"`
}

// Item is a single inventory item as cached client-side.
type Item struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	Unit         string `json:"unit"`
	Category     string `json:"category"`
	Brand        string `json:"brand"`
	LocationID   int    `json:"location_id"`
	LocationName string `json:"location_name"`
	HouseCode    string `json:"house_code"`
	HasAlert     bool   `json:"has_alert"`
	AlertCount   int    `json:"alert_count"`
}

// Location is one node of the two-level storage hierarchy.
type Location struct {
	ID              int        `json:"id"`
	HouseCode       string     `json:"house_code"`
	Code            string     `json:"code"`
	Name            string     `json:"name"`
	Outdoor         bool       `json:"outdoor"`
	Locked          bool       `json:"locked"`
	GuestAccessible bool       `json:"guest_accessible"`
	Description     string     `json:"description"`
	ItemCount       int        `json:"item_count"`
	Children        []Location `json:"children"`
}

// Report is a cleaner-filed stock report.
type Report struct {
	ID           int    `json:"id"`
	ItemID       int    `json:"item_id"`
	ItemName     string `json:"item_name"`
	ReportType   string `json:"report_type"`
	ReportedBy   string `json:"reported_by"`
	LocationName string `json:"location_name"`
	HouseCode    string `json:"house_code"`
	Notes        string `json:"notes"`
	CreatedAt    string `json:"created_at"`
	Resolved     bool   `json:"resolved"`
}

// ShoppingEntry is one aggregated shopping-list row, derived server-side
// from unresolved reports.
type ShoppingEntry struct {
	Name         string `json:"name"`
	WorstStatus  string `json:"worst_status"`
	HouseCode    string `json:"house_code"`
	LocationName string `json:"location_name"`
	Brand        string `json:"brand"`
	PurchaseURL  string `json:"purchase_url"`
}

// ProposedItem is one row of an AI parse or bulk-import preview.
type ProposedItem struct {
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	Unit         string `json:"unit"`
	Category     string `json:"category"`
	LocationCode string `json:"location_code"`
	LocationName string `json:"location_name"`
}

// Health is the response of GET /health.
type Health struct {
	Status              string `json:"status"`
	Timestamp           string `json:"timestamp"`
	HosttoolsConfigured bool   `json:"hosttools_configured"`
	NtfyConfigured      bool   `json:"ntfy_configured"`
}

// Stats is the response of GET /stats.
type Stats struct {
	Listings         int `json:"listings"`
	Reservations     int `json:"reservations"`
	TotalMessages    int `json:"total_messages"`
	GuestMessages    int `json:"guest_messages"`
	HostMessages     int `json:"host_messages"`
	TemplateMessages int `json:"template_messages"`
	RealHostReplies  int `json:"real_host_replies"`
}
