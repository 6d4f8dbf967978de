package model

import (
	"database/sql/driver"
	"time"
)

// Chat roles stored in session history
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatRequest is the body of a chat turn
type ChatRequest struct {
	Message   string  `json:"message"`
	UserID    *string `json:"userId"`
	SessionID *string `json:"sessionId"`
}

// ChatResponse is the body returned for a chat turn or command
type ChatResponse struct {
	Response    string            `json:"response"`
	SessionID   string            `json:"sessionId"`
	HasContext  bool              `json:"hasContext"`
	Filters     *ChatFilters      `json:"filters,omitempty"`
	Suggestions []ScoredCandidate `json:"suggestions,omitempty"`
	MemoryReset bool              `json:"memoryReset,omitempty"`
	ChatReset   bool              `json:"chatReset,omitempty"`
	Memory      *Preferences      `json:"memory,omitempty"`
}

// HistoryEntry is one message of a conversation
type HistoryEntry struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// History is the ordered conversation log of a session
type History []HistoryEntry

// Value implements driver.Valuer interface
func (h History) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	return marshalJSONColumn(h)
}

// Scan implements sql.Scanner interface
func (h *History) Scan(value interface{}) error {
	return scanJSON(value, h)
}

// Append adds entries and drops the oldest ones beyond limit.
func (h History) Append(limit int, entries ...HistoryEntry) History {
	out := append(h, entries...)
	if limit > 0 && len(out) > limit {
		out = append(History(nil), out[len(out)-limit:]...)
	}
	return out
}

// ChatFilters is the set of filters carried between chat turns
type ChatFilters struct {
	Budget     *int    `json:"budget,omitempty"`
	University *string `json:"university,omitempty"`
	Area       *string `json:"area,omitempty"`
	RoomType   *string `json:"roomType,omitempty"`
	Amenity    *string `json:"amenity,omitempty"`
}

// IsEmpty reports whether no filter is set
func (f ChatFilters) IsEmpty() bool {
	return f.Budget == nil && f.University == nil && f.Area == nil && f.RoomType == nil && f.Amenity == nil
}

// Overlay returns f with every field set in top replacing the one in f.
func (f ChatFilters) Overlay(top ChatFilters) ChatFilters {
	if top.Budget != nil {
		f.Budget = top.Budget
	}
	if top.University != nil {
		f.University = top.University
	}
	if top.Area != nil {
		f.Area = top.Area
	}
	if top.RoomType != nil {
		f.RoomType = top.RoomType
	}
	if top.Amenity != nil {
		f.Amenity = top.Amenity
	}
	return f
}

// Value implements driver.Valuer interface
func (f ChatFilters) Value() (driver.Value, error) {
	return marshalJSONColumn(f)
}

// Scan implements sql.Scanner interface
func (f *ChatFilters) Scan(value interface{}) error {
	return scanJSON(value, f)
}

// ChatSession is the persisted state of one conversation. Version increases
// by one on every successful update.
type ChatSession struct {
	SessionID string      `json:"sessionId" db:"session_id"`
	UserID    *string     `json:"userId,omitempty" db:"user_id"`
	History   History     `json:"history" db:"history"`
	Context   ChatFilters `json:"context" db:"context"`
	Version   int64       `json:"version" db:"version"`
	CreatedAt time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time   `json:"updatedAt" db:"updated_at"`
}

// Preferences are the long-term, per-user values remembered across sessions
type Preferences struct {
	UserID            string    `json:"userId" db:"user_id"`
	Budget            *int      `json:"budget,omitempty" db:"budget"`
	University        *string   `json:"university,omitempty" db:"university"`
	PreferredArea     *string   `json:"preferredArea,omitempty" db:"preferred_area"`
	PreferredRoomType *string   `json:"preferredRoomType,omitempty" db:"preferred_room_type"`
	PreferredAmenity  *string   `json:"preferredAmenity,omitempty" db:"preferred_amenity"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}

// IsEmpty reports whether nothing is remembered
func (p *Preferences) IsEmpty() bool {
	return p == nil || (p.Budget == nil && p.University == nil && p.PreferredArea == nil &&
		p.PreferredRoomType == nil && p.PreferredAmenity == nil)
}

// AsFilters maps stored preferences onto chat filter keys
func (p *Preferences) AsFilters() ChatFilters {
	if p == nil {
		return ChatFilters{}
	}
	return ChatFilters{
		Budget:     p.Budget,
		University: p.University,
		Area:       p.PreferredArea,
		RoomType:   p.PreferredRoomType,
		Amenity:    p.PreferredAmenity,
	}
}

// LearnedPreferences are the values inferred from a single message
type LearnedPreferences struct {
	Area     *string `json:"area,omitempty"`
	RoomType *string `json:"roomType,omitempty"`
	Amenity  *string `json:"amenity,omitempty"`
}

// IsEmpty reports whether nothing was learned
func (l LearnedPreferences) IsEmpty() bool {
	return l.Area == nil && l.RoomType == nil && l.Amenity == nil
}
