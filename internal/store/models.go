// Package store persists a flattened snapshot of a finalized story.
// The snapshot is a denormalized export for downstream tooling, not a
// round-trippable save format.
package store

// LineRow is one timeline or place.
type LineRow struct {
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	Kind      string `json:"kind"` // "timeline" | "place"
	Timeline  string `json:"timeline,omitempty"`
	Color     string `json:"color,omitempty"`
	Offset    int    `json:"offset"`
}

// EventRow is one event, anchors included.
type EventRow struct {
	Name           string   `json:"name"`
	ShortName      string   `json:"shortName"`
	Line           string   `json:"line"`
	Timeline       string   `json:"timeline"`
	Anchor         string   `json:"anchor,omitempty"`
	Counter        int      `json:"counter"`
	AbsTime        int      `json:"absTime"`
	IsAnchor       bool     `json:"isAnchor"`
	Universal      bool     `json:"universal"`
	Opener         bool     `json:"opener"`
	Closer         bool     `json:"closer"`
	SkipFriendship bool     `json:"skipFriendship"`
	Roster         []string `json:"roster,omitempty"`
}

// BridgeRow is one drawn transition. Travelers lists the labels of the
// subsumed per-character bridges when the row belongs to a combiner.
type BridgeRow struct {
	Owner     string   `json:"owner"`
	OwnerKind string   `json:"ownerKind"`
	Index     int      `json:"index"`
	FromEvent string   `json:"fromEvent"`
	ToEvent   string   `json:"toEvent"`
	Dashed    bool     `json:"dashed"`
	Weight    int      `json:"weight"`
	Travelers []string `json:"travelers,omitempty"`
}

// MeetingRow is one character pair's friendship aggregate.
type MeetingRow struct {
	CharA    string `json:"charA"`
	CharB    string `json:"charB"`
	Meetings int    `json:"meetings"`
	Events   int    `json:"events"`
	SelfLoop bool   `json:"selfLoop"`
}

// Storer defines the interface for snapshot persistence.
// This allows swapping between MemStore (testing) and SQLiteStore (export).
type Storer interface {
	// Lines
	PutLine(line *LineRow) error
	GetLine(name string) (*LineRow, error)
	ListLines(kind string) ([]*LineRow, error)
	CountLines() (int, error)

	// Events
	PutEvent(event *EventRow) error
	GetEvent(name string) (*EventRow, error)
	ListEvents(line string) ([]*EventRow, error)
	CountEvents() (int, error)

	// Bridges
	PutBridge(bridge *BridgeRow) error
	ListBridges(owner string) ([]*BridgeRow, error)
	CountBridges() (int, error)

	// Meetings
	PutMeeting(meeting *MeetingRow) error
	ListMeetings(name string) ([]*MeetingRow, error)
	CountMeetings() (int, error)

	// Lifecycle
	Close() error
}
