// SQLite backend via ncruces/go-sqlite3, which provides a database/sql
// driver backed by a wazero-compiled sqlite.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// SQLiteStore is the SQLite-backed snapshot store.
type SQLiteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

// schema defines the snapshot tables. No foreign keys: referential
// integrity is the story builder's job, the snapshot just records it.
const schema = `
CREATE TABLE IF NOT EXISTS lines (
    name TEXT PRIMARY KEY,
    short_name TEXT NOT NULL,
    kind TEXT NOT NULL,
    timeline TEXT,
    color TEXT,
    "offset" INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_lines_kind ON lines(kind);

CREATE TABLE IF NOT EXISTS events (
    name TEXT PRIMARY KEY,
    short_name TEXT,
    line TEXT NOT NULL,
    timeline TEXT NOT NULL,
    anchor TEXT,
    counter INTEGER NOT NULL,
    abs_time INTEGER NOT NULL,
    is_anchor INTEGER DEFAULT 0,
    universal INTEGER DEFAULT 0,
    opener INTEGER DEFAULT 0,
    closer INTEGER DEFAULT 0,
    skip_friendship INTEGER DEFAULT 0,
    roster TEXT
);

CREATE INDEX IF NOT EXISTS idx_events_line ON events(line);
CREATE INDEX IF NOT EXISTS idx_events_abs ON events(abs_time);

CREATE TABLE IF NOT EXISTS bridges (
    owner TEXT NOT NULL,
    owner_kind TEXT NOT NULL,
    idx INTEGER NOT NULL,
    from_event TEXT NOT NULL,
    to_event TEXT NOT NULL,
    dashed INTEGER DEFAULT 0,
    weight INTEGER NOT NULL,
    travelers TEXT,
    PRIMARY KEY (owner, idx, from_event, to_event)
);

CREATE INDEX IF NOT EXISTS idx_bridges_owner ON bridges(owner);

CREATE TABLE IF NOT EXISTS meetings (
    char_a TEXT NOT NULL,
    char_b TEXT NOT NULL,
    meetings INTEGER NOT NULL,
    events INTEGER NOT NULL,
    self_loop INTEGER DEFAULT 0,
    PRIMARY KEY (char_a, char_b)
);
`

// NewSQLiteStore creates a new in-memory SQLite store.
func NewSQLiteStore() (*SQLiteStore, error) {
	return NewSQLiteStoreWithDSN(":memory:")
}

// NewSQLiteStoreWithDSN creates a store with a specific data source name.
// Use ":memory:" for in-memory or a file path for persistent storage.
func NewSQLiteStoreWithDSN(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) PutLine(line *LineRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO lines (name, short_name, kind, timeline, color, "offset")
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			short_name = excluded.short_name,
			kind = excluded.kind,
			timeline = excluded.timeline,
			color = excluded.color,
			"offset" = excluded."offset"
	`, line.Name, line.ShortName, line.Kind, line.Timeline, line.Color, line.Offset)
	if err != nil {
		return fmt.Errorf("failed to put line: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetLine(name string) (*LineRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT name, short_name, kind, timeline, color, "offset"
		FROM lines WHERE name = ?
	`, name)

	line := &LineRow{}
	err := row.Scan(&line.Name, &line.ShortName, &line.Kind, &line.Timeline, &line.Color, &line.Offset)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get line: %w", err)
	}
	return line, nil
}

func (s *SQLiteStore) ListLines(kind string) ([]*LineRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT name, short_name, kind, timeline, color, "offset" FROM lines`
	args := []any{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list lines: %w", err)
	}
	defer rows.Close()

	var result []*LineRow
	for rows.Next() {
		line := &LineRow{}
		if err := rows.Scan(&line.Name, &line.ShortName, &line.Kind, &line.Timeline, &line.Color, &line.Offset); err != nil {
			return nil, fmt.Errorf("failed to scan line: %w", err)
		}
		result = append(result, line)
	}
	return result, rows.Err()
}

func (s *SQLiteStore) CountLines() (int, error) {
	return s.count(`SELECT COUNT(*) FROM lines`)
}

func (s *SQLiteStore) PutEvent(event *EventRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	roster, err := json.Marshal(event.Roster)
	if err != nil {
		return fmt.Errorf("failed to marshal roster: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO events (name, short_name, line, timeline, anchor, counter, abs_time,
			is_anchor, universal, opener, closer, skip_friendship, roster)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			short_name = excluded.short_name,
			line = excluded.line,
			timeline = excluded.timeline,
			anchor = excluded.anchor,
			counter = excluded.counter,
			abs_time = excluded.abs_time,
			is_anchor = excluded.is_anchor,
			universal = excluded.universal,
			opener = excluded.opener,
			closer = excluded.closer,
			skip_friendship = excluded.skip_friendship,
			roster = excluded.roster
	`, event.Name, event.ShortName, event.Line, event.Timeline, event.Anchor,
		event.Counter, event.AbsTime, boolToInt(event.IsAnchor), boolToInt(event.Universal),
		boolToInt(event.Opener), boolToInt(event.Closer), boolToInt(event.SkipFriendship),
		string(roster))
	if err != nil {
		return fmt.Errorf("failed to put event: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetEvent(name string) (*EventRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT name, short_name, line, timeline, anchor, counter, abs_time,
			is_anchor, universal, opener, closer, skip_friendship, roster
		FROM events WHERE name = ?
	`, name)

	event, err := scanEvent(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

func (s *SQLiteStore) ListEvents(line string) ([]*EventRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT name, short_name, line, timeline, anchor, counter, abs_time,
			is_anchor, universal, opener, closer, skip_friendship, roster
		FROM events`
	args := []any{}
	if line != "" {
		query += ` WHERE line = ?`
		args = append(args, line)
	}
	query += ` ORDER BY abs_time, name`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var result []*EventRow
	for rows.Next() {
		event, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		result = append(result, event)
	}
	return result, rows.Err()
}

func (s *SQLiteStore) CountEvents() (int, error) {
	return s.count(`SELECT COUNT(*) FROM events`)
}

func (s *SQLiteStore) PutBridge(bridge *BridgeRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	travelers, err := json.Marshal(bridge.Travelers)
	if err != nil {
		return fmt.Errorf("failed to marshal travelers: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO bridges (owner, owner_kind, idx, from_event, to_event, dashed, weight, travelers)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner, idx, from_event, to_event) DO UPDATE SET
			owner_kind = excluded.owner_kind,
			dashed = excluded.dashed,
			weight = excluded.weight,
			travelers = excluded.travelers
	`, bridge.Owner, bridge.OwnerKind, bridge.Index, bridge.FromEvent, bridge.ToEvent,
		boolToInt(bridge.Dashed), bridge.Weight, string(travelers))
	if err != nil {
		return fmt.Errorf("failed to put bridge: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListBridges(owner string) ([]*BridgeRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT owner, owner_kind, idx, from_event, to_event, dashed, weight, travelers
		FROM bridges`
	args := []any{}
	if owner != "" {
		query += ` WHERE owner = ?`
		args = append(args, owner)
	}
	query += ` ORDER BY owner, idx`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bridges: %w", err)
	}
	defer rows.Close()

	var result []*BridgeRow
	for rows.Next() {
		bridge := &BridgeRow{}
		var dashed int
		var travelers string
		if err := rows.Scan(&bridge.Owner, &bridge.OwnerKind, &bridge.Index,
			&bridge.FromEvent, &bridge.ToEvent, &dashed, &bridge.Weight, &travelers); err != nil {
			return nil, fmt.Errorf("failed to scan bridge: %w", err)
		}
		bridge.Dashed = dashed != 0
		if travelers != "" {
			if err := json.Unmarshal([]byte(travelers), &bridge.Travelers); err != nil {
				return nil, fmt.Errorf("failed to unmarshal travelers: %w", err)
			}
		}
		result = append(result, bridge)
	}
	return result, rows.Err()
}

func (s *SQLiteStore) CountBridges() (int, error) {
	return s.count(`SELECT COUNT(*) FROM bridges`)
}

func (s *SQLiteStore) PutMeeting(meeting *MeetingRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO meetings (char_a, char_b, meetings, events, self_loop)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(char_a, char_b) DO UPDATE SET
			meetings = excluded.meetings,
			events = excluded.events,
			self_loop = excluded.self_loop
	`, meeting.CharA, meeting.CharB, meeting.Meetings, meeting.Events, boolToInt(meeting.SelfLoop))
	if err != nil {
		return fmt.Errorf("failed to put meeting: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListMeetings(name string) ([]*MeetingRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT char_a, char_b, meetings, events, self_loop FROM meetings`
	args := []any{}
	if name != "" {
		query += ` WHERE char_a = ? OR char_b = ?`
		args = append(args, name, name)
	}
	query += ` ORDER BY char_a, char_b`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	defer rows.Close()

	var result []*MeetingRow
	for rows.Next() {
		meeting := &MeetingRow{}
		var selfLoop int
		if err := rows.Scan(&meeting.CharA, &meeting.CharB, &meeting.Meetings,
			&meeting.Events, &selfLoop); err != nil {
			return nil, fmt.Errorf("failed to scan meeting: %w", err)
		}
		meeting.SelfLoop = selfLoop != 0
		result = append(result, meeting)
	}
	return result, rows.Err()
}

func (s *SQLiteStore) CountMeetings() (int, error) {
	return s.count(`SELECT COUNT(*) FROM meetings`)
}

func (s *SQLiteStore) count(query string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRow(query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count: %w", err)
	}
	return n, nil
}

func scanEvent(scan func(...any) error) (*EventRow, error) {
	event := &EventRow{}
	var isAnchor, universal, opener, closer, skip int
	var roster string
	err := scan(&event.Name, &event.ShortName, &event.Line, &event.Timeline, &event.Anchor,
		&event.Counter, &event.AbsTime, &isAnchor, &universal, &opener, &closer, &skip, &roster)
	if err != nil {
		return nil, err
	}
	event.IsAnchor = isAnchor != 0
	event.Universal = universal != 0
	event.Opener = opener != 0
	event.Closer = closer != 0
	event.SkipFriendship = skip != 0
	if roster != "" {
		if err := json.Unmarshal([]byte(roster), &event.Roster); err != nil {
			return nil, err
		}
	}
	return event, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
