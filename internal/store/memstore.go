package store

import (
	"sort"
	"sync"
)

// MemStore is an in-memory implementation of Storer for testing.
type MemStore struct {
	mu       sync.RWMutex
	lines    map[string]*LineRow
	events   map[string]*EventRow
	bridges  []*BridgeRow
	meetings []*MeetingRow
}

// NewMemStore creates a new in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		lines:  make(map[string]*LineRow),
		events: make(map[string]*EventRow),
	}
}

// Close is a no-op for MemStore.
func (s *MemStore) Close() error {
	return nil
}

func (s *MemStore) PutLine(line *LineRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *line
	s.lines[line.Name] = &cp
	return nil
}

func (s *MemStore) GetLine(name string) (*LineRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if line, ok := s.lines[name]; ok {
		cp := *line
		return &cp, nil
	}
	return nil, nil
}

func (s *MemStore) ListLines(kind string) ([]*LineRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*LineRow
	for _, line := range s.lines {
		if kind == "" || line.Kind == kind {
			cp := *line
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *MemStore) CountLines() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines), nil
}

func (s *MemStore) PutEvent(event *EventRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *event
	cp.Roster = append([]string(nil), event.Roster...)
	s.events[event.Name] = &cp
	return nil
}

func (s *MemStore) GetEvent(name string) (*EventRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if event, ok := s.events[name]; ok {
		cp := *event
		cp.Roster = append([]string(nil), event.Roster...)
		return &cp, nil
	}
	return nil, nil
}

func (s *MemStore) ListEvents(line string) ([]*EventRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*EventRow
	for _, event := range s.events {
		if line == "" || event.Line == line {
			cp := *event
			cp.Roster = append([]string(nil), event.Roster...)
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].AbsTime != result[j].AbsTime {
			return result[i].AbsTime < result[j].AbsTime
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (s *MemStore) CountEvents() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events), nil
}

func (s *MemStore) PutBridge(bridge *BridgeRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *bridge
	cp.Travelers = append([]string(nil), bridge.Travelers...)
	// Upsert on the same key as the SQLite primary key.
	for i, b := range s.bridges {
		if b.Owner == cp.Owner && b.Index == cp.Index &&
			b.FromEvent == cp.FromEvent && b.ToEvent == cp.ToEvent {
			s.bridges[i] = &cp
			return nil
		}
	}
	s.bridges = append(s.bridges, &cp)
	return nil
}

func (s *MemStore) ListBridges(owner string) ([]*BridgeRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*BridgeRow
	for _, bridge := range s.bridges {
		if owner == "" || bridge.Owner == owner {
			cp := *bridge
			cp.Travelers = append([]string(nil), bridge.Travelers...)
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (s *MemStore) CountBridges() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bridges), nil
}

func (s *MemStore) PutMeeting(meeting *MeetingRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *meeting
	for i, m := range s.meetings {
		if m.CharA == cp.CharA && m.CharB == cp.CharB {
			s.meetings[i] = &cp
			return nil
		}
	}
	s.meetings = append(s.meetings, &cp)
	return nil
}

func (s *MemStore) ListMeetings(name string) ([]*MeetingRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*MeetingRow
	for _, meeting := range s.meetings {
		if name == "" || meeting.CharA == name || meeting.CharB == name {
			cp := *meeting
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (s *MemStore) CountMeetings() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.meetings), nil
}
