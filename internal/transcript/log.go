package transcript

// Log is a strictly append-only ordered sequence of entries.
// Entries are immutable once appended; the log is only ever cleared as a
// whole when the conversation is reset.
type Log struct {
	entries []Entry
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{}
}

// Restore creates a log pre-populated with previously persisted entries,
// preserving their order.
func Restore(entries []Entry) *Log {
	l := &Log{entries: make([]Entry, len(entries))}
	copy(l.entries, entries)
	return l
}

// Append adds an entry to the end of the log and returns it.
func (l *Log) Append(entry Entry) Entry {
	l.entries = append(l.entries, entry)
	return entry
}

// AppendMessage creates a new entry from role and text, appends it and
// returns it.
func (l *Log) AppendMessage(role Role, text string) Entry {
	return l.Append(NewEntry(role, text))
}

// All returns the full ordered sequence of entries. The returned slice is a
// copy; mutating it does not affect the log.
func (l *Log) All() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries in the log.
func (l *Log) Len() int {
	return len(l.entries)
}

// Find returns the entry with the given ID, or false if absent.
func (l *Log) Find(id string) (Entry, bool) {
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.entries[i].ID == id {
			return l.entries[i], true
		}
	}
	return Entry{}, false
}
