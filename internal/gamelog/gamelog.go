// Package gamelog holds the player-facing message log.
package gamelog

import "fmt"

// DefaultCapacity is the number of entries kept when none is configured.
const DefaultCapacity = 127

// Log is a bounded, insertion-ordered list of messages. When full, the oldest
// entry is evicted.
type Log struct {
	entries  []string
	capacity int
}

func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{entries: make([]string, 0, capacity), capacity: capacity}
}

func (l *Log) Add(msg string) {
	if len(l.entries) == l.capacity {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:len(l.entries)-1]
	}
	l.entries = append(l.entries, msg)
}

func (l *Log) Addf(format string, args ...any) {
	l.Add(fmt.Sprintf(format, args...))
}

// Entries returns a copy of every entry, oldest first.
func (l *Log) Entries() []string {
	return append([]string(nil), l.entries...)
}

// Recent returns up to n of the newest entries, oldest first.
func (l *Log) Recent(n int) []string {
	n = max(n, 0)
	start := max(len(l.entries)-n, 0)
	return append([]string(nil), l.entries[start:]...)
}

// Last returns the newest entry, or "" if the log is empty.
func (l *Log) Last() string {
	if len(l.entries) == 0 {
		return ""
	}
	return l.entries[len(l.entries)-1]
}

func (l *Log) Len() int { return len(l.entries) }

func (l *Log) Clear() { l.entries = l.entries[:0] }
