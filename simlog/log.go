package simlog

// DefaultDisplay is how many entries a render surface shows.
const DefaultDisplay = 5

// Log is a most-recent-first sequence of human-readable lines. It is
// unbounded; only display is capped.
type Log struct {
	entries []string
}

// New creates and returns an empty Log.
func New() *Log {
	return &Log{}
}

// Push prepends lines as one group, keeping their given order: the first
// line becomes the newest entry.
func (l *Log) Push(lines ...string) {
	if len(lines) == 0 {
		return
	}
	next := make([]string, 0, len(lines)+len(l.entries))
	next = append(next, lines...)
	l.entries = append(next, l.entries...)
}

// Recent returns up to n newest entries.
func (l *Log) Recent(n int) []string {
	if n < 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	return append([]string(nil), l.entries[:n]...)
}

// All returns a copy of every line, newest first.
func (l *Log) All() []string {
	return l.Recent(-1)
}

// Len is the total number of lines ever pushed.
func (l *Log) Len() int {
	return len(l.entries)
}
