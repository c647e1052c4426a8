package headless

import (
	"fmt"
	"strings"
)

// Entry is one recorded event during a headless run.
type Entry struct {
	Tick     int
	Effect   string  // "particles", "fuzzy", "scramble" or "--" for the run itself
	Category string  // state, invariant, stats
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] scramble  state     resolved         9/16
func (e Entry) String() string {
	return fmt.Sprintf("[T=%03d] %-9s %-9s %-16s %s", e.Tick, e.Effect, e.Category, e.Key, e.Value)
}

// Log collects structured events. Unlike the on-screen event log it is
// unbounded and machine-readable.
type Log struct {
	entries []Entry
	verbose bool
}

// NewLog creates a Log. Verbose logs also keep per-frame stats entries.
func NewLog(verbose bool) *Log {
	return &Log{verbose: verbose}
}

// Add records a new entry.
func (l *Log) Add(tick int, effect, category, key, value string, numVal float64) {
	l.entries = append(l.entries, Entry{
		Tick:     tick,
		Effect:   effect,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only in verbose mode.
func (l *Log) AddVerbose(tick int, effect, category, key, value string, numVal float64) {
	if !l.verbose {
		return
	}
	l.Add(tick, effect, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (l *Log) Entries() []Entry { return l.entries }

// Filter returns entries matching category and key. Empty matches any.
func (l *Log) Filter(category, key string) []Entry {
	var out []Entry
	for _, e := range l.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterEffect returns entries for one effect.
func (l *Log) FilterEffect(effect string) []Entry {
	var out []Entry
	for _, e := range l.entries {
		if e.Effect == effect {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many entries match category and key.
func (l *Log) Count(category, key string) int {
	return len(l.Filter(category, key))
}

// LastOf returns the most recent entry matching category and key.
func (l *Log) LastOf(category, key string) (Entry, bool) {
	entries := l.Filter(category, key)
	if len(entries) == 0 {
		return Entry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry reports whether an entry matches category, key and a value
// substring.
func (l *Log) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range l.Filter(category, key) {
		if valueSubstr == "" || strings.Contains(e.Value, valueSubstr) {
			return true
		}
	}
	return false
}

// Format returns the full log, one entry per line.
func (l *Log) Format() string {
	var sb strings.Builder
	for _, e := range l.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
