package history

import "time"

// MaxEntries caps the stored exchange log. Writers drop the oldest
// entries beyond the cap; readers truncate oversized logs the same way
// so a hand-edited file cannot grow the view.
const MaxEntries = 10

// Entry is one successful text/question exchange. Timestamp is RFC 3339
// in UTC.
type Entry struct {
	Text      string `json:"text"`
	Question  string `json:"question"`
	Timestamp string `json:"timestamp"`
}

// NewEntry stamps an exchange with the current time.
func NewEntry(text, question string) Entry {
	return Entry{
		Text:      text,
		Question:  question,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Append returns a new log with entry at the front, keeping the most
// recent MaxEntries. The input slice is left unchanged.
func Append(entries []Entry, entry Entry) []Entry {
	out := make([]Entry, 0, len(entries)+1)
	out = append(out, entry)
	out = append(out, entries...)
	if len(out) > MaxEntries {
		out = out[:MaxEntries]
	}
	return out
}
