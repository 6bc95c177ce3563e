package router

// DefaultHistoryCapacity is the number of entries a History keeps when no
// capacity is given.
const DefaultHistoryCapacity = 50

// HistoryEntry is one location in a session's history.
type HistoryEntry struct {
	// Path is the app-relative path including query (e.g., "/gate?lane=2").
	Path string

	// Name is the matched route name, or "" when the path matched nothing.
	Name string
}

// History is a bounded back/forward stack mirroring the browser history of
// one session. When full, the oldest entry is dropped; indices stay absolute
// so they keep matching the indices stored in browser history state.
//
// History is not safe for concurrent use.
type History struct {
	entries  []HistoryEntry
	index    int // position in entries, -1 when empty
	dropped  int // entries evicted from the front
	capacity int
}

// NewHistory creates an empty history. capacity <= 0 selects
// DefaultHistoryCapacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{index: -1, capacity: capacity}
}

// Push truncates forward entries and appends e as the current entry.
func (h *History) Push(e HistoryEntry) {
	h.entries = append(h.entries[:h.index+1], e)
	if len(h.entries) > h.capacity {
		over := len(h.entries) - h.capacity
		h.entries = append([]HistoryEntry(nil), h.entries[over:]...)
		h.dropped += over
	}
	h.index = len(h.entries) - 1
}

// Replace rewrites the current entry. On an empty history it pushes.
func (h *History) Replace(e HistoryEntry) {
	if h.index < 0 {
		h.Push(e)
		return
	}
	h.entries[h.index] = e
}

// Current returns the current entry.
func (h *History) Current() (HistoryEntry, bool) {
	if h.index < 0 {
		return HistoryEntry{}, false
	}
	return h.entries[h.index], true
}

// Index returns the absolute index of the current entry, or -1.
func (h *History) Index() int {
	if h.index < 0 {
		return -1
	}
	return h.dropped + h.index
}

// Len returns the number of retained entries.
func (h *History) Len() int {
	return len(h.entries)
}

// CanGo reports whether moving delta entries stays within retained history.
func (h *History) CanGo(delta int) bool {
	if h.index < 0 {
		return false
	}
	target := h.index + delta
	return target >= 0 && target < len(h.entries)
}

// Peek returns the entry delta steps away without moving.
func (h *History) Peek(delta int) (HistoryEntry, bool) {
	if !h.CanGo(delta) {
		return HistoryEntry{}, false
	}
	return h.entries[h.index+delta], true
}

// Go moves the cursor delta entries and returns the new current entry.
func (h *History) Go(delta int) (HistoryEntry, bool) {
	if !h.CanGo(delta) {
		return HistoryEntry{}, false
	}
	h.index += delta
	return h.entries[h.index], true
}

// Seek moves the cursor to an absolute index reported by the browser.
func (h *History) Seek(abs int) (HistoryEntry, bool) {
	local := abs - h.dropped
	if local < 0 || local >= len(h.entries) {
		return HistoryEntry{}, false
	}
	h.index = local
	return h.entries[local], true
}

// Entries returns a copy of the retained entries, oldest first.
func (h *History) Entries() []HistoryEntry {
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}
