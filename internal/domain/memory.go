package domain

// Conversation memory bounds the context carried into prompts. Each turn
// contributes two entries: the issued question and the evaluated answer.
const (
	// MemoryWatermark is the entry count that triggers eviction.
	MemoryWatermark = 20
	// MemoryEvictBatch is how many of the oldest entries are dropped at once
	// (five complete turns).
	MemoryEvictBatch = 10
)

// MemoryEntry is one opaque conversation record used only for prompt context.
type MemoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ConversationMemory is a bounded FIFO of conversation entries. Eviction is
// triggered purely by total count, not recency of use: every entry is equally
// likely to be referenced in the next prompt, so LRU bookkeeping buys nothing.
type ConversationMemory struct {
	Entries []MemoryEntry `json:"entries"`
}

// Append adds an entry at the end. It does not prune; callers prune after
// appending so the watermark check sees the full sequence.
func (m *ConversationMemory) Append(e MemoryEntry) {
	m.Entries = append(m.Entries, e)
}

// Prune evicts the oldest MemoryEvictBatch entries once the sequence exceeds
// MemoryWatermark, preserving the order of the remainder.
func (m *ConversationMemory) Prune() {
	if len(m.Entries) <= MemoryWatermark {
		return
	}
	kept := make([]MemoryEntry, len(m.Entries)-MemoryEvictBatch)
	copy(kept, m.Entries[MemoryEvictBatch:])
	m.Entries = kept
}

// Len returns the current entry count.
func (m *ConversationMemory) Len() int { return len(m.Entries) }
