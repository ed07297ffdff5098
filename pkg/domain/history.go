package domain

// HistoryEntry records one visited (url, namespace) pair.
// Entries are append-only except for an explicit cancellation of the most
// recently appended entry, used to roll back optimistic pushes when a
// started navigation's transition fails. Readers must tolerate post-hoc
// removal of the tail entry.
type HistoryEntry struct {
	URL       string `json:"url"`
	Namespace string `json:"namespace"`
	Index     int    `json:"index"`
}
