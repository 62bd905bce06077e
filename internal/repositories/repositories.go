package repositories

// Logical storage keys for the document store. These mirror what the app
// persists: the ranked list itself and the frozen manual-order snapshot.
const (
	KeyRankedList  = "ranked-list"
	KeyManualOrder = "manual-order-snapshot"
)

// MaxBackups bounds the rolling backup history.
const MaxBackups = 10
