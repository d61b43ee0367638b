package notify

// Message kinds understood by the notification worker.
const (
	KindOrderCreated      = "order_created"
	KindOrderCreatedAdmin = "order_created_admin"
	KindStatusChanged     = "status_changed"
)

// Message is the envelope published to the notification queue. It carries
// only the order reference; the worker resolves recipient and content from
// the database at delivery time.
type Message struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	OrderID uint   `json:"order_id"`
	Status  string `json:"status,omitempty"`
}
