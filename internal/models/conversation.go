package models

// ChatRecord is one user message together with the reply that was sent back.
type ChatRecord struct {
	ID        string `json:"id" firestore:"-"`
	Message   string `json:"message" firestore:"message"`
	Reply     string `json:"reply" firestore:"reply"`
	Timestamp int64  `json:"timestamp" firestore:"timestamp"` // Unix seconds
}
