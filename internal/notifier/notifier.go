package notifier

import (
	"sync"
	"time"
)

const (
	TypeSuccess = "success"
	TypeError   = "error"
)

// Notification keeps the {type, message, timestamp} shape so a repeated
// message still retriggers display through its timestamp.
type Notification struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// Notifier holds a FIFO notification queue per user, replacing a single
// last-message slot that could drop messages arriving back to back.
type Notifier struct {
	mu     sync.Mutex
	queues map[string][]Notification
}

func New() *Notifier {
	return &Notifier{
		queues: make(map[string][]Notification),
	}
}

func (n *Notifier) Push(userID, notificationType, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.queues[userID] = append(n.queues[userID], Notification{
		Type:      notificationType,
		Message:   message,
		Timestamp: time.Now().UnixMilli(),
	})
}

// Drain returns the user's pending notifications in arrival order and clears
// the queue. An empty slice, not nil, comes back for an empty queue.
func (n *Notifier) Drain(userID string) []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	pending := n.queues[userID]
	delete(n.queues, userID)
	if pending == nil {
		pending = []Notification{}
	}
	return pending
}
