package notifier

import "testing"

func TestPushAndDrain(t *testing.T) {
	n := New()
	n.Push("user1", TypeSuccess, "Payment link created successfully")
	n.Push("user1", TypeError, "Failed to update payment link")
	n.Push("user2", TypeSuccess, "Payment method added successfully")

	pending := n.Drain("user1")
	if len(pending) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(pending))
	}

	if pending[0].Message != "Payment link created successfully" {
		t.Errorf("Expected FIFO order, got %q first", pending[0].Message)
	}
	if pending[1].Type != TypeError {
		t.Errorf("Expected second notification type %s, got %s", TypeError, pending[1].Type)
	}

	if again := n.Drain("user1"); len(again) != 0 {
		t.Errorf("Expected drained queue to be empty, got %d", len(again))
	}

	if other := n.Drain("user2"); len(other) != 1 {
		t.Errorf("Expected user2 queue untouched, got %d", len(other))
	}
}

func TestDrainEmptyQueue(t *testing.T) {
	n := New()

	pending := n.Drain("nobody")
	if pending == nil {
		t.Fatal("Expected empty slice, got nil")
	}
	if len(pending) != 0 {
		t.Errorf("Expected no notifications, got %d", len(pending))
	}
}

func TestDuplicateMessagesKeepDistinctTimestamps(t *testing.T) {
	n := New()
	n.Push("user1", TypeSuccess, "Payment link updated successfully")
	n.Push("user1", TypeSuccess, "Payment link updated successfully")

	pending := n.Drain("user1")
	if len(pending) != 2 {
		t.Fatalf("Expected duplicate messages to both be queued, got %d", len(pending))
	}
	if pending[0].Timestamp == 0 || pending[1].Timestamp == 0 {
		t.Error("Expected timestamps to be set")
	}
}
