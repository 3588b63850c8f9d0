package amqp

import "testing"

func TestPurchaseEventRoundTrip(t *testing.T) {
	event := NewUpsertEvent("p-42")
	body, err := event.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := PurchaseEventFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Kind != KindUpsert || got.ID != "p-42" {
		t.Fatalf("got %+v", got)
	}
	if got.Timestamp.IsZero() {
		t.Fatal("timestamp should survive the round trip")
	}
}

func TestPurchaseEventBadJSON(t *testing.T) {
	if _, err := PurchaseEventFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error")
	}
}
