package usecase

import (
	"context"
	"testing"
)

func TestKafkaPointsHandlerStoresPoint(t *testing.T) {
	store := &fakeStorage{}
	m := &fakeMetrics{}
	h := NewKafkaPointsHandler("timewise.points", store, m)

	msg := []byte(`{"series":"demo","seq":7,"v":42.5,"t":1724457600000}`)
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.points) != 1 {
		t.Fatalf("expected 1 stored point, got %d", len(store.points))
	}
	pt := store.points[0]
	if pt.Series != "demo" || pt.Seq != 7 || !approx(pt.Value, 42.5, 1e-9) {
		t.Fatalf("unexpected point: %+v", pt)
	}
	// millisecond timestamps are normalized to seconds
	if pt.Timestamp != 1724457600 {
		t.Fatalf("expected normalized timestamp, got %d", pt.Timestamp)
	}
}

func TestKafkaPointsHandlerBadPayload(t *testing.T) {
	store := &fakeStorage{}
	m := &fakeMetrics{}
	h := NewKafkaPointsHandler("timewise.points", store, m)

	if err := h.Handle(context.Background(), []byte("not json")); err == nil {
		t.Fatalf("expected unmarshal error")
	}
	if m.errors["consumer_unmarshal"] != 1 {
		t.Fatalf("expected unmarshal error recorded, got %v", m.errors)
	}
	if len(store.points) != 0 {
		t.Fatalf("bad payloads must not be stored")
	}
}
