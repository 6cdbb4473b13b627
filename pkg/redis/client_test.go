package redis

import "testing"

func TestKeyNamespacing(t *testing.T) {
	client := &Client{}

	if got := client.Key("cron", "lock"); got != "bl:cron:lock" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := client.Key(); got != "bl" {
		t.Fatalf("unexpected bare key: %s", got)
	}
}

func TestIdempotencyKeyShape(t *testing.T) {
	store := NewIdempotencyStore(&Client{}, 0)

	got := store.key("POST", "/v1/estimates", "abc-123")
	want := "bl:idem:POST:/v1/estimates:abc-123"
	if got != want {
		t.Fatalf("key = %s, want %s", got, want)
	}
}
