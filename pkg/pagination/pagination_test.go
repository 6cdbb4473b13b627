package pagination

import (
	"net/http/httptest"
	"testing"
)

func TestFromRequestDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/projects", nil)
	page := FromRequest(r)
	if page.Limit != defaultLimit || page.Offset != 0 {
		t.Fatalf("unexpected defaults: %+v", page)
	}
}

func TestFromRequestClampsAndIgnoresGarbage(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/projects?limit=9999&offset=banana", nil)
	page := FromRequest(r)
	if page.Limit != maxLimit {
		t.Fatalf("limit = %d, want %d", page.Limit, maxLimit)
	}
	if page.Offset != 0 {
		t.Fatalf("offset = %d, want 0", page.Offset)
	}
}
