package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataFor(t *testing.T) {
	if got := MetadataFor(CodeValidation).HTTPStatus; got != http.StatusBadRequest {
		t.Fatalf("validation should map to 400, got %d", got)
	}
	if got := MetadataFor(CodeStateConflict).HTTPStatus; got != http.StatusUnprocessableEntity {
		t.Fatalf("state conflict should map to 422, got %d", got)
	}
	if got := MetadataFor(Code("UNKNOWN")).HTTPStatus; got != http.StatusInternalServerError {
		t.Fatalf("unknown code should fall back to 500, got %d", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("row missing")
	err := Wrap(CodeNotFound, cause, "estimate not found")

	if !stdErrors.Is(err, cause) {
		t.Fatal("wrapped error should unwrap to its cause")
	}
	if typed := As(fmt.Errorf("outer: %w", err)); typed == nil || typed.Code() != CodeNotFound {
		t.Fatal("As should find the typed error through wrapping")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "bad allocation").WithDetails(map[string]string{"amount": "must be positive"})
	details, ok := err.Details().(map[string]string)
	if !ok || details["amount"] != "must be positive" {
		t.Fatalf("unexpected details: %v", err.Details())
	}
}

func TestDumpChain(t *testing.T) {
	err := Wrap(CodeDependency, stdErrors.New("connection refused"), "query estimates")
	dump := Dump(err)

	if dump.Code != CodeDependency {
		t.Fatalf("expected dependency code, got %q", dump.Code)
	}
	if len(dump.Chain) < 2 {
		t.Fatalf("expected full chain, got %v", dump.Chain)
	}
}
