package advisor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/srikolla28/trackfina/internal/core"
)

func suggestionServer(t *testing.T, status int, answer string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"` + answer + `"}]}}]}`))
		}
	}))
}

func TestSuggestCategory(t *testing.T) {
	srv := suggestionServer(t, http.StatusOK, "Groceries")
	defer srv.Close()

	c := NewClient("test-key").WithBaseURL(srv.URL)
	got, err := c.SuggestCategory(context.Background(), "Weekly shopping")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != core.Groceries {
		t.Fatalf("got %q, want Groceries", got)
	}
}

func TestSuggestCategoryUnknownLabel(t *testing.T) {
	srv := suggestionServer(t, http.StatusOK, "Snacks")
	defer srv.Close()

	c := NewClient("test-key").WithBaseURL(srv.URL)
	_, err := c.SuggestCategory(context.Background(), "Chips")
	if !errors.Is(err, ErrNoSuggestion) {
		t.Fatalf("unrecognized label should be ErrNoSuggestion, got %v", err)
	}
}

func TestSuggestCategoryServerError(t *testing.T) {
	srv := suggestionServer(t, http.StatusInternalServerError, "")
	defer srv.Close()

	c := NewClient("test-key").WithBaseURL(srv.URL)
	if _, err := c.SuggestCategory(context.Background(), "Chips"); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestSuggestCategoryWithoutKey(t *testing.T) {
	c := NewClient("")
	_, err := c.SuggestCategory(context.Background(), "Chips")
	if !errors.Is(err, ErrNoSuggestion) {
		t.Fatalf("missing key should be ErrNoSuggestion, got %v", err)
	}
}

func TestSuggestCategoryEmptyItem(t *testing.T) {
	c := NewClient("test-key")
	_, err := c.SuggestCategory(context.Background(), "   ")
	if !errors.Is(err, ErrNoSuggestion) {
		t.Fatalf("blank item should be ErrNoSuggestion, got %v", err)
	}
}
