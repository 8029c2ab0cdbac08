package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchGroupsSendsWatermarkAndDecodes(t *testing.T) {
	since := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/groups" {
			t.Errorf("path = %q, want /groups", r.URL.Path)
		}
		if got := r.URL.Query().Get("lastFetched"); got != "2026-08-30T12:00:00Z" {
			t.Errorf("lastFetched = %q, want 2026-08-30T12:00:00Z", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q, want application/json", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 46, "name": "Mythic Realms", "image_url": "https://img.example.com/46.png",
			 "num_items": 12, "release_date": "2024-09-01"}
		]`))
	}))
	defer server.Close()

	c := NewClient(server.URL, 0)
	records, err := c.FetchGroups(context.Background(), since)
	if err != nil {
		t.Fatalf("FetchGroups: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if records[0].ID != 46 || records[0].Name != "Mythic Realms" {
		t.Errorf("record = %+v", records[0])
	}
}

func TestFetchItemsEmptyBodyIsEmptySlice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := NewClient(server.URL, 0)
	records, err := c.FetchItems(context.Background(), time.Unix(0, 0))
	if err != nil {
		t.Fatalf("FetchItems: %v", err)
	}
	if records == nil {
		t.Fatal("records = nil, want an empty slice")
	}
	if len(records) != 0 {
		t.Fatalf("records = %d, want 0", len(records))
	}
}

func TestFetchComponentsDecodesProvenanceFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/item-components" {
			t.Errorf("path = %q, want /item-components", r.URL.Path)
		}
		w.Write([]byte(`[
			{"id": 9001, "name": "Gear", "image_url": "https://img.example.com/9001.png",
			 "part_url": "https://parts.example.com/9001", "item_id": 600,
			 "quantity": 2, "category": "Part", "set_num": "col26-3", "upstream_id": 1234}
		]`))
	}))
	defer server.Close()

	c := NewClient(server.URL, 0)
	records, err := c.FetchComponents(context.Background(), time.Unix(0, 0))
	if err != nil {
		t.Fatalf("FetchComponents: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	r := records[0]
	if r.SetNum != "col26-3" || r.UpstreamID != 1234 {
		t.Errorf("provenance = (%q, %d), want (col26-3, 1234)", r.SetNum, r.UpstreamID)
	}

	// The provenance fields are not part of the store patch.
	patch := r.ToPatch()
	if patch.ID != 9001 || patch.ItemID != 600 || patch.Quantity != 2 {
		t.Errorf("patch = %+v", patch)
	}
}

func TestFetchNon2xxIsANetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(server.URL, 0)
	_, err := c.FetchGroups(context.Background(), time.Unix(0, 0))

	ne, ok := AsNetworkError(err)
	if !ok {
		t.Fatalf("error = %v, want *NetworkError", err)
	}
	if ne.Kind != NetworkErrorOther {
		t.Errorf("kind = %v, want other", ne.Kind)
	}
}

func TestFetchMalformedBodyIsANetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"`))
	}))
	defer server.Close()

	c := NewClient(server.URL, 0)
	_, err := c.FetchGroups(context.Background(), time.Unix(0, 0))

	ne, ok := AsNetworkError(err)
	if !ok {
		t.Fatalf("error = %v, want *NetworkError", err)
	}
	if ne.Kind != NetworkErrorOther {
		t.Errorf("kind = %v, want other", ne.Kind)
	}
}

func TestFetchTimeoutIsClassified(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	c := NewClient(server.URL, 50*time.Millisecond)
	_, err := c.FetchGroups(context.Background(), time.Unix(0, 0))

	ne, ok := AsNetworkError(err)
	if !ok {
		t.Fatalf("error = %v, want *NetworkError", err)
	}
	if ne.Kind != NetworkErrorTimeout {
		t.Errorf("kind = %v, want timeout", ne.Kind)
	}
}

func TestFetchConnectionRefusedIsNoConnectivity(t *testing.T) {
	// A listener bound and closed again leaves a port nothing listens on.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	c := NewClient(addr, time.Second)
	_, err := c.FetchGroups(context.Background(), time.Unix(0, 0))

	ne, ok := AsNetworkError(err)
	if !ok {
		t.Fatalf("error = %v, want *NetworkError", err)
	}
	if ne.Kind != NetworkErrorNoConnectivity {
		t.Errorf("kind = %v, want no-connectivity", ne.Kind)
	}
}

func TestFetchCancellationPassesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(server.URL, 0)
	_, err := c.FetchGroups(ctx, time.Unix(0, 0))

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if _, ok := AsNetworkError(err); ok {
		t.Error("cancellation was wrapped as a network error")
	}
}
