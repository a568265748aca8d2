package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/pointable/receipts/internal/storage/sqlite"
)

// setupTestServer creates a test server backed by a temp-file SQLite database.
func setupTestServer(t *testing.T) (*httptest.Server, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "receipts-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	mux := http.NewServeMux()
	NewReceiptService(store).Register(mux)
	server := httptest.NewServer(mux)

	cleanup := func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	}
	return server, cleanup
}

func validPayload() map[string]any {
	return map[string]any{
		"retailer":     "Walgreens",
		"purchaseDate": "2022-01-02",
		"purchaseTime": "08:13",
		"total":        "2.65",
		"items": []map[string]any{
			{"shortDescription": "Pepsi - 12-oz", "price": "1.25"},
			{"shortDescription": "Dasani", "price": "1.40"},
		},
	}
}

func postReceipt(t *testing.T, server *httptest.Server, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	resp, err := http.Post(server.URL+"/receipts/process", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /receipts/process failed: %v", err)
	}
	return resp
}

// submitReceipt posts a payload, asserts success and returns the assigned ID.
func submitReceipt(t *testing.T, server *httptest.Server, payload any) string {
	t.Helper()
	resp := postReceipt(t, server, payload)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.ID == "" {
		t.Fatal("expected a non-empty receipt id")
	}
	return result.ID
}

// getPoints fetches the stored points for an ID, asserting a 200.
func getPoints(t *testing.T, server *httptest.Server, id string) int64 {
	t.Helper()
	resp, err := http.Get(fmt.Sprintf("%s/receipts/%s/points", server.URL, id))
	if err != nil {
		t.Fatalf("GET points failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Points int64 `json:"points"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return result.Points
}

func TestProcessAndGetPoints_RoundTrip(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	tests := []struct {
		name    string
		payload map[string]any
		want    int64
	}{
		{
			name:    "walgreens morning",
			payload: validPayload(),
			want:    15,
		},
		{
			name: "target single item",
			payload: map[string]any{
				"retailer":     "Target",
				"purchaseDate": "2022-01-02",
				"purchaseTime": "13:13",
				"total":        "1.25",
				"items": []map[string]any{
					{"shortDescription": "Pepsi - 12-oz", "price": "1.25"},
				},
			},
			want: 31,
		},
		{
			name: "target five items",
			payload: map[string]any{
				"retailer":     "Target",
				"purchaseDate": "2022-01-01",
				"purchaseTime": "13:01",
				"total":        "35.35",
				"items": []map[string]any{
					{"shortDescription": "Mountain Dew 12PK", "price": "6.49"},
					{"shortDescription": "Emils Cheese Pizza", "price": "12.25"},
					{"shortDescription": "Knorr Creamy Chicken", "price": "1.26"},
					{"shortDescription": "Doritos Nacho Cheese", "price": "3.35"},
					{"shortDescription": "   Klarbrunn 12-PK 12 FL OZ  ", "price": "12.00"},
				},
			},
			want: 28,
		},
		{
			name: "corner market afternoon",
			payload: map[string]any{
				"retailer":     "M&M Corner Market",
				"purchaseDate": "2022-03-20",
				"purchaseTime": "14:33",
				"total":        "9.00",
				"items": []map[string]any{
					{"shortDescription": "Gatorade", "price": "2.25"},
					{"shortDescription": "Gatorade", "price": "2.25"},
					{"shortDescription": "Gatorade", "price": "2.25"},
					{"shortDescription": "Gatorade", "price": "2.25"},
				},
			},
			want: 109,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := submitReceipt(t, server, tt.payload)
			if got := getPoints(t, server, id); got != tt.want {
				t.Errorf("points = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestProcessReceipt_MissingFields(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	for _, field := range []string{"retailer", "purchaseDate", "purchaseTime", "total", "items"} {
		t.Run("missing "+field, func(t *testing.T) {
			payload := validPayload()
			delete(payload, field)

			resp := postReceipt(t, server, payload)
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestProcessReceipt_MalformedFields(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	tests := []struct {
		name  string
		field string
		value any
	}{
		{"non-date purchaseDate", "purchaseDate", "January 2nd"},
		{"reversed purchaseDate", "purchaseDate", "02-01-2022"},
		{"non-time purchaseTime", "purchaseTime", "8 o'clock"},
		{"out of range purchaseTime", "purchaseTime", "25:99"},
		{"non-numeric total", "total", "two dollars"},
		{"negative total", "total", "-2.65"},
		{"too many decimal places", "total", "2.657"},
		{"empty retailer", "retailer", ""},
		{"retailer over length limit", "retailer", "An Extremely Long Retailer Name Indeed"},
		{"retailer is an object", "retailer", map[string]any{"name": "Walgreens"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validPayload()
			payload[tt.field] = tt.value

			resp := postReceipt(t, server, payload)
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestProcessReceipt_InvalidItems(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	tests := []struct {
		name  string
		items []map[string]any
	}{
		{"item missing price", []map[string]any{{"shortDescription": "Pepsi - 12-oz"}}},
		{"item missing description", []map[string]any{{"price": "1.25"}}},
		{"item with blank description", []map[string]any{{"shortDescription": "   ", "price": "1.25"}}},
		{"item with non-numeric price", []map[string]any{{"shortDescription": "Pepsi - 12-oz", "price": "free"}}},
		{"item with negative price", []map[string]any{{"shortDescription": "Pepsi - 12-oz", "price": "-1.25"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validPayload()
			payload["items"] = tt.items

			resp := postReceipt(t, server, payload)
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestProcessReceipt_EmptyItemsAccepted(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	payload := validPayload()
	payload["items"] = []map[string]any{}

	id := submitReceipt(t, server, payload)

	// 9 retailer alphanumerics; no other rule applies.
	if got := getPoints(t, server, id); got != 9 {
		t.Errorf("points = %d, want 9", got)
	}
}

func TestProcessReceipt_InvalidBody(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	resp, err := http.Post(server.URL+"/receipts/process", "application/json", bytes.NewReader([]byte("not json")))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestProcessReceipt_DuplicateSubmissions(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	first := submitReceipt(t, server, validPayload())
	second := submitReceipt(t, server, validPayload())

	if first == second {
		t.Errorf("expected distinct ids for duplicate submissions, both were %s", first)
	}
	if a, b := getPoints(t, server, first), getPoints(t, server, second); a != b {
		t.Errorf("identical payloads scored differently: %d vs %d", a, b)
	}
}

func TestGetPoints_NotFound(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	tests := []struct {
		name string
		id   string
	}{
		{"unknown uuid", "3b61ef06-0e1c-46ae-b6c8-c85ce478bbc2"},
		{"malformed id", "not-a-uuid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(fmt.Sprintf("%s/receipts/%s/points", server.URL, tt.id))
			if err != nil {
				t.Fatalf("GET failed: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusNotFound {
				t.Errorf("expected 404, got %d", resp.StatusCode)
			}
		})
	}
}
