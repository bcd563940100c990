package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipe-finder/internal/config"
	"recipe-finder/internal/recipe"
)

func newTestClient(url string) Client {
	return NewClient(&config.Config{
		APIURL:  url,
		APIKey:  "test_key",
		Timeout: time.Second,
	})
}

func TestGetRecipe(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/recipes/abc123" {
				t.Errorf("Expected path '/recipes/abc123', got '%s'", r.URL.Path)
			}
			if r.URL.Query().Get("key") != "test_key" {
				t.Errorf("Expected key 'test_key', got '%s'", r.URL.Query().Get("key"))
			}
			fmt.Fprintln(w, `{
				"status": "success",
				"data": {"recipe": {
					"id": "abc123", "title": "Pasta", "publisher": "P",
					"source_url": "http://src", "image_url": "http://img",
					"servings": 4, "cooking_time": 30,
					"ingredients": [{"quantity": 2, "unit": "", "description": "eggs"}]
				}}
			}`)
		}))
		defer server.Close()

		client := newTestClient(server.URL + "/recipes/")
		rec, err := client.GetRecipe(context.Background(), "abc123")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rec.Title != "Pasta" || rec.ImageURL != "http://img" || rec.CookingTime != 30 {
			t.Errorf("Unexpected recipe decoded: %+v", rec)
		}
		if len(rec.Ingredients) != 1 {
			t.Errorf("Expected 1 ingredient, got %d", len(rec.Ingredients))
		}
	})

	t.Run("HTTPError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintln(w, `{"status": "fail", "message": "Invalid _id: nope"}`)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).GetRecipe(context.Background(), "nope")
		var httpErr *HTTPError
		if !errors.As(err, &httpErr) {
			t.Fatalf("Expected *HTTPError, got %v", err)
		}
		if err.Error() != "Invalid _id: nope (400)" {
			t.Errorf("Expected message with status, got '%s'", err.Error())
		}
	})

	t.Run("NotFoundStatus", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).GetRecipe(context.Background(), "x")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected 404 to match ErrNotFound, got %v", err)
		}
	})

	t.Run("MissingData", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintln(w, `{"status": "success", "data": {}}`)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).GetRecipe(context.Background(), "x")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer server.Close()

		client := NewClient(&config.Config{APIURL: server.URL, APIKey: "k", Timeout: 50 * time.Millisecond})
		_, err := client.GetRecipe(context.Background(), "slow")
		if !errors.Is(err, ErrTimeout) {
			t.Fatalf("Expected ErrTimeout, got %v", err)
		}
	})

	t.Run("NetworkError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		_, err := newTestClient(url).GetRecipe(context.Background(), "x")
		var netErr *NetworkError
		if !errors.As(err, &netErr) {
			t.Fatalf("Expected *NetworkError, got %v", err)
		}
	})
}

func TestSearch(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("search") != "pizza" {
				t.Errorf("Expected search 'pizza', got '%s'", r.URL.Query().Get("search"))
			}
			fmt.Fprintln(w, `{"data": {"recipes": [
				{"id": "1", "title": "Pizza A", "publisher": "X", "image_url": "http://a"},
				{"id": "2", "title": "Pizza B", "publisher": "Y", "image_url": "http://b", "key": "k"}
			]}}`)
		}))
		defer server.Close()

		previews, err := newTestClient(server.URL).Search(context.Background(), "pizza")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(previews) != 2 {
			t.Fatalf("Expected 2 previews, got %d", len(previews))
		}
		if previews[1].Key != "k" || previews[0].ImageURL != "http://a" {
			t.Errorf("Unexpected previews: %+v", previews)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintln(w, `{"results": 0, "data": {"recipes": []}}`)
		}))
		defer server.Close()

		previews, err := newTestClient(server.URL).Search(context.Background(), "zzz")
		if err != nil {
			t.Fatalf("Expected no error for empty search, got %v", err)
		}
		if len(previews) != 0 {
			t.Errorf("Expected 0 previews, got %d", len(previews))
		}
	})
}

func TestCreateRecipe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected JSON content type, got '%s'", r.Header.Get("Content-Type"))
		}
		body, _ := io.ReadAll(r.Body)
		var sent map[string]any
		if err := json.Unmarshal(body, &sent); err != nil {
			t.Errorf("Expected JSON body, got %s", body)
		}
		if sent["cooking_time"] != float64(10) {
			t.Errorf("Expected cooking_time 10, got %v", sent["cooking_time"])
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintln(w, `{"data": {"recipe": {"id": "new1", "title": "Mine", "servings": 2, "cooking_time": 10, "key": "test_key", "ingredients": []}}}`)
	}))
	defer server.Close()

	created, err := newTestClient(server.URL).CreateRecipe(context.Background(), recipe.WireRecipe{
		Title:       "Mine",
		Servings:    2,
		CookingTime: 10,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if created.ID != "new1" || created.Key != "test_key" {
		t.Errorf("Expected created recipe with id and key, got %+v", created)
	}
}
