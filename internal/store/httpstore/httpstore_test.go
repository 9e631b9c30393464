package httpstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/idilsaglam/todosync/internal/model"
)

func TestNew_RejectsBadURL(t *testing.T) {
	for _, raw := range []string{"", "   ", "ftp://example.com", "://nope"} {
		if _, err := New(raw); err == nil {
			t.Errorf("New(%q): expected error", raw)
		}
	}
}

func TestList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/todos" {
			t.Errorf("got %s %s, want GET /api/todos", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("authorization = %q, want bearer token", got)
		}
		w.Write([]byte(`{"success":true,"data":[{"_id":"1","title":"Buy milk","completed":false}]}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL+"/api/", WithToken("tok"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	resp, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := model.Item{ID: "1", Title: "Buy milk"}
	if !resp.Success || len(resp.Data) != 1 || resp.Data[0] != want {
		t.Fatalf("got %+v, want [%+v]", resp, want)
	}
}

func TestCreateSendsFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/todos" {
			t.Errorf("got %s %s, want POST /todos", r.Method, r.URL.Path)
		}
		var f model.Fields
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if f.Title != "Buy milk" || f.Completed {
			t.Errorf("fields = %+v", f)
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("unexpected authorization header")
		}
		w.Write([]byte(`{"success":true,"data":{"_id":"7","title":"Buy milk","completed":false}}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	resp, err := c.Create(context.Background(), model.Fields{Title: "Buy milk"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.Data.ID != "7" {
		t.Fatalf("id = %q, want 7", resp.Data.ID)
	}
}

func TestUpdateEscapesID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.EscapedPath() != "/todos/a%2Fb" {
			t.Errorf("got %s %s", r.Method, r.URL.EscapedPath())
		}
		w.Write([]byte(`{"success":true,"data":{"_id":"a/b","title":"x","completed":true}}`))
	}))
	defer srv.Close()

	c, _ := New(srv.URL)
	resp, err := c.Update(context.Background(), "a/b", model.Fields{Title: "x", Completed: true})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !resp.Data.Completed {
		t.Fatalf("got %+v", resp.Data)
	}
}

func TestRejectionIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"success":false,"message":"title required"}`))
	}))
	defer srv.Close()

	c, _ := New(srv.URL)
	resp, err := c.Create(context.Background(), model.Fields{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.Success || resp.Message != "title required" {
		t.Fatalf("got %+v, want rejection", resp)
	}
}

func TestGarbageStatusIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, _ := New(srv.URL)
	_, err := c.List(context.Background())
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Fatalf("err = %v, want status error", err)
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, _ := New(url)
	if _, err := c.List(context.Background()); err == nil {
		t.Fatal("expected error from closed server")
	}
}
