package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"minebot/internal/board"
)

func mustParse(t *testing.T, lines ...string) *board.Board {
	t.Helper()
	b, err := board.Parse(lines...)
	if err != nil {
		t.Fatalf("parse board: %v", err)
	}
	return b
}

func TestEncodeRequest(t *testing.T) {
	b := mustParse(t,
		"#3F",
		".AB",
	)
	got := EncodeRequest(b, 7)
	want := []int{
		1, 3, 2, 7, 1, 0, 0, 0,
		0, 0, 0, 3, 0, 1, 0, 0, 2,
		0, 0, 5, 0, 0, 0, 0, 0, 0,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestDecodeResponse(t *testing.T) {
	b := mustParse(t, "###", "###")
	moves, err := DecodeResponse(b, []int{4, 0, 2, 1, 5, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []board.Move{
		{Kind: board.Click, Row: 1, Col: 1},
		{Kind: board.Flag, Row: 0, Col: 2},
		{Kind: board.Guess, Row: 1, Col: 2},
	}
	if !reflect.DeepEqual(moves, want) {
		t.Fatalf("got %v want %v", moves, want)
	}

	bad := [][]int{
		{1},
		{6, 0},
		{-1, 0},
		{0, 9},
	}
	for _, resp := range bad {
		if _, err := DecodeResponse(b, resp); err == nil {
			t.Fatalf("expected error for %v", resp)
		}
	}
}

func TestOrder_FlagsThenBonusThenClicks(t *testing.T) {
	b := mustParse(t, "#A#", "###")
	moves := []board.Move{
		{Kind: board.Click, Row: 0, Col: 0},
		{Kind: board.Click, Row: 0, Col: 1},
		{Kind: board.Flag, Row: 1, Col: 1},
		{Kind: board.Guess, Row: 1, Col: 2},
	}
	got := Order(b, moves)
	want := []board.Move{
		{Kind: board.Flag, Row: 1, Col: 1},
		{Kind: board.Click, Row: 0, Col: 1},
		{Kind: board.Click, Row: 0, Col: 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestOrder_OnlyGuessesKeepsOne(t *testing.T) {
	b := mustParse(t, "##B")
	moves := []board.Move{
		{Kind: board.Guess, Row: 0, Col: 0},
		{Kind: board.Guess, Row: 0, Col: 2},
	}
	got := Order(b, moves)
	want := []board.Move{{Kind: board.Guess, Row: 0, Col: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}

	if got := Order(b, nil); got != nil {
		t.Fatalf("empty response: got %v", got)
	}
}

func TestClient_Solve(t *testing.T) {
	var received []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method: got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "text/plain;charset=UTF-8" {
			t.Errorf("content type: got %q", ct)
		}
		data, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(data, &received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte("[2,0,1,1]\n"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, srv.Client())
	if c.Name() != "remote" {
		t.Fatalf("name: got %q", c.Name())
	}

	b := mustParse(t, "1##")
	moves, err := c.Solve(context.Background(), b, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []board.Move{
		{Kind: board.Flag, Row: 0, Col: 1},
		{Kind: board.Click, Row: 0, Col: 2},
	}
	if !reflect.DeepEqual(moves, want) {
		t.Fatalf("moves: got %v want %v", moves, want)
	}
	if len(received) != 8+3*3 || received[1] != 3 || received[2] != 1 || received[3] != 1 {
		t.Fatalf("request header: got %v", received)
	}
}

func TestClient_Unavailable(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"garbage body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}},
		{"bad action", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("[0,7]"))
		}},
		{"timeout", func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			c := NewClient(srv.URL, 50*time.Millisecond, srv.Client())
			_, err := c.Solve(context.Background(), mustParse(t, "1#"), 1)
			if !errors.Is(err, ErrSolverUnavailable) {
				t.Fatalf("expected ErrSolverUnavailable, got %v", err)
			}
		})
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second, nil)
	_, err := c.Solve(context.Background(), mustParse(t, "1#"), 1)
	if !errors.Is(err, ErrSolverUnavailable) {
		t.Fatalf("expected ErrSolverUnavailable, got %v", err)
	}
}
