// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package stategateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientCallRoutesToTargetAndMethod(t *testing.T) {
	t.Parallel()

	var gotPath, gotVersion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotVersion = r.Header.Get("Rusk-Version")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, nil)
	data, err := c.Call(context.Background(), 2, "Chain", RuskRequest{Name: "gql", Data: []byte("query")})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if string(data) != "ok" {
		t.Fatalf("got %q", data)
	}
	if gotPath != "/on/Chain/gql" {
		t.Fatalf("got path %q", gotPath)
	}
	if gotVersion != "2" {
		t.Fatalf("got version %q", gotVersion)
	}
}

func TestClientCallSurfacesServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, nil)
	_, err := c.Call(context.Background(), 1, "transfer", RuskRequest{Name: "root", Data: nil})
	if err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}

func TestClientGQLQuery(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/on/Chain/gql" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"block":{"header":{"height":7}}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, nil)
	data, err := c.GQLQuery(context.Background(), "query { block(height: -1) {header { height}} }")
	if err != nil {
		t.Fatalf("GQLQuery: %v", err)
	}
	height, err := parseBlockHeight(data)
	if err != nil {
		t.Fatalf("parseBlockHeight: %v", err)
	}
	if height != 7 {
		t.Fatalf("got %d, want 7", height)
	}
}
