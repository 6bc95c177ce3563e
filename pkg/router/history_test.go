package router

import (
	"reflect"
	"testing"
)

func entry(path string) HistoryEntry {
	return HistoryEntry{Path: path}
}

func paths(h *History) []string {
	var out []string
	for _, e := range h.Entries() {
		out = append(out, e.Path)
	}
	return out
}

func TestHistoryEmpty(t *testing.T) {
	h := NewHistory(0)
	if _, ok := h.Current(); ok {
		t.Error("empty history has no current entry")
	}
	if h.Index() != -1 {
		t.Errorf("Index() = %d, want -1", h.Index())
	}
	if h.CanGo(0) || h.CanGo(-1) {
		t.Error("empty history cannot move")
	}
}

func TestHistoryPushTruncatesForward(t *testing.T) {
	h := NewHistory(10)
	h.Push(entry("/dashboard"))
	h.Push(entry("/analytics"))
	h.Push(entry("/gate"))

	if _, ok := h.Go(-2); !ok {
		t.Fatal("Go(-2) failed")
	}
	h.Push(entry("/gate"))

	want := []string{"/dashboard", "/gate"}
	if got := paths(h); !reflect.DeepEqual(got, want) {
		t.Errorf("entries = %v, want %v", got, want)
	}
	if h.Index() != 1 {
		t.Errorf("Index() = %d, want 1", h.Index())
	}
}

func TestHistoryReplace(t *testing.T) {
	h := NewHistory(10)
	h.Replace(entry("/dashboard"))
	if h.Len() != 1 {
		t.Fatalf("Replace on empty should push, Len() = %d", h.Len())
	}
	h.Push(entry("/analytics"))
	h.Replace(entry("/gate"))

	want := []string{"/dashboard", "/gate"}
	if got := paths(h); !reflect.DeepEqual(got, want) {
		t.Errorf("entries = %v, want %v", got, want)
	}
}

func TestHistoryGoBounds(t *testing.T) {
	h := NewHistory(10)
	h.Push(entry("/dashboard"))
	h.Push(entry("/analytics"))

	if _, ok := h.Go(1); ok {
		t.Error("Go(1) at the end should fail")
	}
	if _, ok := h.Go(-2); ok {
		t.Error("Go(-2) past the start should fail")
	}
	e, ok := h.Go(-1)
	if !ok || e.Path != "/dashboard" {
		t.Errorf("Go(-1) = %v, %v", e, ok)
	}
	e, ok = h.Go(1)
	if !ok || e.Path != "/analytics" {
		t.Errorf("Go(1) = %v, %v", e, ok)
	}
}

func TestHistoryPeekDoesNotMove(t *testing.T) {
	h := NewHistory(10)
	h.Push(entry("/dashboard"))
	h.Push(entry("/gate"))

	e, ok := h.Peek(-1)
	if !ok || e.Path != "/dashboard" {
		t.Errorf("Peek(-1) = %v, %v", e, ok)
	}
	if cur, _ := h.Current(); cur.Path != "/gate" {
		t.Errorf("Peek moved the cursor to %q", cur.Path)
	}
}

func TestHistoryCapacityKeepsAbsoluteIndex(t *testing.T) {
	h := NewHistory(2)
	h.Push(entry("/dashboard"))
	h.Push(entry("/analytics"))
	h.Push(entry("/gate"))

	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.Len())
	}
	if h.Index() != 2 {
		t.Errorf("Index() = %d, want absolute index 2", h.Index())
	}
	want := []string{"/analytics", "/gate"}
	if got := paths(h); !reflect.DeepEqual(got, want) {
		t.Errorf("entries = %v, want %v", got, want)
	}

	if _, ok := h.Seek(0); ok {
		t.Error("Seek to an evicted index should fail")
	}
	e, ok := h.Seek(1)
	if !ok || e.Path != "/analytics" {
		t.Errorf("Seek(1) = %v, %v", e, ok)
	}
	if h.Index() != 1 {
		t.Errorf("Index() after Seek = %d", h.Index())
	}
}
