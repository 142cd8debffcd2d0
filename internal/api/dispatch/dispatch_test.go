package dispatch

import (
	"encoding/json"
	"fmt"
	"testing"
)

// Tests registration validation and duplicate rejection
func TestRegister(t *testing.T) {
	d := New()

	echo := func(payload map[string]string) (any, error) { return payload, nil }

	if err := d.Register("/echo", echo); err != nil {
		t.Fatalf("Register(/echo) failed: %v", err)
	}
	if !d.Has("/echo") {
		t.Error("Has(/echo) = false after registration")
	}

	if err := d.Register("/echo", echo); err == nil {
		t.Error("duplicate registration accepted")
	}
	if err := d.Register("bad-path", echo); err == nil {
		t.Error("invalid destination path accepted")
	}
	if err := d.Register("/nil", nil); err == nil {
		t.Error("nil handler accepted")
	}
}

// Tests ordered dispatch with per-item handler errors in the result array
func TestDispatchOrderAndErrors(t *testing.T) {
	d := New()

	err := d.Register("/upper", func(payload map[string]string) (any, error) {
		if payload["v"] == "boom" {
			return nil, fmt.Errorf("cannot process %q", payload["v"])
		}
		return map[string]string{"v": payload["v"] + "!"}, nil
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	payloads := []map[string]string{
		{"v": "a"},
		{"v": "boom"},
		{"v": "c"},
	}

	results, err := d.Dispatch("/upper", payloads)
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if len(results) != len(payloads) {
		t.Fatalf("got %d results, want %d", len(results), len(payloads))
	}

	var first map[string]string
	if err := json.Unmarshal(results[0], &first); err != nil {
		t.Fatalf("result[0] not valid JSON: %v", err)
	}
	if first["v"] != "a!" {
		t.Errorf("result[0] = %v, want v=a!", first)
	}

	var failed map[string]string
	if err := json.Unmarshal(results[1], &failed); err != nil {
		t.Fatalf("result[1] not valid JSON: %v", err)
	}
	if failed["error"] == "" {
		t.Errorf("result[1] = %v, want error object", failed)
	}

	var third map[string]string
	if err := json.Unmarshal(results[2], &third); err != nil {
		t.Fatalf("result[2] not valid JSON: %v", err)
	}
	if third["v"] != "c!" {
		t.Errorf("result[2] = %v, want v=c! (item after failure still processed)", third)
	}
}

// Tests that dispatching to an unregistered destination fails
func TestDispatchUnknownDestination(t *testing.T) {
	d := New()

	if _, err := d.Dispatch("/missing", []map[string]string{{"a": "1"}}); err == nil {
		t.Error("Dispatch to unknown destination succeeded")
	}
}

// Tests per-destination and total counters
func TestCounters(t *testing.T) {
	d := New()

	d.Register("/ok", func(payload map[string]string) (any, error) { return "ok", nil })
	d.Register("/fail", func(payload map[string]string) (any, error) {
		return nil, fmt.Errorf("always fails")
	})

	d.Dispatch("/ok", []map[string]string{{"a": "1"}, {"a": "2"}})
	d.Dispatch("/fail", []map[string]string{{"a": "3"}})

	infos := d.Destinations()
	if len(infos) != 2 {
		t.Fatalf("Destinations() returned %d entries, want 2", len(infos))
	}
	// Sorted by path: /fail before /ok
	if infos[0].Path != "/fail" || infos[1].Path != "/ok" {
		t.Fatalf("Destinations() order = %s, %s; want /fail, /ok", infos[0].Path, infos[1].Path)
	}
	if infos[0].Items != 1 || infos[0].Errors != 1 {
		t.Errorf("/fail counters = %+v, want 1 item, 1 error", infos[0])
	}
	if infos[1].Items != 2 || infos[1].Errors != 0 {
		t.Errorf("/ok counters = %+v, want 2 items, 0 errors", infos[1])
	}

	batches, items, errors := d.Totals()
	if batches != 2 || items != 3 || errors != 1 {
		t.Errorf("Totals() = %d batches, %d items, %d errors; want 2, 3, 1", batches, items, errors)
	}
}
