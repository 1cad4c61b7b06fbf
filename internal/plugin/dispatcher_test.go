package plugin

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDispatcher_DeliversInOrder(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	root := t.TempDir()
	out := filepath.Join(t.TempDir(), "received.jsonl")
	writePlugin(t, root, "recorder", `#!/bin/sh
cat >> `+out+`
echo >> `+out+`
echo '{"success":true}'
`, EventCommit)
	writePlugin(t, root, "speller", okScript, EventSpelling)

	manager := NewManager(root)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	d := NewDispatcher(manager, NewExecutor(5000), 0)
	d.Run(context.Background())

	texts := []string{"1", "你", "好"}
	committed := ""
	for _, text := range texts {
		committed += text
		if !d.Send(&Request{Event: EventCommit, Text: text, Committed: committed}) {
			t.Fatalf("Send(%q) dropped", text)
		}
	}
	d.Send(&Request{Event: EventSpelling, Text: "j"})
	d.Close()

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != len(texts) {
		t.Fatalf("recorder got %d requests, want %d: %q", len(lines), len(texts), data)
	}
	for i, line := range lines {
		var req Request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
		if req.Text != texts[i] {
			t.Errorf("request %d text = %q, want %q", i, req.Text, texts[i])
		}
	}
}

func TestDispatcher_SendAfterClose(t *testing.T) {
	d := NewDispatcher(NewManager(t.TempDir()), NewExecutor(1000), 1)
	d.Run(context.Background())
	d.Close()
	d.Close()

	if d.Send(&Request{Event: EventCommit}) {
		t.Error("Send after Close should report a drop")
	}
}

func TestDispatcher_QueueFull(t *testing.T) {
	// Not running, so nothing drains the queue.
	d := NewDispatcher(NewManager(t.TempDir()), NewExecutor(1000), 1)

	if !d.Send(&Request{Event: EventCommit, Text: "a"}) {
		t.Fatal("first Send should be queued")
	}
	if d.Send(&Request{Event: EventCommit, Text: "b"}) {
		t.Error("second Send should be dropped when the queue is full")
	}
}
