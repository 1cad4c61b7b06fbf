package plugin

import (
	"context"
	"encoding/json"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestExecutor_Execute(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	plugin := writePlugin(t, t.TempDir(), "hello", `#!/bin/sh
cat > /dev/null
echo '{"success":true,"data":{"message":"hello world"}}'
`, EventCommit)

	executor := NewExecutor(5000)
	response, err := executor.Execute(context.Background(), plugin, &Request{Event: EventCommit, Text: "你"})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if !response.Success {
		t.Errorf("expected success=true, got false")
	}

	var data map[string]string
	if err := json.Unmarshal(response.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}
	if data["message"] != "hello world" {
		t.Errorf("message = %q, want %q", data["message"], "hello world")
	}
}

func TestExecutor_Execute_ReadsStdin(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	plugin := writePlugin(t, t.TempDir(), "echo", `#!/bin/sh
INPUT=$(cat)
echo "{\"success\":true,\"data\":{\"received\":$INPUT}}"
`, EventCommit)

	request := &Request{
		Event:     EventCommit,
		Text:      "你",
		Committed: "1你",
	}

	executor := NewExecutor(5000)
	response, err := executor.Execute(context.Background(), plugin, request)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	var data struct {
		Received Request `json:"received"`
	}
	if err := json.Unmarshal(response.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}

	if data.Received.Event != EventCommit {
		t.Errorf("event = %q, want %q", data.Received.Event, EventCommit)
	}
	if data.Received.Text != "你" {
		t.Errorf("text = %q, want %q", data.Received.Text, "你")
	}
	if data.Received.Committed != "1你" {
		t.Errorf("committed = %q, want %q", data.Received.Committed, "1你")
	}
}

func TestExecutor_Timeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	plugin := writePlugin(t, t.TempDir(), "slow", `#!/bin/sh
sleep 10
echo '{"success":true}'
`)

	executor := NewExecutor(100)
	start := time.Now()
	_, err := executor.Execute(context.Background(), plugin, &Request{Event: EventCommit})
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timeout error, got: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Execute took %v, expected to be cut short", elapsed)
	}
}

func TestExecutor_Canceled(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	plugin := writePlugin(t, t.TempDir(), "slow", `#!/bin/sh
sleep 10
`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	executor := NewExecutor(5000)
	if _, err := executor.Execute(ctx, plugin, &Request{Event: EventCommit}); err == nil {
		t.Fatal("expected error for canceled context, got nil")
	}
}

func TestExecutor_Execute_Failures(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	tests := []struct {
		name    string
		script  string
		wantMsg string
	}{
		{
			name: "error response",
			script: `#!/bin/sh
echo '{"success":false,"error":"something went wrong"}'
`,
			wantMsg: "something went wrong",
		},
		{
			name: "invalid json",
			script: `#!/bin/sh
echo 'not valid json'
`,
			wantMsg: "parse response",
		},
		{
			name: "non-zero exit",
			script: `#!/bin/sh
echo "Error: something failed" >&2
exit 1
`,
			wantMsg: "something failed",
		},
	}

	executor := NewExecutor(5000)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plugin := writePlugin(t, t.TempDir(), "failing", tt.script)

			_, err := executor.Execute(context.Background(), plugin, &Request{Event: EventCommit})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestExecutor_Execute_ErrorResponseReturned(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	plugin := writePlugin(t, t.TempDir(), "refuse", `#!/bin/sh
echo '{"success":false,"error":"no focused window"}'
`)

	response, err := NewExecutor(5000).Execute(context.Background(), plugin, &Request{Event: EventCommit})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if response == nil || response.Error != "no focused window" {
		t.Errorf("response = %+v, want the plugin's error response", response)
	}
}

func TestNewExecutor(t *testing.T) {
	executor := NewExecutor(3000)
	if executor == nil {
		t.Fatal("NewExecutor() returned nil")
	}
	if executor.timeoutMs != 3000 {
		t.Errorf("expected timeoutMs=3000, got %d", executor.timeoutMs)
	}
}
