// ABOUTME: Integration tests for lifelog CLI.
// ABOUTME: Builds the binary and drives the log, scan, and curation workflow.
package test

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestFullWorkflow(t *testing.T) {
	// Build the binary
	projectRoot, _ := filepath.Abs("..")
	binary := filepath.Join(projectRoot, "lifelog")

	buildCmd := exec.Command("go", "build", "-o", binary, "./cmd/lifelog")
	buildCmd.Dir = projectRoot
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}
	defer os.Remove(binary)

	// Isolate data and config in temp dirs
	tmpDir := t.TempDir()

	run := func(args ...string) (string, error) {
		cmd := exec.Command(binary, args...)
		cmd.Env = append(os.Environ(),
			"XDG_DATA_HOME="+filepath.Join(tmpDir, "data"),
			"XDG_CONFIG_HOME="+filepath.Join(tmpDir, "config"),
		)
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	// Log three weeks of perfectly anti-correlated sleep and stress
	start := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	values := []float64{7.2, 5.9, 8.1, 6.4, 7.8, 5.5, 6.9, 8.3, 6.1, 7.0, 5.8, 8.0, 6.6, 7.4, 5.6, 7.9, 6.2, 7.7, 5.7, 8.2, 6.8}
	for i, v := range values {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		if output, err := run("log", "sleep_hours", fmt.Sprintf("%.1f", v), "--date", date); err != nil {
			t.Fatalf("Failed to log sleep: %v\n%s", err, output)
		}
		if output, err := run("log", "stress", fmt.Sprintf("%.1f", 10-v), "--date", date); err != nil {
			t.Fatalf("Failed to log stress: %v\n%s", err, output)
		}
	}

	// Unknown metric is rejected
	if output, err := run("log", "blood_sugar", "90"); err == nil {
		t.Errorf("Expected error for unknown metric, got: %s", output)
	}

	// Catalog listing
	output, err := run("metrics")
	if err != nil {
		t.Fatalf("Failed to list metrics: %v\n%s", err, output)
	}
	if !strings.Contains(output, "sleep_hours") {
		t.Errorf("Expected 'sleep_hours' in catalog, got: %s", output)
	}

	// Scan finds the anti-correlation
	output, err = run("scan", "--max-lag", "1")
	if err != nil {
		t.Fatalf("Scan failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Scan complete") {
		t.Errorf("Expected 'Scan complete' in output, got: %s", output)
	}
	if !strings.Contains(output, "sleep_hours") || !strings.Contains(output, "stress") {
		t.Errorf("Expected discovered pair in scan output, got: %s", output)
	}

	// List correlations and grab an ID prefix
	output, err = run("correlations")
	if err != nil {
		t.Fatalf("Failed to list correlations: %v\n%s", err, output)
	}
	idRe := regexp.MustCompile(`^([0-9a-f]{8}) `)
	var id string
	for _, line := range strings.Split(output, "\n") {
		if m := idRe.FindStringSubmatch(line); m != nil {
			id = m[1]
			break
		}
	}
	if id == "" {
		t.Fatalf("No correlation ID found in output: %s", output)
	}

	// Pin it, then verify the status shows up
	output, err = run("pin", id)
	if err != nil {
		t.Fatalf("Failed to pin: %v\n%s", err, output)
	}
	output, err = run("correlations", "--status", "pinned")
	if err != nil {
		t.Fatalf("Failed to list pinned: %v\n%s", err, output)
	}
	if !strings.Contains(output, id) {
		t.Errorf("Expected pinned correlation %s in output, got: %s", id, output)
	}

	// Pinned status survives a rescan
	if output, err = run("scan", "--max-lag", "1"); err != nil {
		t.Fatalf("Rescan failed: %v\n%s", err, output)
	}
	output, err = run("show", id)
	if err != nil {
		t.Fatalf("Failed to show: %v\n%s", err, output)
	}
	if !strings.Contains(output, "pinned") {
		t.Errorf("Expected status pinned after rescan, got: %s", output)
	}

	// Feedback and stats
	if output, err = run("feedback", id, "--comment", "matches my experience"); err != nil {
		t.Fatalf("Failed to record feedback: %v\n%s", err, output)
	}
	output, err = run("stats")
	if err != nil {
		t.Fatalf("Failed to get stats: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Total correlations") {
		t.Errorf("Expected stats summary, got: %s", output)
	}

	// Export includes the pinned record
	output, err = run("export")
	if err != nil {
		t.Fatalf("Export failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "\"pinned\"") {
		t.Errorf("Expected pinned correlation in export, got: %s", output)
	}
}
