package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	cli := New()
	var out bytes.Buffer
	cli.rootCmd.SetOut(&out)
	cli.rootCmd.SetErr(&out)
	cli.rootCmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cli.Execute()
	return out.String(), err
}

func TestCLINew(t *testing.T) {
	cli := New()
	if cli == nil {
		t.Fatal("New() should return a non-nil CLI")
	}
	if cli.rootCmd == nil {
		t.Error("CLI rootCmd should not be nil")
	}
}

func TestCLIRootCommand(t *testing.T) {
	cli := New()

	expectedCommands := []string{"filter", "capabilities", "tags", "spot", "kinds"}
	for _, expected := range expectedCommands {
		found := false
		for _, cmd := range cli.rootCmd.Commands() {
			if cmd.Name() == expected {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected subcommand '%s' not found", expected)
		}
	}
}

func TestFilterCommands(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name:    "volumes by tag",
			args:    []string{"filter", "volumes", "--tag", "env=prod"},
			want:    []string{"vol-data", "vm-web-1"},
			notWant: []string{"vol-scratch"},
		},
		{
			name: "volumes without criteria",
			args: []string{"filter", "volumes"},
			want: []string{"vol-data", "vol-scratch"},
		},
		{
			name:    "tags are all-of",
			args:    []string{"filter", "volumes", "--tag", "env=prod", "--tag", "owner=y"},
			want:    []string{"No volumes matched"},
			notWant: []string{"vol-data"},
		},
		{
			name:    "vms by regex",
			args:    []string{"filter", "vms", "--regex", "web-1"},
			want:    []string{"vm-web-1"},
			notWant: []string{"vm-batch-1"},
		},
		{
			name: "vms any mode",
			args: []string{"filter", "vms", "--tag", "env=prod", "--regex", "batch-1", "--any"},
			want: []string{"vm-web-1", "vm-batch-1"},
		},
		{
			name:    "vms by state",
			args:    []string{"filter", "vms", "--state", "stopped"},
			want:    []string{"vm-batch-1"},
			notWant: []string{"vm-web-1"},
		},
		{
			name: "snapshots",
			args: []string{"filter", "snapshots", "--owner", "demo"},
			want: []string{"snap-data", "env=prod"},
		},
		{
			name: "images",
			args: []string{"filter", "images", "--regex", "ubuntu-.*"},
			want: []string{"img-ubuntu", "true"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q:\n%s", s, out)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(out, s) {
					t.Errorf("output should not contain %q:\n%s", s, out)
				}
			}
		})
	}
}

func TestFilterVolumesSingleDataCenter(t *testing.T) {
	out, err := run(t, "filter", "volumes", "--dc", "demo-1a")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "vol-data") {
		t.Errorf("volumes in demo-1a missing:\n%s", out)
	}

	for _, args := range [][]string{
		{"filter", "volumes", "--dc", "nope,demo-1a"},
		{"filter", "volumes", "--dc", "nope", "--dc", "demo-1a"},
	} {
		if _, err := run(t, args...); err == nil || !strings.Contains(err.Error(), "one data center") {
			t.Errorf("%v: error = %v, want single data center error", args, err)
		}
	}
}

func TestFilterInvalidRegex(t *testing.T) {
	if _, err := run(t, "filter", "volumes", "--regex", "(["); err == nil {
		t.Error("expected an error for an invalid pattern")
	}
}

func TestFilterFromFixtureFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	fixtures := `
provider:
  provider_name: test
volumes:
  - id: vol-1
    name: logs
    state: AVAILABLE
    size_gb: 10
    region_id: r1
  - id: vol-2
    name: db
    state: AVAILABLE
    size_gb: 50
    region_id: r1
    tags:
      tier: db
`
	if err := os.WriteFile(path, []byte(fixtures), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "filter", "volumes", "--file", path, "--tag", "tier=db")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "vol-2") || strings.Contains(out, "vol-1") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if _, err := run(t, "filter", "volumes", "--file", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing fixture file")
	}
}

func TestTagsDiff(t *testing.T) {
	out, err := run(t, "tags", "diff", "--current", "a=1,b=2,c=3", "--desired", "a=1,d=4")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "- b=2\n- c=3\n" {
		t.Errorf("tags diff output = %q", out)
	}

	out, err = run(t, "tags", "diff", "--current", "a=1", "--desired", "a=2")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "No tags to remove") {
		t.Errorf("value change should not remove: %q", out)
	}
}

func TestKinds(t *testing.T) {
	out, err := run(t, "kinds")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, s := range []string{"✓ volumes", "✓ virtual-machines", "✗ affinity-groups", "✗ http-load-balancers"} {
		if !strings.Contains(out, s) {
			t.Errorf("kinds output missing %q:\n%s", s, out)
		}
	}
}

func TestCapabilities(t *testing.T) {
	out, err := run(t, "capabilities")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, s := range []string{"Demo Cloud", "affinity group", "unlimited", "OPTIONAL"} {
		if !strings.Contains(out, s) {
			t.Errorf("capabilities output missing %q:\n%s", s, out)
		}
	}

	path := filepath.Join(t.TempDir(), "caps.yaml")
	doc := `
affinity_groups:
  can_create: true
  maximum_count: 5
  terms:
    default: placement group
    de: Platzierungsgruppe
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, "capabilities", "--file", path, "--locale", "de")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "Platzierungsgruppe") || !strings.Contains(out, "the cloud provider") {
		t.Errorf("localized capabilities output:\n%s", out)
	}
}

func TestCapabilitiesMetrics(t *testing.T) {
	out, err := run(t, "capabilities", "--metrics")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, s := range []string{"compute_cache_lookups_total{result=miss}", "compute_cache_load_errors_total{}"} {
		if !strings.Contains(out, s) {
			t.Errorf("metrics output missing %q:\n%s", s, out)
		}
	}
}

func TestSpot(t *testing.T) {
	out, err := run(t, "spot", "--product", "m.small")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "demo-1a") || !strings.Contains(out, "0.0135") {
		t.Errorf("spot output:\n%s", out)
	}

	out, err = run(t, "spot")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "No spot price histories matched") {
		t.Errorf("empty spot filter should match nothing:\n%s", out)
	}
}

func TestFormatTags(t *testing.T) {
	if got := formatTags(nil); got != "-" {
		t.Errorf("formatTags(nil) = %q", got)
	}
	if got := formatTags(map[string]string{"b": "2", "a": "1"}); got != "a=1,b=2" {
		t.Errorf("formatTags() = %q", got)
	}
}
