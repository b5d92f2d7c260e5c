package compute

import (
	"errors"
	"testing"
	"time"

	"github.com/greese/dasein-cloud-core-sub001/cloud"
	"github.com/shopspring/decimal"
)

func TestEmptyFiltersUsePerKindDefault(t *testing.T) {
	vol := NewVolume("vol-1", "data")
	snap := NewSnapshot("snap-1", "nightly")
	vm := NewVirtualMachine("vm-1", "web")
	img := NewMachineImage("img-1", "ubuntu")
	group := NewAffinityGroup("ag-1", "rack")
	asg := NewScalingGroup("asg-1", "web")
	req := &SpotVirtualMachineRequest{ID: "sir-1"}
	status := VirtualMachineStatus{VirtualMachineID: "vm-1", HostStatus: VmStatusOK, VmStatus: VmStatusOK}
	history := &SpotPriceHistory{ProductID: "m.small", DataCenterID: "dc-1"}

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"volume", NewVolumeFilterOptions().Matches(vol), true},
		{"volume any", NewVolumeFilterOptionsMatching(true).Matches(vol), true},
		{"snapshot", NewSnapshotFilterOptions().Matches(snap), true},
		{"vm", NewVMFilterOptions().Matches(vm), true},
		{"image", NewMachineImageFilterOptions().Matches(img), true},
		{"affinity group", NewAffinityGroupFilterOptions().Matches(group), true},
		{"scaling group", NewAutoScalingGroupFilterOptions().Matches(asg), true},
		{"spot request", NewSpotVirtualMachineRequestFilterOptions().Matches(req), true},
		{"vm status", NewVmStatusFilterOptions().Matches(status), false},
		{"vm status any", NewVmStatusFilterOptionsMatching(true).Matches(status), false},
		{"spot history", NewSPHistoryFilterOptions().Matches(history), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("empty filter Matches() = %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestMatchesWhenEmptyAgreesWithMatches(t *testing.T) {
	if NewVolumeFilterOptions().MatchesWhenEmpty() != true {
		t.Error("volume filter should match everything when empty")
	}
	if NewVmStatusFilterOptions().MatchesWhenEmpty() != false {
		t.Error("vm status filter should match nothing when empty")
	}
	if NewSPHistoryFilterOptions().MatchesWhenEmpty() != false {
		t.Error("spot history filter should match nothing when empty")
	}
}

func TestTagCriterionIsAllOfInBothModes(t *testing.T) {
	vol := NewVolume("vol-1", "data")
	vol.SetTag("env", "prod")
	vol.SetTag("owner", "x")

	tests := []struct {
		name string
		tags cloud.Tags
		want bool
	}{
		{"subset", cloud.Tags{"env": "prod"}, true},
		{"exact", cloud.Tags{"env": "prod", "owner": "x"}, true},
		{"one missing", cloud.Tags{"env": "prod", "team": "a"}, false},
		{"value differs", cloud.Tags{"env": "dev"}, false},
	}

	for _, tt := range tests {
		for _, matchesAny := range []bool{false, true} {
			f := NewVolumeFilterOptionsMatching(matchesAny).WithTags(tt.tags)
			if got := f.Matches(vol); got != tt.want {
				t.Errorf("%s (any=%v): Matches() = %v, want %v", tt.name, matchesAny, got, tt.want)
			}
		}
	}
}

func TestVolumeScenario(t *testing.T) {
	f := NewVolumeFilterOptions().MatchingAll().WithTags(cloud.Tags{"env": "prod"})

	prod := NewVolume("vol-1", "a")
	prod.Tags = cloud.Tags{"env": "prod", "owner": "x"}
	dev := NewVolume("vol-2", "b")
	dev.Tags = cloud.Tags{"env": "dev"}

	if !f.Matches(prod) {
		t.Error("expected prod volume to match")
	}
	if f.Matches(dev) {
		t.Error("expected dev volume not to match")
	}
}

func TestRegexCriterion(t *testing.T) {
	img := NewMachineImage("img-1", "ubuntu-24.04")
	img.Description = "Canonical LTS"
	img.SetTag("family", "noble")

	tests := []struct {
		name    string
		pattern string
		want    bool
	}{
		{"name", `ubuntu-.*`, true},
		{"description", `Canonical.*`, true},
		{"tag value", `nob.e`, true},
		{"tag key does not count", `family`, false},
		{"whole string only", `ubuntu`, false},
		{"no match", `debian.*`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewMachineImageFilterOptions().MatchingRegex(tt.pattern)
			if got := f.Matches(img); got != tt.want {
				t.Errorf("MatchingRegex(%q).Matches() = %v, want %v", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestInvalidRegexMatchesNothing(t *testing.T) {
	f := NewVolumeFilterOptions().MatchingRegex("([")
	if err := f.Validate(); !errors.Is(err, cloud.ErrInternal) || !errors.Is(err, cloud.ErrInvalidOptions) {
		t.Fatalf("Validate() error = %v, want internal invalid-options error", err)
	}
	if f.Matches(NewVolume("vol-1", "([")) {
		t.Error("invalid pattern should match nothing")
	}
	if !f.HasCriteria() {
		t.Error("invalid pattern still counts as a criterion")
	}
}

func TestAnyAllCombination(t *testing.T) {
	vm := NewVirtualMachine("vm-1", "web-1")
	vm.DataCenterID = "dc-a"
	vm.ProductID = "m.small"
	vm.State = VmRunning

	tests := []struct {
		name string
		f    *VMFilterOptions
		want bool
	}{
		{"all satisfied", NewVMFilterOptions().WithDataCenterIDs("dc-a").WithProductIDs("m.small"), true},
		{"all one failing", NewVMFilterOptions().WithDataCenterIDs("dc-a").WithProductIDs("m.large"), false},
		{"any one passing", NewVMFilterOptions().MatchingAny().WithDataCenterIDs("dc-b").WithProductIDs("m.small"), true},
		{"any none passing", NewVMFilterOptions().MatchingAny().WithDataCenterIDs("dc-b").WithProductIDs("m.large"), false},
		{"any states", NewVMFilterOptions().MatchingAny().WithVMStates(VmStopped, VmRunning), true},
		{"all affinity", NewVMFilterOptions().InAffinityGroup("ag-1"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Matches(vm); got != tt.want {
				t.Errorf("%s.Matches() = %v, want %v", tt.f, got, tt.want)
			}
		})
	}
}

func TestCombineShortCircuits(t *testing.T) {
	var calls []int
	counted := func(i int, result bool) check {
		return check{true, func() bool {
			calls = append(calls, i)
			return result
		}}
	}

	calls = nil
	if combine(false, true, counted(1, true), counted(2, false), counted(3, true)) {
		t.Error("ALL with a failing check should be false")
	}
	if len(calls) != 2 {
		t.Errorf("ALL evaluated %v, want stop after the first failure", calls)
	}

	calls = nil
	if !combine(true, true, counted(1, false), counted(2, true), counted(3, false)) {
		t.Error("ANY with a passing check should be true")
	}
	if len(calls) != 2 {
		t.Errorf("ANY evaluated %v, want stop after the first success", calls)
	}

	calls = nil
	if !combine(false, false, check{false, nil}, counted(1, true)) {
		t.Error("unset checks must be skipped")
	}
}

func TestVmStatusScenario(t *testing.T) {
	s := VirtualMachineStatus{VirtualMachineID: "vm-1", HostStatus: VmStatusOK, VmStatus: VmStatusImpaired}

	tests := []struct {
		name string
		f    *VmStatusFilterOptions
		want bool
	}{
		{"host status", NewVmStatusFilterOptions().WithVmStatuses(VmStatusOK), true},
		{"vm status", NewVmStatusFilterOptions().WithVmStatuses(VmStatusImpaired), true},
		{"neither", NewVmStatusFilterOptions().WithVmStatuses(VmStatusInsufficientData), false},
		{"id and status", NewVmStatusFilterOptions().WithVmStatuses(VmStatusOK).WithVmIDs("vm-2"), false},
		{"id or status", NewVmStatusFilterOptions().MatchingAny().WithVmStatuses(VmStatusOK).WithVmIDs("vm-2"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Matches(s); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVolumeAttachedTo(t *testing.T) {
	vol := NewVolume("vol-1", "data")
	vol.AttachedTo = "vm-1"

	if !NewVolumeFilterOptions().AttachedTo("vm-1").Matches(vol) {
		t.Error("expected match on owning VM")
	}
	if NewVolumeFilterOptions().AttachedTo("vm-10").Matches(vol) {
		t.Error("attachedTo must compare exactly")
	}
}

func TestSPHistoryFilterWindow(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	h := &SpotPriceHistory{
		ProductID:    "m.small",
		DataCenterID: "dc-1",
		Prices: []SpotPrice{
			{Timestamp: base, Price: decimal.RequireFromString("0.01")},
			{Timestamp: base.Add(2 * time.Hour), Price: decimal.RequireFromString("0.03")},
		},
	}

	tests := []struct {
		name string
		f    *SPHistoryFilterOptions
		want bool
	}{
		{"product", NewSPHistoryFilterOptions().WithProductIDs("m.small"), true},
		{"window hit", NewSPHistoryFilterOptions().Between(base.Add(time.Hour), base.Add(3*time.Hour)), true},
		{"window miss", NewSPHistoryFilterOptions().Between(base.Add(3*time.Hour), time.Time{}), false},
		{"open start", NewSPHistoryFilterOptions().Between(time.Time{}, base), true},
		{"dc miss", NewSPHistoryFilterOptions().WithDataCenterIDs("dc-2"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Matches(h); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}

	inverted := NewSPHistoryFilterOptions().Between(base.Add(time.Hour), base)
	if err := inverted.Validate(); !errors.Is(err, cloud.ErrInvalidOptions) {
		t.Errorf("Validate() error = %v, want ErrInvalidOptions", err)
	}

	if got := h.Average(); !got.Equal(decimal.RequireFromString("0.02")) {
		t.Errorf("Average() = %s, want 0.02", got)
	}
	if latest, ok := h.Latest(); !ok || !latest.Timestamp.Equal(base.Add(2*time.Hour)) {
		t.Errorf("Latest() = %v, %v", latest, ok)
	}
}

func TestScalingGroupFilterUsesGroupTags(t *testing.T) {
	g := NewScalingGroup("asg-1", "web")
	g.Tags = []AutoScalingTag{{Key: "env", Value: "prod", PropagateAtLaunch: true}}

	if !NewAutoScalingGroupFilterOptions().WithTag("env", "prod").Matches(g) {
		t.Error("expected tag match")
	}
	if NewAutoScalingGroupFilterOptions().WithTag("env", "dev").Matches(g) {
		t.Error("unexpected tag match")
	}
}

func TestFilterSeq(t *testing.T) {
	a := NewSnapshot("snap-a", "a")
	a.OwnerID = "111"
	b := NewSnapshot("snap-b", "b")
	b.OwnerID = "222"

	got, err := cloud.Collect(FilterSnapshots(cloud.FromSlice([]*Snapshot{a, b}),
		NewSnapshotFilterOptions().WithAccountNumber("222")))
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "snap-b" {
		t.Errorf("FilterSnapshots() = %v, want [snap-b]", got)
	}

	all, _ := cloud.Collect(FilterSnapshots(cloud.FromSlice([]*Snapshot{a, b}), nil))
	if len(all) != 2 {
		t.Errorf("nil filter returned %d snapshots, want 2", len(all))
	}
}
