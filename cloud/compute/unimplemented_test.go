package compute_test

import (
	"context"
	"errors"
	"testing"

	"github.com/greese/dasein-cloud-core-sub001/cloud"
	"github.com/greese/dasein-cloud-core-sub001/cloud/compute"
	"github.com/greese/dasein-cloud-core-sub001/internal/logging"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/language"
)

func TestDefaultAdapterMutationsAreUnsupported(t *testing.T) {
	ctx := context.Background()
	info := cloud.ProviderInfo{ProviderName: "acme", CloudName: "Acme Cloud"}

	ag := compute.UnimplementedAffinityGroupSupport{Provider: info}
	as := compute.UnimplementedAutoScalingSupport{Provider: info}
	vol := compute.UnimplementedVolumeSupport{Provider: info}
	snap := compute.UnimplementedSnapshotSupport{Provider: info}
	vm := compute.UnimplementedVirtualMachineSupport{Provider: info}
	img := compute.UnimplementedMachineImageSupport{Provider: info}
	lb := compute.UnimplementedHttpLoadBalancerSupport{Provider: info}

	calls := map[string]func() error{
		"affinity create": func() error { _, err := ag.Create(ctx, compute.NewAffinityGroupCreateOptions("a", "", "")); return err },
		"affinity delete": func() error { return ag.Delete(ctx, "ag-1") },
		"affinity modify": func() error { _, err := ag.Modify(ctx, "ag-1", nil); return err },
		"affinity get":    func() error { _, err := ag.Get(ctx, "ag-1"); return err },
		"asg create":      func() error { _, err := as.CreateScalingGroup(ctx, nil); return err },
		"asg capacity":    func() error { return as.SetDesiredCapacity(ctx, "asg-1", 2) },
		"asg suspend":     func() error { return as.SuspendAutoScaling(ctx, "asg-1") },
		"asg set tags":    func() error { return as.SetTags(ctx, []string{"asg-1"}) },
		"asg policy":      func() error { _, err := as.SetScalingPolicy(ctx, nil); return err },
		"volume create":   func() error { _, err := vol.Create(ctx, nil); return err },
		"volume attach":   func() error { return vol.Attach(ctx, "vol-1", "vm-1", "/dev/sdf") },
		"volume tags":     func() error { return vol.UpdateTags(ctx, []string{"vol-1"}, cloud.Tag{Key: "a"}) },
		"snapshot create": func() error { _, err := snap.Create(ctx, nil); return err },
		"snapshot share":  func() error { return snap.AddShare(ctx, "snap-1", "123") },
		"vm launch":       func() error { _, err := vm.Launch(ctx, nil); return err },
		"vm stop":         func() error { return vm.Stop(ctx, "vm-1", true) },
		"vm alter":        func() error { _, err := vm.Alter(ctx, "vm-1", nil); return err },
		"vm spot request": func() error { _, err := vm.CreateSpotVirtualMachineRequest(ctx, nil); return err },
		"image capture":   func() error { _, err := img.Capture(ctx, nil); return err },
		"image remove":    func() error { return img.Remove(ctx, "img-1") },
		"lb create":       func() error { _, err := lb.Create(ctx, nil); return err },
		"lb remove":       func() error { return lb.Remove(ctx, "lb-1") },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			if !errors.Is(err, cloud.ErrOperationNotSupported) {
				t.Fatalf("error = %v, want ErrOperationNotSupported", err)
			}
			var nse *cloud.OperationNotSupportedError
			if !errors.As(err, &nse) || nse.Provider != "acme Acme Cloud" {
				t.Errorf("error = %#v, want provider named", err)
			}
		})
	}
}

func TestDefaultAdapterMessage(t *testing.T) {
	_, err := compute.UnimplementedAffinityGroupSupport{
		Provider: cloud.ProviderInfo{CloudName: "Acme"},
	}.Create(context.Background(), nil)

	if err == nil || err.Error() != "AffinityGroups cannot be created in Acme" {
		t.Errorf("Create() error = %v", err)
	}

	_, err = compute.UnimplementedAffinityGroupSupport{}.Create(context.Background(), nil)
	if err == nil || err.Error() != "AffinityGroups cannot be created in this cloud" {
		t.Errorf("Create() error = %v", err)
	}
}

func TestDefaultAdapterListings(t *testing.T) {
	ctx := context.Background()

	failing := map[string]error{}
	_, failing["affinity"] = cloud.Collect(compute.UnimplementedAffinityGroupSupport{}.List(ctx, nil))
	_, failing["volumes"] = cloud.Collect(compute.UnimplementedVolumeSupport{}.List(ctx, nil))
	_, failing["snapshots"] = cloud.Collect(compute.UnimplementedSnapshotSupport{}.List(ctx, nil))
	_, failing["images"] = cloud.Collect(compute.UnimplementedMachineImageSupport{}.List(ctx, nil))
	_, failing["public images"] = cloud.Collect(compute.UnimplementedMachineImageSupport{}.SearchPublic(ctx, nil))
	_, failing["vms"] = cloud.Collect(compute.UnimplementedVirtualMachineSupport{}.List(ctx, nil))

	for name, err := range failing {
		if !cloud.IsNotSupported(err) {
			t.Errorf("%s listing error = %v, want unsupported", name, err)
		}
	}

	vm := compute.UnimplementedVirtualMachineSupport{}
	as := compute.UnimplementedAutoScalingSupport{}
	lb := compute.UnimplementedHttpLoadBalancerSupport{}

	empty := map[string]func() (int, error){
		"scaling groups": func() (int, error) { s, err := cloud.Collect(as.ListScalingGroups(ctx, nil)); return len(s), err },
		"launch configs": func() (int, error) { s, err := cloud.Collect(as.ListLaunchConfigurations(ctx)); return len(s), err },
		"policies":       func() (int, error) { s, err := cloud.Collect(as.ListScalingPolicies(ctx, "asg-1")); return len(s), err },
		"lbs":            func() (int, error) { s, err := cloud.Collect(lb.List(ctx)); return len(s), err },
		"vm status": func() (int, error) {
			s, err := cloud.Collect(vm.GetVMStatus(ctx, compute.NewVmStatusFilterOptions()))
			return len(s), err
		},
		"spot prices": func() (int, error) {
			s, err := cloud.Collect(vm.SpotPriceHistories(ctx, compute.NewSPHistoryFilterOptions()))
			return len(s), err
		},
		"spot requests": func() (int, error) {
			s, err := cloud.Collect(vm.ListSpotVirtualMachineRequests(ctx, nil))
			return len(s), err
		},
	}

	for name, list := range empty {
		n, err := list()
		if err != nil || n != 0 {
			t.Errorf("%s listing = %d, %v; want empty", name, n, err)
		}
	}
}

func TestDefaultAdapterQueries(t *testing.T) {
	ctx := context.Background()

	subscribed, err := compute.UnimplementedVolumeSupport{}.IsSubscribed(ctx)
	if subscribed || err != nil {
		t.Errorf("IsSubscribed() = %v, %v; want false, nil", subscribed, err)
	}

	caps, err := compute.UnimplementedAffinityGroupSupport{}.Capabilities(ctx)
	if err != nil {
		t.Fatalf("Capabilities() error = %v", err)
	}
	if ok, _ := caps.CanCreate(ctx); ok {
		t.Error("default capabilities should not allow creation")
	}
	if n, _ := caps.MaximumAffinityGroupCount(ctx); n != compute.Unlimited {
		t.Errorf("MaximumAffinityGroupCount() = %d, want Unlimited", n)
	}
	if term, _ := caps.ProviderTermForAffinityGroup(ctx, language.German); term != "affinity group" {
		t.Errorf("ProviderTermForAffinityGroup() = %q", term)
	}

	scaling, err := compute.UnimplementedVirtualMachineSupport{}.ScalingCapabilities(ctx)
	if err != nil || scaling.CanScale() {
		t.Errorf("ScalingCapabilities() = %+v, %v; want nothing supported", scaling, err)
	}
}

func TestDefaultAdapterLogsRejection(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := logging.GetDefault()
	logging.SetDefault(logging.NewFromZap(zap.New(core)))
	t.Cleanup(func() { logging.SetDefault(prev) })

	vol := compute.UnimplementedVolumeSupport{Provider: cloud.ProviderInfo{ProviderName: "acme"}}
	if err := vol.Remove(context.Background(), "vol-1"); !cloud.IsNotSupported(err) {
		t.Fatalf("Remove() error = %v, want unsupported", err)
	}

	entries := logs.FilterMessage("operation not supported by default adapter").All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["provider"] != "acme" || fields["resource"] == "" {
		t.Errorf("log fields = %v", fields)
	}
}
