package compute_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/greese/dasein-cloud-core-sub001/cloud"
	"github.com/greese/dasein-cloud-core-sub001/cloud/compute"
	"github.com/greese/dasein-cloud-core-sub001/cloud/compute/computetest"
)

func TestHasSupportMatchesAccessor(t *testing.T) {
	demo := computetest.NewProvider(cloud.ProviderInfo{ProviderName: "demo"}).Services()

	tests := []struct {
		name string
		svc  compute.ComputeServices
	}{
		{"zero value", &compute.Services{}},
		{"nil services", (*compute.Services)(nil)},
		{"demo provider", demo},
		{"affinity only", &compute.Services{AffinityGroups: compute.UnimplementedAffinityGroupSupport{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checks := []struct {
				kind string
				has  bool
				non  bool
			}{
				{"affinity", compute.HasAffinityGroupSupport(tt.svc), tt.svc.AffinityGroupSupport() != nil},
				{"autoscaling", compute.HasAutoScalingSupport(tt.svc), tt.svc.AutoScalingSupport() != nil},
				{"lb", compute.HasHttpLoadBalancerSupport(tt.svc), tt.svc.HttpLoadBalancerSupport() != nil},
				{"image", compute.HasImageSupport(tt.svc), tt.svc.ImageSupport() != nil},
				{"snapshot", compute.HasSnapshotSupport(tt.svc), tt.svc.SnapshotSupport() != nil},
				{"vm", compute.HasVirtualMachineSupport(tt.svc), tt.svc.VirtualMachineSupport() != nil},
				{"volume", compute.HasVolumeSupport(tt.svc), tt.svc.VolumeSupport() != nil},
			}
			for _, c := range checks {
				if c.has != c.non {
					t.Errorf("%s: Has = %v, accessor non-nil = %v", c.kind, c.has, c.non)
				}
			}
		})
	}

	if compute.HasVolumeSupport(nil) {
		t.Error("nil facade must not report support")
	}
}

func TestSupportedKinds(t *testing.T) {
	demo := computetest.NewProvider(cloud.ProviderInfo{ProviderName: "demo"}).Services()

	want := []compute.ResourceKind{
		compute.KindAutoScaling,
		compute.KindImage,
		compute.KindSnapshot,
		compute.KindVirtualMachine,
		compute.KindVolume,
	}
	if diff := cmp.Diff(want, compute.SupportedKinds(demo)); diff != "" {
		t.Errorf("SupportedKinds() mismatch (-want +got):\n%s", diff)
	}
	if got := compute.SupportedKinds(&compute.Services{}); len(got) != 0 {
		t.Errorf("SupportedKinds(zero) = %v, want none", got)
	}
}

func TestAffinityGroupBuildWithoutSupport(t *testing.T) {
	opts := compute.NewAffinityGroupCreateOptions("rack-1", "", "dc-1")

	_, err := opts.Build(context.Background(), &compute.Services{})
	if !errors.Is(err, cloud.ErrOperationNotSupported) {
		t.Fatalf("Build() error = %v, want ErrOperationNotSupported", err)
	}

	_, err = opts.Build(context.Background(), nil)
	if !cloud.IsNotSupported(err) {
		t.Fatalf("Build(nil) error = %v, want unsupported", err)
	}

	_, err = compute.NewAffinityGroupCreateOptions("", "", "").Build(context.Background(), &compute.Services{})
	if !errors.Is(err, cloud.ErrInvalidOptions) {
		t.Fatalf("Build() with no name error = %v, want ErrInvalidOptions", err)
	}
}

type fakeAffinityGroups struct {
	compute.UnimplementedAffinityGroupSupport
	created []string
}

func (f *fakeAffinityGroups) Create(ctx context.Context, opts *compute.AffinityGroupCreateOptions) (*compute.AffinityGroup, error) {
	f.created = append(f.created, opts.Name)
	g := compute.NewAffinityGroup("ag-1", opts.Name)
	g.DataCenterID = opts.DataCenterID
	return g, nil
}

func TestAffinityGroupBuildDelegates(t *testing.T) {
	fake := &fakeAffinityGroups{}
	svc := &compute.Services{AffinityGroups: fake}

	g, err := compute.NewAffinityGroupCreateOptions("rack-1", "", "dc-1").
		WithTag("team", "infra").
		Build(context.Background(), svc)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if g.Name != "rack-1" || g.DataCenterID != "dc-1" {
		t.Errorf("Build() = %+v", g)
	}
	if diff := cmp.Diff([]string{"rack-1"}, fake.created); diff != "" {
		t.Errorf("Create calls mismatch (-want +got):\n%s", diff)
	}

	// Operations the fake does not override still come from the default.
	if err := fake.Delete(context.Background(), "ag-1"); !cloud.IsNotSupported(err) {
		t.Errorf("Delete() error = %v, want unsupported", err)
	}
}
