package compute

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/greese/dasein-cloud-core-sub001/cloud"
	"github.com/greese/dasein-cloud-core-sub001/internal/cache"
	"golang.org/x/text/language"
)

const sampleCapabilities = `
provider:
  provider_name: acme
  cloud_name: Acme Cloud
affinity_groups:
  can_create: true
  can_delete: true
  maximum_count: 10
  data_center_requirement: REQUIRED
  terms:
    default: placement group
    de: Platzierungsgruppe
snapshots:
  creation: true
  sharing: true
  attachment_requirement: optional
  terms:
    en: snapshot
    fr: instantané
vm_scaling:
  alter_vm_for_new_volume: REQUIRED
  supports_product_change: true
`

func TestLoadCapabilityDocument(t *testing.T) {
	ctx := context.Background()
	doc, err := LoadCapabilityDocument(strings.NewReader(sampleCapabilities))
	if err != nil {
		t.Fatalf("LoadCapabilityDocument() error = %v", err)
	}

	ag := doc.AffinityGroupCapabilities()
	if ok, _ := ag.CanCreate(ctx); !ok {
		t.Error("CanCreate() = false, want true")
	}
	if ok, _ := ag.CanModify(ctx); ok {
		t.Error("CanModify() = true, want false")
	}
	if n, _ := ag.MaximumAffinityGroupCount(ctx); n != 10 {
		t.Errorf("MaximumAffinityGroupCount() = %d, want 10", n)
	}
	if r, _ := ag.IdentifyDataCenterRequirement(ctx); r != cloud.RequirementRequired {
		t.Errorf("IdentifyDataCenterRequirement() = %v, want REQUIRED", r)
	}

	terms := []struct {
		locale language.Tag
		want   string
	}{
		{language.German, "Platzierungsgruppe"},
		{language.MustParse("de-CH"), "Platzierungsgruppe"},
		{language.Japanese, "placement group"},
	}
	for _, tt := range terms {
		if got, _ := ag.ProviderTermForAffinityGroup(ctx, tt.locale); got != tt.want {
			t.Errorf("ProviderTermForAffinityGroup(%s) = %q, want %q", tt.locale, got, tt.want)
		}
	}

	snaps := doc.SnapshotCapabilities()
	if r, _ := snaps.IdentifyAttachmentRequirement(ctx); r != cloud.RequirementOptional {
		t.Errorf("IdentifyAttachmentRequirement() = %v, want OPTIONAL", r)
	}
	if ok, _ := snaps.SupportsSnapshotSharingWithPublic(ctx); ok {
		t.Error("SupportsSnapshotSharingWithPublic() = true, want false")
	}
	if n, _ := snaps.MaximumSnapshotCount(ctx); n != Unlimited {
		t.Errorf("MaximumSnapshotCount() = %d, want Unlimited default", n)
	}
	if got, _ := snaps.ProviderTermForSnapshot(ctx, language.French); got != "instantané" {
		t.Errorf("ProviderTermForSnapshot(fr) = %q", got)
	}

	scaling, _ := doc.VMScalingCapabilities(ctx)
	if scaling.AlterVmForNewVolume != cloud.RequirementRequired || !scaling.SupportsProductChange || !scaling.CanScale() {
		t.Errorf("VMScalingCapabilities() = %+v", scaling)
	}
}

func TestLoadCapabilityDocumentRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown field", "affinity_groups:\n  can_fly: true\n"},
		{"bad requirement", "snapshots:\n  attachment_requirement: SOMETIMES\n"},
		{"negative count", "affinity_groups:\n  maximum_count: -5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCapabilityDocument(strings.NewReader(tt.yaml))
			if !errors.Is(err, cloud.ErrInternal) {
				t.Errorf("LoadCapabilityDocument() error = %v, want internal error", err)
			}
		})
	}
}

func TestLoadCapabilityDocumentEmpty(t *testing.T) {
	doc, err := LoadCapabilityDocument(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadCapabilityDocument(\"\") error = %v", err)
	}
	if doc.AffinityGroups.MaximumCount != Unlimited || doc.AffinityGroups.CanCreate {
		t.Errorf("empty document = %+v, want defaults", doc.AffinityGroups)
	}
}

func TestCapabilityDocumentCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := NewCapabilityDocument(cloud.ProviderInfo{})
	if _, err := doc.AffinityGroupCapabilities().CanCreate(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("CanCreate() error = %v, want context.Canceled", err)
	}
}

type countingSnapshotCaps struct {
	SnapshotCapabilities
	calls int
	err   error
}

func (c *countingSnapshotCaps) SupportsSnapshotCreation(ctx context.Context) (bool, error) {
	c.calls++
	if c.err != nil {
		return false, c.err
	}
	return true, nil
}

func TestCachedSnapshotCapabilities(t *testing.T) {
	ctx := context.Background()
	m := cache.New(time.Minute)
	provider := cloud.ProviderInfo{ProviderName: "acme"}

	inner := &countingSnapshotCaps{err: errors.New("throttled")}
	cached := NewCachedSnapshotCapabilities(provider, inner, m)

	if _, err := cached.SupportsSnapshotCreation(ctx); err == nil {
		t.Fatal("expected the inner error")
	}

	inner.err = nil
	for i := 0; i < 3; i++ {
		ok, err := cached.SupportsSnapshotCreation(ctx)
		if err != nil || !ok {
			t.Fatalf("SupportsSnapshotCreation() = %v, %v", ok, err)
		}
	}
	if inner.calls != 2 {
		t.Errorf("inner called %d times, want 2 (errors are not cached)", inner.calls)
	}

	if n := InvalidateCapabilities(m, provider); n != 1 {
		t.Errorf("InvalidateCapabilities() = %d, want 1", n)
	}
	_, _ = cached.SupportsSnapshotCreation(ctx)
	if inner.calls != 3 {
		t.Errorf("inner called %d times after invalidation, want 3", inner.calls)
	}
}

func TestCachedAffinityTermsAreKeyedByLocale(t *testing.T) {
	ctx := context.Background()
	doc, err := LoadCapabilityDocument(strings.NewReader(sampleCapabilities))
	if err != nil {
		t.Fatal(err)
	}
	cached := NewCachedAffinityGroupCapabilities(doc.Provider, doc.AffinityGroupCapabilities(), cache.New(time.Minute))

	de, _ := cached.ProviderTermForAffinityGroup(ctx, language.German)
	en, _ := cached.ProviderTermForAffinityGroup(ctx, language.English)
	if de != "Platzierungsgruppe" || en != "placement group" {
		t.Errorf("terms = %q, %q", de, en)
	}
}

func TestCachedVMScalingCapabilities(t *testing.T) {
	ctx := context.Background()
	cached := NewCachedVMScalingCapabilities(cloud.ProviderInfo{ProviderName: "acme"},
		UnimplementedVirtualMachineSupport{}, cache.New(time.Minute))

	got, err := cached.ScalingCapabilities(ctx)
	if err != nil || got.CanScale() {
		t.Errorf("ScalingCapabilities() = %+v, %v", got, err)
	}
}
