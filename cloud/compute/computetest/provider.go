// Package computetest provides an in-memory compute provider for tests and
// offline tooling. It is assembled from the default adapters, overriding
// only what it implements, so unimplemented operations behave exactly as
// they would for a real adapter.
package computetest

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/greese/dasein-cloud-core-sub001/cloud"
	"github.com/greese/dasein-cloud-core-sub001/cloud/compute"
)

// TagCall records one tag mutation received by the provider.
type TagCall struct {
	Op  string // "remove" or "update"
	ID  string
	Tag string
}

// Provider holds every resource in memory. Affinity groups and HTTP load
// balancers are not supported.
type Provider struct {
	Info cloud.ProviderInfo

	mu              sync.Mutex
	seq             int
	now             func() time.Time
	volumes         map[string]*compute.Volume
	snapshots       map[string]*compute.Snapshot
	images          map[string]*compute.MachineImage
	vms             map[string]*compute.VirtualMachine
	statuses        map[string]compute.VirtualMachineStatus
	priceHistories  []*compute.SpotPriceHistory
	spotRequests    map[string]*compute.SpotVirtualMachineRequest
	groups          map[string]*compute.ScalingGroup
	launchConfigs   map[string]*compute.LaunchConfiguration
	snapshotShares  map[string][]string
	tagCalls        []TagCall
	capabilities    *compute.CapabilityDocument
	failUpdateGroup string
}

// NewProvider creates an empty provider identified by info.
func NewProvider(info cloud.ProviderInfo) *Provider {
	caps := compute.NewCapabilityDocument(info)
	caps.Snapshots.Creation = true
	caps.Snapshots.Sharing = true
	caps.Snapshots.AttachmentRequirement = cloud.RequirementOptional
	caps.VMScaling.SupportsProductChange = true
	caps.VMScaling.AlterVmForNewVolume = cloud.RequirementRequired

	return &Provider{
		Info:           info,
		now:            time.Now,
		volumes:        make(map[string]*compute.Volume),
		snapshots:      make(map[string]*compute.Snapshot),
		images:         make(map[string]*compute.MachineImage),
		vms:            make(map[string]*compute.VirtualMachine),
		statuses:       make(map[string]compute.VirtualMachineStatus),
		spotRequests:   make(map[string]*compute.SpotVirtualMachineRequest),
		groups:         make(map[string]*compute.ScalingGroup),
		launchConfigs:  make(map[string]*compute.LaunchConfiguration),
		snapshotShares: make(map[string][]string),
		capabilities:   caps,
	}
}

// Services exposes the provider through the compute facade.
func (p *Provider) Services() *compute.Services {
	return &compute.Services{
		Provider:        p.Info,
		AutoScaling:     &AutoScaling{UnimplementedAutoScalingSupport: compute.UnimplementedAutoScalingSupport{Provider: p.Info}, p: p},
		Images:          &Images{UnimplementedMachineImageSupport: compute.UnimplementedMachineImageSupport{Provider: p.Info}, p: p},
		Snapshots:       &Snapshots{UnimplementedSnapshotSupport: compute.UnimplementedSnapshotSupport{Provider: p.Info}, p: p},
		VirtualMachines: &VirtualMachines{UnimplementedVirtualMachineSupport: compute.UnimplementedVirtualMachineSupport{Provider: p.Info}, p: p},
		Volumes:         &Volumes{UnimplementedVolumeSupport: compute.UnimplementedVolumeSupport{Provider: p.Info}, p: p},
	}
}

// Capabilities returns the provider's capability document.
func (p *Provider) Capabilities() *compute.CapabilityDocument {
	return p.capabilities
}

// SetClock replaces the clock used for creation timestamps.
func (p *Provider) SetClock(now func() time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = now
}

// FailUpdateTagsFor makes UpdateTags fail for the given scaling group.
func (p *Provider) FailUpdateTagsFor(scalingGroupID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failUpdateGroup = scalingGroupID
}

// TagCalls returns the recorded tag mutations in arrival order.
func (p *Provider) TagCalls() []TagCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]TagCall(nil), p.tagCalls...)
}

func (p *Provider) nextID(prefix string) string {
	p.seq++
	return fmt.Sprintf("%s-%d", prefix, p.seq)
}

func (p *Provider) recordTags(op string, ids []string, keys []string) {
	for _, id := range ids {
		for _, k := range keys {
			p.tagCalls = append(p.tagCalls, TagCall{Op: op, ID: id, Tag: k})
		}
	}
}

func tagKeys(tags []cloud.Tag) []string {
	keys := make([]string, 0, len(tags))
	for _, t := range tags {
		keys = append(keys, t.Key)
	}
	return keys
}

func (p *Provider) AddVolume(v *compute.Volume) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volumes[v.ID] = v.Clone()
}

func (p *Provider) AddSnapshot(s *compute.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshots[s.ID] = s.Clone()
}

func (p *Provider) AddImage(m *compute.MachineImage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.images[m.ID] = m.Clone()
}

func (p *Provider) AddVirtualMachine(vm *compute.VirtualMachine) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.vms[vm.ID] = vm.Clone()
}

func (p *Provider) AddVMStatus(s compute.VirtualMachineStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statuses[s.VirtualMachineID] = s
}

func (p *Provider) AddSpotPriceHistory(h *compute.SpotPriceHistory) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c := *h
	c.Prices = append([]compute.SpotPrice(nil), h.Prices...)
	p.priceHistories = append(p.priceHistories, &c)
}

func (p *Provider) AddScalingGroup(g *compute.ScalingGroup) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.groups[g.ID] = g.Clone()
}

// Load seeds the provider with every resource in f.
func (p *Provider) Load(f *Fixtures) {
	for _, v := range f.Volumes {
		p.AddVolume(v)
	}
	for _, s := range f.Snapshots {
		p.AddSnapshot(s)
	}
	for _, m := range f.Images {
		p.AddImage(m)
	}
	for _, vm := range f.VirtualMachines {
		p.AddVirtualMachine(vm)
	}
	for _, s := range f.VMStatuses {
		p.AddVMStatus(s)
	}
	for _, h := range f.SpotPriceHistories {
		p.AddSpotPriceHistory(h)
	}
	for _, g := range f.ScalingGroups {
		p.AddScalingGroup(g)
	}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, cloud.ErrNotFound)
}

// sortedValues snapshots a map under the provider lock, ordered by key.
func sortedValues[T any](m map[string]T, clone func(T) T) []T {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, clone(m[k]))
	}
	return out
}
