// Package compute defines the vendor-neutral compute contract: entity
// models, filter and option builders, capability descriptors, the support
// interfaces provider adapters implement, default adapters that reject
// unimplemented operations, and the ComputeServices facade.
package compute

import (
	"fmt"

	"github.com/greese/dasein-cloud-core-sub001/cloud"
)

// ComputeServices is the facade through which callers discover which
// compute resource kinds a provider supports. Each accessor returns nil
// when the kind is unsupported; accessors never fail.
type ComputeServices interface {
	AffinityGroupSupport() AffinityGroupSupport
	AutoScalingSupport() AutoScalingSupport
	HttpLoadBalancerSupport() HttpLoadBalancerSupport
	ImageSupport() MachineImageSupport
	SnapshotSupport() SnapshotSupport
	VirtualMachineSupport() VirtualMachineSupport
	VolumeSupport() VolumeSupport
}

// Services implements ComputeServices from explicit fields. The zero value
// supports nothing. Provider names the cloud in errors raised on behalf of
// the facade.
type Services struct {
	Provider          cloud.ProviderInfo
	AffinityGroups    AffinityGroupSupport
	AutoScaling       AutoScalingSupport
	HttpLoadBalancers HttpLoadBalancerSupport
	Images            MachineImageSupport
	Snapshots         SnapshotSupport
	VirtualMachines   VirtualMachineSupport
	Volumes           VolumeSupport
}

var _ ComputeServices = (*Services)(nil)

// ProviderInfo identifies the provider behind the facade.
func (s *Services) ProviderInfo() cloud.ProviderInfo {
	if s == nil {
		return cloud.ProviderInfo{}
	}
	return s.Provider
}

// facadeName names svc for errors: the provider when the facade knows it,
// the facade type otherwise.
func facadeName(svc ComputeServices) string {
	if svc == nil {
		return "a nil compute facade"
	}
	if p, ok := svc.(interface{ ProviderInfo() cloud.ProviderInfo }); ok {
		if info := p.ProviderInfo(); info != (cloud.ProviderInfo{}) {
			return info.DisplayName()
		}
	}
	return fmt.Sprintf("compute facade %T", svc)
}

func (s *Services) AffinityGroupSupport() AffinityGroupSupport {
	if s == nil {
		return nil
	}
	return s.AffinityGroups
}

func (s *Services) AutoScalingSupport() AutoScalingSupport {
	if s == nil {
		return nil
	}
	return s.AutoScaling
}

func (s *Services) HttpLoadBalancerSupport() HttpLoadBalancerSupport {
	if s == nil {
		return nil
	}
	return s.HttpLoadBalancers
}

func (s *Services) ImageSupport() MachineImageSupport {
	if s == nil {
		return nil
	}
	return s.Images
}

func (s *Services) SnapshotSupport() SnapshotSupport {
	if s == nil {
		return nil
	}
	return s.Snapshots
}

func (s *Services) VirtualMachineSupport() VirtualMachineSupport {
	if s == nil {
		return nil
	}
	return s.VirtualMachines
}

func (s *Services) VolumeSupport() VolumeSupport {
	if s == nil {
		return nil
	}
	return s.Volumes
}

// HasAffinityGroupSupport reports whether svc exposes affinity groups.
func HasAffinityGroupSupport(svc ComputeServices) bool {
	return svc != nil && svc.AffinityGroupSupport() != nil
}

func HasAutoScalingSupport(svc ComputeServices) bool {
	return svc != nil && svc.AutoScalingSupport() != nil
}

func HasHttpLoadBalancerSupport(svc ComputeServices) bool {
	return svc != nil && svc.HttpLoadBalancerSupport() != nil
}

func HasImageSupport(svc ComputeServices) bool {
	return svc != nil && svc.ImageSupport() != nil
}

func HasSnapshotSupport(svc ComputeServices) bool {
	return svc != nil && svc.SnapshotSupport() != nil
}

func HasVirtualMachineSupport(svc ComputeServices) bool {
	return svc != nil && svc.VirtualMachineSupport() != nil
}

func HasVolumeSupport(svc ComputeServices) bool {
	return svc != nil && svc.VolumeSupport() != nil
}

// ResourceKind names a compute resource kind exposed by the facade.
type ResourceKind string

const (
	KindAffinityGroup    ResourceKind = "affinity-groups"
	KindAutoScaling      ResourceKind = "auto-scaling"
	KindHttpLoadBalancer ResourceKind = "http-load-balancers"
	KindImage            ResourceKind = "images"
	KindSnapshot         ResourceKind = "snapshots"
	KindVirtualMachine   ResourceKind = "virtual-machines"
	KindVolume           ResourceKind = "volumes"
)

// AllKinds lists every resource kind in display order.
var AllKinds = []ResourceKind{
	KindAffinityGroup,
	KindAutoScaling,
	KindHttpLoadBalancer,
	KindImage,
	KindSnapshot,
	KindVirtualMachine,
	KindVolume,
}

// HasSupport reports whether svc exposes kind.
func HasSupport(svc ComputeServices, kind ResourceKind) bool {
	switch kind {
	case KindAffinityGroup:
		return HasAffinityGroupSupport(svc)
	case KindAutoScaling:
		return HasAutoScalingSupport(svc)
	case KindHttpLoadBalancer:
		return HasHttpLoadBalancerSupport(svc)
	case KindImage:
		return HasImageSupport(svc)
	case KindSnapshot:
		return HasSnapshotSupport(svc)
	case KindVirtualMachine:
		return HasVirtualMachineSupport(svc)
	case KindVolume:
		return HasVolumeSupport(svc)
	default:
		return false
	}
}

// SupportedKinds returns the kinds svc exposes, in AllKinds order.
func SupportedKinds(svc ComputeServices) []ResourceKind {
	var kinds []ResourceKind
	for _, k := range AllKinds {
		if HasSupport(svc, k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
