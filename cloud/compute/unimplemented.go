package compute

import (
	"context"

	"github.com/greese/dasein-cloud-core-sub001/cloud"
	"github.com/greese/dasein-cloud-core-sub001/internal/logging"
	"golang.org/x/text/language"
)

var (
	_ AffinityGroupSupport    = UnimplementedAffinityGroupSupport{}
	_ AutoScalingSupport      = UnimplementedAutoScalingSupport{}
	_ VolumeSupport           = UnimplementedVolumeSupport{}
	_ SnapshotSupport         = UnimplementedSnapshotSupport{}
	_ VirtualMachineSupport   = UnimplementedVirtualMachineSupport{}
	_ MachineImageSupport     = UnimplementedMachineImageSupport{}
	_ HttpLoadBalancerSupport = UnimplementedHttpLoadBalancerSupport{}
)

func providerLabel(p cloud.ProviderInfo) string {
	if p == (cloud.ProviderInfo{}) {
		return ""
	}
	return p.DisplayName()
}

func notSupported(p cloud.ProviderInfo, resource, action string) error {
	logging.WithFields(logging.Fields{
		"provider": p.ProviderName,
		"cloud":    p.CloudName,
		"resource": resource,
		"action":   action,
	}).Debug("operation not supported by default adapter")
	return cloud.NewOperationNotSupportedError(providerLabel(p), resource, action)
}

func unsupportedSeq[T any](p cloud.ProviderInfo, resource, action string) cloud.Seq[T] {
	return cloud.Failed[T](notSupported(p, resource, action))
}

// UnimplementedAffinityGroupSupport rejects every affinity group operation.
// Embed it and override what the cloud supports.
type UnimplementedAffinityGroupSupport struct {
	Provider cloud.ProviderInfo
}

// Capabilities reports that nothing is supported.
func (u UnimplementedAffinityGroupSupport) Capabilities(ctx context.Context) (AffinityGroupCapabilities, error) {
	return NewCapabilityDocument(u.Provider).AffinityGroupCapabilities(), nil
}

func (u UnimplementedAffinityGroupSupport) Create(ctx context.Context, opts *AffinityGroupCreateOptions) (*AffinityGroup, error) {
	return nil, notSupported(u.Provider, "AffinityGroups", "created")
}

func (u UnimplementedAffinityGroupSupport) Delete(ctx context.Context, affinityGroupID string) error {
	return notSupported(u.Provider, "AffinityGroups", "deleted")
}

func (u UnimplementedAffinityGroupSupport) Get(ctx context.Context, affinityGroupID string) (*AffinityGroup, error) {
	return nil, notSupported(u.Provider, "AffinityGroups", "retrieved")
}

func (u UnimplementedAffinityGroupSupport) List(ctx context.Context, filter *AffinityGroupFilterOptions) cloud.Seq[*AffinityGroup] {
	return unsupportedSeq[*AffinityGroup](u.Provider, "AffinityGroups", "listed")
}

func (u UnimplementedAffinityGroupSupport) Modify(ctx context.Context, affinityGroupID string, opts *AffinityGroupCreateOptions) (*AffinityGroup, error) {
	return nil, notSupported(u.Provider, "AffinityGroups", "modified")
}

func (u UnimplementedAffinityGroupSupport) IsSubscribed(ctx context.Context) (bool, error) {
	return false, nil
}

// UnimplementedAutoScalingSupport rejects every mutation. Listings are
// empty.
type UnimplementedAutoScalingSupport struct {
	Provider cloud.ProviderInfo
}

func (u UnimplementedAutoScalingSupport) CreateScalingGroup(ctx context.Context, opts *AutoScalingGroupOptions) (*ScalingGroup, error) {
	return nil, notSupported(u.Provider, "ScalingGroups", "created")
}

func (u UnimplementedAutoScalingSupport) UpdateScalingGroup(ctx context.Context, scalingGroupID string, opts *AutoScalingGroupOptions) error {
	return notSupported(u.Provider, "ScalingGroups", "updated")
}

func (u UnimplementedAutoScalingSupport) DeleteScalingGroup(ctx context.Context, scalingGroupID string) error {
	return notSupported(u.Provider, "ScalingGroups", "deleted")
}

func (u UnimplementedAutoScalingSupport) GetScalingGroup(ctx context.Context, scalingGroupID string) (*ScalingGroup, error) {
	return nil, notSupported(u.Provider, "ScalingGroups", "retrieved")
}

func (u UnimplementedAutoScalingSupport) ListScalingGroups(ctx context.Context, filter *AutoScalingGroupFilterOptions) cloud.Seq[*ScalingGroup] {
	return cloud.Empty[*ScalingGroup]()
}

func (u UnimplementedAutoScalingSupport) SetDesiredCapacity(ctx context.Context, scalingGroupID string, capacity int) error {
	return notSupported(u.Provider, "ScalingGroups", "resized")
}

func (u UnimplementedAutoScalingSupport) SuspendAutoScaling(ctx context.Context, scalingGroupID string, processes ...ScalingProcess) error {
	return notSupported(u.Provider, "ScalingGroups", "suspended")
}

func (u UnimplementedAutoScalingSupport) ResumeAutoScaling(ctx context.Context, scalingGroupID string, processes ...ScalingProcess) error {
	return notSupported(u.Provider, "ScalingGroups", "resumed")
}

func (u UnimplementedAutoScalingSupport) CreateLaunchConfiguration(ctx context.Context, opts *LaunchConfigurationCreateOptions) (*LaunchConfiguration, error) {
	return nil, notSupported(u.Provider, "LaunchConfigurations", "created")
}

func (u UnimplementedAutoScalingSupport) DeleteLaunchConfiguration(ctx context.Context, launchConfigurationID string) error {
	return notSupported(u.Provider, "LaunchConfigurations", "deleted")
}

func (u UnimplementedAutoScalingSupport) GetLaunchConfiguration(ctx context.Context, launchConfigurationID string) (*LaunchConfiguration, error) {
	return nil, notSupported(u.Provider, "LaunchConfigurations", "retrieved")
}

func (u UnimplementedAutoScalingSupport) ListLaunchConfigurations(ctx context.Context) cloud.Seq[*LaunchConfiguration] {
	return cloud.Empty[*LaunchConfiguration]()
}

func (u UnimplementedAutoScalingSupport) SetScalingPolicy(ctx context.Context, policy *ScalingPolicy) (*ScalingPolicy, error) {
	return nil, notSupported(u.Provider, "ScalingPolicies", "set")
}

func (u UnimplementedAutoScalingSupport) DeleteScalingPolicy(ctx context.Context, policyID string) error {
	return notSupported(u.Provider, "ScalingPolicies", "deleted")
}

func (u UnimplementedAutoScalingSupport) ListScalingPolicies(ctx context.Context, scalingGroupID string) cloud.Seq[*ScalingPolicy] {
	return cloud.Empty[*ScalingPolicy]()
}

func (u UnimplementedAutoScalingSupport) UpdateTags(ctx context.Context, scalingGroupIDs []string, tags ...AutoScalingTag) error {
	return notSupported(u.Provider, "ScalingGroup tags", "updated")
}

func (u UnimplementedAutoScalingSupport) RemoveTags(ctx context.Context, scalingGroupIDs []string, tags ...AutoScalingTag) error {
	return notSupported(u.Provider, "ScalingGroup tags", "removed")
}

func (u UnimplementedAutoScalingSupport) SetTags(ctx context.Context, scalingGroupIDs []string, tags ...AutoScalingTag) error {
	return notSupported(u.Provider, "ScalingGroup tags", "set")
}

func (u UnimplementedAutoScalingSupport) IsSubscribed(ctx context.Context) (bool, error) {
	return false, nil
}

func (u UnimplementedAutoScalingSupport) ProviderTermForScalingGroup(ctx context.Context, locale language.Tag) (string, error) {
	return "auto-scaling group", nil
}

// UnimplementedVolumeSupport rejects every volume operation.
type UnimplementedVolumeSupport struct {
	Provider cloud.ProviderInfo
}

func (u UnimplementedVolumeSupport) Create(ctx context.Context, opts *VolumeCreateOptions) (*Volume, error) {
	return nil, notSupported(u.Provider, "Volumes", "created")
}

func (u UnimplementedVolumeSupport) Get(ctx context.Context, volumeID string) (*Volume, error) {
	return nil, notSupported(u.Provider, "Volumes", "retrieved")
}

func (u UnimplementedVolumeSupport) List(ctx context.Context, filter *VolumeFilterOptions) cloud.Seq[*Volume] {
	return unsupportedSeq[*Volume](u.Provider, "Volumes", "listed")
}

func (u UnimplementedVolumeSupport) Attach(ctx context.Context, volumeID, vmID, deviceID string) error {
	return notSupported(u.Provider, "Volumes", "attached")
}

func (u UnimplementedVolumeSupport) Detach(ctx context.Context, volumeID string, force bool) error {
	return notSupported(u.Provider, "Volumes", "detached")
}

func (u UnimplementedVolumeSupport) Remove(ctx context.Context, volumeID string) error {
	return notSupported(u.Provider, "Volumes", "removed")
}

func (u UnimplementedVolumeSupport) UpdateTags(ctx context.Context, volumeIDs []string, tags ...cloud.Tag) error {
	return notSupported(u.Provider, "Volume tags", "updated")
}

func (u UnimplementedVolumeSupport) RemoveTags(ctx context.Context, volumeIDs []string, tags ...cloud.Tag) error {
	return notSupported(u.Provider, "Volume tags", "removed")
}

func (u UnimplementedVolumeSupport) SetTags(ctx context.Context, volumeIDs []string, tags ...cloud.Tag) error {
	return notSupported(u.Provider, "Volume tags", "set")
}

func (u UnimplementedVolumeSupport) IsSubscribed(ctx context.Context) (bool, error) {
	return false, nil
}

// UnimplementedSnapshotSupport rejects every snapshot operation.
type UnimplementedSnapshotSupport struct {
	Provider cloud.ProviderInfo
}

// Capabilities reports that nothing is supported.
func (u UnimplementedSnapshotSupport) Capabilities(ctx context.Context) (SnapshotCapabilities, error) {
	return NewCapabilityDocument(u.Provider).SnapshotCapabilities(), nil
}

func (u UnimplementedSnapshotSupport) Create(ctx context.Context, opts *SnapshotCreateOptions) (*Snapshot, error) {
	return nil, notSupported(u.Provider, "Snapshots", "created")
}

func (u UnimplementedSnapshotSupport) Get(ctx context.Context, snapshotID string) (*Snapshot, error) {
	return nil, notSupported(u.Provider, "Snapshots", "retrieved")
}

func (u UnimplementedSnapshotSupport) List(ctx context.Context, filter *SnapshotFilterOptions) cloud.Seq[*Snapshot] {
	return unsupportedSeq[*Snapshot](u.Provider, "Snapshots", "listed")
}

func (u UnimplementedSnapshotSupport) Remove(ctx context.Context, snapshotID string) error {
	return notSupported(u.Provider, "Snapshots", "removed")
}

func (u UnimplementedSnapshotSupport) AddShare(ctx context.Context, snapshotID, accountNumber string) error {
	return notSupported(u.Provider, "Snapshots", "shared")
}

func (u UnimplementedSnapshotSupport) RemoveShare(ctx context.Context, snapshotID, accountNumber string) error {
	return notSupported(u.Provider, "Snapshots", "unshared")
}

func (u UnimplementedSnapshotSupport) ListShares(ctx context.Context, snapshotID string) cloud.Seq[string] {
	return unsupportedSeq[string](u.Provider, "Snapshot shares", "listed")
}

func (u UnimplementedSnapshotSupport) UpdateTags(ctx context.Context, snapshotIDs []string, tags ...cloud.Tag) error {
	return notSupported(u.Provider, "Snapshot tags", "updated")
}

func (u UnimplementedSnapshotSupport) RemoveTags(ctx context.Context, snapshotIDs []string, tags ...cloud.Tag) error {
	return notSupported(u.Provider, "Snapshot tags", "removed")
}

func (u UnimplementedSnapshotSupport) SetTags(ctx context.Context, snapshotIDs []string, tags ...cloud.Tag) error {
	return notSupported(u.Provider, "Snapshot tags", "set")
}

func (u UnimplementedSnapshotSupport) IsSubscribed(ctx context.Context) (bool, error) {
	return false, nil
}

// UnimplementedVirtualMachineSupport rejects every VM operation. Status,
// spot price and spot request listings are empty.
type UnimplementedVirtualMachineSupport struct {
	Provider cloud.ProviderInfo
}

func (u UnimplementedVirtualMachineSupport) Launch(ctx context.Context, opts *VMLaunchOptions) (*VirtualMachine, error) {
	return nil, notSupported(u.Provider, "VirtualMachines", "launched")
}

func (u UnimplementedVirtualMachineSupport) Get(ctx context.Context, vmID string) (*VirtualMachine, error) {
	return nil, notSupported(u.Provider, "VirtualMachines", "retrieved")
}

func (u UnimplementedVirtualMachineSupport) List(ctx context.Context, filter *VMFilterOptions) cloud.Seq[*VirtualMachine] {
	return unsupportedSeq[*VirtualMachine](u.Provider, "VirtualMachines", "listed")
}

func (u UnimplementedVirtualMachineSupport) Start(ctx context.Context, vmID string) error {
	return notSupported(u.Provider, "VirtualMachines", "started")
}

func (u UnimplementedVirtualMachineSupport) Stop(ctx context.Context, vmID string, force bool) error {
	return notSupported(u.Provider, "VirtualMachines", "stopped")
}

func (u UnimplementedVirtualMachineSupport) Reboot(ctx context.Context, vmID string) error {
	return notSupported(u.Provider, "VirtualMachines", "rebooted")
}

func (u UnimplementedVirtualMachineSupport) Terminate(ctx context.Context, vmID, explanation string) error {
	return notSupported(u.Provider, "VirtualMachines", "terminated")
}

func (u UnimplementedVirtualMachineSupport) Alter(ctx context.Context, vmID string, opts *VMScalingOptions) (*VirtualMachine, error) {
	return nil, notSupported(u.Provider, "VirtualMachines", "altered")
}

// ScalingCapabilities reports that no resizing is supported.
func (u UnimplementedVirtualMachineSupport) ScalingCapabilities(ctx context.Context) (VMScalingCapabilities, error) {
	return NewVMScalingCapabilities(), nil
}

func (u UnimplementedVirtualMachineSupport) GetVMStatus(ctx context.Context, filter *VmStatusFilterOptions) cloud.Seq[VirtualMachineStatus] {
	return cloud.Empty[VirtualMachineStatus]()
}

func (u UnimplementedVirtualMachineSupport) SpotPriceHistories(ctx context.Context, filter *SPHistoryFilterOptions) cloud.Seq[*SpotPriceHistory] {
	return cloud.Empty[*SpotPriceHistory]()
}

func (u UnimplementedVirtualMachineSupport) CreateSpotVirtualMachineRequest(ctx context.Context, opts *SpotVirtualMachineRequestCreateOptions) (*SpotVirtualMachineRequest, error) {
	return nil, notSupported(u.Provider, "SpotVirtualMachineRequests", "created")
}

func (u UnimplementedVirtualMachineSupport) CancelSpotVirtualMachineRequest(ctx context.Context, requestID string) error {
	return notSupported(u.Provider, "SpotVirtualMachineRequests", "cancelled")
}

func (u UnimplementedVirtualMachineSupport) ListSpotVirtualMachineRequests(ctx context.Context, filter *SpotVirtualMachineRequestFilterOptions) cloud.Seq[*SpotVirtualMachineRequest] {
	return cloud.Empty[*SpotVirtualMachineRequest]()
}

func (u UnimplementedVirtualMachineSupport) UpdateTags(ctx context.Context, vmIDs []string, tags ...cloud.Tag) error {
	return notSupported(u.Provider, "VirtualMachine tags", "updated")
}

func (u UnimplementedVirtualMachineSupport) RemoveTags(ctx context.Context, vmIDs []string, tags ...cloud.Tag) error {
	return notSupported(u.Provider, "VirtualMachine tags", "removed")
}

func (u UnimplementedVirtualMachineSupport) SetTags(ctx context.Context, vmIDs []string, tags ...cloud.Tag) error {
	return notSupported(u.Provider, "VirtualMachine tags", "set")
}

func (u UnimplementedVirtualMachineSupport) IsSubscribed(ctx context.Context) (bool, error) {
	return false, nil
}

// UnimplementedMachineImageSupport rejects every image operation.
type UnimplementedMachineImageSupport struct {
	Provider cloud.ProviderInfo
}

func (u UnimplementedMachineImageSupport) Capture(ctx context.Context, opts *ImageCreateOptions) (*MachineImage, error) {
	return nil, notSupported(u.Provider, "MachineImages", "captured")
}

func (u UnimplementedMachineImageSupport) Get(ctx context.Context, imageID string) (*MachineImage, error) {
	return nil, notSupported(u.Provider, "MachineImages", "retrieved")
}

func (u UnimplementedMachineImageSupport) List(ctx context.Context, filter *MachineImageFilterOptions) cloud.Seq[*MachineImage] {
	return unsupportedSeq[*MachineImage](u.Provider, "MachineImages", "listed")
}

func (u UnimplementedMachineImageSupport) SearchPublic(ctx context.Context, filter *MachineImageFilterOptions) cloud.Seq[*MachineImage] {
	return unsupportedSeq[*MachineImage](u.Provider, "Public MachineImages", "searched")
}

func (u UnimplementedMachineImageSupport) Remove(ctx context.Context, imageID string) error {
	return notSupported(u.Provider, "MachineImages", "removed")
}

func (u UnimplementedMachineImageSupport) AddShare(ctx context.Context, imageID, accountNumber string) error {
	return notSupported(u.Provider, "MachineImages", "shared")
}

func (u UnimplementedMachineImageSupport) RemoveShare(ctx context.Context, imageID, accountNumber string) error {
	return notSupported(u.Provider, "MachineImages", "unshared")
}

func (u UnimplementedMachineImageSupport) UpdateTags(ctx context.Context, imageIDs []string, tags ...cloud.Tag) error {
	return notSupported(u.Provider, "MachineImage tags", "updated")
}

func (u UnimplementedMachineImageSupport) RemoveTags(ctx context.Context, imageIDs []string, tags ...cloud.Tag) error {
	return notSupported(u.Provider, "MachineImage tags", "removed")
}

func (u UnimplementedMachineImageSupport) SetTags(ctx context.Context, imageIDs []string, tags ...cloud.Tag) error {
	return notSupported(u.Provider, "MachineImage tags", "set")
}

func (u UnimplementedMachineImageSupport) IsSubscribed(ctx context.Context) (bool, error) {
	return false, nil
}

// UnimplementedHttpLoadBalancerSupport rejects every mutation. Listings
// are empty.
type UnimplementedHttpLoadBalancerSupport struct {
	Provider cloud.ProviderInfo
}

func (u UnimplementedHttpLoadBalancerSupport) Create(ctx context.Context, opts *HttpLoadBalancerCreateOptions) (*HttpLoadBalancer, error) {
	return nil, notSupported(u.Provider, "HttpLoadBalancers", "created")
}

func (u UnimplementedHttpLoadBalancerSupport) Get(ctx context.Context, loadBalancerID string) (*HttpLoadBalancer, error) {
	return nil, notSupported(u.Provider, "HttpLoadBalancers", "retrieved")
}

func (u UnimplementedHttpLoadBalancerSupport) List(ctx context.Context) cloud.Seq[*HttpLoadBalancer] {
	return cloud.Empty[*HttpLoadBalancer]()
}

func (u UnimplementedHttpLoadBalancerSupport) Remove(ctx context.Context, loadBalancerID string) error {
	return notSupported(u.Provider, "HttpLoadBalancers", "removed")
}

func (u UnimplementedHttpLoadBalancerSupport) IsSubscribed(ctx context.Context) (bool, error) {
	return false, nil
}
