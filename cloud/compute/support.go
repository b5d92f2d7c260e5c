package compute

import (
	"context"

	"github.com/greese/dasein-cloud-core-sub001/cloud"
	"golang.org/x/text/language"
)

// Support interfaces are implemented by provider adapters, usually by
// embedding the matching Unimplemented* type and overriding what the cloud
// supports. Get methods return an error matching cloud.ErrNotFound when
// the resource does not exist. List methods return lazy sequences; a
// provider may apply the filter server-side, client-side, or both.

// AffinityGroupSupport manages affinity groups.
type AffinityGroupSupport interface {
	Capabilities(ctx context.Context) (AffinityGroupCapabilities, error)
	Create(ctx context.Context, opts *AffinityGroupCreateOptions) (*AffinityGroup, error)
	Delete(ctx context.Context, affinityGroupID string) error
	Get(ctx context.Context, affinityGroupID string) (*AffinityGroup, error)
	List(ctx context.Context, filter *AffinityGroupFilterOptions) cloud.Seq[*AffinityGroup]
	Modify(ctx context.Context, affinityGroupID string, opts *AffinityGroupCreateOptions) (*AffinityGroup, error)
	IsSubscribed(ctx context.Context) (bool, error)
}

// AutoScalingSupport manages auto-scaling groups, their launch
// configurations and scaling policies.
type AutoScalingSupport interface {
	CreateScalingGroup(ctx context.Context, opts *AutoScalingGroupOptions) (*ScalingGroup, error)
	UpdateScalingGroup(ctx context.Context, scalingGroupID string, opts *AutoScalingGroupOptions) error
	DeleteScalingGroup(ctx context.Context, scalingGroupID string) error
	GetScalingGroup(ctx context.Context, scalingGroupID string) (*ScalingGroup, error)
	ListScalingGroups(ctx context.Context, filter *AutoScalingGroupFilterOptions) cloud.Seq[*ScalingGroup]
	SetDesiredCapacity(ctx context.Context, scalingGroupID string, capacity int) error
	// SuspendAutoScaling suspends processes, or all processes when none
	// are given.
	SuspendAutoScaling(ctx context.Context, scalingGroupID string, processes ...ScalingProcess) error
	ResumeAutoScaling(ctx context.Context, scalingGroupID string, processes ...ScalingProcess) error

	CreateLaunchConfiguration(ctx context.Context, opts *LaunchConfigurationCreateOptions) (*LaunchConfiguration, error)
	DeleteLaunchConfiguration(ctx context.Context, launchConfigurationID string) error
	GetLaunchConfiguration(ctx context.Context, launchConfigurationID string) (*LaunchConfiguration, error)
	ListLaunchConfigurations(ctx context.Context) cloud.Seq[*LaunchConfiguration]

	SetScalingPolicy(ctx context.Context, policy *ScalingPolicy) (*ScalingPolicy, error)
	DeleteScalingPolicy(ctx context.Context, policyID string) error
	ListScalingPolicies(ctx context.Context, scalingGroupID string) cloud.Seq[*ScalingPolicy]

	UpdateTags(ctx context.Context, scalingGroupIDs []string, tags ...AutoScalingTag) error
	RemoveTags(ctx context.Context, scalingGroupIDs []string, tags ...AutoScalingTag) error
	// SetTags makes tags the complete tag set of each group. Adapters
	// usually implement it with SetScalingGroupTags.
	SetTags(ctx context.Context, scalingGroupIDs []string, tags ...AutoScalingTag) error

	IsSubscribed(ctx context.Context) (bool, error)
	ProviderTermForScalingGroup(ctx context.Context, locale language.Tag) (string, error)
}

// VolumeSupport manages block storage volumes.
type VolumeSupport interface {
	Create(ctx context.Context, opts *VolumeCreateOptions) (*Volume, error)
	Get(ctx context.Context, volumeID string) (*Volume, error)
	List(ctx context.Context, filter *VolumeFilterOptions) cloud.Seq[*Volume]
	Attach(ctx context.Context, volumeID, vmID, deviceID string) error
	Detach(ctx context.Context, volumeID string, force bool) error
	Remove(ctx context.Context, volumeID string) error
	UpdateTags(ctx context.Context, volumeIDs []string, tags ...cloud.Tag) error
	RemoveTags(ctx context.Context, volumeIDs []string, tags ...cloud.Tag) error
	SetTags(ctx context.Context, volumeIDs []string, tags ...cloud.Tag) error
	IsSubscribed(ctx context.Context) (bool, error)
}

// SnapshotSupport manages volume snapshots. An empty account number in the
// share methods means public.
type SnapshotSupport interface {
	Capabilities(ctx context.Context) (SnapshotCapabilities, error)
	Create(ctx context.Context, opts *SnapshotCreateOptions) (*Snapshot, error)
	Get(ctx context.Context, snapshotID string) (*Snapshot, error)
	List(ctx context.Context, filter *SnapshotFilterOptions) cloud.Seq[*Snapshot]
	Remove(ctx context.Context, snapshotID string) error
	AddShare(ctx context.Context, snapshotID, accountNumber string) error
	RemoveShare(ctx context.Context, snapshotID, accountNumber string) error
	ListShares(ctx context.Context, snapshotID string) cloud.Seq[string]
	UpdateTags(ctx context.Context, snapshotIDs []string, tags ...cloud.Tag) error
	RemoveTags(ctx context.Context, snapshotIDs []string, tags ...cloud.Tag) error
	SetTags(ctx context.Context, snapshotIDs []string, tags ...cloud.Tag) error
	IsSubscribed(ctx context.Context) (bool, error)
}

// VirtualMachineSupport manages virtual machines, their status and spot
// capacity.
type VirtualMachineSupport interface {
	Launch(ctx context.Context, opts *VMLaunchOptions) (*VirtualMachine, error)
	Get(ctx context.Context, vmID string) (*VirtualMachine, error)
	List(ctx context.Context, filter *VMFilterOptions) cloud.Seq[*VirtualMachine]
	Start(ctx context.Context, vmID string) error
	Stop(ctx context.Context, vmID string, force bool) error
	Reboot(ctx context.Context, vmID string) error
	Terminate(ctx context.Context, vmID, explanation string) error
	Alter(ctx context.Context, vmID string, opts *VMScalingOptions) (*VirtualMachine, error)
	ScalingCapabilities(ctx context.Context) (VMScalingCapabilities, error)

	GetVMStatus(ctx context.Context, filter *VmStatusFilterOptions) cloud.Seq[VirtualMachineStatus]
	SpotPriceHistories(ctx context.Context, filter *SPHistoryFilterOptions) cloud.Seq[*SpotPriceHistory]
	CreateSpotVirtualMachineRequest(ctx context.Context, opts *SpotVirtualMachineRequestCreateOptions) (*SpotVirtualMachineRequest, error)
	CancelSpotVirtualMachineRequest(ctx context.Context, requestID string) error
	ListSpotVirtualMachineRequests(ctx context.Context, filter *SpotVirtualMachineRequestFilterOptions) cloud.Seq[*SpotVirtualMachineRequest]

	UpdateTags(ctx context.Context, vmIDs []string, tags ...cloud.Tag) error
	RemoveTags(ctx context.Context, vmIDs []string, tags ...cloud.Tag) error
	SetTags(ctx context.Context, vmIDs []string, tags ...cloud.Tag) error
	IsSubscribed(ctx context.Context) (bool, error)
}

// MachineImageSupport manages machine images.
type MachineImageSupport interface {
	Capture(ctx context.Context, opts *ImageCreateOptions) (*MachineImage, error)
	Get(ctx context.Context, imageID string) (*MachineImage, error)
	List(ctx context.Context, filter *MachineImageFilterOptions) cloud.Seq[*MachineImage]
	// SearchPublic lists images published by any account.
	SearchPublic(ctx context.Context, filter *MachineImageFilterOptions) cloud.Seq[*MachineImage]
	Remove(ctx context.Context, imageID string) error
	AddShare(ctx context.Context, imageID, accountNumber string) error
	RemoveShare(ctx context.Context, imageID, accountNumber string) error
	UpdateTags(ctx context.Context, imageIDs []string, tags ...cloud.Tag) error
	RemoveTags(ctx context.Context, imageIDs []string, tags ...cloud.Tag) error
	SetTags(ctx context.Context, imageIDs []string, tags ...cloud.Tag) error
	IsSubscribed(ctx context.Context) (bool, error)
}

// HttpLoadBalancerSupport manages HTTP load balancers.
type HttpLoadBalancerSupport interface {
	Create(ctx context.Context, opts *HttpLoadBalancerCreateOptions) (*HttpLoadBalancer, error)
	Get(ctx context.Context, loadBalancerID string) (*HttpLoadBalancer, error)
	List(ctx context.Context) cloud.Seq[*HttpLoadBalancer]
	Remove(ctx context.Context, loadBalancerID string) error
	IsSubscribed(ctx context.Context) (bool, error)
}
