package compute

import (
	"context"

	"github.com/greese/dasein-cloud-core-sub001/cloud"
	"golang.org/x/text/language"
)

// Unlimited is returned by count capabilities with no upper bound.
const Unlimited = -1

// AffinityGroupCapabilities describes what a provider allows for affinity
// groups. Answers may require a round trip to the cloud.
type AffinityGroupCapabilities interface {
	CanCreate(ctx context.Context) (bool, error)
	CanDelete(ctx context.Context) (bool, error)
	CanModify(ctx context.Context) (bool, error)
	// MaximumAffinityGroupCount returns Unlimited when there is no limit.
	MaximumAffinityGroupCount(ctx context.Context) (int, error)
	IdentifyDataCenterRequirement(ctx context.Context) (cloud.Requirement, error)
	// ProviderTermForAffinityGroup returns the provider's own name for an
	// affinity group in the given locale.
	ProviderTermForAffinityGroup(ctx context.Context, locale language.Tag) (string, error)
}

// SnapshotCapabilities describes what a provider allows for snapshots.
type SnapshotCapabilities interface {
	ProviderTermForSnapshot(ctx context.Context, locale language.Tag) (string, error)
	// IdentifyAttachmentRequirement says whether a volume must be attached
	// to a VM to be snapshotted.
	IdentifyAttachmentRequirement(ctx context.Context) (cloud.Requirement, error)
	SupportsSnapshotCopying(ctx context.Context) (bool, error)
	SupportsSnapshotCreation(ctx context.Context) (bool, error)
	SupportsSnapshotSharing(ctx context.Context) (bool, error)
	SupportsSnapshotSharingWithPublic(ctx context.Context) (bool, error)
	MaximumSnapshotCount(ctx context.Context) (int, error)
}

// VMScalingCapabilities describes how a VM can be resized.
type VMScalingCapabilities struct {
	// AlterVmForNewVolume says whether the VM must be altered (typically
	// stopped) to add a volume.
	AlterVmForNewVolume cloud.Requirement `json:"alter_vm_for_new_volume" yaml:"alter_vm_for_new_volume"`
	// AlterVmForVolumeChange says whether the VM must be altered to change
	// an existing volume.
	AlterVmForVolumeChange    cloud.Requirement `json:"alter_vm_for_volume_change" yaml:"alter_vm_for_volume_change"`
	SupportsNewProduct        bool              `json:"supports_new_product" yaml:"supports_new_product"`
	SupportsProductChange     bool              `json:"supports_product_change" yaml:"supports_product_change"`
	SupportsProductSizeChange bool              `json:"supports_product_size_change" yaml:"supports_product_size_change"`
}

// NewVMScalingCapabilities returns capabilities with nothing supported.
func NewVMScalingCapabilities() VMScalingCapabilities {
	return VMScalingCapabilities{
		AlterVmForNewVolume:    cloud.RequirementNone,
		AlterVmForVolumeChange: cloud.RequirementNone,
	}
}

// CanScale reports whether any form of resizing is supported.
func (c VMScalingCapabilities) CanScale() bool {
	return c.SupportsNewProduct || c.SupportsProductChange || c.SupportsProductSizeChange
}

// Validate checks that both requirement levels are known values.
func (c VMScalingCapabilities) Validate() error {
	if !c.AlterVmForNewVolume.IsValid() || !c.AlterVmForVolumeChange.IsValid() {
		return invalidOptions("vm scaling capabilities", "unknown requirement level")
	}
	return nil
}
