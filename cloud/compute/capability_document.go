package compute

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/greese/dasein-cloud-core-sub001/cloud"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const (
	defaultAffinityGroupTerm = "affinity group"
	defaultSnapshotTerm      = "snapshot"
)

// AffinityGroupCapabilityDoc is the affinity_groups section of a
// capability document.
type AffinityGroupCapabilityDoc struct {
	CanCreate             bool              `yaml:"can_create"`
	CanDelete             bool              `yaml:"can_delete"`
	CanModify             bool              `yaml:"can_modify"`
	MaximumCount          int               `yaml:"maximum_count"`
	DataCenterRequirement cloud.Requirement `yaml:"data_center_requirement"`
	Terms                 cloud.Terms       `yaml:"terms"`
}

// SnapshotCapabilityDoc is the snapshots section of a capability document.
type SnapshotCapabilityDoc struct {
	AttachmentRequirement cloud.Requirement `yaml:"attachment_requirement"`
	Copying               bool              `yaml:"copying"`
	Creation              bool              `yaml:"creation"`
	Sharing               bool              `yaml:"sharing"`
	SharingWithPublic     bool              `yaml:"sharing_with_public"`
	MaximumCount          int               `yaml:"maximum_count"`
	Terms                 cloud.Terms       `yaml:"terms"`
}

// CapabilityDocument is a static, YAML-described set of capabilities. It
// lets an adapter declare what its cloud supports without code, and lets
// tools inspect capabilities offline.
//
//	provider:
//	  provider_name: Example
//	  cloud_name: Example Cloud
//	affinity_groups:
//	  can_create: true
//	  maximum_count: 10
//	  data_center_requirement: REQUIRED
//	  terms: {default: placement group, de: Platzierungsgruppe}
//	snapshots:
//	  creation: true
//	  attachment_requirement: OPTIONAL
//	vm_scaling:
//	  alter_vm_for_new_volume: REQUIRED
//	  supports_product_change: true
type CapabilityDocument struct {
	Provider       cloud.ProviderInfo         `yaml:"provider"`
	AffinityGroups AffinityGroupCapabilityDoc `yaml:"affinity_groups"`
	Snapshots      SnapshotCapabilityDoc      `yaml:"snapshots"`
	VMScaling      VMScalingCapabilities      `yaml:"vm_scaling"`
}

// NewCapabilityDocument returns a document that supports nothing and
// places no limit on counts.
func NewCapabilityDocument(provider cloud.ProviderInfo) *CapabilityDocument {
	return &CapabilityDocument{
		Provider:       provider,
		AffinityGroups: AffinityGroupCapabilityDoc{MaximumCount: Unlimited},
		Snapshots:      SnapshotCapabilityDoc{MaximumCount: Unlimited},
		VMScaling:      NewVMScalingCapabilities(),
	}
}

// LoadCapabilityDocument decodes a YAML capability document. Omitted
// fields keep the NewCapabilityDocument defaults.
func LoadCapabilityDocument(r io.Reader) (*CapabilityDocument, error) {
	doc := NewCapabilityDocument(cloud.ProviderInfo{})
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(doc); err != nil {
		if err == io.EOF {
			return doc, nil
		}
		return nil, cloud.NewInternalError("load capability document", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadCapabilityDocumentFile reads a capability document from path.
func LoadCapabilityDocumentFile(path string) (*CapabilityDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capability document: %w", err)
	}
	defer f.Close()
	return LoadCapabilityDocument(f)
}

// Validate checks counts and requirement levels.
func (d *CapabilityDocument) Validate() error {
	if d.AffinityGroups.MaximumCount < Unlimited {
		return invalidOptions("capability document", "affinity_groups.maximum_count must be -1 or more")
	}
	if d.Snapshots.MaximumCount < Unlimited {
		return invalidOptions("capability document", "snapshots.maximum_count must be -1 or more")
	}
	if !d.AffinityGroups.DataCenterRequirement.IsValid() || !d.Snapshots.AttachmentRequirement.IsValid() {
		return invalidOptions("capability document", "unknown requirement level")
	}
	return d.VMScaling.Validate()
}

// Marshal encodes the document as YAML.
func (d *CapabilityDocument) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// AffinityGroupCapabilities exposes the affinity group section.
func (d *CapabilityDocument) AffinityGroupCapabilities() AffinityGroupCapabilities {
	return docAffinityGroups{d}
}

// SnapshotCapabilities exposes the snapshot section.
func (d *CapabilityDocument) SnapshotCapabilities() SnapshotCapabilities {
	return docSnapshots{d}
}

// VMScalingCapabilities returns the VM scaling section.
func (d *CapabilityDocument) VMScalingCapabilities(ctx context.Context) (VMScalingCapabilities, error) {
	if err := ctx.Err(); err != nil {
		return VMScalingCapabilities{}, err
	}
	return d.VMScaling, nil
}

type docAffinityGroups struct{ d *CapabilityDocument }

func (a docAffinityGroups) CanCreate(ctx context.Context) (bool, error) {
	return a.d.AffinityGroups.CanCreate, ctx.Err()
}

func (a docAffinityGroups) CanDelete(ctx context.Context) (bool, error) {
	return a.d.AffinityGroups.CanDelete, ctx.Err()
}

func (a docAffinityGroups) CanModify(ctx context.Context) (bool, error) {
	return a.d.AffinityGroups.CanModify, ctx.Err()
}

func (a docAffinityGroups) MaximumAffinityGroupCount(ctx context.Context) (int, error) {
	return a.d.AffinityGroups.MaximumCount, ctx.Err()
}

func (a docAffinityGroups) IdentifyDataCenterRequirement(ctx context.Context) (cloud.Requirement, error) {
	return a.d.AffinityGroups.DataCenterRequirement, ctx.Err()
}

func (a docAffinityGroups) ProviderTermForAffinityGroup(ctx context.Context, locale language.Tag) (string, error) {
	return a.d.AffinityGroups.Terms.Lookup(locale, defaultAffinityGroupTerm), ctx.Err()
}

type docSnapshots struct{ d *CapabilityDocument }

func (s docSnapshots) ProviderTermForSnapshot(ctx context.Context, locale language.Tag) (string, error) {
	return s.d.Snapshots.Terms.Lookup(locale, defaultSnapshotTerm), ctx.Err()
}

func (s docSnapshots) IdentifyAttachmentRequirement(ctx context.Context) (cloud.Requirement, error) {
	return s.d.Snapshots.AttachmentRequirement, ctx.Err()
}

func (s docSnapshots) SupportsSnapshotCopying(ctx context.Context) (bool, error) {
	return s.d.Snapshots.Copying, ctx.Err()
}

func (s docSnapshots) SupportsSnapshotCreation(ctx context.Context) (bool, error) {
	return s.d.Snapshots.Creation, ctx.Err()
}

func (s docSnapshots) SupportsSnapshotSharing(ctx context.Context) (bool, error) {
	return s.d.Snapshots.Sharing, ctx.Err()
}

func (s docSnapshots) SupportsSnapshotSharingWithPublic(ctx context.Context) (bool, error) {
	return s.d.Snapshots.SharingWithPublic, ctx.Err()
}

func (s docSnapshots) MaximumSnapshotCount(ctx context.Context) (int, error) {
	return s.d.Snapshots.MaximumCount, ctx.Err()
}
