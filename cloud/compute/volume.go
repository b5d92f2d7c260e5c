package compute

import (
	"fmt"
	"time"

	"github.com/greese/dasein-cloud-core-sub001/cloud"
)

// VolumeState is the lifecycle state of a block volume.
type VolumeState string

const (
	VolumePending   VolumeState = "PENDING"
	VolumeAvailable VolumeState = "AVAILABLE"
	VolumeDeleting  VolumeState = "DELETING"
	VolumeDeleted   VolumeState = "DELETED"
	VolumeError     VolumeState = "ERROR"
)

// VolumeType is the storage medium backing a volume.
type VolumeType string

const (
	VolumeTypeSSD VolumeType = "SSD"
	VolumeTypeHDD VolumeType = "HDD"
)

// VolumeFormat describes how a volume is exposed to a virtual machine.
type VolumeFormat string

const (
	VolumeFormatBlock VolumeFormat = "BLOCK"
	VolumeFormatNFS   VolumeFormat = "NFS"
)

// Volume is a block storage volume.
type Volume struct {
	ID           string       `json:"id" yaml:"id"`
	Name         string       `json:"name" yaml:"name"`
	Description  string       `json:"description,omitempty" yaml:"description,omitempty"`
	State        VolumeState  `json:"state" yaml:"state"`
	SizeGB       int          `json:"size_gb" yaml:"size_gb"`
	Type         VolumeType   `json:"type,omitempty" yaml:"type,omitempty"`
	Format       VolumeFormat `json:"format,omitempty" yaml:"format,omitempty"`
	IOPS         int          `json:"iops,omitempty" yaml:"iops,omitempty"`
	AttachedTo   string       `json:"attached_to,omitempty" yaml:"attached_to,omitempty"` // owning VM ID
	DeviceID     string       `json:"device_id,omitempty" yaml:"device_id,omitempty"`
	RegionID     string       `json:"region_id" yaml:"region_id"`
	DataCenterID string       `json:"data_center_id,omitempty" yaml:"data_center_id,omitempty"`
	SnapshotID   string       `json:"snapshot_id,omitempty" yaml:"snapshot_id,omitempty"`
	Created      time.Time    `json:"created" yaml:"created"`
	Tags         cloud.Tags   `json:"tags" yaml:"tags"`
}

// NewVolume creates a volume with an empty tag map.
func NewVolume(id, name string) *Volume {
	return &Volume{ID: id, Name: name, Tags: cloud.Tags{}}
}

// IsAttached reports whether the volume is attached to a virtual machine.
func (v *Volume) IsAttached() bool {
	return v.AttachedTo != ""
}

// SetTag stores a tag, allocating the map for decoded values.
func (v *Volume) SetTag(key, value string) {
	if v.Tags == nil {
		v.Tags = cloud.Tags{}
	}
	v.Tags[key] = value
}

// Clone returns an independent copy.
func (v *Volume) Clone() *Volume {
	c := *v
	c.Tags = v.Tags.Clone()
	return &c
}

// VolumeFilterOptions narrows volume listings. With no criteria set it
// matches every volume.
type VolumeFilterOptions struct {
	matchesAny   bool
	attachedTo   string
	dataCenterID string
	regex        *regexCriterion
	states       []VolumeState
	tags         cloud.Tags
}

// NewVolumeFilterOptions returns a filter with no criteria in ALL mode.
func NewVolumeFilterOptions() *VolumeFilterOptions {
	return &VolumeFilterOptions{}
}

// NewVolumeFilterOptionsMatching returns a filter with no criteria in ANY
// mode when matchesAny is true.
func NewVolumeFilterOptionsMatching(matchesAny bool) *VolumeFilterOptions {
	return &VolumeFilterOptions{matchesAny: matchesAny}
}

func (f *VolumeFilterOptions) MatchingAny() *VolumeFilterOptions {
	f.matchesAny = true
	return f
}

func (f *VolumeFilterOptions) MatchingAll() *VolumeFilterOptions {
	f.matchesAny = false
	return f
}

// AttachedTo restricts results to volumes attached to the given VM.
func (f *VolumeFilterOptions) AttachedTo(vmID string) *VolumeFilterOptions {
	f.attachedTo = vmID
	return f
}

func (f *VolumeFilterOptions) InDataCenter(dataCenterID string) *VolumeFilterOptions {
	f.dataCenterID = dataCenterID
	return f
}

// MatchingRegex sets a whole-string pattern checked against name,
// description and tag values.
func (f *VolumeFilterOptions) MatchingRegex(pattern string) *VolumeFilterOptions {
	f.regex = newRegexCriterion(pattern)
	return f
}

func (f *VolumeFilterOptions) WithStates(states ...VolumeState) *VolumeFilterOptions {
	f.states = append([]VolumeState(nil), states...)
	return f
}

func (f *VolumeFilterOptions) WithTags(tags cloud.Tags) *VolumeFilterOptions {
	f.tags = copyTags(tags)
	return f
}

func (f *VolumeFilterOptions) WithTag(key, value string) *VolumeFilterOptions {
	f.tags = withTag(f.tags, key, value)
	return f
}

func (f *VolumeFilterOptions) IsMatchesAny() bool   { return f.matchesAny }
func (f *VolumeFilterOptions) AttachedToID() string { return f.attachedTo }
func (f *VolumeFilterOptions) DataCenterID() string { return f.dataCenterID }
func (f *VolumeFilterOptions) Regex() string        { return f.regex.String() }
func (f *VolumeFilterOptions) Tags() cloud.Tags     { return f.tags.Clone() }

func (f *VolumeFilterOptions) States() []VolumeState {
	return append([]VolumeState(nil), f.states...)
}

// HasCriteria reports whether at least one criterion is set.
func (f *VolumeFilterOptions) HasCriteria() bool {
	return f.attachedTo != "" || f.dataCenterID != "" || f.regex.isSet() ||
		len(f.states) > 0 || len(f.tags) > 0
}

// MatchesWhenEmpty is the result of Matches for a filter with no criteria.
func (f *VolumeFilterOptions) MatchesWhenEmpty() bool { return true }

// Validate reports malformed criteria such as an uncompilable regex.
func (f *VolumeFilterOptions) Validate() error {
	return f.regex.validate()
}

// Matches reports whether v satisfies the filter.
func (f *VolumeFilterOptions) Matches(v *Volume) bool {
	if v == nil {
		return false
	}
	return combine(f.matchesAny, f.MatchesWhenEmpty(),
		check{f.attachedTo != "", func() bool { return v.AttachedTo == f.attachedTo }},
		check{f.dataCenterID != "", func() bool { return v.DataCenterID == f.dataCenterID }},
		check{f.regex.isSet(), func() bool { return f.regex.matches(v.Name, v.Description, v.Tags) }},
		check{len(f.states) > 0, func() bool { return containsVolumeState(f.states, v.State) }},
		check{len(f.tags) > 0, func() bool { return v.Tags.ContainsAll(f.tags) }},
	)
}

func (f *VolumeFilterOptions) String() string {
	return fmt.Sprintf("VolumeFilterOptions{any=%t attachedTo=%q dc=%q regex=%q states=%v tags=%v}",
		f.matchesAny, f.attachedTo, f.dataCenterID, f.Regex(), f.states, f.tags)
}

func containsVolumeState(states []VolumeState, s VolumeState) bool {
	for _, st := range states {
		if st == s {
			return true
		}
	}
	return false
}

// FilterVolumes narrows seq client-side. A nil filter passes everything.
func FilterVolumes(seq cloud.Seq[*Volume], f *VolumeFilterOptions) cloud.Seq[*Volume] {
	if f == nil {
		return seq
	}
	return cloud.Filter(seq, f.Matches)
}

// VolumeCreateOptions describes a volume to create.
type VolumeCreateOptions struct {
	Name         string
	Description  string
	SizeGB       int
	Type         VolumeType
	Format       VolumeFormat
	IOPS         int
	DataCenterID string
	SnapshotID   string
	AttachTo     string
	DeviceID     string
	Tags         cloud.Tags
}

// NewVolumeCreateOptions creates options for an empty volume of sizeGB.
func NewVolumeCreateOptions(name, description string, sizeGB int) *VolumeCreateOptions {
	return &VolumeCreateOptions{
		Name:        name,
		Description: description,
		SizeGB:      sizeGB,
		Format:      VolumeFormatBlock,
		Tags:        cloud.Tags{},
	}
}

// NewVolumeCreateOptionsFromSnapshot creates options for a volume cloned
// from a snapshot.
func NewVolumeCreateOptionsFromSnapshot(snapshotID, name, description string, sizeGB int) *VolumeCreateOptions {
	o := NewVolumeCreateOptions(name, description, sizeGB)
	o.SnapshotID = snapshotID
	return o
}

func (o *VolumeCreateOptions) InDataCenter(dataCenterID string) *VolumeCreateOptions {
	o.DataCenterID = dataCenterID
	return o
}

func (o *VolumeCreateOptions) WithType(t VolumeType) *VolumeCreateOptions {
	o.Type = t
	return o
}

func (o *VolumeCreateOptions) WithIOPS(iops int) *VolumeCreateOptions {
	o.IOPS = iops
	return o
}

// WithAttachment attaches the new volume to vmID at deviceID once created.
func (o *VolumeCreateOptions) WithAttachment(vmID, deviceID string) *VolumeCreateOptions {
	o.AttachTo = vmID
	o.DeviceID = deviceID
	return o
}

func (o *VolumeCreateOptions) WithTag(key, value string) *VolumeCreateOptions {
	o.Tags = withTag(o.Tags, key, value)
	return o
}

func (o *VolumeCreateOptions) Validate() error {
	if o.Name == "" {
		return invalidOptions("volume create", "name is required")
	}
	if o.SizeGB < 0 {
		return invalidOptions("volume create", "size must not be negative")
	}
	if o.SizeGB == 0 && o.SnapshotID == "" {
		return invalidOptions("volume create", "size is required unless created from a snapshot")
	}
	if o.IOPS < 0 {
		return invalidOptions("volume create", "iops must not be negative")
	}
	return nil
}

func invalidOptions(op, msg string) error {
	return cloud.NewInternalError(op, fmt.Errorf("%w: %s", cloud.ErrInvalidOptions, msg))
}
