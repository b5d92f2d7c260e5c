package compute

import (
	"fmt"
	"time"

	"github.com/greese/dasein-cloud-core-sub001/cloud"
)

// SnapshotState is the lifecycle state of a volume snapshot.
type SnapshotState string

const (
	SnapshotPending   SnapshotState = "PENDING"
	SnapshotAvailable SnapshotState = "AVAILABLE"
	SnapshotDeleted   SnapshotState = "DELETED"
	SnapshotError     SnapshotState = "ERROR"
)

// Snapshot is a point-in-time copy of a volume.
type Snapshot struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	State       SnapshotState `json:"state" yaml:"state"`
	OwnerID     string        `json:"owner_id" yaml:"owner_id"`
	RegionID    string        `json:"region_id" yaml:"region_id"`
	VolumeID    string        `json:"volume_id,omitempty" yaml:"volume_id,omitempty"`
	SizeGB      int           `json:"size_gb" yaml:"size_gb"`
	Progress    string        `json:"progress,omitempty" yaml:"progress,omitempty"`
	Public      bool          `json:"public" yaml:"public"`
	Created     time.Time     `json:"created" yaml:"created"`
	Tags        cloud.Tags    `json:"tags" yaml:"tags"`
}

// NewSnapshot creates a snapshot with an empty tag map.
func NewSnapshot(id, name string) *Snapshot {
	return &Snapshot{ID: id, Name: name, Tags: cloud.Tags{}}
}

func (s *Snapshot) SetTag(key, value string) {
	if s.Tags == nil {
		s.Tags = cloud.Tags{}
	}
	s.Tags[key] = value
}

func (s *Snapshot) Clone() *Snapshot {
	c := *s
	c.Tags = s.Tags.Clone()
	return &c
}

// SnapshotFilterOptions narrows snapshot listings. With no criteria set it
// matches every snapshot.
type SnapshotFilterOptions struct {
	matchesAny bool
	ownerID    string
	regex      *regexCriterion
	tags       cloud.Tags
}

func NewSnapshotFilterOptions() *SnapshotFilterOptions {
	return &SnapshotFilterOptions{}
}

func NewSnapshotFilterOptionsMatching(matchesAny bool) *SnapshotFilterOptions {
	return &SnapshotFilterOptions{matchesAny: matchesAny}
}

func (f *SnapshotFilterOptions) MatchingAny() *SnapshotFilterOptions {
	f.matchesAny = true
	return f
}

func (f *SnapshotFilterOptions) MatchingAll() *SnapshotFilterOptions {
	f.matchesAny = false
	return f
}

// WithAccountNumber restricts results to snapshots owned by ownerID.
func (f *SnapshotFilterOptions) WithAccountNumber(ownerID string) *SnapshotFilterOptions {
	f.ownerID = ownerID
	return f
}

func (f *SnapshotFilterOptions) MatchingRegex(pattern string) *SnapshotFilterOptions {
	f.regex = newRegexCriterion(pattern)
	return f
}

func (f *SnapshotFilterOptions) WithTags(tags cloud.Tags) *SnapshotFilterOptions {
	f.tags = copyTags(tags)
	return f
}

func (f *SnapshotFilterOptions) WithTag(key, value string) *SnapshotFilterOptions {
	f.tags = withTag(f.tags, key, value)
	return f
}

func (f *SnapshotFilterOptions) IsMatchesAny() bool    { return f.matchesAny }
func (f *SnapshotFilterOptions) AccountNumber() string { return f.ownerID }
func (f *SnapshotFilterOptions) Regex() string         { return f.regex.String() }
func (f *SnapshotFilterOptions) Tags() cloud.Tags      { return f.tags.Clone() }

func (f *SnapshotFilterOptions) HasCriteria() bool {
	return f.ownerID != "" || f.regex.isSet() || len(f.tags) > 0
}

func (f *SnapshotFilterOptions) MatchesWhenEmpty() bool { return true }

func (f *SnapshotFilterOptions) Validate() error {
	return f.regex.validate()
}

// Matches reports whether s satisfies the filter.
func (f *SnapshotFilterOptions) Matches(s *Snapshot) bool {
	if s == nil {
		return false
	}
	return combine(f.matchesAny, f.MatchesWhenEmpty(),
		check{f.ownerID != "", func() bool { return s.OwnerID == f.ownerID }},
		check{f.regex.isSet(), func() bool { return f.regex.matches(s.Name, s.Description, s.Tags) }},
		check{len(f.tags) > 0, func() bool { return s.Tags.ContainsAll(f.tags) }},
	)
}

func (f *SnapshotFilterOptions) String() string {
	return fmt.Sprintf("SnapshotFilterOptions{any=%t owner=%q regex=%q tags=%v}",
		f.matchesAny, f.ownerID, f.Regex(), f.tags)
}

func FilterSnapshots(seq cloud.Seq[*Snapshot], f *SnapshotFilterOptions) cloud.Seq[*Snapshot] {
	if f == nil {
		return seq
	}
	return cloud.Filter(seq, f.Matches)
}

// SnapshotCreateOptions describes a snapshot to take of a volume, or a
// copy of an existing snapshot from another region.
type SnapshotCreateOptions struct {
	Name             string
	Description      string
	VolumeID         string
	SourceSnapshotID string
	SourceRegionID   string
	Tags             cloud.Tags
}

// NewSnapshotCreateOptions snapshots volumeID.
func NewSnapshotCreateOptions(volumeID, name, description string) *SnapshotCreateOptions {
	return &SnapshotCreateOptions{
		Name:        name,
		Description: description,
		VolumeID:    volumeID,
		Tags:        cloud.Tags{},
	}
}

// NewSnapshotCopyOptions copies snapshotID from regionID.
func NewSnapshotCopyOptions(regionID, snapshotID, name, description string) *SnapshotCreateOptions {
	return &SnapshotCreateOptions{
		Name:             name,
		Description:      description,
		SourceSnapshotID: snapshotID,
		SourceRegionID:   regionID,
		Tags:             cloud.Tags{},
	}
}

func (o *SnapshotCreateOptions) WithTag(key, value string) *SnapshotCreateOptions {
	o.Tags = withTag(o.Tags, key, value)
	return o
}

// IsCopy reports whether the options describe a cross-region copy.
func (o *SnapshotCreateOptions) IsCopy() bool {
	return o.SourceSnapshotID != ""
}

func (o *SnapshotCreateOptions) Validate() error {
	if o.Name == "" {
		return invalidOptions("snapshot create", "name is required")
	}
	switch {
	case o.VolumeID == "" && o.SourceSnapshotID == "":
		return invalidOptions("snapshot create", "either a volume or a source snapshot is required")
	case o.VolumeID != "" && o.SourceSnapshotID != "":
		return invalidOptions("snapshot create", "volume and source snapshot are mutually exclusive")
	case o.SourceSnapshotID != "" && o.SourceRegionID == "":
		return invalidOptions("snapshot create", "source region is required for a copy")
	}
	return nil
}
