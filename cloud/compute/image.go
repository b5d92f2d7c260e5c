package compute

import (
	"fmt"
	"time"

	"github.com/greese/dasein-cloud-core-sub001/cloud"
)

// MachineImageState is the lifecycle state of a machine image.
type MachineImageState string

const (
	ImagePending MachineImageState = "PENDING"
	ImageActive  MachineImageState = "ACTIVE"
	ImageDeleted MachineImageState = "DELETED"
	ImageError   MachineImageState = "ERROR"
)

// ImageClass distinguishes bootable machine images from kernel and
// ramdisk images.
type ImageClass string

const (
	ImageClassMachine ImageClass = "MACHINE"
	ImageClassKernel  ImageClass = "KERNEL"
	ImageClassRamdisk ImageClass = "RAMDISK"
)

// Architecture is a CPU architecture.
type Architecture string

const (
	ArchI386   Architecture = "I32"
	ArchX86_64 Architecture = "I64"
	ArchARM64  Architecture = "ARM64"
)

// Platform is the operating system family of an image or VM.
type Platform string

const (
	PlatformUnix    Platform = "UNIX"
	PlatformLinux   Platform = "LINUX"
	PlatformUbuntu  Platform = "UBUNTU"
	PlatformDebian  Platform = "DEBIAN"
	PlatformRHEL    Platform = "RHEL"
	PlatformWindows Platform = "WINDOWS"
	PlatformUnknown Platform = "UNKNOWN"
)

// IsWindows reports whether the platform is a Windows flavour.
func (p Platform) IsWindows() bool {
	return p == PlatformWindows
}

// MachineImage is a template from which virtual machines are launched.
type MachineImage struct {
	ID           string            `json:"id" yaml:"id"`
	Name         string            `json:"name" yaml:"name"`
	Description  string            `json:"description,omitempty" yaml:"description,omitempty"`
	State        MachineImageState `json:"state" yaml:"state"`
	OwnerID      string            `json:"owner_id" yaml:"owner_id"`
	RegionID     string            `json:"region_id" yaml:"region_id"`
	Architecture Architecture      `json:"architecture" yaml:"architecture"`
	Platform     Platform          `json:"platform" yaml:"platform"`
	ImageClass   ImageClass        `json:"image_class" yaml:"image_class"`
	Public       bool              `json:"public" yaml:"public"`
	Created      time.Time         `json:"created" yaml:"created"`
	Tags         cloud.Tags        `json:"tags" yaml:"tags"`
}

// NewMachineImage creates a machine-class image with an empty tag map.
func NewMachineImage(id, name string) *MachineImage {
	return &MachineImage{ID: id, Name: name, ImageClass: ImageClassMachine, Tags: cloud.Tags{}}
}

func (m *MachineImage) SetTag(key, value string) {
	if m.Tags == nil {
		m.Tags = cloud.Tags{}
	}
	m.Tags[key] = value
}

func (m *MachineImage) Clone() *MachineImage {
	c := *m
	c.Tags = m.Tags.Clone()
	return &c
}

// MachineImageFilterOptions narrows image listings and public image
// searches. With no criteria set it matches every image.
type MachineImageFilterOptions struct {
	matchesAny   bool
	ownerID      string
	architecture Architecture
	platform     Platform
	imageClass   ImageClass
	regex        *regexCriterion
	tags         cloud.Tags
}

func NewMachineImageFilterOptions() *MachineImageFilterOptions {
	return &MachineImageFilterOptions{}
}

func NewMachineImageFilterOptionsMatching(matchesAny bool) *MachineImageFilterOptions {
	return &MachineImageFilterOptions{matchesAny: matchesAny}
}

func (f *MachineImageFilterOptions) MatchingAny() *MachineImageFilterOptions {
	f.matchesAny = true
	return f
}

func (f *MachineImageFilterOptions) MatchingAll() *MachineImageFilterOptions {
	f.matchesAny = false
	return f
}

func (f *MachineImageFilterOptions) WithAccountNumber(ownerID string) *MachineImageFilterOptions {
	f.ownerID = ownerID
	return f
}

func (f *MachineImageFilterOptions) WithArchitecture(a Architecture) *MachineImageFilterOptions {
	f.architecture = a
	return f
}

func (f *MachineImageFilterOptions) OnPlatform(p Platform) *MachineImageFilterOptions {
	f.platform = p
	return f
}

func (f *MachineImageFilterOptions) WithImageClass(c ImageClass) *MachineImageFilterOptions {
	f.imageClass = c
	return f
}

func (f *MachineImageFilterOptions) MatchingRegex(pattern string) *MachineImageFilterOptions {
	f.regex = newRegexCriterion(pattern)
	return f
}

func (f *MachineImageFilterOptions) WithTags(tags cloud.Tags) *MachineImageFilterOptions {
	f.tags = copyTags(tags)
	return f
}

func (f *MachineImageFilterOptions) WithTag(key, value string) *MachineImageFilterOptions {
	f.tags = withTag(f.tags, key, value)
	return f
}

func (f *MachineImageFilterOptions) IsMatchesAny() bool         { return f.matchesAny }
func (f *MachineImageFilterOptions) AccountNumber() string      { return f.ownerID }
func (f *MachineImageFilterOptions) Architecture() Architecture { return f.architecture }
func (f *MachineImageFilterOptions) Platform() Platform         { return f.platform }
func (f *MachineImageFilterOptions) ImageClass() ImageClass     { return f.imageClass }
func (f *MachineImageFilterOptions) Regex() string              { return f.regex.String() }
func (f *MachineImageFilterOptions) Tags() cloud.Tags           { return f.tags.Clone() }
func (f *MachineImageFilterOptions) MatchesWhenEmpty() bool     { return true }
func (f *MachineImageFilterOptions) Validate() error            { return f.regex.validate() }

func (f *MachineImageFilterOptions) HasCriteria() bool {
	return f.ownerID != "" || f.architecture != "" || f.platform != "" ||
		f.imageClass != "" || f.regex.isSet() || len(f.tags) > 0
}

// Matches reports whether m satisfies the filter.
func (f *MachineImageFilterOptions) Matches(m *MachineImage) bool {
	if m == nil {
		return false
	}
	return combine(f.matchesAny, f.MatchesWhenEmpty(),
		check{f.ownerID != "", func() bool { return m.OwnerID == f.ownerID }},
		check{f.architecture != "", func() bool { return m.Architecture == f.architecture }},
		check{f.platform != "", func() bool { return m.Platform == f.platform }},
		check{f.imageClass != "", func() bool { return m.ImageClass == f.imageClass }},
		check{f.regex.isSet(), func() bool { return f.regex.matches(m.Name, m.Description, m.Tags) }},
		check{len(f.tags) > 0, func() bool { return m.Tags.ContainsAll(f.tags) }},
	)
}

func (f *MachineImageFilterOptions) String() string {
	return fmt.Sprintf("MachineImageFilterOptions{any=%t owner=%q arch=%q platform=%q class=%q regex=%q tags=%v}",
		f.matchesAny, f.ownerID, f.architecture, f.platform, f.imageClass, f.Regex(), f.tags)
}

func FilterMachineImages(seq cloud.Seq[*MachineImage], f *MachineImageFilterOptions) cloud.Seq[*MachineImage] {
	if f == nil {
		return seq
	}
	return cloud.Filter(seq, f.Matches)
}

// ImageCreateOptions describes an image captured from a virtual machine.
type ImageCreateOptions struct {
	VirtualMachineID string
	Name             string
	Description      string
	Reboot           bool
	Tags             cloud.Tags
}

func NewImageCreateOptions(vmID, name, description string) *ImageCreateOptions {
	return &ImageCreateOptions{
		VirtualMachineID: vmID,
		Name:             name,
		Description:      description,
		Tags:             cloud.Tags{},
	}
}

// WithReboot allows the provider to reboot the source VM for a consistent
// capture.
func (o *ImageCreateOptions) WithReboot() *ImageCreateOptions {
	o.Reboot = true
	return o
}

func (o *ImageCreateOptions) WithTag(key, value string) *ImageCreateOptions {
	o.Tags = withTag(o.Tags, key, value)
	return o
}

func (o *ImageCreateOptions) Validate() error {
	if o.VirtualMachineID == "" {
		return invalidOptions("image capture", "virtual machine is required")
	}
	if o.Name == "" {
		return invalidOptions("image capture", "name is required")
	}
	return nil
}
