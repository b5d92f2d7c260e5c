package compute

import (
	"fmt"
	"time"

	"github.com/greese/dasein-cloud-core-sub001/cloud"
)

// VmState is the lifecycle state of a virtual machine.
type VmState string

const (
	VmPending    VmState = "PENDING"
	VmRunning    VmState = "RUNNING"
	VmRebooting  VmState = "REBOOTING"
	VmStopping   VmState = "STOPPING"
	VmStopped    VmState = "STOPPED"
	VmSuspending VmState = "SUSPENDING"
	VmSuspended  VmState = "SUSPENDED"
	VmPausing    VmState = "PAUSING"
	VmPaused     VmState = "PAUSED"
	VmTerminated VmState = "TERMINATED"
	VmError      VmState = "ERROR"
)

// IsTerminal reports whether no further transition is possible.
func (s VmState) IsTerminal() bool {
	return s == VmTerminated
}

// VirtualMachine is a snapshot of a remote server's state.
type VirtualMachine struct {
	ID              string       `json:"id" yaml:"id"`
	Name            string       `json:"name" yaml:"name"`
	Description     string       `json:"description,omitempty" yaml:"description,omitempty"`
	State           VmState      `json:"state" yaml:"state"`
	RegionID        string       `json:"region_id" yaml:"region_id"`
	DataCenterID    string       `json:"data_center_id,omitempty" yaml:"data_center_id,omitempty"`
	ProductID       string       `json:"product_id" yaml:"product_id"`
	MachineImageID  string       `json:"machine_image_id,omitempty" yaml:"machine_image_id,omitempty"`
	Architecture    Architecture `json:"architecture,omitempty" yaml:"architecture,omitempty"`
	Platform        Platform     `json:"platform,omitempty" yaml:"platform,omitempty"`
	AffinityGroupID string       `json:"affinity_group_id,omitempty" yaml:"affinity_group_id,omitempty"`
	SpotRequestID   string       `json:"spot_request_id,omitempty" yaml:"spot_request_id,omitempty"`
	PublicIPs       []string     `json:"public_ips,omitempty" yaml:"public_ips,omitempty"`
	PrivateIPs      []string     `json:"private_ips,omitempty" yaml:"private_ips,omitempty"`
	Created         time.Time    `json:"created" yaml:"created"`
	Tags            cloud.Tags   `json:"tags" yaml:"tags"`
}

// NewVirtualMachine creates a VM with an empty tag map.
func NewVirtualMachine(id, name string) *VirtualMachine {
	return &VirtualMachine{ID: id, Name: name, Tags: cloud.Tags{}}
}

func (vm *VirtualMachine) SetTag(key, value string) {
	if vm.Tags == nil {
		vm.Tags = cloud.Tags{}
	}
	vm.Tags[key] = value
}

func (vm *VirtualMachine) Clone() *VirtualMachine {
	c := *vm
	c.Tags = vm.Tags.Clone()
	c.PublicIPs = append([]string(nil), vm.PublicIPs...)
	c.PrivateIPs = append([]string(nil), vm.PrivateIPs...)
	return &c
}

// VmStatus is a health check outcome reported for a VM or its host.
type VmStatus string

const (
	VmStatusOK               VmStatus = "OK"
	VmStatusImpaired         VmStatus = "IMPAIRED"
	VmStatusInsufficientData VmStatus = "INSUFFICIENT_DATA"
	VmStatusNotApplicable    VmStatus = "NOT_APPLICABLE"
)

// ParseVmStatus parses a status name, returning false if unknown.
func ParseVmStatus(s string) (VmStatus, bool) {
	switch v := VmStatus(s); v {
	case VmStatusOK, VmStatusImpaired, VmStatusInsufficientData, VmStatusNotApplicable:
		return v, true
	default:
		return "", false
	}
}

// VirtualMachineStatus pairs the host-level and VM-level health of a VM.
type VirtualMachineStatus struct {
	VirtualMachineID string   `json:"virtual_machine_id" yaml:"virtual_machine_id"`
	HostStatus       VmStatus `json:"host_status" yaml:"host_status"`
	VmStatus         VmStatus `json:"vm_status" yaml:"vm_status"`
}

// VMFilterOptions narrows virtual machine listings. With no criteria set it
// matches every VM.
type VMFilterOptions struct {
	matchesAny      bool
	affinityGroupID string
	dataCenterIDs   []string
	productIDs      []string
	regex           *regexCriterion
	states          []VmState
	tags            cloud.Tags
}

func NewVMFilterOptions() *VMFilterOptions {
	return &VMFilterOptions{}
}

func NewVMFilterOptionsMatching(matchesAny bool) *VMFilterOptions {
	return &VMFilterOptions{matchesAny: matchesAny}
}

func (f *VMFilterOptions) MatchingAny() *VMFilterOptions {
	f.matchesAny = true
	return f
}

func (f *VMFilterOptions) MatchingAll() *VMFilterOptions {
	f.matchesAny = false
	return f
}

func (f *VMFilterOptions) InAffinityGroup(id string) *VMFilterOptions {
	f.affinityGroupID = id
	return f
}

func (f *VMFilterOptions) WithDataCenterIDs(ids ...string) *VMFilterOptions {
	f.dataCenterIDs = append([]string(nil), ids...)
	return f
}

func (f *VMFilterOptions) WithProductIDs(ids ...string) *VMFilterOptions {
	f.productIDs = append([]string(nil), ids...)
	return f
}

func (f *VMFilterOptions) MatchingRegex(pattern string) *VMFilterOptions {
	f.regex = newRegexCriterion(pattern)
	return f
}

func (f *VMFilterOptions) WithVMStates(states ...VmState) *VMFilterOptions {
	f.states = append([]VmState(nil), states...)
	return f
}

func (f *VMFilterOptions) WithTags(tags cloud.Tags) *VMFilterOptions {
	f.tags = copyTags(tags)
	return f
}

func (f *VMFilterOptions) WithTag(key, value string) *VMFilterOptions {
	f.tags = withTag(f.tags, key, value)
	return f
}

func (f *VMFilterOptions) IsMatchesAny() bool      { return f.matchesAny }
func (f *VMFilterOptions) AffinityGroupID() string { return f.affinityGroupID }
func (f *VMFilterOptions) DataCenterIDs() []string { return append([]string(nil), f.dataCenterIDs...) }
func (f *VMFilterOptions) ProductIDs() []string    { return append([]string(nil), f.productIDs...) }
func (f *VMFilterOptions) Regex() string           { return f.regex.String() }
func (f *VMFilterOptions) VMStates() []VmState     { return append([]VmState(nil), f.states...) }
func (f *VMFilterOptions) Tags() cloud.Tags        { return f.tags.Clone() }
func (f *VMFilterOptions) MatchesWhenEmpty() bool  { return true }
func (f *VMFilterOptions) Validate() error         { return f.regex.validate() }

func (f *VMFilterOptions) HasCriteria() bool {
	return f.affinityGroupID != "" || len(f.dataCenterIDs) > 0 || len(f.productIDs) > 0 ||
		f.regex.isSet() || len(f.states) > 0 || len(f.tags) > 0
}

// Matches reports whether vm satisfies the filter.
func (f *VMFilterOptions) Matches(vm *VirtualMachine) bool {
	if vm == nil {
		return false
	}
	return combine(f.matchesAny, f.MatchesWhenEmpty(),
		check{f.affinityGroupID != "", func() bool { return vm.AffinityGroupID == f.affinityGroupID }},
		check{len(f.dataCenterIDs) > 0, func() bool { return containsString(f.dataCenterIDs, vm.DataCenterID) }},
		check{len(f.productIDs) > 0, func() bool { return containsString(f.productIDs, vm.ProductID) }},
		check{f.regex.isSet(), func() bool { return f.regex.matches(vm.Name, vm.Description, vm.Tags) }},
		check{len(f.states) > 0, func() bool { return containsVmState(f.states, vm.State) }},
		check{len(f.tags) > 0, func() bool { return vm.Tags.ContainsAll(f.tags) }},
	)
}

func (f *VMFilterOptions) String() string {
	return fmt.Sprintf("VMFilterOptions{any=%t affinity=%q dcs=%v products=%v regex=%q states=%v tags=%v}",
		f.matchesAny, f.affinityGroupID, f.dataCenterIDs, f.productIDs, f.Regex(), f.states, f.tags)
}

func containsVmState(states []VmState, s VmState) bool {
	for _, st := range states {
		if st == s {
			return true
		}
	}
	return false
}

func FilterVirtualMachines(seq cloud.Seq[*VirtualMachine], f *VMFilterOptions) cloud.Seq[*VirtualMachine] {
	if f == nil {
		return seq
	}
	return cloud.Filter(seq, f.Matches)
}

// VmStatusFilterOptions narrows VM status listings. Unlike the other VM
// filters, a status filter with no criteria matches nothing.
type VmStatusFilterOptions struct {
	matchesAny bool
	statuses   []VmStatus
	vmIDs      []string
}

func NewVmStatusFilterOptions() *VmStatusFilterOptions {
	return &VmStatusFilterOptions{}
}

func NewVmStatusFilterOptionsMatching(matchesAny bool) *VmStatusFilterOptions {
	return &VmStatusFilterOptions{matchesAny: matchesAny}
}

func (f *VmStatusFilterOptions) MatchingAny() *VmStatusFilterOptions {
	f.matchesAny = true
	return f
}

func (f *VmStatusFilterOptions) MatchingAll() *VmStatusFilterOptions {
	f.matchesAny = false
	return f
}

// WithVmStatuses matches a status whose host status or VM status is in
// the set.
func (f *VmStatusFilterOptions) WithVmStatuses(statuses ...VmStatus) *VmStatusFilterOptions {
	f.statuses = append([]VmStatus(nil), statuses...)
	return f
}

func (f *VmStatusFilterOptions) WithVmIDs(ids ...string) *VmStatusFilterOptions {
	f.vmIDs = append([]string(nil), ids...)
	return f
}

func (f *VmStatusFilterOptions) IsMatchesAny() bool     { return f.matchesAny }
func (f *VmStatusFilterOptions) VmStatuses() []VmStatus { return append([]VmStatus(nil), f.statuses...) }
func (f *VmStatusFilterOptions) VmIDs() []string        { return append([]string(nil), f.vmIDs...) }
func (f *VmStatusFilterOptions) MatchesWhenEmpty() bool { return false }

func (f *VmStatusFilterOptions) HasCriteria() bool {
	return len(f.statuses) > 0 || len(f.vmIDs) > 0
}

// Matches reports whether s satisfies the filter.
func (f *VmStatusFilterOptions) Matches(s VirtualMachineStatus) bool {
	return combine(f.matchesAny, f.MatchesWhenEmpty(),
		check{len(f.statuses) > 0, func() bool {
			return containsVmStatus(f.statuses, s.HostStatus) || containsVmStatus(f.statuses, s.VmStatus)
		}},
		check{len(f.vmIDs) > 0, func() bool { return containsString(f.vmIDs, s.VirtualMachineID) }},
	)
}

func (f *VmStatusFilterOptions) String() string {
	return fmt.Sprintf("VmStatusFilterOptions{any=%t statuses=%v vms=%v}", f.matchesAny, f.statuses, f.vmIDs)
}

func containsVmStatus(statuses []VmStatus, s VmStatus) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

func FilterVmStatuses(seq cloud.Seq[VirtualMachineStatus], f *VmStatusFilterOptions) cloud.Seq[VirtualMachineStatus] {
	if f == nil {
		return seq
	}
	return cloud.Filter(seq, f.Matches)
}

// VMLaunchOptions describes a virtual machine to launch.
type VMLaunchOptions struct {
	ProductID       string
	MachineImageID  string
	HostName        string
	FriendlyName    string
	Description     string
	DataCenterID    string
	AffinityGroupID string
	UserData        string
	Volumes         []*VolumeCreateOptions
	Tags            cloud.Tags
}

func NewVMLaunchOptions(productID, imageID, hostName, friendlyName, description string) *VMLaunchOptions {
	return &VMLaunchOptions{
		ProductID:      productID,
		MachineImageID: imageID,
		HostName:       hostName,
		FriendlyName:   friendlyName,
		Description:    description,
		Tags:           cloud.Tags{},
	}
}

func (o *VMLaunchOptions) InDataCenter(dataCenterID string) *VMLaunchOptions {
	o.DataCenterID = dataCenterID
	return o
}

func (o *VMLaunchOptions) InAffinityGroup(id string) *VMLaunchOptions {
	o.AffinityGroupID = id
	return o
}

func (o *VMLaunchOptions) WithUserData(data string) *VMLaunchOptions {
	o.UserData = data
	return o
}

func (o *VMLaunchOptions) WithAttachments(volumes ...*VolumeCreateOptions) *VMLaunchOptions {
	o.Volumes = append(o.Volumes, volumes...)
	return o
}

func (o *VMLaunchOptions) WithTag(key, value string) *VMLaunchOptions {
	o.Tags = withTag(o.Tags, key, value)
	return o
}

func (o *VMLaunchOptions) Validate() error {
	if o.ProductID == "" {
		return invalidOptions("vm launch", "product is required")
	}
	if o.MachineImageID == "" {
		return invalidOptions("vm launch", "machine image is required")
	}
	if o.HostName == "" {
		return invalidOptions("vm launch", "host name is required")
	}
	for _, v := range o.Volumes {
		if v == nil {
			return invalidOptions("vm launch", "nil volume")
		}
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// VMScalingOptions describes a vertical scaling change of an existing VM.
type VMScalingOptions struct {
	ProductID string
	Volumes   []*VolumeCreateOptions
}

// NewVMScalingOptions resizes a VM to productID.
func NewVMScalingOptions(productID string) *VMScalingOptions {
	return &VMScalingOptions{ProductID: productID}
}

// WithVolumes adds volumes to create and attach while altering the VM.
func (o *VMScalingOptions) WithVolumes(volumes ...*VolumeCreateOptions) *VMScalingOptions {
	o.Volumes = append(o.Volumes, volumes...)
	return o
}

func (o *VMScalingOptions) Validate() error {
	if o.ProductID == "" && len(o.Volumes) == 0 {
		return invalidOptions("vm alter", "nothing to change")
	}
	for _, v := range o.Volumes {
		if v == nil {
			return invalidOptions("vm alter", "nil volume")
		}
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}
