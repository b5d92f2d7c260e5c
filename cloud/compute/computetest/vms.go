package computetest

import (
	"context"
	"fmt"
	"sort"

	"github.com/greese/dasein-cloud-core-sub001/cloud"
	"github.com/greese/dasein-cloud-core-sub001/cloud/compute"
)

// VirtualMachines is the in-memory VirtualMachineSupport.
type VirtualMachines struct {
	compute.UnimplementedVirtualMachineSupport
	p *Provider
}

func (s *VirtualMachines) Launch(ctx context.Context, opts *compute.VMLaunchOptions) (*compute.VirtualMachine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	s.p.mu.Lock()
	defer s.p.mu.Unlock()

	img, ok := s.p.images[opts.MachineImageID]
	if !ok {
		return nil, notFound("machine image", opts.MachineImageID)
	}
	vm := compute.NewVirtualMachine(s.p.nextID("vm"), opts.FriendlyName)
	vm.Description = opts.Description
	vm.State = compute.VmRunning
	vm.RegionID = s.p.Info.RegionID
	vm.DataCenterID = opts.DataCenterID
	vm.ProductID = opts.ProductID
	vm.MachineImageID = img.ID
	vm.Architecture = img.Architecture
	vm.Platform = img.Platform
	vm.AffinityGroupID = opts.AffinityGroupID
	vm.Created = s.p.now()
	vm.Tags = opts.Tags.Clone()
	s.p.vms[vm.ID] = vm

	for _, vo := range opts.Volumes {
		vol := compute.NewVolume(s.p.nextID("vol"), vo.Name)
		vol.State = compute.VolumeAvailable
		vol.SizeGB = vo.SizeGB
		vol.DataCenterID = vm.DataCenterID
		vol.RegionID = vm.RegionID
		vol.AttachedTo = vm.ID
		vol.DeviceID = vo.DeviceID
		vol.Created = vm.Created
		vol.Tags = vo.Tags.Clone()
		s.p.volumes[vol.ID] = vol
	}
	s.p.statuses[vm.ID] = compute.VirtualMachineStatus{
		VirtualMachineID: vm.ID,
		HostStatus:       compute.VmStatusOK,
		VmStatus:         compute.VmStatusInsufficientData,
	}
	return vm.Clone(), nil
}

func (s *VirtualMachines) Get(ctx context.Context, vmID string) (*compute.VirtualMachine, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	vm, ok := s.p.vms[vmID]
	if !ok {
		return nil, notFound("virtual machine", vmID)
	}
	return vm.Clone(), nil
}

func (s *VirtualMachines) List(ctx context.Context, filter *compute.VMFilterOptions) cloud.Seq[*compute.VirtualMachine] {
	if filter != nil {
		if err := filter.Validate(); err != nil {
			return cloud.Failed[*compute.VirtualMachine](err)
		}
	}
	s.p.mu.Lock()
	items := sortedValues(s.p.vms, (*compute.VirtualMachine).Clone)
	s.p.mu.Unlock()
	return compute.FilterVirtualMachines(cloud.FromSlice(items), filter)
}

// transition moves a VM from one of the allowed states to next.
func (s *VirtualMachines) transition(op, vmID string, next compute.VmState, allowed ...compute.VmState) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	vm, ok := s.p.vms[vmID]
	if !ok {
		return notFound("virtual machine", vmID)
	}
	for _, a := range allowed {
		if vm.State == a {
			vm.State = next
			return nil
		}
	}
	return cloud.NewProviderError(s.p.Info.DisplayName(), op, "IncorrectInstanceState",
		fmt.Errorf("virtual machine %s is %s", vmID, vm.State))
}

func (s *VirtualMachines) Start(ctx context.Context, vmID string) error {
	return s.transition("start", vmID, compute.VmRunning, compute.VmStopped, compute.VmRunning)
}

func (s *VirtualMachines) Stop(ctx context.Context, vmID string, force bool) error {
	if force {
		return s.transition("stop", vmID, compute.VmStopped,
			compute.VmRunning, compute.VmStopped, compute.VmPending, compute.VmRebooting, compute.VmError)
	}
	return s.transition("stop", vmID, compute.VmStopped, compute.VmRunning, compute.VmStopped)
}

func (s *VirtualMachines) Reboot(ctx context.Context, vmID string) error {
	return s.transition("reboot", vmID, compute.VmRunning, compute.VmRunning)
}

func (s *VirtualMachines) Terminate(ctx context.Context, vmID, explanation string) error {
	if err := s.transition("terminate", vmID, compute.VmTerminated,
		compute.VmRunning, compute.VmStopped, compute.VmPending, compute.VmError); err != nil {
		return err
	}
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	for _, vol := range s.p.volumes {
		if vol.AttachedTo == vmID {
			vol.AttachedTo = ""
			vol.DeviceID = ""
		}
	}
	delete(s.p.statuses, vmID)
	return nil
}

// Alter changes the product of a stopped VM and creates any new volumes.
func (s *VirtualMachines) Alter(ctx context.Context, vmID string, opts *compute.VMScalingOptions) (*compute.VirtualMachine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	vm, ok := s.p.vms[vmID]
	if !ok {
		return nil, notFound("virtual machine", vmID)
	}
	caps := s.p.capabilities.VMScaling
	if opts.ProductID != "" && opts.ProductID != vm.ProductID {
		if !caps.SupportsProductChange {
			return nil, cloud.NewOperationNotSupportedError(s.p.Info.DisplayName(), "VirtualMachine products", "changed")
		}
		if vm.State != compute.VmStopped {
			return nil, cloud.NewProviderError(s.p.Info.DisplayName(), "alter", "IncorrectInstanceState",
				fmt.Errorf("virtual machine %s must be stopped to change product", vmID))
		}
		vm.ProductID = opts.ProductID
	}
	if len(opts.Volumes) > 0 && caps.AlterVmForNewVolume == cloud.RequirementRequired && vm.State != compute.VmStopped {
		return nil, cloud.NewProviderError(s.p.Info.DisplayName(), "alter", "IncorrectInstanceState",
			fmt.Errorf("virtual machine %s must be stopped to add volumes", vmID))
	}
	for _, vo := range opts.Volumes {
		vol := compute.NewVolume(s.p.nextID("vol"), vo.Name)
		vol.State = compute.VolumeAvailable
		vol.SizeGB = vo.SizeGB
		vol.DataCenterID = vm.DataCenterID
		vol.RegionID = vm.RegionID
		vol.AttachedTo = vm.ID
		vol.DeviceID = vo.DeviceID
		vol.Created = s.p.now()
		vol.Tags = vo.Tags.Clone()
		s.p.volumes[vol.ID] = vol
	}
	return vm.Clone(), nil
}

func (s *VirtualMachines) ScalingCapabilities(ctx context.Context) (compute.VMScalingCapabilities, error) {
	return s.p.capabilities.VMScalingCapabilities(ctx)
}

func (s *VirtualMachines) GetVMStatus(ctx context.Context, filter *compute.VmStatusFilterOptions) cloud.Seq[compute.VirtualMachineStatus] {
	s.p.mu.Lock()
	items := sortedValues(s.p.statuses, func(st compute.VirtualMachineStatus) compute.VirtualMachineStatus { return st })
	s.p.mu.Unlock()
	return compute.FilterVmStatuses(cloud.FromSlice(items), filter)
}

func (s *VirtualMachines) SpotPriceHistories(ctx context.Context, filter *compute.SPHistoryFilterOptions) cloud.Seq[*compute.SpotPriceHistory] {
	if filter != nil {
		if err := filter.Validate(); err != nil {
			return cloud.Failed[*compute.SpotPriceHistory](err)
		}
	}
	s.p.mu.Lock()
	items := append([]*compute.SpotPriceHistory(nil), s.p.priceHistories...)
	s.p.mu.Unlock()
	return compute.FilterSpotPriceHistories(cloud.FromSlice(items), filter)
}

func (s *VirtualMachines) CreateSpotVirtualMachineRequest(ctx context.Context, opts *compute.SpotVirtualMachineRequestCreateOptions) (*compute.SpotVirtualMachineRequest, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	req := &compute.SpotVirtualMachineRequest{
		ID:             s.p.nextID("sir"),
		Type:           opts.Type,
		State:          compute.SpotRequestOpen,
		MaximumPrice:   opts.MaximumPrice,
		ProductID:      opts.ProductID,
		MachineImageID: opts.MachineImageID,
		LaunchGroup:    opts.LaunchGroup,
		ValidFrom:      opts.ValidFrom,
		ValidUntil:     opts.ValidUntil,
		Created:        s.p.now(),
	}
	s.p.spotRequests[req.ID] = req
	c := *req
	return &c, nil
}

func (s *VirtualMachines) CancelSpotVirtualMachineRequest(ctx context.Context, requestID string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	req, ok := s.p.spotRequests[requestID]
	if !ok {
		return notFound("spot request", requestID)
	}
	req.State = compute.SpotRequestCancelled
	return nil
}

func (s *VirtualMachines) ListSpotVirtualMachineRequests(ctx context.Context, filter *compute.SpotVirtualMachineRequestFilterOptions) cloud.Seq[*compute.SpotVirtualMachineRequest] {
	if filter != nil {
		if err := filter.Validate(); err != nil {
			return cloud.Failed[*compute.SpotVirtualMachineRequest](err)
		}
	}
	s.p.mu.Lock()
	items := make([]*compute.SpotVirtualMachineRequest, 0, len(s.p.spotRequests))
	for _, r := range s.p.spotRequests {
		c := *r
		items = append(items, &c)
	}
	s.p.mu.Unlock()
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	return compute.FilterSpotVirtualMachineRequests(cloud.FromSlice(items), filter)
}

func (s *VirtualMachines) UpdateTags(ctx context.Context, vmIDs []string, tags ...cloud.Tag) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	for _, id := range vmIDs {
		vm, ok := s.p.vms[id]
		if !ok {
			return notFound("virtual machine", id)
		}
		for _, t := range tags {
			vm.SetTag(t.Key, t.Value)
		}
	}
	s.p.recordTags("update", vmIDs, tagKeys(tags))
	return nil
}

func (s *VirtualMachines) RemoveTags(ctx context.Context, vmIDs []string, tags ...cloud.Tag) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	for _, id := range vmIDs {
		vm, ok := s.p.vms[id]
		if !ok {
			return notFound("virtual machine", id)
		}
		for _, t := range tags {
			vm.Tags.Delete(t.Key)
		}
	}
	s.p.recordTags("remove", vmIDs, tagKeys(tags))
	return nil
}

func (s *VirtualMachines) SetTags(ctx context.Context, vmIDs []string, tags ...cloud.Tag) error {
	r := compute.TagReconciler{
		Current: func(ctx context.Context, id string) (cloud.Tags, error) {
			vm, err := s.Get(ctx, id)
			if err != nil {
				return nil, err
			}
			return vm.Tags, nil
		},
		Update: s.UpdateTags,
		Remove: s.RemoveTags,
	}
	return r.SetTags(ctx, vmIDs, tags...)
}

func (s *VirtualMachines) IsSubscribed(ctx context.Context) (bool, error) {
	return true, nil
}
