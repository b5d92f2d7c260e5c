package computetest

import (
	"context"
	"fmt"

	"github.com/greese/dasein-cloud-core-sub001/cloud"
	"github.com/greese/dasein-cloud-core-sub001/cloud/compute"
)

// Volumes is the in-memory VolumeSupport.
type Volumes struct {
	compute.UnimplementedVolumeSupport
	p *Provider
}

func (v *Volumes) Create(ctx context.Context, opts *compute.VolumeCreateOptions) (*compute.Volume, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	v.p.mu.Lock()
	defer v.p.mu.Unlock()

	if opts.AttachTo != "" {
		if _, ok := v.p.vms[opts.AttachTo]; !ok {
			return nil, notFound("virtual machine", opts.AttachTo)
		}
	}
	vol := compute.NewVolume(v.p.nextID("vol"), opts.Name)
	vol.Description = opts.Description
	vol.State = compute.VolumeAvailable
	vol.SizeGB = opts.SizeGB
	vol.Type = opts.Type
	vol.Format = opts.Format
	vol.IOPS = opts.IOPS
	vol.DataCenterID = opts.DataCenterID
	vol.RegionID = v.p.Info.RegionID
	vol.SnapshotID = opts.SnapshotID
	vol.AttachedTo = opts.AttachTo
	vol.DeviceID = opts.DeviceID
	vol.Created = v.p.now()
	vol.Tags = opts.Tags.Clone()

	v.p.volumes[vol.ID] = vol
	return vol.Clone(), nil
}

func (v *Volumes) Get(ctx context.Context, volumeID string) (*compute.Volume, error) {
	v.p.mu.Lock()
	defer v.p.mu.Unlock()
	vol, ok := v.p.volumes[volumeID]
	if !ok {
		return nil, notFound("volume", volumeID)
	}
	return vol.Clone(), nil
}

func (v *Volumes) List(ctx context.Context, filter *compute.VolumeFilterOptions) cloud.Seq[*compute.Volume] {
	if filter != nil {
		if err := filter.Validate(); err != nil {
			return cloud.Failed[*compute.Volume](err)
		}
	}
	v.p.mu.Lock()
	items := sortedValues(v.p.volumes, (*compute.Volume).Clone)
	v.p.mu.Unlock()
	return compute.FilterVolumes(cloud.FromSlice(items), filter)
}

func (v *Volumes) Attach(ctx context.Context, volumeID, vmID, deviceID string) error {
	v.p.mu.Lock()
	defer v.p.mu.Unlock()
	vol, ok := v.p.volumes[volumeID]
	if !ok {
		return notFound("volume", volumeID)
	}
	if _, ok := v.p.vms[vmID]; !ok {
		return notFound("virtual machine", vmID)
	}
	if vol.IsAttached() {
		return cloud.NewProviderError(v.p.Info.DisplayName(), "attach volume", "VolumeInUse",
			fmt.Errorf("volume %s is attached to %s", volumeID, vol.AttachedTo))
	}
	vol.AttachedTo = vmID
	vol.DeviceID = deviceID
	return nil
}

func (v *Volumes) Detach(ctx context.Context, volumeID string, force bool) error {
	v.p.mu.Lock()
	defer v.p.mu.Unlock()
	vol, ok := v.p.volumes[volumeID]
	if !ok {
		return notFound("volume", volumeID)
	}
	if !vol.IsAttached() && !force {
		return cloud.NewProviderError(v.p.Info.DisplayName(), "detach volume", "IncorrectState",
			fmt.Errorf("volume %s is not attached", volumeID))
	}
	vol.AttachedTo = ""
	vol.DeviceID = ""
	return nil
}

func (v *Volumes) Remove(ctx context.Context, volumeID string) error {
	v.p.mu.Lock()
	defer v.p.mu.Unlock()
	vol, ok := v.p.volumes[volumeID]
	if !ok {
		return notFound("volume", volumeID)
	}
	if vol.IsAttached() {
		return cloud.NewProviderError(v.p.Info.DisplayName(), "remove volume", "VolumeInUse",
			fmt.Errorf("volume %s is attached to %s", volumeID, vol.AttachedTo))
	}
	delete(v.p.volumes, volumeID)
	return nil
}

func (v *Volumes) UpdateTags(ctx context.Context, volumeIDs []string, tags ...cloud.Tag) error {
	v.p.mu.Lock()
	defer v.p.mu.Unlock()
	for _, id := range volumeIDs {
		vol, ok := v.p.volumes[id]
		if !ok {
			return notFound("volume", id)
		}
		for _, t := range tags {
			vol.SetTag(t.Key, t.Value)
		}
	}
	v.p.recordTags("update", volumeIDs, tagKeys(tags))
	return nil
}

func (v *Volumes) RemoveTags(ctx context.Context, volumeIDs []string, tags ...cloud.Tag) error {
	v.p.mu.Lock()
	defer v.p.mu.Unlock()
	for _, id := range volumeIDs {
		vol, ok := v.p.volumes[id]
		if !ok {
			return notFound("volume", id)
		}
		for _, t := range tags {
			vol.Tags.Delete(t.Key)
		}
	}
	v.p.recordTags("remove", volumeIDs, tagKeys(tags))
	return nil
}

func (v *Volumes) SetTags(ctx context.Context, volumeIDs []string, tags ...cloud.Tag) error {
	r := compute.TagReconciler{
		Current: func(ctx context.Context, id string) (cloud.Tags, error) {
			vol, err := v.Get(ctx, id)
			if err != nil {
				return nil, err
			}
			return vol.Tags, nil
		},
		Update: v.UpdateTags,
		Remove: v.RemoveTags,
	}
	return r.SetTags(ctx, volumeIDs, tags...)
}

func (v *Volumes) IsSubscribed(ctx context.Context) (bool, error) {
	return true, nil
}
