package computetest

import (
	"context"
	"sort"

	"github.com/greese/dasein-cloud-core-sub001/cloud"
	"github.com/greese/dasein-cloud-core-sub001/cloud/compute"
)

// Snapshots is the in-memory SnapshotSupport. Copies and public sharing
// are not supported.
type Snapshots struct {
	compute.UnimplementedSnapshotSupport
	p *Provider
}

func (s *Snapshots) Capabilities(ctx context.Context) (compute.SnapshotCapabilities, error) {
	return s.p.capabilities.SnapshotCapabilities(), nil
}

func (s *Snapshots) Create(ctx context.Context, opts *compute.SnapshotCreateOptions) (*compute.Snapshot, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.IsCopy() {
		return s.UnimplementedSnapshotSupport.Create(ctx, opts)
	}
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	vol, ok := s.p.volumes[opts.VolumeID]
	if !ok {
		return nil, notFound("volume", opts.VolumeID)
	}
	snap := compute.NewSnapshot(s.p.nextID("snap"), opts.Name)
	snap.Description = opts.Description
	snap.State = compute.SnapshotAvailable
	snap.OwnerID = s.p.Info.ProviderName
	snap.RegionID = vol.RegionID
	snap.VolumeID = vol.ID
	snap.SizeGB = vol.SizeGB
	snap.Progress = "100%"
	snap.Created = s.p.now()
	snap.Tags = opts.Tags.Clone()
	s.p.snapshots[snap.ID] = snap
	return snap.Clone(), nil
}

func (s *Snapshots) Get(ctx context.Context, snapshotID string) (*compute.Snapshot, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	snap, ok := s.p.snapshots[snapshotID]
	if !ok {
		return nil, notFound("snapshot", snapshotID)
	}
	return snap.Clone(), nil
}

func (s *Snapshots) List(ctx context.Context, filter *compute.SnapshotFilterOptions) cloud.Seq[*compute.Snapshot] {
	if filter != nil {
		if err := filter.Validate(); err != nil {
			return cloud.Failed[*compute.Snapshot](err)
		}
	}
	s.p.mu.Lock()
	items := sortedValues(s.p.snapshots, (*compute.Snapshot).Clone)
	s.p.mu.Unlock()
	return compute.FilterSnapshots(cloud.FromSlice(items), filter)
}

func (s *Snapshots) Remove(ctx context.Context, snapshotID string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	if _, ok := s.p.snapshots[snapshotID]; !ok {
		return notFound("snapshot", snapshotID)
	}
	delete(s.p.snapshots, snapshotID)
	delete(s.p.snapshotShares, snapshotID)
	return nil
}

func (s *Snapshots) AddShare(ctx context.Context, snapshotID, accountNumber string) error {
	if accountNumber == "" {
		return s.UnimplementedSnapshotSupport.AddShare(ctx, snapshotID, accountNumber)
	}
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	if _, ok := s.p.snapshots[snapshotID]; !ok {
		return notFound("snapshot", snapshotID)
	}
	for _, a := range s.p.snapshotShares[snapshotID] {
		if a == accountNumber {
			return nil
		}
	}
	s.p.snapshotShares[snapshotID] = append(s.p.snapshotShares[snapshotID], accountNumber)
	return nil
}

func (s *Snapshots) RemoveShare(ctx context.Context, snapshotID, accountNumber string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	if _, ok := s.p.snapshots[snapshotID]; !ok {
		return notFound("snapshot", snapshotID)
	}
	shares := s.p.snapshotShares[snapshotID]
	for i, a := range shares {
		if a == accountNumber {
			s.p.snapshotShares[snapshotID] = append(shares[:i:i], shares[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Snapshots) ListShares(ctx context.Context, snapshotID string) cloud.Seq[string] {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	if _, ok := s.p.snapshots[snapshotID]; !ok {
		return cloud.Failed[string](notFound("snapshot", snapshotID))
	}
	shares := append([]string(nil), s.p.snapshotShares[snapshotID]...)
	sort.Strings(shares)
	return cloud.FromSlice(shares)
}

func (s *Snapshots) IsSubscribed(ctx context.Context) (bool, error) {
	return true, nil
}

// Images is the in-memory MachineImageSupport. Only lookups are
// supported; List sees every image and SearchPublic only public ones.
type Images struct {
	compute.UnimplementedMachineImageSupport
	p *Provider
}

func (s *Images) Get(ctx context.Context, imageID string) (*compute.MachineImage, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	img, ok := s.p.images[imageID]
	if !ok {
		return nil, notFound("machine image", imageID)
	}
	return img.Clone(), nil
}

func (s *Images) List(ctx context.Context, filter *compute.MachineImageFilterOptions) cloud.Seq[*compute.MachineImage] {
	return s.list(filter, func(*compute.MachineImage) bool { return true })
}

func (s *Images) SearchPublic(ctx context.Context, filter *compute.MachineImageFilterOptions) cloud.Seq[*compute.MachineImage] {
	return s.list(filter, func(img *compute.MachineImage) bool { return img.Public })
}

func (s *Images) list(filter *compute.MachineImageFilterOptions, keep func(*compute.MachineImage) bool) cloud.Seq[*compute.MachineImage] {
	if filter != nil {
		if err := filter.Validate(); err != nil {
			return cloud.Failed[*compute.MachineImage](err)
		}
	}
	s.p.mu.Lock()
	items := sortedValues(s.p.images, (*compute.MachineImage).Clone)
	s.p.mu.Unlock()
	return compute.FilterMachineImages(cloud.Filter(cloud.FromSlice(items), keep), filter)
}

func (s *Images) IsSubscribed(ctx context.Context) (bool, error) {
	return true, nil
}
