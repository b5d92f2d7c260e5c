package computetest

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/greese/dasein-cloud-core-sub001/cloud"
	"github.com/greese/dasein-cloud-core-sub001/cloud/compute"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Fixtures is a YAML-described set of resources.
type Fixtures struct {
	Provider           cloud.ProviderInfo             `yaml:"provider"`
	Volumes            []*compute.Volume              `yaml:"volumes"`
	Snapshots          []*compute.Snapshot            `yaml:"snapshots"`
	Images             []*compute.MachineImage        `yaml:"images"`
	VirtualMachines    []*compute.VirtualMachine      `yaml:"virtual_machines"`
	VMStatuses         []compute.VirtualMachineStatus `yaml:"vm_statuses"`
	SpotPriceHistories []*compute.SpotPriceHistory    `yaml:"spot_price_histories"`
	ScalingGroups      []*compute.ScalingGroup        `yaml:"scaling_groups"`
}

// DecodeFixtures reads fixtures from r. Entities without tags get an
// empty tag map.
func DecodeFixtures(r io.Reader) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode fixtures: %w", err)
	}
	for _, v := range f.Volumes {
		if v.Tags == nil {
			v.Tags = cloud.Tags{}
		}
	}
	for _, s := range f.Snapshots {
		if s.Tags == nil {
			s.Tags = cloud.Tags{}
		}
	}
	for _, m := range f.Images {
		if m.Tags == nil {
			m.Tags = cloud.Tags{}
		}
	}
	for _, vm := range f.VirtualMachines {
		if vm.Tags == nil {
			vm.Tags = cloud.Tags{}
		}
	}
	return &f, nil
}

// LoadFixturesFile reads fixtures from path.
func LoadFixturesFile(path string) (*Fixtures, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixtures: %w", err)
	}
	defer fh.Close()
	return DecodeFixtures(fh)
}

// NewProviderFromFixtures creates a provider seeded with f.
func NewProviderFromFixtures(f *Fixtures) *Provider {
	p := NewProvider(f.Provider)
	p.Load(f)
	return p
}

// DemoFixtures returns a small fixed data set.
func DemoFixtures() *Fixtures {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	web := compute.NewVirtualMachine("vm-web-1", "web-1")
	web.State = compute.VmRunning
	web.RegionID = "demo-1"
	web.DataCenterID = "demo-1a"
	web.ProductID = "m.small"
	web.MachineImageID = "img-ubuntu"
	web.Platform = compute.PlatformUbuntu
	web.Created = created
	web.SetTag("env", "prod")
	web.SetTag("role", "web")

	batch := compute.NewVirtualMachine("vm-batch-1", "batch-1")
	batch.State = compute.VmStopped
	batch.RegionID = "demo-1"
	batch.DataCenterID = "demo-1b"
	batch.ProductID = "m.large"
	batch.MachineImageID = "img-ubuntu"
	batch.Platform = compute.PlatformUbuntu
	batch.Created = created
	batch.SetTag("env", "dev")

	data := compute.NewVolume("vol-data", "web-data")
	data.State = compute.VolumeAvailable
	data.SizeGB = 100
	data.RegionID = "demo-1"
	data.DataCenterID = "demo-1a"
	data.AttachedTo = web.ID
	data.DeviceID = "/dev/sdf"
	data.Created = created
	data.SetTag("env", "prod")
	data.SetTag("owner", "x")

	scratch := compute.NewVolume("vol-scratch", "scratch")
	scratch.State = compute.VolumeAvailable
	scratch.SizeGB = 20
	scratch.RegionID = "demo-1"
	scratch.DataCenterID = "demo-1b"
	scratch.Created = created
	scratch.SetTag("env", "dev")

	snap := compute.NewSnapshot("snap-data", "web-data-nightly")
	snap.State = compute.SnapshotAvailable
	snap.OwnerID = "demo"
	snap.RegionID = "demo-1"
	snap.VolumeID = data.ID
	snap.SizeGB = 100
	snap.Created = created
	snap.SetTag("env", "prod")

	ubuntu := compute.NewMachineImage("img-ubuntu", "ubuntu-24.04")
	ubuntu.State = compute.ImageActive
	ubuntu.OwnerID = "demo"
	ubuntu.RegionID = "demo-1"
	ubuntu.Architecture = compute.ArchX86_64
	ubuntu.Platform = compute.PlatformUbuntu
	ubuntu.Public = true
	ubuntu.Created = created

	group := compute.NewScalingGroup("asg-web", "web")
	group.RegionID = "demo-1"
	group.LaunchConfigurationID = "lc-web"
	group.MinServers, group.MaxServers, group.TargetCapacity = 1, 4, 2
	group.Created = created
	group.Tags = []compute.AutoScalingTag{
		{Key: "a", Value: "1"},
		{Key: "b", Value: "2"},
		{Key: "c", Value: "3"},
	}

	return &Fixtures{
		Provider:        cloud.ProviderInfo{ProviderName: "demo", CloudName: "Demo Cloud", RegionID: "demo-1"},
		Volumes:         []*compute.Volume{data, scratch},
		Snapshots:       []*compute.Snapshot{snap},
		Images:          []*compute.MachineImage{ubuntu},
		VirtualMachines: []*compute.VirtualMachine{web, batch},
		VMStatuses: []compute.VirtualMachineStatus{
			{VirtualMachineID: web.ID, HostStatus: compute.VmStatusOK, VmStatus: compute.VmStatusImpaired},
			{VirtualMachineID: batch.ID, HostStatus: compute.VmStatusOK, VmStatus: compute.VmStatusNotApplicable},
		},
		SpotPriceHistories: []*compute.SpotPriceHistory{
			{
				ProductID:    "m.small",
				DataCenterID: "demo-1a",
				Prices: []compute.SpotPrice{
					{Timestamp: created, Price: decimal.RequireFromString("0.0120")},
					{Timestamp: created.Add(time.Hour), Price: decimal.RequireFromString("0.0135")},
				},
			},
		},
		ScalingGroups: []*compute.ScalingGroup{group},
	}
}
