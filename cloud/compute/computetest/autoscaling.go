package computetest

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/greese/dasein-cloud-core-sub001/cloud"
	"github.com/greese/dasein-cloud-core-sub001/cloud/compute"
)

// AutoScaling is the in-memory AutoScalingSupport. Scaling policies are
// not supported.
type AutoScaling struct {
	compute.UnimplementedAutoScalingSupport
	p *Provider
}

func (s *AutoScaling) CreateScalingGroup(ctx context.Context, opts *compute.AutoScalingGroupOptions) (*compute.ScalingGroup, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	if _, ok := s.p.launchConfigs[opts.LaunchConfigurationID]; !ok {
		return nil, notFound("launch configuration", opts.LaunchConfigurationID)
	}
	g := compute.NewScalingGroup(s.p.nextID("asg"), opts.Name)
	applyGroupOptions(g, opts)
	g.RegionID = s.p.Info.RegionID
	g.Created = s.p.now()
	g.Tags = append([]compute.AutoScalingTag{}, opts.Tags...)
	s.p.groups[g.ID] = g
	return g.Clone(), nil
}

func applyGroupOptions(g *compute.ScalingGroup, opts *compute.AutoScalingGroupOptions) {
	g.Name = opts.Name
	g.LaunchConfigurationID = opts.LaunchConfigurationID
	g.MinServers = opts.MinServers
	g.MaxServers = opts.MaxServers
	g.TargetCapacity = opts.DesiredCapacity
	g.Cooldown = opts.Cooldown
	g.DataCenterIDs = append([]string(nil), opts.DataCenterIDs...)
	g.LoadBalancerIDs = append([]string(nil), opts.LoadBalancerIDs...)
}

func (s *AutoScaling) UpdateScalingGroup(ctx context.Context, scalingGroupID string, opts *compute.AutoScalingGroupOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	g, ok := s.p.groups[scalingGroupID]
	if !ok {
		return notFound("scaling group", scalingGroupID)
	}
	applyGroupOptions(g, opts)
	return nil
}

func (s *AutoScaling) DeleteScalingGroup(ctx context.Context, scalingGroupID string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	if _, ok := s.p.groups[scalingGroupID]; !ok {
		return notFound("scaling group", scalingGroupID)
	}
	delete(s.p.groups, scalingGroupID)
	return nil
}

func (s *AutoScaling) GetScalingGroup(ctx context.Context, scalingGroupID string) (*compute.ScalingGroup, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	g, ok := s.p.groups[scalingGroupID]
	if !ok {
		return nil, notFound("scaling group", scalingGroupID)
	}
	return g.Clone(), nil
}

func (s *AutoScaling) ListScalingGroups(ctx context.Context, filter *compute.AutoScalingGroupFilterOptions) cloud.Seq[*compute.ScalingGroup] {
	if filter != nil {
		if err := filter.Validate(); err != nil {
			return cloud.Failed[*compute.ScalingGroup](err)
		}
	}
	s.p.mu.Lock()
	items := sortedValues(s.p.groups, (*compute.ScalingGroup).Clone)
	s.p.mu.Unlock()
	return compute.FilterScalingGroups(cloud.FromSlice(items), filter)
}

func (s *AutoScaling) SetDesiredCapacity(ctx context.Context, scalingGroupID string, capacity int) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	g, ok := s.p.groups[scalingGroupID]
	if !ok {
		return notFound("scaling group", scalingGroupID)
	}
	if capacity < g.MinServers || capacity > g.MaxServers {
		return cloud.NewProviderError(s.p.Info.DisplayName(), "set desired capacity", "ValidationError",
			fmt.Errorf("capacity %d outside [%d, %d]", capacity, g.MinServers, g.MaxServers))
	}
	g.TargetCapacity = capacity
	return nil
}

var allProcesses = []compute.ScalingProcess{
	compute.ProcessLaunch,
	compute.ProcessTerminate,
	compute.ProcessHealthCheck,
	compute.ProcessReplaceUnhealthy,
	compute.ProcessAZRebalance,
	compute.ProcessAlarmNotification,
	compute.ProcessScheduledActions,
	compute.ProcessAddToLoadBalancer,
}

func (s *AutoScaling) SuspendAutoScaling(ctx context.Context, scalingGroupID string, processes ...compute.ScalingProcess) error {
	if len(processes) == 0 {
		processes = allProcesses
	}
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	g, ok := s.p.groups[scalingGroupID]
	if !ok {
		return notFound("scaling group", scalingGroupID)
	}
	set := make(map[compute.ScalingProcess]bool)
	for _, pr := range g.SuspendedProcesses {
		set[pr] = true
	}
	for _, pr := range processes {
		set[pr] = true
	}
	g.SuspendedProcesses = processList(set)
	return nil
}

func (s *AutoScaling) ResumeAutoScaling(ctx context.Context, scalingGroupID string, processes ...compute.ScalingProcess) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	g, ok := s.p.groups[scalingGroupID]
	if !ok {
		return notFound("scaling group", scalingGroupID)
	}
	if len(processes) == 0 {
		g.SuspendedProcesses = nil
		return nil
	}
	set := make(map[compute.ScalingProcess]bool)
	for _, pr := range g.SuspendedProcesses {
		set[pr] = true
	}
	for _, pr := range processes {
		delete(set, pr)
	}
	g.SuspendedProcesses = processList(set)
	return nil
}

func processList(set map[compute.ScalingProcess]bool) []compute.ScalingProcess {
	out := make([]compute.ScalingProcess, 0, len(set))
	for pr := range set {
		out = append(out, pr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *AutoScaling) CreateLaunchConfiguration(ctx context.Context, opts *compute.LaunchConfigurationCreateOptions) (*compute.LaunchConfiguration, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	lc := &compute.LaunchConfiguration{
		ID:                 s.p.nextID("lc"),
		Name:               opts.Name,
		MachineImageID:     opts.MachineImageID,
		ProductID:          opts.ProductID,
		SecurityGroupIDs:   append([]string(nil), opts.SecurityGroupIDs...),
		UserData:           opts.UserData,
		DetailedMonitoring: opts.DetailedMonitoring,
		AssociatePublicIP:  opts.AssociatePublicIP,
		Created:            s.p.now(),
	}
	s.p.launchConfigs[lc.ID] = lc
	c := *lc
	return &c, nil
}

func (s *AutoScaling) DeleteLaunchConfiguration(ctx context.Context, launchConfigurationID string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	if _, ok := s.p.launchConfigs[launchConfigurationID]; !ok {
		return notFound("launch configuration", launchConfigurationID)
	}
	for _, g := range s.p.groups {
		if g.LaunchConfigurationID == launchConfigurationID {
			return cloud.NewProviderError(s.p.Info.DisplayName(), "delete launch configuration", "ResourceInUse",
				fmt.Errorf("launch configuration %s is used by %s", launchConfigurationID, g.ID))
		}
	}
	delete(s.p.launchConfigs, launchConfigurationID)
	return nil
}

func (s *AutoScaling) GetLaunchConfiguration(ctx context.Context, launchConfigurationID string) (*compute.LaunchConfiguration, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	lc, ok := s.p.launchConfigs[launchConfigurationID]
	if !ok {
		return nil, notFound("launch configuration", launchConfigurationID)
	}
	c := *lc
	return &c, nil
}

func (s *AutoScaling) ListLaunchConfigurations(ctx context.Context) cloud.Seq[*compute.LaunchConfiguration] {
	s.p.mu.Lock()
	items := sortedValues(s.p.launchConfigs, func(lc *compute.LaunchConfiguration) *compute.LaunchConfiguration {
		c := *lc
		return &c
	})
	s.p.mu.Unlock()
	return cloud.FromSlice(items)
}

func (s *AutoScaling) UpdateTags(ctx context.Context, scalingGroupIDs []string, tags ...compute.AutoScalingTag) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	for _, id := range scalingGroupIDs {
		if id == s.p.failUpdateGroup {
			return cloud.NewProviderError(s.p.Info.DisplayName(), "update tags", "Throttling", errors.New("rate exceeded"))
		}
		g, ok := s.p.groups[id]
		if !ok {
			return notFound("scaling group", id)
		}
		for _, t := range tags {
			replaced := false
			for i := range g.Tags {
				if g.Tags[i].Key == t.Key {
					g.Tags[i] = t
					replaced = true
					break
				}
			}
			if !replaced {
				g.Tags = append(g.Tags, t)
			}
		}
	}
	s.p.recordTags("update", scalingGroupIDs, scalingTagKeys(tags))
	return nil
}

func (s *AutoScaling) RemoveTags(ctx context.Context, scalingGroupIDs []string, tags ...compute.AutoScalingTag) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	drop := make(map[string]bool, len(tags))
	for _, t := range tags {
		drop[t.Key] = true
	}
	for _, id := range scalingGroupIDs {
		g, ok := s.p.groups[id]
		if !ok {
			return notFound("scaling group", id)
		}
		kept := g.Tags[:0]
		for _, t := range g.Tags {
			if !drop[t.Key] {
				kept = append(kept, t)
			}
		}
		g.Tags = kept
	}
	s.p.recordTags("remove", scalingGroupIDs, scalingTagKeys(tags))
	return nil
}

func (s *AutoScaling) SetTags(ctx context.Context, scalingGroupIDs []string, tags ...compute.AutoScalingTag) error {
	return compute.SetScalingGroupTags(ctx, s, scalingGroupIDs, tags...)
}

func (s *AutoScaling) IsSubscribed(ctx context.Context) (bool, error) {
	return true, nil
}

func scalingTagKeys(tags []compute.AutoScalingTag) []string {
	keys := make([]string, 0, len(tags))
	for _, t := range tags {
		keys = append(keys, t.Key)
	}
	return keys
}
