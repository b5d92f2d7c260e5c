package compute

import (
	"fmt"
	"time"

	"github.com/greese/dasein-cloud-core-sub001/cloud"
)

// AutoScalingTag is a scaling group tag, optionally copied onto every VM
// the group launches.
type AutoScalingTag struct {
	Key               string `json:"key" yaml:"key"`
	Value             string `json:"value" yaml:"value"`
	PropagateAtLaunch bool   `json:"propagate_at_launch" yaml:"propagate_at_launch"`
}

func (t AutoScalingTag) String() string {
	return t.Key + "=" + t.Value
}

// AutoScalingTagsFrom converts plain tags, sorted by key.
func AutoScalingTagsFrom(tags cloud.Tags, propagate bool) []AutoScalingTag {
	out := make([]AutoScalingTag, 0, len(tags))
	for _, t := range tags.List() {
		out = append(out, AutoScalingTag{Key: t.Key, Value: t.Value, PropagateAtLaunch: propagate})
	}
	return out
}

// ScalingProcess is a process of an auto-scaling group that can be
// suspended and resumed.
type ScalingProcess string

const (
	ProcessLaunch            ScalingProcess = "Launch"
	ProcessTerminate         ScalingProcess = "Terminate"
	ProcessHealthCheck       ScalingProcess = "HealthCheck"
	ProcessReplaceUnhealthy  ScalingProcess = "ReplaceUnhealthy"
	ProcessAZRebalance       ScalingProcess = "AZRebalance"
	ProcessAlarmNotification ScalingProcess = "AlarmNotification"
	ProcessScheduledActions  ScalingProcess = "ScheduledActions"
	ProcessAddToLoadBalancer ScalingProcess = "AddToLoadBalancer"
)

// ScalingGroup is an auto-scaling group.
type ScalingGroup struct {
	ID                    string           `json:"id" yaml:"id"`
	Name                  string           `json:"name" yaml:"name"`
	Description           string           `json:"description,omitempty" yaml:"description,omitempty"`
	RegionID              string           `json:"region_id" yaml:"region_id"`
	DataCenterIDs         []string         `json:"data_center_ids,omitempty" yaml:"data_center_ids,omitempty"`
	LaunchConfigurationID string           `json:"launch_configuration_id" yaml:"launch_configuration_id"`
	MinServers            int              `json:"min_servers" yaml:"min_servers"`
	MaxServers            int              `json:"max_servers" yaml:"max_servers"`
	TargetCapacity        int              `json:"target_capacity" yaml:"target_capacity"`
	Cooldown              time.Duration    `json:"cooldown" yaml:"cooldown"`
	ServerIDs             []string         `json:"server_ids,omitempty" yaml:"server_ids,omitempty"`
	LoadBalancerIDs       []string         `json:"load_balancer_ids,omitempty" yaml:"load_balancer_ids,omitempty"`
	SuspendedProcesses    []ScalingProcess `json:"suspended_processes,omitempty" yaml:"suspended_processes,omitempty"`
	Created               time.Time        `json:"created" yaml:"created"`
	Tags                  []AutoScalingTag `json:"tags" yaml:"tags"`
}

func NewScalingGroup(id, name string) *ScalingGroup {
	return &ScalingGroup{ID: id, Name: name, Tags: []AutoScalingTag{}}
}

// TagMap returns the group's tags keyed by tag key.
func (g *ScalingGroup) TagMap() cloud.Tags {
	m := make(cloud.Tags, len(g.Tags))
	for _, t := range g.Tags {
		m[t.Key] = t.Value
	}
	return m
}

// Clone returns an independent copy.
func (g *ScalingGroup) Clone() *ScalingGroup {
	c := *g
	c.DataCenterIDs = append([]string(nil), g.DataCenterIDs...)
	c.ServerIDs = append([]string(nil), g.ServerIDs...)
	c.LoadBalancerIDs = append([]string(nil), g.LoadBalancerIDs...)
	c.SuspendedProcesses = append([]ScalingProcess(nil), g.SuspendedProcesses...)
	c.Tags = append([]AutoScalingTag{}, g.Tags...)
	return &c
}

// LaunchConfiguration is the VM template an auto-scaling group launches.
type LaunchConfiguration struct {
	ID                 string     `json:"id" yaml:"id"`
	Name               string     `json:"name" yaml:"name"`
	MachineImageID     string     `json:"machine_image_id" yaml:"machine_image_id"`
	ProductID          string     `json:"product_id" yaml:"product_id"`
	SecurityGroupIDs   []string   `json:"security_group_ids,omitempty" yaml:"security_group_ids,omitempty"`
	UserData           string     `json:"user_data,omitempty" yaml:"user_data,omitempty"`
	DetailedMonitoring bool       `json:"detailed_monitoring" yaml:"detailed_monitoring"`
	AssociatePublicIP  bool       `json:"associate_public_ip" yaml:"associate_public_ip"`
	Created            time.Time  `json:"created" yaml:"created"`
	Tags               cloud.Tags `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// AdjustmentType says how a scaling policy's adjustment is applied.
type AdjustmentType string

const (
	ChangeInCapacity        AdjustmentType = "ChangeInCapacity"
	ExactCapacity           AdjustmentType = "ExactCapacity"
	PercentChangeInCapacity AdjustmentType = "PercentChangeInCapacity"
)

// ScalingPolicy adjusts a group's capacity when triggered.
type ScalingPolicy struct {
	ID                string         `json:"id" yaml:"id"`
	Name              string         `json:"name" yaml:"name"`
	ScalingGroupID    string         `json:"scaling_group_id" yaml:"scaling_group_id"`
	AdjustmentType    AdjustmentType `json:"adjustment_type" yaml:"adjustment_type"`
	ScalingAdjustment int            `json:"scaling_adjustment" yaml:"scaling_adjustment"`
	MinAdjustmentStep int            `json:"min_adjustment_step,omitempty" yaml:"min_adjustment_step,omitempty"`
	Cooldown          time.Duration  `json:"cooldown" yaml:"cooldown"`
}

func (p *ScalingPolicy) Validate() error {
	if p.ScalingGroupID == "" || p.Name == "" {
		return invalidOptions("scaling policy", "group and name are required")
	}
	switch p.AdjustmentType {
	case ChangeInCapacity, ExactCapacity, PercentChangeInCapacity:
	default:
		return invalidOptions("scaling policy", fmt.Sprintf("unknown adjustment type %q", p.AdjustmentType))
	}
	if p.AdjustmentType == ExactCapacity && p.ScalingAdjustment < 0 {
		return invalidOptions("scaling policy", "exact capacity must not be negative")
	}
	return nil
}

// AutoScalingGroupFilterOptions narrows scaling group listings. With no
// criteria set it matches every group.
type AutoScalingGroupFilterOptions struct {
	matchesAny bool
	regex      *regexCriterion
	tags       cloud.Tags
}

func NewAutoScalingGroupFilterOptions() *AutoScalingGroupFilterOptions {
	return &AutoScalingGroupFilterOptions{}
}

func NewAutoScalingGroupFilterOptionsMatching(matchesAny bool) *AutoScalingGroupFilterOptions {
	return &AutoScalingGroupFilterOptions{matchesAny: matchesAny}
}

func (f *AutoScalingGroupFilterOptions) MatchingAny() *AutoScalingGroupFilterOptions {
	f.matchesAny = true
	return f
}

func (f *AutoScalingGroupFilterOptions) MatchingAll() *AutoScalingGroupFilterOptions {
	f.matchesAny = false
	return f
}

func (f *AutoScalingGroupFilterOptions) MatchingRegex(pattern string) *AutoScalingGroupFilterOptions {
	f.regex = newRegexCriterion(pattern)
	return f
}

func (f *AutoScalingGroupFilterOptions) WithTags(tags cloud.Tags) *AutoScalingGroupFilterOptions {
	f.tags = copyTags(tags)
	return f
}

func (f *AutoScalingGroupFilterOptions) WithTag(key, value string) *AutoScalingGroupFilterOptions {
	f.tags = withTag(f.tags, key, value)
	return f
}

func (f *AutoScalingGroupFilterOptions) IsMatchesAny() bool     { return f.matchesAny }
func (f *AutoScalingGroupFilterOptions) Regex() string          { return f.regex.String() }
func (f *AutoScalingGroupFilterOptions) Tags() cloud.Tags       { return f.tags.Clone() }
func (f *AutoScalingGroupFilterOptions) MatchesWhenEmpty() bool { return true }
func (f *AutoScalingGroupFilterOptions) Validate() error        { return f.regex.validate() }

func (f *AutoScalingGroupFilterOptions) HasCriteria() bool {
	return f.regex.isSet() || len(f.tags) > 0
}

// Matches reports whether g satisfies the filter.
func (f *AutoScalingGroupFilterOptions) Matches(g *ScalingGroup) bool {
	if g == nil {
		return false
	}
	tags := g.TagMap()
	return combine(f.matchesAny, f.MatchesWhenEmpty(),
		check{f.regex.isSet(), func() bool { return f.regex.matches(g.Name, g.Description, tags) }},
		check{len(f.tags) > 0, func() bool { return tags.ContainsAll(f.tags) }},
	)
}

func (f *AutoScalingGroupFilterOptions) String() string {
	return fmt.Sprintf("AutoScalingGroupFilterOptions{any=%t regex=%q tags=%v}", f.matchesAny, f.Regex(), f.tags)
}

func FilterScalingGroups(seq cloud.Seq[*ScalingGroup], f *AutoScalingGroupFilterOptions) cloud.Seq[*ScalingGroup] {
	if f == nil {
		return seq
	}
	return cloud.Filter(seq, f.Matches)
}

// AutoScalingGroupOptions describes a scaling group to create or update.
type AutoScalingGroupOptions struct {
	Name                  string
	LaunchConfigurationID string
	MinServers            int
	MaxServers            int
	DesiredCapacity       int
	Cooldown              time.Duration
	DataCenterIDs         []string
	LoadBalancerIDs       []string
	Tags                  []AutoScalingTag
}

func NewAutoScalingGroupOptions(name, launchConfigurationID string, minServers, maxServers int) *AutoScalingGroupOptions {
	return &AutoScalingGroupOptions{
		Name:                  name,
		LaunchConfigurationID: launchConfigurationID,
		MinServers:            minServers,
		MaxServers:            maxServers,
		DesiredCapacity:       minServers,
	}
}

func (o *AutoScalingGroupOptions) WithDesiredCapacity(n int) *AutoScalingGroupOptions {
	o.DesiredCapacity = n
	return o
}

func (o *AutoScalingGroupOptions) WithCooldown(d time.Duration) *AutoScalingGroupOptions {
	o.Cooldown = d
	return o
}

func (o *AutoScalingGroupOptions) InDataCenters(ids ...string) *AutoScalingGroupOptions {
	o.DataCenterIDs = append([]string(nil), ids...)
	return o
}

func (o *AutoScalingGroupOptions) WithLoadBalancers(ids ...string) *AutoScalingGroupOptions {
	o.LoadBalancerIDs = append([]string(nil), ids...)
	return o
}

func (o *AutoScalingGroupOptions) WithTags(tags ...AutoScalingTag) *AutoScalingGroupOptions {
	o.Tags = append(o.Tags, tags...)
	return o
}

func (o *AutoScalingGroupOptions) Validate() error {
	if o.Name == "" {
		return invalidOptions("scaling group", "name is required")
	}
	if o.LaunchConfigurationID == "" {
		return invalidOptions("scaling group", "launch configuration is required")
	}
	if o.MinServers < 0 || o.MaxServers < o.MinServers {
		return invalidOptions("scaling group", fmt.Sprintf("invalid bounds min=%d max=%d", o.MinServers, o.MaxServers))
	}
	if o.DesiredCapacity < o.MinServers || o.DesiredCapacity > o.MaxServers {
		return invalidOptions("scaling group", fmt.Sprintf("desired capacity %d outside [%d, %d]",
			o.DesiredCapacity, o.MinServers, o.MaxServers))
	}
	return nil
}

// LaunchConfigurationCreateOptions describes a launch configuration.
type LaunchConfigurationCreateOptions struct {
	Name               string
	MachineImageID     string
	ProductID          string
	SecurityGroupIDs   []string
	UserData           string
	DetailedMonitoring bool
	AssociatePublicIP  bool
}

func NewLaunchConfigurationCreateOptions(name, imageID, productID string) *LaunchConfigurationCreateOptions {
	return &LaunchConfigurationCreateOptions{
		Name:           name,
		MachineImageID: imageID,
		ProductID:      productID,
	}
}

func (o *LaunchConfigurationCreateOptions) WithSecurityGroups(ids ...string) *LaunchConfigurationCreateOptions {
	o.SecurityGroupIDs = append([]string(nil), ids...)
	return o
}

func (o *LaunchConfigurationCreateOptions) WithUserData(data string) *LaunchConfigurationCreateOptions {
	o.UserData = data
	return o
}

func (o *LaunchConfigurationCreateOptions) WithDetailedMonitoring() *LaunchConfigurationCreateOptions {
	o.DetailedMonitoring = true
	return o
}

func (o *LaunchConfigurationCreateOptions) WithPublicIP() *LaunchConfigurationCreateOptions {
	o.AssociatePublicIP = true
	return o
}

func (o *LaunchConfigurationCreateOptions) Validate() error {
	if o.Name == "" || o.MachineImageID == "" || o.ProductID == "" {
		return invalidOptions("launch configuration", "name, image and product are required")
	}
	return nil
}
