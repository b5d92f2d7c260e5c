package compute

import (
	"context"
	"fmt"
	"time"

	"github.com/greese/dasein-cloud-core-sub001/cloud"
)

// AffinityGroup is a placement hint grouping resources for low-latency
// co-location.
type AffinityGroup struct {
	ID           string     `json:"id" yaml:"id"`
	Name         string     `json:"name" yaml:"name"`
	Description  string     `json:"description,omitempty" yaml:"description,omitempty"`
	DataCenterID string     `json:"data_center_id,omitempty" yaml:"data_center_id,omitempty"`
	Created      time.Time  `json:"created" yaml:"created"`
	Tags         cloud.Tags `json:"tags" yaml:"tags"`
}

func NewAffinityGroup(id, name string) *AffinityGroup {
	return &AffinityGroup{ID: id, Name: name, Tags: cloud.Tags{}}
}

func (g *AffinityGroup) SetTag(key, value string) {
	if g.Tags == nil {
		g.Tags = cloud.Tags{}
	}
	g.Tags[key] = value
}

func (g *AffinityGroup) Clone() *AffinityGroup {
	c := *g
	c.Tags = g.Tags.Clone()
	return &c
}

// AffinityGroupFilterOptions narrows affinity group listings. With no
// criteria set it matches every group.
type AffinityGroupFilterOptions struct {
	matchesAny   bool
	dataCenterID string
	regex        *regexCriterion
	tags         cloud.Tags
}

func NewAffinityGroupFilterOptions() *AffinityGroupFilterOptions {
	return &AffinityGroupFilterOptions{}
}

func NewAffinityGroupFilterOptionsMatching(matchesAny bool) *AffinityGroupFilterOptions {
	return &AffinityGroupFilterOptions{matchesAny: matchesAny}
}

func (f *AffinityGroupFilterOptions) MatchingAny() *AffinityGroupFilterOptions {
	f.matchesAny = true
	return f
}

func (f *AffinityGroupFilterOptions) MatchingAll() *AffinityGroupFilterOptions {
	f.matchesAny = false
	return f
}

func (f *AffinityGroupFilterOptions) InDataCenter(dataCenterID string) *AffinityGroupFilterOptions {
	f.dataCenterID = dataCenterID
	return f
}

func (f *AffinityGroupFilterOptions) MatchingRegex(pattern string) *AffinityGroupFilterOptions {
	f.regex = newRegexCriterion(pattern)
	return f
}

func (f *AffinityGroupFilterOptions) WithTags(tags cloud.Tags) *AffinityGroupFilterOptions {
	f.tags = copyTags(tags)
	return f
}

func (f *AffinityGroupFilterOptions) IsMatchesAny() bool     { return f.matchesAny }
func (f *AffinityGroupFilterOptions) DataCenterID() string   { return f.dataCenterID }
func (f *AffinityGroupFilterOptions) Regex() string          { return f.regex.String() }
func (f *AffinityGroupFilterOptions) Tags() cloud.Tags       { return f.tags.Clone() }
func (f *AffinityGroupFilterOptions) MatchesWhenEmpty() bool { return true }
func (f *AffinityGroupFilterOptions) Validate() error        { return f.regex.validate() }

func (f *AffinityGroupFilterOptions) HasCriteria() bool {
	return f.dataCenterID != "" || f.regex.isSet() || len(f.tags) > 0
}

// Matches reports whether g satisfies the filter.
func (f *AffinityGroupFilterOptions) Matches(g *AffinityGroup) bool {
	if g == nil {
		return false
	}
	return combine(f.matchesAny, f.MatchesWhenEmpty(),
		check{f.dataCenterID != "", func() bool { return g.DataCenterID == f.dataCenterID }},
		check{f.regex.isSet(), func() bool { return f.regex.matches(g.Name, g.Description, g.Tags) }},
		check{len(f.tags) > 0, func() bool { return g.Tags.ContainsAll(f.tags) }},
	)
}

func (f *AffinityGroupFilterOptions) String() string {
	return fmt.Sprintf("AffinityGroupFilterOptions{any=%t dc=%q regex=%q tags=%v}",
		f.matchesAny, f.dataCenterID, f.Regex(), f.tags)
}

func FilterAffinityGroups(seq cloud.Seq[*AffinityGroup], f *AffinityGroupFilterOptions) cloud.Seq[*AffinityGroup] {
	if f == nil {
		return seq
	}
	return cloud.Filter(seq, f.Matches)
}

// AffinityGroupCreateOptions describes an affinity group to create. The
// same type carries modifications for AffinityGroupSupport.Modify.
type AffinityGroupCreateOptions struct {
	Name         string
	Description  string
	DataCenterID string
	Tags         cloud.Tags
}

func NewAffinityGroupCreateOptions(name, description, dataCenterID string) *AffinityGroupCreateOptions {
	return &AffinityGroupCreateOptions{
		Name:         name,
		Description:  description,
		DataCenterID: dataCenterID,
		Tags:         cloud.Tags{},
	}
}

func (o *AffinityGroupCreateOptions) WithTag(key, value string) *AffinityGroupCreateOptions {
	o.Tags = withTag(o.Tags, key, value)
	return o
}

func (o *AffinityGroupCreateOptions) Validate() error {
	if o.Name == "" {
		return invalidOptions("affinity group create", "name is required")
	}
	return nil
}

// Build creates the affinity group through the facade. A facade without
// affinity group support yields an unsupported-operation error.
func (o *AffinityGroupCreateOptions) Build(ctx context.Context, svc ComputeServices) (*AffinityGroup, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	var support AffinityGroupSupport
	if svc != nil {
		support = svc.AffinityGroupSupport()
	}
	if support == nil {
		return nil, cloud.NewOperationNotSupportedError(facadeName(svc), "AffinityGroups", "created")
	}
	return support.Create(ctx, o)
}
