package compute

import (
	"context"
	"fmt"

	"github.com/greese/dasein-cloud-core-sub001/cloud"
	"github.com/greese/dasein-cloud-core-sub001/internal/config"
	"github.com/greese/dasein-cloud-core-sub001/internal/logging"
	"golang.org/x/sync/errgroup"
)

// TagsForDelete returns the current tags whose key is absent from desired,
// in current order.
func TagsForDelete(current, desired []AutoScalingTag) []AutoScalingTag {
	keep := make(map[string]struct{}, len(desired))
	for _, t := range desired {
		keep[t.Key] = struct{}{}
	}
	var out []AutoScalingTag
	for _, t := range current {
		if _, ok := keep[t.Key]; !ok {
			out = append(out, t)
		}
	}
	return out
}

// AutoScalingTagger is the subset of AutoScalingSupport that tag
// reconciliation needs.
type AutoScalingTagger interface {
	GetScalingGroup(ctx context.Context, scalingGroupID string) (*ScalingGroup, error)
	UpdateTags(ctx context.Context, scalingGroupIDs []string, tags ...AutoScalingTag) error
	RemoveTags(ctx context.Context, scalingGroupIDs []string, tags ...AutoScalingTag) error
}

// SetScalingGroupTags makes tags the complete tag set of every group. For
// each group it removes the tags whose keys are not in tags, then updates
// the rest; the removal finishes before the update starts. Groups are
// reconciled concurrently and the first failure cancels the remainder.
func SetScalingGroupTags(ctx context.Context, s AutoScalingTagger, scalingGroupIDs []string, tags ...AutoScalingTag) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(tagConcurrency())

	for _, id := range scalingGroupIDs {
		g.Go(func() error {
			return setGroupTags(ctx, s, id, tags)
		})
	}
	return g.Wait()
}

func setGroupTags(ctx context.Context, s AutoScalingTagger, id string, tags []AutoScalingTag) error {
	group, err := s.GetScalingGroup(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to read tags of scaling group %s: %w", id, err)
	}
	if group == nil {
		return fmt.Errorf("scaling group %s: %w", id, cloud.ErrNotFound)
	}

	remove := TagsForDelete(group.Tags, tags)
	logging.WithFields(logging.Fields{
		"scaling_group": id,
		"remove":        len(remove),
		"update":        len(tags),
	}).Debug("reconciling scaling group tags")

	if len(remove) > 0 {
		if err := s.RemoveTags(ctx, []string{id}, remove...); err != nil {
			return fmt.Errorf("failed to remove tags from scaling group %s: %w", id, err)
		}
	}
	if len(tags) > 0 {
		if err := s.UpdateTags(ctx, []string{id}, tags...); err != nil {
			return fmt.Errorf("failed to update tags of scaling group %s: %w", id, err)
		}
	}
	return nil
}

// TagReconciler makes a tag set authoritative for any taggable kind whose
// support exposes UpdateTags and RemoveTags.
type TagReconciler struct {
	// Current returns the tags a resource carries now.
	Current func(ctx context.Context, id string) (cloud.Tags, error)
	Update  func(ctx context.Context, ids []string, tags ...cloud.Tag) error
	Remove  func(ctx context.Context, ids []string, tags ...cloud.Tag) error
}

// SetTags makes tags the complete tag set of every resource in ids, with
// the same ordering and concurrency as SetScalingGroupTags.
func (r TagReconciler) SetTags(ctx context.Context, ids []string, tags ...cloud.Tag) error {
	desired := cloud.NewTags(tags...)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(tagConcurrency())

	for _, id := range ids {
		g.Go(func() error {
			current, err := r.Current(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to read tags of %s: %w", id, err)
			}
			if keys := cloud.TagsForDelete(current, desired); len(keys) > 0 {
				remove := make([]cloud.Tag, 0, len(keys))
				for _, k := range keys {
					remove = append(remove, cloud.Tag{Key: k, Value: current[k]})
				}
				if err := r.Remove(ctx, []string{id}, remove...); err != nil {
					return fmt.Errorf("failed to remove tags from %s: %w", id, err)
				}
			}
			if len(tags) == 0 {
				return nil
			}
			if err := r.Update(ctx, []string{id}, tags...); err != nil {
				return fmt.Errorf("failed to update tags of %s: %w", id, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func tagConcurrency() int {
	if n := config.Get().Scaling.TagConcurrency; n > 0 {
		return n
	}
	return 1
}
