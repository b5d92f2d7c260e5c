package compute

import (
	"context"
	"fmt"

	"github.com/greese/dasein-cloud-core-sub001/cloud"
	"github.com/greese/dasein-cloud-core-sub001/internal/cache"
	"golang.org/x/text/language"
)

func capabilityKeyPrefix(provider cloud.ProviderInfo) string {
	return fmt.Sprintf("capabilities:%s:%s:%s:", provider.ProviderName, provider.CloudName, provider.RegionID)
}

// InvalidateCapabilities drops every cached capability answer for provider.
func InvalidateCapabilities(m *cache.Manager, provider cloud.ProviderInfo) int {
	if m == nil {
		m = cache.Global()
	}
	return m.DeletePrefix(capabilityKeyPrefix(provider))
}

func cached[T any](ctx context.Context, m *cache.Manager, key string, load func(context.Context) (T, error)) (T, error) {
	v, err := m.GetOrLoad(key, func() (interface{}, error) {
		return load(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// CachedAffinityGroupCapabilities memoizes the answers of another
// AffinityGroupCapabilities. Errors are not cached.
type CachedAffinityGroupCapabilities struct {
	inner  AffinityGroupCapabilities
	cache  *cache.Manager
	prefix string
}

// NewCachedAffinityGroupCapabilities wraps inner. A nil manager uses the
// process-wide cache.
func NewCachedAffinityGroupCapabilities(provider cloud.ProviderInfo, inner AffinityGroupCapabilities, m *cache.Manager) *CachedAffinityGroupCapabilities {
	if m == nil {
		m = cache.Global()
	}
	return &CachedAffinityGroupCapabilities{
		inner:  inner,
		cache:  m,
		prefix: capabilityKeyPrefix(provider) + "affinity:",
	}
}

func (c *CachedAffinityGroupCapabilities) CanCreate(ctx context.Context) (bool, error) {
	return cached(ctx, c.cache, c.prefix+"can_create", c.inner.CanCreate)
}

func (c *CachedAffinityGroupCapabilities) CanDelete(ctx context.Context) (bool, error) {
	return cached(ctx, c.cache, c.prefix+"can_delete", c.inner.CanDelete)
}

func (c *CachedAffinityGroupCapabilities) CanModify(ctx context.Context) (bool, error) {
	return cached(ctx, c.cache, c.prefix+"can_modify", c.inner.CanModify)
}

func (c *CachedAffinityGroupCapabilities) MaximumAffinityGroupCount(ctx context.Context) (int, error) {
	return cached(ctx, c.cache, c.prefix+"maximum_count", c.inner.MaximumAffinityGroupCount)
}

func (c *CachedAffinityGroupCapabilities) IdentifyDataCenterRequirement(ctx context.Context) (cloud.Requirement, error) {
	return cached(ctx, c.cache, c.prefix+"data_center_requirement", c.inner.IdentifyDataCenterRequirement)
}

func (c *CachedAffinityGroupCapabilities) ProviderTermForAffinityGroup(ctx context.Context, locale language.Tag) (string, error) {
	return cached(ctx, c.cache, c.prefix+"term:"+locale.String(), func(ctx context.Context) (string, error) {
		return c.inner.ProviderTermForAffinityGroup(ctx, locale)
	})
}

// CachedSnapshotCapabilities memoizes the answers of another
// SnapshotCapabilities. Errors are not cached.
type CachedSnapshotCapabilities struct {
	inner  SnapshotCapabilities
	cache  *cache.Manager
	prefix string
}

func NewCachedSnapshotCapabilities(provider cloud.ProviderInfo, inner SnapshotCapabilities, m *cache.Manager) *CachedSnapshotCapabilities {
	if m == nil {
		m = cache.Global()
	}
	return &CachedSnapshotCapabilities{
		inner:  inner,
		cache:  m,
		prefix: capabilityKeyPrefix(provider) + "snapshot:",
	}
}

func (c *CachedSnapshotCapabilities) ProviderTermForSnapshot(ctx context.Context, locale language.Tag) (string, error) {
	return cached(ctx, c.cache, c.prefix+"term:"+locale.String(), func(ctx context.Context) (string, error) {
		return c.inner.ProviderTermForSnapshot(ctx, locale)
	})
}

func (c *CachedSnapshotCapabilities) IdentifyAttachmentRequirement(ctx context.Context) (cloud.Requirement, error) {
	return cached(ctx, c.cache, c.prefix+"attachment_requirement", c.inner.IdentifyAttachmentRequirement)
}

func (c *CachedSnapshotCapabilities) SupportsSnapshotCopying(ctx context.Context) (bool, error) {
	return cached(ctx, c.cache, c.prefix+"copying", c.inner.SupportsSnapshotCopying)
}

func (c *CachedSnapshotCapabilities) SupportsSnapshotCreation(ctx context.Context) (bool, error) {
	return cached(ctx, c.cache, c.prefix+"creation", c.inner.SupportsSnapshotCreation)
}

func (c *CachedSnapshotCapabilities) SupportsSnapshotSharing(ctx context.Context) (bool, error) {
	return cached(ctx, c.cache, c.prefix+"sharing", c.inner.SupportsSnapshotSharing)
}

func (c *CachedSnapshotCapabilities) SupportsSnapshotSharingWithPublic(ctx context.Context) (bool, error) {
	return cached(ctx, c.cache, c.prefix+"sharing_public", c.inner.SupportsSnapshotSharingWithPublic)
}

func (c *CachedSnapshotCapabilities) MaximumSnapshotCount(ctx context.Context) (int, error) {
	return cached(ctx, c.cache, c.prefix+"maximum_count", c.inner.MaximumSnapshotCount)
}

// VMScalingCapabilitiesSource is anything that can describe VM scaling,
// typically a VirtualMachineSupport.
type VMScalingCapabilitiesSource interface {
	ScalingCapabilities(ctx context.Context) (VMScalingCapabilities, error)
}

// VMScalingCapabilitiesFunc adapts a function, such as
// CapabilityDocument.VMScalingCapabilities, to VMScalingCapabilitiesSource.
type VMScalingCapabilitiesFunc func(ctx context.Context) (VMScalingCapabilities, error)

func (f VMScalingCapabilitiesFunc) ScalingCapabilities(ctx context.Context) (VMScalingCapabilities, error) {
	return f(ctx)
}

// CachedVMScalingCapabilities memoizes a VMScalingCapabilitiesSource.
type CachedVMScalingCapabilities struct {
	inner VMScalingCapabilitiesSource
	cache *cache.Manager
	key   string
}

func NewCachedVMScalingCapabilities(provider cloud.ProviderInfo, inner VMScalingCapabilitiesSource, m *cache.Manager) *CachedVMScalingCapabilities {
	if m == nil {
		m = cache.Global()
	}
	return &CachedVMScalingCapabilities{
		inner: inner,
		cache: m,
		key:   capabilityKeyPrefix(provider) + "vm_scaling",
	}
}

func (c *CachedVMScalingCapabilities) ScalingCapabilities(ctx context.Context) (VMScalingCapabilities, error) {
	return cached(ctx, c.cache, c.key, c.inner.ScalingCapabilities)
}
