package cloud

// ProviderInfo identifies the provider instance backing a support object.
type ProviderInfo struct {
	ProviderName string `json:"provider_name" yaml:"provider_name"`
	CloudName    string `json:"cloud_name" yaml:"cloud_name"`
	RegionID     string `json:"region_id,omitempty" yaml:"region_id,omitempty"`
}

// DisplayName returns the name used in user-facing messages.
func (p ProviderInfo) DisplayName() string {
	switch {
	case p.CloudName != "" && p.ProviderName != "" && p.CloudName != p.ProviderName:
		return p.ProviderName + " " + p.CloudName
	case p.CloudName != "":
		return p.CloudName
	case p.ProviderName != "":
		return p.ProviderName
	default:
		return "the cloud provider"
	}
}
