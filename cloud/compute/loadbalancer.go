package compute

import (
	"fmt"
	"time"
)

// HealthCheck probes backends of an HTTP load balancer.
type HealthCheck struct {
	Name               string        `json:"name" yaml:"name"`
	Host               string        `json:"host,omitempty" yaml:"host,omitempty"`
	Port               int           `json:"port" yaml:"port"`
	Path               string        `json:"path" yaml:"path"`
	Interval           time.Duration `json:"interval" yaml:"interval"`
	Timeout            time.Duration `json:"timeout" yaml:"timeout"`
	HealthyThreshold   int           `json:"healthy_threshold" yaml:"healthy_threshold"`
	UnhealthyThreshold int           `json:"unhealthy_threshold" yaml:"unhealthy_threshold"`
}

// BackendService is a named pool of VMs behind a load balancer.
type BackendService struct {
	Name              string   `json:"name" yaml:"name"`
	Description       string   `json:"description,omitempty" yaml:"description,omitempty"`
	Port              int      `json:"port" yaml:"port"`
	Protocol          string   `json:"protocol" yaml:"protocol"`
	HealthCheck       string   `json:"health_check,omitempty" yaml:"health_check,omitempty"`
	VirtualMachineIDs []string `json:"virtual_machine_ids,omitempty" yaml:"virtual_machine_ids,omitempty"`
}

// URLRule routes requests for a host and path prefixes to a backend.
type URLRule struct {
	Host           string   `json:"host" yaml:"host"`
	Paths          []string `json:"paths" yaml:"paths"`
	BackendService string   `json:"backend_service" yaml:"backend_service"`
}

// TargetProxy is a frontend listener of an HTTP load balancer.
type TargetProxy struct {
	Name      string `json:"name" yaml:"name"`
	IPAddress string `json:"ip_address,omitempty" yaml:"ip_address,omitempty"`
	Port      int    `json:"port" yaml:"port"`
}

// HttpLoadBalancer is a layer-7 load balancer with URL based routing.
type HttpLoadBalancer struct {
	ID                    string           `json:"id" yaml:"id"`
	Name                  string           `json:"name" yaml:"name"`
	Description           string           `json:"description,omitempty" yaml:"description,omitempty"`
	DefaultBackendService string           `json:"default_backend_service" yaml:"default_backend_service"`
	BackendServices       []BackendService `json:"backend_services,omitempty" yaml:"backend_services,omitempty"`
	HealthChecks          []HealthCheck    `json:"health_checks,omitempty" yaml:"health_checks,omitempty"`
	URLRules              []URLRule        `json:"url_rules,omitempty" yaml:"url_rules,omitempty"`
	TargetProxies         []TargetProxy    `json:"target_proxies,omitempty" yaml:"target_proxies,omitempty"`
	Created               time.Time        `json:"created" yaml:"created"`
}

// BackendFor returns the backend service that serves host and path,
// falling back to the default backend.
func (lb *HttpLoadBalancer) BackendFor(host, path string) string {
	best, bestLen := lb.DefaultBackendService, -1
	for _, r := range lb.URLRules {
		if r.Host != "" && r.Host != host {
			continue
		}
		for _, p := range r.Paths {
			if len(p) > bestLen && len(path) >= len(p) && path[:len(p)] == p {
				best, bestLen = r.BackendService, len(p)
			}
		}
	}
	return best
}

// HttpLoadBalancerCreateOptions describes an HTTP load balancer to create.
type HttpLoadBalancerCreateOptions struct {
	Name                  string
	Description           string
	DefaultBackendService string
	BackendServices       []BackendService
	HealthChecks          []HealthCheck
	URLRules              []URLRule
	TargetProxies         []TargetProxy
}

func NewHttpLoadBalancerCreateOptions(name, description, defaultBackend string) *HttpLoadBalancerCreateOptions {
	return &HttpLoadBalancerCreateOptions{
		Name:                  name,
		Description:           description,
		DefaultBackendService: defaultBackend,
	}
}

func (o *HttpLoadBalancerCreateOptions) WithBackendService(b BackendService) *HttpLoadBalancerCreateOptions {
	o.BackendServices = append(o.BackendServices, b)
	return o
}

func (o *HttpLoadBalancerCreateOptions) WithHealthCheck(h HealthCheck) *HttpLoadBalancerCreateOptions {
	o.HealthChecks = append(o.HealthChecks, h)
	return o
}

func (o *HttpLoadBalancerCreateOptions) WithURLRule(r URLRule) *HttpLoadBalancerCreateOptions {
	o.URLRules = append(o.URLRules, r)
	return o
}

func (o *HttpLoadBalancerCreateOptions) WithTargetProxy(p TargetProxy) *HttpLoadBalancerCreateOptions {
	o.TargetProxies = append(o.TargetProxies, p)
	return o
}

// Validate checks that every referenced backend service is declared.
func (o *HttpLoadBalancerCreateOptions) Validate() error {
	if o.Name == "" {
		return invalidOptions("http load balancer create", "name is required")
	}
	declared := make(map[string]bool, len(o.BackendServices))
	for _, b := range o.BackendServices {
		declared[b.Name] = true
	}
	if o.DefaultBackendService == "" || !declared[o.DefaultBackendService] {
		return invalidOptions("http load balancer create",
			fmt.Sprintf("default backend service %q is not declared", o.DefaultBackendService))
	}
	for _, r := range o.URLRules {
		if !declared[r.BackendService] {
			return invalidOptions("http load balancer create",
				fmt.Sprintf("url rule for %q references undeclared backend %q", r.Host, r.BackendService))
		}
	}
	return nil
}
