package models

// Host status parameter values. Both the explicit and the yes/no spelling
// are accepted; anything else is rejected by validation.
const (
	StatusMonitored   = "monitored"
	StatusUnmonitored = "unmonitored"
	StatusYes         = "yes"
	StatusNo          = "no"
)

// Interface type parameter values.
const (
	InterfaceAgent = "agent"
	InterfaceSNMP  = "SNMP"
	InterfaceIPMI  = "IPMI"
	InterfaceJMX   = "JMX"
)

// HostParams is the desired state of a single host.
//
// A host reaches the server with exactly one network interface. The
// interface address is either a DNS name or an IP address, never both; the
// port defaults by interface type when left empty (agent 10050, SNMP 161,
// IPMI 12345, JMX 623).
//
// Example YAML representation (as used in apply manifests):
//
//	name: host1
//	visible: Host One
//	groups: g1,g2
//	templates: Template OS Linux
//	status: monitored
//	dns: host1.example.com
//	type: agent
type HostParams struct {
	// Name is the technical host name, unique on the server (required)
	Name string `yaml:"name" validate:"required"`

	// Visible is the display name shown in the UI (optional)
	Visible string `yaml:"visible"`

	// Groups is a comma-separated list of host group names the host
	// belongs to; every name must resolve (required)
	Groups string `yaml:"groups" validate:"required"`

	// Templates is a comma-separated list of template names to link
	// (optional)
	Templates string `yaml:"templates"`

	// Status is the monitoring status: monitored, unmonitored, yes, no
	Status string `yaml:"status" validate:"omitempty,oneof=monitored unmonitored yes no"`

	// DNS is the interface DNS name (mutually exclusive with IP)
	DNS string `yaml:"dns"`

	// IP is the interface IP address (mutually exclusive with DNS)
	IP string `yaml:"ip" validate:"omitempty,ip"`

	// Port is the interface port; empty selects the type default
	Port string `yaml:"port" validate:"omitempty,numeric"`

	// Main marks the interface as the default one (0 or 1, default 1)
	Main *int `yaml:"main" validate:"omitempty,min=0,max=1"`

	// Type is the interface protocol: agent, SNMP, IPMI, JMX
	Type string `yaml:"type" validate:"omitempty,oneof=agent SNMP IPMI JMX"`
}

// Monitored reports whether the desired status is the monitored one. An
// empty status defaults to monitored.
func (p *HostParams) Monitored() bool {
	return p.Status == "" || p.Status == StatusMonitored || p.Status == StatusYes
}

// InterfaceType returns the effective interface type, defaulting to agent.
func (p *HostParams) InterfaceType() string {
	if p.Type == "" {
		return InterfaceAgent
	}
	return p.Type
}

// MainFlag returns the effective main flag, defaulting to 1.
func (p *HostParams) MainFlag() int {
	if p.Main == nil {
		return 1
	}
	return *p.Main
}
