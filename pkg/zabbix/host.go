package zabbix

import (
	"context"
	"encoding/json"
)

// InterfaceType identifies the protocol of a host interface.
type InterfaceType int

const (
	InterfaceAgent InterfaceType = 1
	InterfaceSNMP  InterfaceType = 2
	InterfaceIPMI  InterfaceType = 3
	InterfaceJMX   InterfaceType = 4
)

// Host monitoring status values.
const (
	StatusMonitored   = 0
	StatusUnmonitored = 1
)

// Host is a monitored endpoint entity. Host is the technical name used for
// lookups; Name is the visible display name.
type Host struct {
	HostID string `json:"hostid"`
	Host   string `json:"host"`
	Name   string `json:"name"`
	Status int    `json:"status"`
}

// HostInterface is the network reachability descriptor for a host. DNS and
// IP are mutually exclusive; UseIP selects which one the server contacts.
type HostInterface struct {
	InterfaceID string        `json:"interfaceid,omitempty"`
	HostID      string        `json:"hostid,omitempty"`
	DNS         string        `json:"dns"`
	IP          string        `json:"ip"`
	Main        int           `json:"main"`
	Port        string        `json:"port"`
	Type        InterfaceType `json:"type"`
	UseIP       int           `json:"useip"`
}

// HostCreateParams are the parameters for host.create.
type HostCreateParams struct {
	Host       string          `json:"host"`
	Name       string          `json:"name,omitempty"`
	Status     int             `json:"status"`
	Interfaces []HostInterface `json:"interfaces"`
	Groups     []GroupID       `json:"groups"`
	Templates  []TemplateID    `json:"templates,omitempty"`
}

// HostUpdateParams are the parameters for host.update. Interfaces are
// updated separately via HostInterfaceUpdate.
type HostUpdateParams struct {
	HostID    string       `json:"hostid"`
	Name      string       `json:"name,omitempty"`
	Status    int          `json:"status"`
	Groups    []GroupID    `json:"groups"`
	Templates []TemplateID `json:"templates"`
}

type hostGetParams struct {
	Output string        `json:"output"`
	Filter hostGetFilter `json:"filter"`
}

type hostGetFilter struct {
	Host []string `json:"host"`
}

type byHostIDParams struct {
	Output  string   `json:"output"`
	HostIDs []string `json:"hostids"`
}

// HostGet returns the hosts whose technical name matches exactly.
func (c *Client) HostGet(ctx context.Context, name string) ([]Host, error) {
	params := hostGetParams{
		Output: "extend",
		Filter: hostGetFilter{Host: []string{name}},
	}

	result, err := c.Call(ctx, "host", "get", params)
	if err != nil {
		return nil, err
	}

	var hosts []Host
	if err := json.Unmarshal(result, &hosts); err != nil {
		return nil, &ProtocolError{Method: "host.get", Reason: "unexpected result", Err: err}
	}
	return hosts, nil
}

// HostCreate creates a host with its interface, group and template links.
func (c *Client) HostCreate(ctx context.Context, params HostCreateParams) error {
	_, err := c.Call(ctx, "host", "create", params)
	return err
}

// HostUpdate pushes status, visible name, group and template links in one
// call keyed by host id.
func (c *Client) HostUpdate(ctx context.Context, params HostUpdateParams) error {
	_, err := c.Call(ctx, "host", "update", params)
	return err
}

// HostDelete deletes the host with the given id.
func (c *Client) HostDelete(ctx context.Context, hostID string) error {
	_, err := c.Call(ctx, "host", "delete", []string{hostID})
	return err
}

// HostGroups returns the host groups the given host belongs to.
func (c *Client) HostGroups(ctx context.Context, hostID string) ([]HostGroup, error) {
	result, err := c.Call(ctx, "hostgroup", "get", byHostIDParams{Output: "extend", HostIDs: []string{hostID}})
	if err != nil {
		return nil, err
	}

	var groups []HostGroup
	if err := json.Unmarshal(result, &groups); err != nil {
		return nil, &ProtocolError{Method: "hostgroup.get", Reason: "unexpected result", Err: err}
	}
	return groups, nil
}

// HostTemplates returns the templates linked to the given host.
func (c *Client) HostTemplates(ctx context.Context, hostID string) ([]Template, error) {
	result, err := c.Call(ctx, "template", "get", byHostIDParams{Output: "extend", HostIDs: []string{hostID}})
	if err != nil {
		return nil, err
	}

	var templates []Template
	if err := json.Unmarshal(result, &templates); err != nil {
		return nil, &ProtocolError{Method: "template.get", Reason: "unexpected result", Err: err}
	}
	return templates, nil
}

// HostInterfaces returns the interfaces of the given host.
func (c *Client) HostInterfaces(ctx context.Context, hostID string) ([]HostInterface, error) {
	result, err := c.Call(ctx, "hostinterface", "get", byHostIDParams{Output: "extend", HostIDs: []string{hostID}})
	if err != nil {
		return nil, err
	}

	var ifaces []HostInterface
	if err := json.Unmarshal(result, &ifaces); err != nil {
		return nil, &ProtocolError{Method: "hostinterface.get", Reason: "unexpected result", Err: err}
	}
	return ifaces, nil
}

// HostInterfaceUpdate replaces an existing interface. The InterfaceID field
// must be set.
func (c *Client) HostInterfaceUpdate(ctx context.Context, iface HostInterface) error {
	_, err := c.Call(ctx, "hostinterface", "update", iface)
	return err
}
