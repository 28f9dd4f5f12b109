package zabbix

import (
	"context"
	"encoding/json"
)

// HostGroup is a named collection used to organize hosts.
type HostGroup struct {
	GroupID string `json:"groupid"`
	Name    string `json:"name"`
}

// GroupID references a host group by id in host create/update params.
type GroupID struct {
	GroupID string `json:"groupid"`
}

type hostGroupGetParams struct {
	Output string             `json:"output"`
	Filter hostGroupGetFilter `json:"filter"`
}

type hostGroupGetFilter struct {
	Name []string `json:"name"`
}

type hostGroupCreateParams struct {
	Name string `json:"name"`
}

// HostGroupGet returns the host groups matching name exactly. An empty slice
// means no such group exists.
func (c *Client) HostGroupGet(ctx context.Context, name string) ([]HostGroup, error) {
	params := hostGroupGetParams{
		Output: "extend",
		Filter: hostGroupGetFilter{Name: []string{name}},
	}

	result, err := c.Call(ctx, "hostgroup", "get", params)
	if err != nil {
		return nil, err
	}

	var groups []HostGroup
	if err := json.Unmarshal(result, &groups); err != nil {
		return nil, &ProtocolError{Method: "hostgroup.get", Reason: "unexpected result", Err: err}
	}
	return groups, nil
}

// HostGroupCreate creates a host group with the given name.
func (c *Client) HostGroupCreate(ctx context.Context, name string) error {
	_, err := c.Call(ctx, "hostgroup", "create", hostGroupCreateParams{Name: name})
	return err
}

// HostGroupDelete deletes the host group with the given id.
func (c *Client) HostGroupDelete(ctx context.Context, groupID string) error {
	_, err := c.Call(ctx, "hostgroup", "delete", []string{groupID})
	return err
}
