package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"evalgo.org/zabbixctl/internal/validation"
	"evalgo.org/zabbixctl/models"
	"evalgo.org/zabbixctl/pkg/zabbix"
)

// interfaceTypes maps the type parameter to its protocol code.
var interfaceTypes = map[string]zabbix.InterfaceType{
	models.InterfaceAgent: zabbix.InterfaceAgent,
	models.InterfaceSNMP:  zabbix.InterfaceSNMP,
	models.InterfaceIPMI:  zabbix.InterfaceIPMI,
	models.InterfaceJMX:   zabbix.InterfaceJMX,
}

// defaultPorts maps the type parameter to the port used when none is given.
var defaultPorts = map[string]string{
	models.InterfaceAgent: "10050",
	models.InterfaceSNMP:  "161",
	models.InterfaceIPMI:  "12345",
	models.InterfaceJMX:   "623",
}

// HostReconciler converges one host: its existence, visible name, status,
// group and template links, and its single network interface.
type HostReconciler struct {
	client    *zabbix.Client
	validator *validation.Validator
	logger    *zap.SugaredLogger
	params    *models.HostParams
}

// NewHost creates a host reconciler. Only the name is needed at this point;
// Create validates the full desired state, Delete works from the name alone.
func NewHost(client *zabbix.Client, v *validation.Validator, logger *zap.SugaredLogger, params *models.HostParams) (*HostReconciler, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("host name is required")
	}

	return &HostReconciler{
		client:    client,
		validator: v,
		logger:    logger,
		params:    params,
	}, nil
}

// Exists reports whether the host exists on the server.
func (r *HostReconciler) Exists(ctx context.Context) (bool, error) {
	hosts, err := r.client.HostGet(ctx, r.params.Name)
	if err != nil {
		return false, err
	}
	return len(hosts) > 0, nil
}

// GetID resolves the host name to its server-side id.
func (r *HostReconciler) GetID(ctx context.Context) (string, error) {
	hosts, err := r.client.HostGet(ctx, r.params.Name)
	if err != nil {
		return "", err
	}
	if len(hosts) == 0 {
		return "", &NotFoundError{Kind: "host", Name: r.params.Name}
	}
	return hosts[0].HostID, nil
}

// Create converges the host to its desired state: creates it when absent,
// updates the changed fields when present, does nothing when it already
// matches. Invalid parameters, including a DNS name and an IP address on the
// same interface, are rejected before any network call.
func (r *HostReconciler) Create(ctx context.Context) (Result, error) {
	if err := r.validator.ValidateHost(r.params).Err(); err != nil {
		return Result{}, err
	}

	hosts, err := r.client.HostGet(ctx, r.params.Name)
	if err != nil {
		return Result{}, err
	}

	groupIDs, err := r.resolveGroups(ctx)
	if err != nil {
		return Result{}, err
	}
	templateIDs, err := r.resolveTemplates(ctx)
	if err != nil {
		return Result{}, err
	}

	if len(hosts) == 0 {
		return r.createHost(ctx, groupIDs, templateIDs)
	}
	return r.updateHost(ctx, hosts[0], groupIDs, templateIDs)
}

// Delete ensures the host is absent. Deleting a nonexistent host issues no
// mutating call.
func (r *HostReconciler) Delete(ctx context.Context) (Result, error) {
	hosts, err := r.client.HostGet(ctx, r.params.Name)
	if err != nil {
		return Result{}, err
	}
	if len(hosts) == 0 {
		return Result{Message: fmt.Sprintf("host %q does not exist", r.params.Name)}, nil
	}

	if err := r.client.HostDelete(ctx, hosts[0].HostID); err != nil {
		return Result{}, err
	}

	r.logger.Infow("host deleted", "name", r.params.Name, "hostid", hosts[0].HostID)
	return Result{Changed: true, Message: fmt.Sprintf("host %q deleted", r.params.Name)}, nil
}

func (r *HostReconciler) createHost(ctx context.Context, groupIDs, templateIDs []string) (Result, error) {
	create := zabbix.HostCreateParams{
		Host:       r.params.Name,
		Name:       r.params.Visible,
		Status:     r.statusValue(),
		Interfaces: []zabbix.HostInterface{r.buildInterface("")},
		Groups:     toGroupRefs(groupIDs),
		Templates:  toTemplateRefs(templateIDs),
	}

	if err := r.client.HostCreate(ctx, create); err != nil {
		return Result{}, err
	}

	r.logger.Infow("host created", "name", r.params.Name, "groups", groupIDs, "templates", templateIDs)
	return Result{Changed: true, Message: fmt.Sprintf("host %q created", r.params.Name)}, nil
}

// updateHost applies the desired state to an existing host. The entity
// fields and the interface are pushed in two separate calls; if the second
// fails after the first succeeded the host is left partially converged and
// the next run converges the rest.
func (r *HostReconciler) updateHost(ctx context.Context, host zabbix.Host, groupIDs, templateIDs []string) (Result, error) {
	current, err := r.currentState(ctx, host)
	if err != nil {
		return Result{}, err
	}

	desired := hostState{
		visible:   r.effectiveVisible(),
		status:    r.statusValue(),
		groups:    groupIDs,
		templates: templateIDs,
		iface:     r.buildInterface(""),
	}

	if desired.equal(current) {
		return Result{Message: fmt.Sprintf("host %q matches the desired state", r.params.Name)}, nil
	}

	update := zabbix.HostUpdateParams{
		HostID:    host.HostID,
		Name:      r.effectiveVisible(),
		Status:    r.statusValue(),
		Groups:    toGroupRefs(groupIDs),
		Templates: toTemplateRefs(templateIDs),
	}
	if err := r.client.HostUpdate(ctx, update); err != nil {
		return Result{}, err
	}

	iface := r.buildInterface(current.iface.InterfaceID)
	iface.HostID = host.HostID
	if err := r.client.HostInterfaceUpdate(ctx, iface); err != nil {
		return Result{}, err
	}

	r.logger.Infow("host updated", "name", r.params.Name, "hostid", host.HostID)
	return Result{Changed: true, Message: fmt.Sprintf("host %q updated", r.params.Name)}, nil
}

// hostState is the comparable slice of a host's state: the fields this tool
// manages and nothing else.
type hostState struct {
	visible   string
	status    int
	groups    []string
	templates []string
	iface     zabbix.HostInterface
}

// equal compares two states. Group and template links are compared as sets;
// of the interface only ip, dns, useip, type and port take part.
func (s hostState) equal(o hostState) bool {
	if s.visible != o.visible || s.status != o.status {
		return false
	}
	if !sameSet(s.groups, o.groups) || !sameSet(s.templates, o.templates) {
		return false
	}
	a, b := s.iface, o.iface
	return a.IP == b.IP && a.DNS == b.DNS && a.UseIP == b.UseIP && a.Type == b.Type && a.Port == b.Port
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// currentState fetches the server-side state of an existing host.
func (r *HostReconciler) currentState(ctx context.Context, host zabbix.Host) (hostState, error) {
	groups, err := r.client.HostGroups(ctx, host.HostID)
	if err != nil {
		return hostState{}, err
	}
	templates, err := r.client.HostTemplates(ctx, host.HostID)
	if err != nil {
		return hostState{}, err
	}
	ifaces, err := r.client.HostInterfaces(ctx, host.HostID)
	if err != nil {
		return hostState{}, err
	}
	if len(ifaces) == 0 {
		return hostState{}, fmt.Errorf("host %q has no interface", r.params.Name)
	}

	state := hostState{
		visible: host.Name,
		status:  host.Status,
		iface:   ifaces[0],
	}
	for _, g := range groups {
		state.groups = append(state.groups, g.GroupID)
	}
	for _, t := range templates {
		state.templates = append(state.templates, t.TemplateID)
	}
	return state, nil
}

// resolveGroups resolves the comma-separated group name list to ids. Every
// name must exist.
func (r *HostReconciler) resolveGroups(ctx context.Context) ([]string, error) {
	var ids []string
	for _, name := range splitList(r.params.Groups) {
		groups, err := r.client.HostGroupGet(ctx, name)
		if err != nil {
			return nil, err
		}
		if len(groups) == 0 {
			return nil, &NotFoundError{Kind: "host group", Name: name}
		}
		ids = append(ids, groups[0].GroupID)
	}
	return ids, nil
}

// resolveTemplates resolves the comma-separated template name list to ids.
// Every name must exist.
func (r *HostReconciler) resolveTemplates(ctx context.Context) ([]string, error) {
	var ids []string
	for _, name := range splitList(r.params.Templates) {
		templates, err := r.client.TemplateGet(ctx, name)
		if err != nil {
			return nil, err
		}
		if len(templates) == 0 {
			return nil, &NotFoundError{Kind: "template", Name: name}
		}
		ids = append(ids, templates[0].TemplateID)
	}
	return ids, nil
}

// buildInterface derives the wire interface from the parameters. When
// updating an existing interface its id is carried over.
func (r *HostReconciler) buildInterface(interfaceID string) zabbix.HostInterface {
	ifaceType := r.params.InterfaceType()

	useIP := 1
	if r.params.DNS != "" {
		useIP = 0
	}

	port := r.params.Port
	if port == "" {
		port = defaultPorts[ifaceType]
	}

	return zabbix.HostInterface{
		InterfaceID: interfaceID,
		DNS:         r.params.DNS,
		IP:          r.params.IP,
		Main:        r.params.MainFlag(),
		Port:        port,
		Type:        interfaceTypes[ifaceType],
		UseIP:       useIP,
	}
}

func (r *HostReconciler) statusValue() int {
	if r.params.Monitored() {
		return zabbix.StatusMonitored
	}
	return zabbix.StatusUnmonitored
}

// effectiveVisible is the visible name the server will hold: the visible
// parameter, or the technical name when none was given.
func (r *HostReconciler) effectiveVisible() string {
	if r.params.Visible == "" {
		return r.params.Name
	}
	return r.params.Visible
}

func toGroupRefs(ids []string) []zabbix.GroupID {
	refs := make([]zabbix.GroupID, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, zabbix.GroupID{GroupID: id})
	}
	return refs
}

func toTemplateRefs(ids []string) []zabbix.TemplateID {
	refs := make([]zabbix.TemplateID, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, zabbix.TemplateID{TemplateID: id})
	}
	return refs
}

// splitList splits a comma-separated name list, trimming whitespace and
// dropping empty entries.
func splitList(csv string) []string {
	var names []string
	for _, part := range strings.Split(csv, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
