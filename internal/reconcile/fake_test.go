package reconcile

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"evalgo.org/zabbixctl/internal/validation"
	"evalgo.org/zabbixctl/pkg/zabbix"
)

// fakeHost is the server-side state of one host on the fake server.
type fakeHost struct {
	id        string
	host      string
	visible   string
	status    int
	groups    []string
	templates []string
	iface     map[string]interface{}
}

// fakeServer is an in-memory Zabbix JSON-RPC endpoint covering the API
// subset the reconcilers use. It records every method called so tests can
// assert which mutations were issued.
type fakeServer struct {
	t *testing.T

	groups       map[string]string // name -> id
	templates    map[string]string // name -> id
	templateDocs map[string]string // template id -> export document
	hosts        map[string]*fakeHost
	imported     []string // documents received via configuration.import

	nextID int
	calls  []string
}

func newFakeServer(t *testing.T) (*fakeServer, *httptest.Server) {
	t.Helper()

	s := &fakeServer{
		t:            t,
		groups:       map[string]string{},
		templates:    map[string]string{},
		templateDocs: map[string]string{},
		hosts:        map[string]*fakeHost{},
		nextID:       1,
	}

	e := echo.New()
	e.POST("/api_jsonrpc.php", s.handle)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return s, srv
}

// newTestClient builds a client and reconciler dependencies wired to a fake
// server.
func newTestClient(t *testing.T, srv *httptest.Server) (*zabbix.Client, *validation.Validator, *zap.SugaredLogger) {
	t.Helper()

	client, err := zabbix.New(srv.URL)
	require.NoError(t, err)
	return client, validation.New(), zap.NewNop().Sugar()
}

func (s *fakeServer) allocID() string {
	id := strconv.Itoa(s.nextID)
	s.nextID++
	return id
}

func (s *fakeServer) addGroup(name string) string {
	id := s.allocID()
	s.groups[name] = id
	return id
}

func (s *fakeServer) addTemplate(name, doc string) string {
	id := s.allocID()
	s.templates[name] = id
	if doc != "" {
		s.templateDocs[id] = doc
	}
	return id
}

func (s *fakeServer) addHost(h *fakeHost) *fakeHost {
	h.id = s.allocID()
	if h.iface != nil && h.iface["interfaceid"] == nil {
		h.iface["interfaceid"] = s.allocID()
	}
	s.hosts[h.host] = h
	return h
}

// callCount returns how many times the given method was invoked.
func (s *fakeServer) callCount(method string) int {
	n := 0
	for _, m := range s.calls {
		if m == method {
			n++
		}
	}
	return n
}

// mutationCount returns how many mutating calls were issued.
func (s *fakeServer) mutationCount() int {
	n := 0
	for _, m := range s.calls {
		switch m {
		case "hostgroup.create", "hostgroup.delete",
			"template.create", "template.delete", "configuration.import",
			"host.create", "host.update", "host.delete", "hostinterface.update":
			n++
		}
	}
	return n
}

type rpcEnvelope struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
	ID     int             `json:"id"`
}

func (s *fakeServer) handle(c echo.Context) error {
	var env rpcEnvelope
	if err := json.NewDecoder(c.Request().Body).Decode(&env); err != nil {
		return err
	}
	s.calls = append(s.calls, env.Method)

	result, err := s.dispatch(env.Method, env.Params)
	if err != nil {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"jsonrpc": "2.0",
			"error": map[string]interface{}{
				"code":    -32500,
				"message": "Application error.",
				"data":    err.Error(),
			},
			"id": env.ID,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"jsonrpc": "2.0",
		"result":  result,
		"id":      env.ID,
	})
}

func (s *fakeServer) dispatch(method string, params json.RawMessage) (interface{}, error) {
	switch method {
	case "user.login", "user.authenticate":
		return "fake-token", nil
	case "apiinfo.version":
		return "7.0.0", nil
	case "hostgroup.get":
		return s.hostGroupGet(params)
	case "hostgroup.create":
		return s.hostGroupCreate(params)
	case "hostgroup.delete":
		return s.hostGroupDelete(params)
	case "template.get":
		return s.templateGet(params)
	case "template.create":
		return s.templateCreate(params)
	case "template.delete":
		return s.templateDelete(params)
	case "configuration.export":
		return s.configurationExport(params)
	case "configuration.import":
		return s.configurationImport(params)
	case "host.get":
		return s.hostGet(params)
	case "host.create":
		return s.hostCreate(params)
	case "host.update":
		return s.hostUpdate(params)
	case "host.delete":
		return s.hostDelete(params)
	case "hostinterface.get":
		return s.hostInterfaceGet(params)
	case "hostinterface.update":
		return s.hostInterfaceUpdate(params)
	default:
		return nil, fmt.Errorf("unsupported method %s", method)
	}
}

type getParams struct {
	Filter  map[string][]string `json:"filter"`
	HostIDs []string            `json:"hostids"`
}

func (s *fakeServer) hostGroupGet(raw json.RawMessage) (interface{}, error) {
	var params getParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}

	result := []map[string]string{}
	if names, ok := params.Filter["name"]; ok {
		for _, name := range names {
			if id, ok := s.groups[name]; ok {
				result = append(result, map[string]string{"groupid": id, "name": name})
			}
		}
		return result, nil
	}

	for _, hostID := range params.HostIDs {
		for _, h := range s.hosts {
			if h.id != hostID {
				continue
			}
			for _, gid := range h.groups {
				result = append(result, map[string]string{"groupid": gid})
			}
		}
	}
	return result, nil
}

func (s *fakeServer) hostGroupCreate(raw json.RawMessage) (interface{}, error) {
	var params struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}
	if _, exists := s.groups[params.Name]; exists {
		return nil, fmt.Errorf("host group %q already exists", params.Name)
	}

	id := s.addGroup(params.Name)
	return map[string][]string{"groupids": {id}}, nil
}

func (s *fakeServer) hostGroupDelete(raw json.RawMessage) (interface{}, error) {
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, err
	}
	for name, id := range s.groups {
		if id == ids[0] {
			delete(s.groups, name)
			return map[string][]string{"groupids": ids}, nil
		}
	}
	return nil, fmt.Errorf("no host group with id %s", ids[0])
}

func (s *fakeServer) templateGet(raw json.RawMessage) (interface{}, error) {
	var params getParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}

	result := []map[string]string{}
	if names, ok := params.Filter["host"]; ok {
		for _, name := range names {
			if id, ok := s.templates[name]; ok {
				result = append(result, map[string]string{"templateid": id, "host": name})
			}
		}
		return result, nil
	}

	for _, hostID := range params.HostIDs {
		for _, h := range s.hosts {
			if h.id != hostID {
				continue
			}
			for _, tid := range h.templates {
				result = append(result, map[string]string{"templateid": tid})
			}
		}
	}
	return result, nil
}

func (s *fakeServer) templateCreate(raw json.RawMessage) (interface{}, error) {
	var params struct {
		Host string `json:"host"`
	}
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}

	id := s.addTemplate(params.Host, "")
	return map[string][]string{"templateids": {id}}, nil
}

func (s *fakeServer) templateDelete(raw json.RawMessage) (interface{}, error) {
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, err
	}
	for name, id := range s.templates {
		if id == ids[0] {
			delete(s.templates, name)
			delete(s.templateDocs, id)
			return map[string][]string{"templateids": ids}, nil
		}
	}
	return nil, fmt.Errorf("no template with id %s", ids[0])
}

func (s *fakeServer) configurationExport(raw json.RawMessage) (interface{}, error) {
	var params struct {
		Options struct {
			Templates []string `json:"templates"`
		} `json:"options"`
	}
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}

	doc, ok := s.templateDocs[params.Options.Templates[0]]
	if !ok {
		return nil, fmt.Errorf("no export document for template id %s", params.Options.Templates[0])
	}
	return doc, nil
}

func (s *fakeServer) configurationImport(raw json.RawMessage) (interface{}, error) {
	var params struct {
		Source string `json:"source"`
	}
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}
	s.imported = append(s.imported, params.Source)
	return true, nil
}

func (s *fakeServer) hostGet(raw json.RawMessage) (interface{}, error) {
	var params getParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}

	result := []map[string]interface{}{}
	for _, name := range params.Filter["host"] {
		if h, ok := s.hosts[name]; ok {
			result = append(result, map[string]interface{}{
				"hostid": h.id,
				"host":   h.host,
				"name":   h.visible,
				"status": h.status,
			})
		}
	}
	return result, nil
}

type wireInterface struct {
	InterfaceID string `json:"interfaceid"`
	DNS         string `json:"dns"`
	IP          string `json:"ip"`
	Main        int    `json:"main"`
	Port        string `json:"port"`
	Type        int    `json:"type"`
	UseIP       int    `json:"useip"`
}

type idRef struct {
	GroupID    string `json:"groupid"`
	TemplateID string `json:"templateid"`
}

func (s *fakeServer) hostCreate(raw json.RawMessage) (interface{}, error) {
	var params struct {
		Host       string          `json:"host"`
		Name       string          `json:"name"`
		Status     int             `json:"status"`
		Interfaces []wireInterface `json:"interfaces"`
		Groups     []idRef         `json:"groups"`
		Templates  []idRef         `json:"templates"`
	}
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}
	if _, exists := s.hosts[params.Host]; exists {
		return nil, fmt.Errorf("host %q already exists", params.Host)
	}
	if len(params.Interfaces) != 1 {
		return nil, fmt.Errorf("expected exactly one interface, got %d", len(params.Interfaces))
	}
	if len(params.Groups) == 0 {
		return nil, fmt.Errorf("at least one host group is required")
	}

	h := &fakeHost{
		host:    params.Host,
		visible: params.Name,
		status:  params.Status,
		iface: map[string]interface{}{
			"dns":   params.Interfaces[0].DNS,
			"ip":    params.Interfaces[0].IP,
			"main":  params.Interfaces[0].Main,
			"port":  params.Interfaces[0].Port,
			"type":  params.Interfaces[0].Type,
			"useip": params.Interfaces[0].UseIP,
		},
	}
	if h.visible == "" {
		h.visible = h.host
	}
	for _, g := range params.Groups {
		h.groups = append(h.groups, g.GroupID)
	}
	for _, tpl := range params.Templates {
		h.templates = append(h.templates, tpl.TemplateID)
	}
	s.addHost(h)

	return map[string][]string{"hostids": {h.id}}, nil
}

func (s *fakeServer) hostUpdate(raw json.RawMessage) (interface{}, error) {
	var params struct {
		HostID    string  `json:"hostid"`
		Name      string  `json:"name"`
		Status    int     `json:"status"`
		Groups    []idRef `json:"groups"`
		Templates []idRef `json:"templates"`
	}
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}

	for _, h := range s.hosts {
		if h.id != params.HostID {
			continue
		}
		if params.Name != "" {
			h.visible = params.Name
		}
		h.status = params.Status
		h.groups = nil
		for _, g := range params.Groups {
			h.groups = append(h.groups, g.GroupID)
		}
		h.templates = nil
		for _, tpl := range params.Templates {
			h.templates = append(h.templates, tpl.TemplateID)
		}
		return map[string][]string{"hostids": {h.id}}, nil
	}
	return nil, fmt.Errorf("no host with id %s", params.HostID)
}

func (s *fakeServer) hostDelete(raw json.RawMessage) (interface{}, error) {
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, err
	}
	for name, h := range s.hosts {
		if h.id == ids[0] {
			delete(s.hosts, name)
			return map[string][]string{"hostids": ids}, nil
		}
	}
	return nil, fmt.Errorf("no host with id %s", ids[0])
}

func (s *fakeServer) hostInterfaceGet(raw json.RawMessage) (interface{}, error) {
	var params getParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}

	result := []map[string]interface{}{}
	for _, hostID := range params.HostIDs {
		for _, h := range s.hosts {
			if h.id == hostID && h.iface != nil {
				result = append(result, h.iface)
			}
		}
	}
	return result, nil
}

func (s *fakeServer) hostInterfaceUpdate(raw json.RawMessage) (interface{}, error) {
	var iface wireInterface
	if err := json.Unmarshal(raw, &iface); err != nil {
		return nil, err
	}

	for _, h := range s.hosts {
		if h.iface == nil || h.iface["interfaceid"] != iface.InterfaceID {
			continue
		}
		h.iface["dns"] = iface.DNS
		h.iface["ip"] = iface.IP
		h.iface["main"] = iface.Main
		h.iface["port"] = iface.Port
		h.iface["type"] = iface.Type
		h.iface["useip"] = iface.UseIP
		return map[string][]string{"interfaceids": {iface.InterfaceID}}, nil
	}
	return nil, fmt.Errorf("no interface with id %s", iface.InterfaceID)
}
