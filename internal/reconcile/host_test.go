package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/zabbixctl/models"
	"evalgo.org/zabbixctl/pkg/zabbix"
)

func TestHostCreate_New(t *testing.T) {
	fake, srv := newFakeServer(t)
	client, v, logger := newTestClient(t, srv)
	groupID := fake.addGroup("Linux servers")
	templateID := fake.addTemplate("Template OS Linux", "")

	r, err := NewHost(client, v, logger, &models.HostParams{
		Name:      "web1",
		Visible:   "Web Server 1",
		Groups:    "Linux servers",
		Templates: "Template OS Linux",
		DNS:       "web1.example.com",
	})
	require.NoError(t, err)

	res, err := r.Create(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Changed)

	h, ok := fake.hosts["web1"]
	require.True(t, ok)
	assert.Equal(t, "Web Server 1", h.visible)
	assert.Equal(t, 0, h.status)
	assert.Equal(t, []string{groupID}, h.groups)
	assert.Equal(t, []string{templateID}, h.templates)
	assert.Equal(t, "web1.example.com", h.iface["dns"])
	assert.Equal(t, 0, h.iface["useip"])
	assert.Equal(t, "10050", h.iface["port"])
	assert.Equal(t, 1, h.iface["type"])
	assert.Equal(t, 1, h.iface["main"])
}

func TestHostCreate_DNSAndIPRejectedBeforeNetwork(t *testing.T) {
	fake, srv := newFakeServer(t)
	client, v, logger := newTestClient(t, srv)

	r, err := NewHost(client, v, logger, &models.HostParams{
		Name:   "web1",
		Groups: "Linux servers",
		DNS:    "web1.example.com",
		IP:     "192.0.2.10",
	})
	require.NoError(t, err)

	_, err = r.Create(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
	assert.Empty(t, fake.calls)
}

func TestHostCreate_NeitherDNSNorIPRejected(t *testing.T) {
	fake, srv := newFakeServer(t)
	client, v, logger := newTestClient(t, srv)

	r, err := NewHost(client, v, logger, &models.HostParams{
		Name:   "web1",
		Groups: "Linux servers",
	})
	require.NoError(t, err)

	_, err = r.Create(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dns or ip")
	assert.Empty(t, fake.calls)
}

func TestHostCreate_UnknownGroup(t *testing.T) {
	fake, srv := newFakeServer(t)
	client, v, logger := newTestClient(t, srv)

	r, err := NewHost(client, v, logger, &models.HostParams{
		Name:   "web1",
		Groups: "No such group",
		IP:     "192.0.2.10",
	})
	require.NoError(t, err)

	_, err = r.Create(context.Background())
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "host group", notFound.Kind)
	assert.Equal(t, "No such group", notFound.Name)
	assert.Zero(t, fake.mutationCount())
}

func TestHostCreate_Unchanged(t *testing.T) {
	fake, srv := newFakeServer(t)
	client, v, logger := newTestClient(t, srv)
	groupID := fake.addGroup("Linux servers")
	fake.addHost(&fakeHost{
		host:    "web1",
		visible: "web1",
		status:  0,
		groups:  []string{groupID},
		iface: map[string]interface{}{
			"dns": "", "ip": "192.0.2.10", "main": 1, "port": "10050", "type": 1, "useip": 1,
		},
	})

	r, err := NewHost(client, v, logger, &models.HostParams{
		Name:   "web1",
		Groups: "Linux servers",
		IP:     "192.0.2.10",
	})
	require.NoError(t, err)

	res, err := r.Create(context.Background())
	require.NoError(t, err)

	assert.False(t, res.Changed)
	assert.Contains(t, res.Message, "matches")
	assert.Zero(t, fake.mutationCount())
}

func TestHostCreate_UpdateStatus(t *testing.T) {
	fake, srv := newFakeServer(t)
	client, v, logger := newTestClient(t, srv)
	groupID := fake.addGroup("Linux servers")
	fake.addHost(&fakeHost{
		host:    "web1",
		visible: "web1",
		status:  0,
		groups:  []string{groupID},
		iface: map[string]interface{}{
			"dns": "", "ip": "192.0.2.10", "main": 1, "port": "10050", "type": 1, "useip": 1,
		},
	})

	r, err := NewHost(client, v, logger, &models.HostParams{
		Name:   "web1",
		Groups: "Linux servers",
		Status: models.StatusUnmonitored,
		IP:     "192.0.2.10",
	})
	require.NoError(t, err)

	res, err := r.Create(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.Equal(t, 1, fake.hosts["web1"].status)
	assert.Equal(t, 1, fake.callCount("host.update"))
	assert.Equal(t, 1, fake.callCount("hostinterface.update"))
}

func TestHostCreate_UpdateInterface(t *testing.T) {
	fake, srv := newFakeServer(t)
	client, v, logger := newTestClient(t, srv)
	groupID := fake.addGroup("Linux servers")
	fake.addHost(&fakeHost{
		host:    "web1",
		visible: "web1",
		groups:  []string{groupID},
		iface: map[string]interface{}{
			"dns": "", "ip": "192.0.2.10", "main": 1, "port": "10050", "type": 1, "useip": 1,
		},
	})

	// Switch the interface from IP to DNS addressing.
	r, err := NewHost(client, v, logger, &models.HostParams{
		Name:   "web1",
		Groups: "Linux servers",
		DNS:    "web1.example.com",
	})
	require.NoError(t, err)

	res, err := r.Create(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Changed)

	h := fake.hosts["web1"]
	assert.Equal(t, "web1.example.com", h.iface["dns"])
	assert.Equal(t, "", h.iface["ip"])
	assert.Equal(t, 0, h.iface["useip"])
}

func TestHostCreate_GroupOrderIrrelevant(t *testing.T) {
	// Listing the same groups in a different order must not count as a
	// change.
	fake, srv := newFakeServer(t)
	client, v, logger := newTestClient(t, srv)
	g1 := fake.addGroup("Linux servers")
	g2 := fake.addGroup("Web servers")
	fake.addHost(&fakeHost{
		host:    "web1",
		visible: "web1",
		groups:  []string{g1, g2},
		iface: map[string]interface{}{
			"dns": "", "ip": "192.0.2.10", "main": 1, "port": "10050", "type": 1, "useip": 1,
		},
	})

	r, err := NewHost(client, v, logger, &models.HostParams{
		Name:   "web1",
		Groups: "Web servers, Linux servers",
		IP:     "192.0.2.10",
	})
	require.NoError(t, err)

	res, err := r.Create(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Zero(t, fake.mutationCount())
}

func TestHostDelete(t *testing.T) {
	fake, srv := newFakeServer(t)
	client, v, logger := newTestClient(t, srv)
	fake.addHost(&fakeHost{host: "web1", visible: "web1"})

	r, err := NewHost(client, v, logger, &models.HostParams{Name: "web1"})
	require.NoError(t, err)

	res, err := r.Delete(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.NotContains(t, fake.hosts, "web1")
}

func TestHostDelete_Absent(t *testing.T) {
	fake, srv := newFakeServer(t)
	client, v, logger := newTestClient(t, srv)

	r, err := NewHost(client, v, logger, &models.HostParams{Name: "web1"})
	require.NoError(t, err)

	res, err := r.Delete(context.Background())
	require.NoError(t, err)

	assert.False(t, res.Changed)
	assert.Zero(t, fake.mutationCount())
}

func TestNewHost_RequiresName(t *testing.T) {
	_, srv := newFakeServer(t)
	client, v, logger := newTestClient(t, srv)

	_, err := NewHost(client, v, logger, &models.HostParams{})
	require.Error(t, err)
}

func TestBuildInterface_Defaults(t *testing.T) {
	tests := []struct {
		name   string
		params models.HostParams
		want   zabbix.HostInterface
	}{
		{
			name:   "dns agent",
			params: models.HostParams{DNS: "h.example.com"},
			want:   zabbix.HostInterface{DNS: "h.example.com", Main: 1, Port: "10050", Type: zabbix.InterfaceAgent, UseIP: 0},
		},
		{
			name:   "ip agent",
			params: models.HostParams{IP: "192.0.2.10"},
			want:   zabbix.HostInterface{IP: "192.0.2.10", Main: 1, Port: "10050", Type: zabbix.InterfaceAgent, UseIP: 1},
		},
		{
			name:   "snmp default port",
			params: models.HostParams{IP: "192.0.2.10", Type: models.InterfaceSNMP},
			want:   zabbix.HostInterface{IP: "192.0.2.10", Main: 1, Port: "161", Type: zabbix.InterfaceSNMP, UseIP: 1},
		},
		{
			name:   "ipmi default port",
			params: models.HostParams{IP: "192.0.2.10", Type: models.InterfaceIPMI},
			want:   zabbix.HostInterface{IP: "192.0.2.10", Main: 1, Port: "12345", Type: zabbix.InterfaceIPMI, UseIP: 1},
		},
		{
			name:   "jmx default port",
			params: models.HostParams{IP: "192.0.2.10", Type: models.InterfaceJMX},
			want:   zabbix.HostInterface{IP: "192.0.2.10", Main: 1, Port: "623", Type: zabbix.InterfaceJMX, UseIP: 1},
		},
		{
			name:   "explicit port wins",
			params: models.HostParams{IP: "192.0.2.10", Port: "10051"},
			want:   zabbix.HostInterface{IP: "192.0.2.10", Main: 1, Port: "10051", Type: zabbix.InterfaceAgent, UseIP: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &HostReconciler{params: &tt.params}
			assert.Equal(t, tt.want, r.buildInterface(""))
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList("a, b"))
	assert.Equal(t, []string{"a"}, splitList("a,,"))
	assert.Nil(t, splitList(""))
}
