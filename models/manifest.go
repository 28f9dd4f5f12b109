package models

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Entity states recognized in manifests and on the command line.
const (
	StatePresent = "present"
	StateAbsent  = "absent"
)

// ManifestHostGroup is a host group entry in an apply manifest. State
// defaults to present when omitted.
type ManifestHostGroup struct {
	State           string `yaml:"state"`
	HostGroupParams `yaml:",inline"`
}

// ManifestTemplate is a template entry in an apply manifest. JSONFile names
// a file holding the desired export document; it is loaded into JSON before
// reconciliation.
type ManifestTemplate struct {
	State          string `yaml:"state"`
	JSONFile       string `yaml:"jsonFile"`
	TemplateParams `yaml:",inline"`
}

// ManifestHost is a host entry in an apply manifest.
type ManifestHost struct {
	State      string `yaml:"state"`
	HostParams `yaml:",inline"`
}

// Manifest is a declarative description of a set of monitoring objects,
// applied in dependency order: host groups, then templates, then hosts.
//
// Example:
//
//	hostGroups:
//	  - name: Linux servers
//	templates:
//	  - name: Template OS Linux
//	    jsonFile: templates/os-linux.json
//	hosts:
//	  - name: host1
//	    groups: Linux servers
//	    templates: Template OS Linux
//	    dns: host1.example.com
type Manifest struct {
	HostGroups []ManifestHostGroup `yaml:"hostGroups"`
	Templates  []ManifestTemplate  `yaml:"templates"`
	Hosts      []ManifestHost      `yaml:"hosts"`
}

// ParseManifest decodes a YAML manifest and applies state defaulting.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	for i := range m.HostGroups {
		if err := normalizeState(&m.HostGroups[i].State); err != nil {
			return nil, fmt.Errorf("hostGroups[%d]: %w", i, err)
		}
	}
	for i := range m.Templates {
		if err := normalizeState(&m.Templates[i].State); err != nil {
			return nil, fmt.Errorf("templates[%d]: %w", i, err)
		}
	}
	for i := range m.Hosts {
		if err := normalizeState(&m.Hosts[i].State); err != nil {
			return nil, fmt.Errorf("hosts[%d]: %w", i, err)
		}
	}

	return &m, nil
}

func normalizeState(state *string) error {
	switch *state {
	case "":
		*state = StatePresent
	case StatePresent, StateAbsent:
	default:
		return fmt.Errorf("unknown state %q", *state)
	}
	return nil
}
