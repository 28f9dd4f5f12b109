package zabbix

import (
	"context"
	"encoding/json"
)

// Template is a reusable bundle of monitoring configuration. Host is the
// technical template name used for lookups.
type Template struct {
	TemplateID string `json:"templateid"`
	Host       string `json:"host"`
	Name       string `json:"name,omitempty"`
}

// TemplateID references a template by id in host create/update params.
type TemplateID struct {
	TemplateID string `json:"templateid"`
}

type templateGetParams struct {
	Output string            `json:"output"`
	Filter templateGetFilter `json:"filter"`
}

type templateGetFilter struct {
	Host []string `json:"host"`
}

type templateCreateParams struct {
	Host   string    `json:"host"`
	Groups []GroupID `json:"groups"`
}

type exportParams struct {
	Format  string        `json:"format"`
	Options exportOptions `json:"options"`
}

type exportOptions struct {
	Templates []string `json:"templates"`
}

type importParams struct {
	Format string      `json:"format"`
	Source string      `json:"source"`
	Rules  importRules `json:"rules"`
}

type importRule struct {
	CreateMissing  bool `json:"createMissing"`
	UpdateExisting bool `json:"updateExisting"`
}

// importRules is the upsert policy applied by configuration.import: missing
// objects are created, existing ones updated, nothing is deleted.
type importRules struct {
	Templates importRule `json:"templates"`
	Items     importRule `json:"items"`
	Triggers  importRule `json:"triggers"`
	Graphs    importRule `json:"graphs"`
}

// TemplateGet returns the templates whose technical name matches exactly.
func (c *Client) TemplateGet(ctx context.Context, name string) ([]Template, error) {
	params := templateGetParams{
		Output: "extend",
		Filter: templateGetFilter{Host: []string{name}},
	}

	result, err := c.Call(ctx, "template", "get", params)
	if err != nil {
		return nil, err
	}

	var templates []Template
	if err := json.Unmarshal(result, &templates); err != nil {
		return nil, &ProtocolError{Method: "template.get", Reason: "unexpected result", Err: err}
	}
	return templates, nil
}

// TemplateCreate creates an empty template in the given host group.
func (c *Client) TemplateCreate(ctx context.Context, name, groupID string) error {
	params := templateCreateParams{
		Host:   name,
		Groups: []GroupID{{GroupID: groupID}},
	}
	_, err := c.Call(ctx, "template", "create", params)
	return err
}

// TemplateDelete deletes the template with the given id.
func (c *Client) TemplateDelete(ctx context.Context, templateID string) error {
	_, err := c.Call(ctx, "template", "delete", []string{templateID})
	return err
}

// ConfigurationExport returns the JSON export document of the template's
// items, triggers and graphs.
func (c *Client) ConfigurationExport(ctx context.Context, templateID string) (string, error) {
	params := exportParams{
		Format:  "json",
		Options: exportOptions{Templates: []string{templateID}},
	}

	result, err := c.Call(ctx, "configuration", "export", params)
	if err != nil {
		return "", err
	}

	var document string
	if err := json.Unmarshal(result, &document); err != nil {
		return "", &ProtocolError{Method: "configuration.export", Reason: "unexpected result", Err: err}
	}
	return document, nil
}

// ConfigurationImport uploads a JSON export document with the upsert rules
// of importRules.
func (c *Client) ConfigurationImport(ctx context.Context, document string) error {
	params := importParams{
		Format: "json",
		Source: document,
		Rules: importRules{
			Templates: importRule{CreateMissing: true, UpdateExisting: true},
			Items:     importRule{CreateMissing: true, UpdateExisting: true},
			Triggers:  importRule{CreateMissing: true, UpdateExisting: true},
			Graphs:    importRule{CreateMissing: true, UpdateExisting: true},
		},
	}
	_, err := c.Call(ctx, "configuration", "import", params)
	return err
}
