package models

// TemplateParams is the desired state of a single template.
//
// JSON carries the export-format document describing the template's items,
// triggers and graphs. When empty, the template is managed as a bare named
// object: created if missing, never diffed.
type TemplateParams struct {
	// Name is the technical template name, unique on the server (required)
	Name string `yaml:"name" validate:"required"`

	// JSON is the desired export document (optional)
	JSON string `yaml:"json"`
}
