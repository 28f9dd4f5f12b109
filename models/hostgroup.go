package models

// HostGroupParams is the desired state of a single host group. Host groups
// carry no attributes beyond their unique name.
type HostGroupParams struct {
	// Name is the group name, unique on the server (required)
	Name string `yaml:"name" validate:"required"`
}
