package types

// Project represents a cloud project that is a candidate for collection.
// Attributes other than ID are filled in lazily by the resolver.
type Project struct {
	ID             string   `json:"id"`
	Number         string   `json:"number,omitempty"`
	Name           string   `json:"name,omitempty"`
	BillingEnabled bool     `json:"billing_enabled"`
	EnabledAPIs    []string `json:"enabled_apis,omitempty"`
	Permissions    []string `json:"permissions,omitempty"`
}

// HasAPI returns true if the named service is enabled on the project
func (p *Project) HasAPI(name string) bool {
	for _, api := range p.EnabledAPIs {
		if api == name {
			return true
		}
	}
	return false
}

// HasPermissions returns true if every permission in want was granted
func (p *Project) HasPermissions(want []string) bool {
	granted := make(map[string]struct{}, len(p.Permissions))
	for _, perm := range p.Permissions {
		granted[perm] = struct{}{}
	}
	for _, perm := range want {
		if _, ok := granted[perm]; !ok {
			return false
		}
	}
	return true
}

// Ancestor resource types returned by the project ancestry lookup.
const (
	AncestorProject      = "project"
	AncestorFolder       = "folder"
	AncestorOrganization = "organization"
)

// Ancestor is one node of a project's resource ancestry
type Ancestor struct {
	Type string `json:"type"` // project, folder, organization
	ID   string `json:"id"`
}

// Folder is an organizational folder node
type Folder struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// FolderHierarchy is the report labeling derived from a project's ancestry
type FolderHierarchy struct {
	ParentFolder string `json:"parent_folder"` // Folder directly under the organization
	SubFolder    string `json:"sub_folder"`    // Folder directly under ParentFolder
}
