package mcp

// Resource defines an MCP resource
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

const (
	resourceToday   = "gmail://today"
	resourceRecent  = "gmail://recent"
	resourceDomains = "gmail://domains"
)

// ResourceDefinitions lists all available resources
var ResourceDefinitions = []Resource{
	{
		URI:         resourceToday,
		Name:        "Today's Emails",
		Description: "Emails received today, grouped by importance",
		MimeType:    "text/plain",
	},
	{
		URI:         resourceRecent,
		Name:        "Recent Emails",
		Description: "The 10 most recent emails",
		MimeType:    "text/plain",
	},
	{
		URI:         resourceDomains,
		Name:        "Important Domains",
		Description: "Sender domains that are always scored high",
		MimeType:    "text/plain",
	},
}

// resourcesListResult is the response for resources/list
type resourcesListResult struct {
	Resources []Resource `json:"resources"`
}

// readResourceParams is the params for resources/read
type readResourceParams struct {
	URI string `json:"uri"`
}

// readResourceResult is the response for resources/read
type readResourceResult struct {
	Contents []resourceContent `json:"contents"`
}

type resourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
}
