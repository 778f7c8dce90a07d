package mcp

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var minScoreProperty = map[string]interface{}{
	"type":        "integer",
	"minimum":     1,
	"maximum":     3,
	"description": "Only return emails scoring at least this (1 low, 2 normal, 3 high; default: 1)",
}

func idProperty(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": desc,
	}
}

// ToolDefinitions contains all available MCP tools
var ToolDefinitions = []Tool{
	{
		Name:        "list_recent_emails",
		Description: "List the most recent emails in the mailbox, newest first, each with an importance score from 1 to 3.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"minimum":     1,
					"description": "Maximum number of emails to return (default: 50)",
				},
			},
		},
	},
	{
		Name:        "list_today_emails",
		Description: "List emails received today (UTC), optionally only those at or above a minimum importance.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"min_score": minScoreProperty,
			},
		},
	},
	{
		Name:        "list_emails_by_date",
		Description: "List emails received on a single UTC day.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"date": map[string]interface{}{
					"type":        "string",
					"description": "Day in YYYY-MM-DD format",
				},
				"min_score": minScoreProperty,
			},
			"required": []string{"date"},
		},
	},
	{
		Name:        "list_emails_by_range",
		Description: "List emails received between two UTC days, both inclusive.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"from": map[string]interface{}{
					"type":        "string",
					"description": "First day in YYYY-MM-DD format",
				},
				"to": map[string]interface{}{
					"type":        "string",
					"description": "Last day in YYYY-MM-DD format",
				},
				"min_score": minScoreProperty,
			},
			"required": []string{"from", "to"},
		},
	},
	{
		Name:        "search_emails",
		Description: "Search emails with Gmail query syntax, e.g. 'from:alice@example.com has:attachment'.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Gmail search query",
				},
				"min_score": minScoreProperty,
			},
			"required": []string{"query"},
		},
	},
	{
		Name:        "mark_email_read",
		Description: "Mark one email as read. Marking an already read email succeeds.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"email_id": idProperty("Email ID as returned by a listing"),
			},
			"required": []string{"email_id"},
		},
	},
	{
		Name:        "mark_email_unread",
		Description: "Mark one email as unread.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"email_id": idProperty("Email ID as returned by a listing"),
			},
			"required": []string{"email_id"},
		},
	},
	{
		Name:        "delete_email",
		Description: "Move one email to the trash.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"email_id": idProperty("Email ID as returned by a listing"),
			},
			"required": []string{"email_id"},
		},
	},
	{
		Name:        "bulk_delete_emails",
		Description: "Move several emails to the trash. Failures are counted and reported; they do not stop the batch.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"email_ids": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Email IDs to delete",
				},
			},
			"required": []string{"email_ids"},
		},
	},
	{
		Name:        "add_important_domain",
		Description: "Treat every sender from a domain as high importance from now on.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"domain": map[string]interface{}{
					"type":        "string",
					"description": "Sender domain, e.g. example.com",
				},
			},
			"required": []string{"domain"},
		},
	},
}
