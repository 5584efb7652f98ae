package descriptions

import "sort"

// Tool descriptions with practical examples and use cases

const (
	KVExtractEntitiesDescription = `Extract every key-value entity from a document analysis result.

**When to use:** Need the labelled fields of a scanned form (name, date, totals) as key/value pairs.

**Why it's useful:** Keeps every pair the analysis found, in document order. Repeated labels such as two "Name:" fields stay separate entries, and keys without a value are reported as having no value rather than an empty string.

**Examples:**
• Read a form from a file: "Extract entities from forms/w2.json"
• Read a remote result: "Extract entities from https://analysis.example.com/result"

**Common workflows:**
1. Form Intake: Extract entities → Map labels to fields → Store values downstream
2. Quality Check: Extract entities → Look for keys with no value → Flag incomplete forms

**Best practices:** Give either url or path. Without both, the configured endpoint is used.`

	KVLeftHalfEntitiesDescription = `Extract the key-value entities whose key lies in the left half of the page.

**When to use:** Two-column forms where the left column holds one party (applicant, employee) and the right another.

**Why it's useful:** A pair counts as left only when both left-edge corners of its key box are left of the page midpoint, so skewed boxes crossing the midline are not misclassified.

**Examples:**
• "Get the left-column fields of forms/lease.json"

**Common workflows:**
1. Column Split: kv_left_half_entities → compare with kv_extract_entities → derive the right column

**Best practices:** The document must include page width (ocrResults.readResults[0].width); the tool fails otherwise.`

	KVServerInfoDescription = `Get server information, available tools, the document directory and usage guidance.

**When to use:** First call in a session, to learn what sources the server can read.

**Best practices:** Use the reported document directory for relative paths.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"kv_extract_entities":   KVExtractEntitiesDescription,
	"kv_left_half_entities": KVLeftHalfEntitiesDescription,
	"kv_server_info":        KVServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns all tool names in sorted order
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
