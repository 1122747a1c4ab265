package render

// Annotation prefixes prepended to DescriptionText.
const (
	RequiredLabel       = "Required. "
	StandaloneOnlyLabel = "Standalone Apps Only. "
)

// DocNode is one rendered documentation entry. DescriptionText is the
// assembled text; the structured fragments it was built from are kept so sinks
// can apply their own emphasis.
type DocNode struct {
	Key             string    `json:"key"`
	Path            string    `json:"path"`
	Type            string    `json:"type,omitempty"`
	Required        bool      `json:"required,omitempty"`
	StandaloneOnly  bool      `json:"standaloneOnly,omitempty"`
	Description     string    `json:"description,omitempty"`
	Hint            string    `json:"hint,omitempty"`
	DescriptionText string    `json:"descriptionText"`
	Depth           int       `json:"depth"`
	Children        []DocNode `json:"children,omitempty"`
}

// HasChildren reports whether any visible descendants were rendered.
func (n DocNode) HasChildren() bool {
	return len(n.Children) > 0
}

func assembleText(required, standalone bool, description, hint string) string {
	var text string
	if required {
		text += RequiredLabel
	}
	if standalone {
		text += StandaloneOnlyLabel
	}
	if description != "" {
		text += description + "\n"
	}
	return text + hint
}

// Text reassembles DescriptionText from the structured fields. Callers that
// patch Description or Hint use it to keep the two in sync.
func (n DocNode) Text() string {
	return assembleText(n.Required, n.StandaloneOnly, n.Description, n.Hint)
}
