package components

// FieldView is the template-facing projection of a model.Field with the
// request state (value, error) already resolved. Numeric constraints are
// strings so templates print them verbatim.
type FieldView struct {
	Name          string       `json:"name"`
	Component     string       `json:"component"`
	ControlID     string       `json:"control_id"`
	ErrorID       string       `json:"error_id"`
	DescriptionID string       `json:"description_id"`
	Label         string       `json:"label"`
	InputType     string       `json:"input_type"`
	Placeholder   string       `json:"placeholder,omitempty"`
	Description   string       `json:"description,omitempty"`
	Required      bool         `json:"required"`
	Value         string       `json:"value,omitempty"`
	Error         string       `json:"error,omitempty"`
	MinLength     string       `json:"min_length,omitempty"`
	MaxLength     string       `json:"max_length,omitempty"`
	Pattern       string       `json:"pattern,omitempty"`
	Min           string       `json:"min,omitempty"`
	DescribedBy   string       `json:"described_by,omitempty"`
	Disabled      bool         `json:"disabled"`
	Options       []OptionView `json:"options,omitempty"`
}

// OptionView is one <option> of a select control.
type OptionView struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}
