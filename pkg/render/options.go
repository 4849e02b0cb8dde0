package render

// RenderOptions carry the per-request form state a renderer needs. The form
// model itself stays immutable.
type RenderOptions struct {
	// Action overrides the endpoint declared by the form model.
	Action string
	// Values pre-populates controls, keyed by field name.
	Values map[string]string
	// Errors holds the inline message for each failing field.
	Errors map[string]string
	// FormErrors are shown above the fields (delivery failures, unknown keys).
	FormErrors []string
	// Hidden fields are emitted in sorted order before the visible controls.
	Hidden map[string]string
	// Submitting renders the submit control disabled with the form's
	// submitting label.
	Submitting bool
	// MinDate is copied to date inputs as the min attribute (YYYY-MM-DD).
	MinDate string
}

// HasErrors reports whether any field or form level message is present.
func (o RenderOptions) HasErrors() bool {
	return len(o.Errors) > 0 || len(o.FormErrors) > 0
}
