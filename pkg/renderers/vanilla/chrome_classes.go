package vanilla

// ChromeClass is a semantic CSS class applied to form chrome.
type ChromeClass string

const (
	ClassForm    ChromeClass = "leadform"
	ClassHeader  ChromeClass = "leadform-header"
	ClassField   ChromeClass = "leadform-field"
	ClassControl ChromeClass = "leadform-control"
	ClassActions ChromeClass = "leadform-actions"
	ClassErrors  ChromeClass = "leadform-errors"
	ClassInvalid ChromeClass = "is-invalid"
)

func chromeClasses() map[string]string {
	return map[string]string{
		"form":    string(ClassForm),
		"header":  string(ClassHeader),
		"actions": string(ClassActions),
		"errors":  string(ClassErrors),
	}
}
