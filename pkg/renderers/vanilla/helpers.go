package vanilla

import "strings"

func componentControlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "fg-" + trimmed
}

func componentErrorID(name string) string {
	if id := componentControlID(name); id != "" {
		return id + "-error"
	}
	return ""
}

func componentDescriptionID(name string) string {
	if id := componentControlID(name); id != "" {
		return id + "-description"
	}
	return ""
}

func describedBy(errorID, descriptionID string, hasError, hasDescription bool) string {
	ids := make([]string, 0, 2)
	if hasDescription {
		ids = append(ids, descriptionID)
	}
	if hasError {
		ids = append(ids, errorID)
	}
	return strings.Join(ids, " ")
}
