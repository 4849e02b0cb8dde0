package notify

import (
	"time"

	"github.com/google/uuid"
)

// Variant selects the visual style of a toast.
type Variant string

const (
	VariantSuccess     Variant = "success"
	VariantDestructive Variant = "destructive"
)

// DefaultTTL is how long a toast stays visible before it dismisses itself.
const DefaultTTL = 5 * time.Second

// Toast is a transient, auto-dismissing message.
type Toast struct {
	ID          string        `json:"id"`
	Variant     Variant       `json:"variant"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	TTL         time.Duration `json:"-"`
}

// TTLMillis exposes the dismiss delay to templates and JSON clients.
func (t Toast) TTLMillis() int64 {
	if t.TTL <= 0 {
		return DefaultTTL.Milliseconds()
	}
	return t.TTL.Milliseconds()
}

// Success builds a success toast.
func Success(title, description string) Toast {
	return newToast(VariantSuccess, title, description)
}

// Failure builds a destructive toast.
func Failure(title, description string) Toast {
	return newToast(VariantDestructive, title, description)
}

func newToast(variant Variant, title, description string) Toast {
	return Toast{
		ID:          uuid.NewString(),
		Variant:     variant,
		Title:       title,
		Description: description,
		TTL:         DefaultTTL,
	}
}
