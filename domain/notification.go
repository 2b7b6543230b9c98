package domain

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Toast is a short user-visible notification.
type Toast struct {
	Title       string
	Description string
	Variant     Variant
}
