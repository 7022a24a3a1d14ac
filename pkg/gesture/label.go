package gesture

// Confirmation menu entries.
const (
	createLabel = "Create fence here"
	cancelLabel = "Cancel"
)
