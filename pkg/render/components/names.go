package components

// Built-in component names.
const (
	NameInput    = "input"
	NameTextarea = "textarea"
	NameCheckbox = "checkbox"
	NameUpload   = "upload"
	NameSelect   = "select"
)
