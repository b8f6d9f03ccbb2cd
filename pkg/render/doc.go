// Package render produces the HTML markup of modal forms: one fragment per
// field, keyed by the element id the runtime binds to, and the modal
// container holding them.
//
// Markup comes from pongo2 templates embedded in the package. Templates can be
// replaced wholesale (WithTemplatesFS, WithTemplatesDir) or per component
// through a go-theme configuration whose Partials map component partial keys
// such as "modalform.input" onto alternate template paths. Help text and addon
// markup are sanitized with bluemonday before reaching the templates.
package render
