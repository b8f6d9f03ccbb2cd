// Package template defines the template rendering seam used by the markup
// renderer. The default implementation lives in the pongo subpackage; callers
// can inject their own engine through render.WithTemplateRenderer.
package template
