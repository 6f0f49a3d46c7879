// Package template defines the template engine seam dialog renderers rely on.
// The pongo2-backed implementation lives in the pongo subpackage.
package template
