// Package template declares the template engine contract shared by the form
// renderer and the site pages. The pongo2-backed implementation lives in the
// gotemplate subpackage.
package template
