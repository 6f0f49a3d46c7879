// Package dialog models modal dialog descriptors for the webmail client: the
// window title, the ordered client resources a dialog needs, the client-side
// module it instantiates, and the templates that emit its onload script and
// body markup.
//
// Descriptors are immutable once built. Request-derived values are passed in
// explicitly through Request so rendering stays deterministic.
package dialog
