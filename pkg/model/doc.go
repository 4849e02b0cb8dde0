// Package model defines the typed form schema shared by validation, the form
// controller and the renderers. A FormModel is loaded once per form kind and
// never mutated afterwards. Validation rules expose canonical identifiers
// (minLength/maxLength, pattern, format, notBefore) with string parameters so
// renderers can map them onto HTML attributes while the validation package
// compiles them into pure functions.
package model
