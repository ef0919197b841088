// Package validators provides the rule objects that back field validation in
// pkg/model. A validator checks a single value against one rule and returns a
// *ValidationError when the rule is violated.
//
// Every rule except Required treats a nil value as "absent" and passes, so
// optional fields only fail validation when they actually hold a bad value.
// Validators that reference a nested model do so through the NestedModel
// interface rather than inspecting concrete types, which keeps this package
// free of a dependency on pkg/model.
package validators
