// Package openapi derives model schemas from OpenAPI documents. The component
// schemas of a document map onto pkg/model field declarations: string
// properties become String fields (Email and DateTime for the matching
// formats), integer and number properties carry their bounds, objects become
// embedded models, arrays become list fields, and additionalProperties maps
// become dict fields. Parsing is delegated to kin-openapi.
package openapi
