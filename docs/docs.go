// Package docs embeds the OpenAPI description of the report API.
package docs

import _ "embed"

// SwaggerYAML is served at /docs/swagger.yml and rendered by the swagger UI.
//
//go:embed swagger.yml
var SwaggerYAML []byte
