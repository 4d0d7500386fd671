// Package docs embeds the OpenAPI description of the HTTP API.
package docs

import _ "embed"

//go:embed swagger.yml
var SwaggerYML []byte
