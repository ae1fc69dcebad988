package openapi

import "maps"

// NewComponents creates Components with shared schemas and error responses.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"PageRequest": {
				Type: "object",
				Properties: map[string]*Schema{
					"page":      {Type: "integer", Description: "Page number (1-indexed)", Example: 1},
					"page_size": {Type: "integer", Description: "Results per page", Example: 20},
					"search":    {Type: "string", Description: "Search query"},
					"sort":      {Type: "string", Description: "Comma-separated sort fields. Prefix with - for descending. Example: VoterCount,-UploadedAt"},
				},
			},
			"Selection": {
				Type:        "object",
				Description: "Voter and item subset. Empty lists select everything.",
				Properties: map[string]*Schema{
					"voters": {Type: "array", Items: &Schema{Type: "string"}},
					"items":  {Type: "array", Items: &Schema{Type: "string"}},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":          errorResponse("Invalid request"),
			"Unauthorized":        errorResponse("Missing or invalid bearer token"),
			"NotFound":            errorResponse("Resource not found"),
			"Conflict":            errorResponse("Resource conflict"),
			"PayloadTooLarge":     errorResponse("Upload exceeds the maximum size"),
			"UnprocessableEntity": errorResponse("Vote data could not be used"),
		},
	}
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

func errorResponse(description string) *Response {
	body := &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"error": {Type: "string", Description: "Error message"},
		},
	}
	return &Response{Description: description, Content: content("application/json", body)}
}
