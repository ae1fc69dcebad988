package openapi

const (
	refSchemas   = "#/components/schemas/"
	refResponses = "#/components/responses/"
)

func SchemaRef(name string) *Schema {
	return &Schema{Ref: refSchemas + name}
}

func ResponseRef(name string) *Response {
	return &Response{Ref: refResponses + name}
}

// ArrayOf is an array of the named component schema.
func ArrayOf(name string) *Schema {
	return &Schema{Type: "array", Items: SchemaRef(name)}
}

// Bounded is a numeric schema limited to [lo, hi].
func Bounded(typ, description string, lo, hi float64) *Schema {
	return &Schema{Type: typ, Description: description, Minimum: &lo, Maximum: &hi}
}

// AtLeast is a numeric schema with an inclusive lower bound.
func AtLeast(typ string, lo float64) *Schema {
	return &Schema{Type: typ, Minimum: &lo}
}

func content(mediaType string, schema *Schema) map[string]*MediaType {
	return map[string]*MediaType{mediaType: {Schema: schema}}
}

func RequestBodyJSON(schemaName string, required bool) *RequestBody {
	return &RequestBody{Required: required, Content: content("application/json", SchemaRef(schemaName))}
}

// RequestBodyUpload is a multipart form carrying one required file field.
func RequestBodyUpload(field, description string) *RequestBody {
	form := &Schema{
		Type:     "object",
		Required: []string{field},
		Properties: map[string]*Schema{
			field: {Type: "string", Format: "binary", Description: description},
		},
	}
	return &RequestBody{Required: true, Content: content("multipart/form-data", form)}
}

func ResponseJSON(description, schemaName string) *Response {
	return &Response{Description: description, Content: content("application/json", SchemaRef(schemaName))}
}

// ResponseHTML and ResponseCSV document string bodies of their media type.
func ResponseHTML(description string) *Response {
	return &Response{Description: description, Content: content("text/html", &Schema{Type: "string"})}
}

func ResponseCSV(description string) *Response {
	return &Response{Description: description, Content: content("text/csv", &Schema{Type: "string"})}
}

// PathParam is a required path parameter holding a UUID.
func PathParam(name, description string) *Parameter {
	return &Parameter{
		Name:        name,
		In:          "path",
		Required:    true,
		Description: description,
		Schema:      &Schema{Type: "string", Format: "uuid"},
	}
}

func QueryParam(name, typ, description string, required bool) *Parameter {
	return &Parameter{Name: name, In: "query", Required: required, Description: description, Schema: &Schema{Type: typ}}
}
