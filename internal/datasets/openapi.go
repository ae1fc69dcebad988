package datasets

import "github.com/JaimeStill/accord/pkg/openapi"

var idParam = openapi.PathParam("id", "Dataset ID")

var schemas = map[string]*openapi.Schema{
	"Dataset": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":           {Type: "string", Format: "uuid"},
			"filename":     {Type: "string"},
			"size_bytes":   {Type: "integer"},
			"record_count": {Type: "integer", Description: "CSV data rows"},
			"item_count":   {Type: "integer", Description: "Distinct items"},
			"voter_count":  {Type: "integer", Description: "Distinct voters"},
			"columns": {
				Type:        "object",
				Description: "CSV header names used for item, voter, and vote",
				Properties: map[string]*openapi.Schema{
					"item":  {Type: "string", Example: "resolution"},
					"voter": {Type: "string", Example: "ms_name"},
					"vote":  {Type: "string", Example: "ms_vote"},
				},
			},
			"storage_key": {Type: "string"},
			"uploaded_at": {Type: "string", Format: "date-time"},
			"updated_at":  {Type: "string", Format: "date-time"},
		},
	},
	"DatasetPage": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"data":         openapi.ArrayOf("Dataset"),
			"total":        {Type: "integer"},
			"page":         {Type: "integer"},
			"page_size":    {Type: "integer"},
			"total_pages":  {Type: "integer"},
			"has_next":     {Type: "boolean"},
			"has_previous": {Type: "boolean"},
		},
	},
	"DatasetSearch": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"page":       openapi.AtLeast("integer", 1),
			"page_size":  openapi.AtLeast("integer", 1),
			"search":     {Type: "string"},
			"sort":       {Type: "string"},
			"filename":   {Type: "string"},
			"min_voters": {Type: "integer"},
			"max_voters": {Type: "integer"},
			"min_items":  {Type: "integer"},
			"max_items":  {Type: "integer"},
		},
	},
	"StringList": {Type: "array", Items: &openapi.Schema{Type: "string"}},
}

var ops = struct {
	List, Find, Voters, Items, Export, Upload, Search, Delete *openapi.Operation
}{
	List: &openapi.Operation{
		Summary: "List datasets",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Filename search", false),
			openapi.QueryParam("sort", "string", "Sort fields", false),
			openapi.QueryParam("filename", "string", "Filename contains", false),
			openapi.QueryParam("min_voters", "integer", "Minimum voter count", false),
			openapi.QueryParam("max_voters", "integer", "Maximum voter count", false),
			openapi.QueryParam("min_items", "integer", "Minimum item count", false),
			openapi.QueryParam("max_items", "integer", "Maximum item count", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Dataset page", "DatasetPage"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Get a dataset",
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Dataset", "Dataset"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Voters: &openapi.Operation{
		Summary:    "List dataset voters",
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Voters in ascending order", "StringList"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Items: &openapi.Operation{
		Summary:    "List dataset items",
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Items in first-seen order", "StringList"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Export: &openapi.Operation{
		Summary:     "Download filtered CSV",
		Description: "Repeat voter and item to select subsets. Omitted axes keep every value.",
		Parameters: []*openapi.Parameter{
			idParam,
			openapi.QueryParam("voter", "string", "Voter to keep (repeatable)", false),
			openapi.QueryParam("item", "string", "Item to keep (repeatable)", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseCSV("Filtered vote rows"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Upload: &openapi.Operation{
		Summary:     "Upload a vote CSV",
		RequestBody: openapi.RequestBodyUpload(UploadField, "Vote CSV with item, voter, and vote columns"),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Registered dataset", "Dataset"),
			400: openapi.ResponseRef("BadRequest"),
			413: openapi.ResponseRef("PayloadTooLarge"),
			422: openapi.ResponseRef("UnprocessableEntity"),
		},
	},
	Search: &openapi.Operation{
		Summary:     "Search datasets",
		RequestBody: openapi.RequestBodyJSON("DatasetSearch", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Dataset page", "DatasetPage"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Delete: &openapi.Operation{
		Summary:     "Delete a dataset",
		Description: "Removes the stored CSV and every alignment computed from it.",
		Parameters:  []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			204: {Description: "Deleted"},
			404: openapi.ResponseRef("NotFound"),
		},
	},
}
