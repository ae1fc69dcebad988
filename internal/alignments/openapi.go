package alignments

import "github.com/JaimeStill/accord/pkg/openapi"

var idParam = openapi.PathParam("id", "Alignment ID")

var cellProperties = map[string]*openapi.Schema{
	"decisive_x":      {Type: "integer", Description: "Items X voted Y or N on"},
	"decisive_y_on_x": {Type: "integer", Description: "Of those, items Y also voted Y or N on"},
	"agree":           {Type: "integer", Description: "Of those, items Y voted the same as X"},
	"percent":         openapi.Bounded("number", "agree * 100 / decisive_x, 0 when X has no decisive votes", 0, 100),
	"plottable":       {Type: "boolean", Description: "False on the diagonal"},
	"label":           {Type: "string", Description: "Hover text, one statistic per line"},
}

var schemas = map[string]*openapi.Schema{
	"Alignment": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":          {Type: "string", Format: "uuid"},
			"dataset_id":  {Type: "string", Format: "uuid"},
			"filename":    {Type: "string", Description: "Source dataset filename"},
			"voters":      {Type: "array", Items: &openapi.Schema{Type: "string"}},
			"voter_count": {Type: "integer"},
			"item_count":  {Type: "integer"},
			"selection":   openapi.SchemaRef("Selection"),
			"duration_ms": {Type: "integer"},
			"computed_at": {Type: "string", Format: "date-time"},
		},
	},
	"AlignmentPage": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"data":         openapi.ArrayOf("Alignment"),
			"total":        {Type: "integer"},
			"page":         {Type: "integer"},
			"page_size":    {Type: "integer"},
			"total_pages":  {Type: "integer"},
			"has_next":     {Type: "boolean"},
			"has_previous": {Type: "boolean"},
		},
	},
	"AlignmentResult": {
		Type:        "object",
		Description: "cells[x][y] holds the statistics of voter x against voter y",
		Properties: map[string]*openapi.Schema{
			"voters": {Type: "array", Items: &openapi.Schema{Type: "string"}},
			"cells": {
				Type: "array",
				Items: &openapi.Schema{
					Type:  "array",
					Items: &openapi.Schema{Type: "object", Properties: cellProperties},
				},
			},
		},
	},
	"AlignmentSearch": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"page":       openapi.AtLeast("integer", 1),
			"page_size":  openapi.AtLeast("integer", 1),
			"search":     {Type: "string"},
			"sort":       {Type: "string"},
			"dataset_id": {Type: "string", Format: "uuid"},
			"filename":   {Type: "string"},
			"min_voters": openapi.AtLeast("integer", 0),
			"max_voters": openapi.AtLeast("integer", 0),
		},
	},
}

var ops = struct {
	List, Find, Result, Heatmap, Search, Compute, Delete *openapi.Operation
}{
	List: &openapi.Operation{
		Summary: "List alignments",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Dataset filename search", false),
			openapi.QueryParam("sort", "string", "Sort fields", false),
			openapi.QueryParam("dataset_id", "string", "Source dataset", false),
			openapi.QueryParam("filename", "string", "Dataset filename contains", false),
			openapi.QueryParam("min_voters", "integer", "Minimum voter count", false),
			openapi.QueryParam("max_voters", "integer", "Maximum voter count", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Alignment page", "AlignmentPage"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Get alignment metadata",
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Alignment", "Alignment"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Result: &openapi.Operation{
		Summary:    "Get the labelled matrix",
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Assembled result", "AlignmentResult"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Heatmap: &openapi.Operation{
		Summary:    "Render the heatmap page",
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseHTML("Self-contained Plotly heatmap"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Search: &openapi.Operation{
		Summary:     "Search alignments",
		RequestBody: openapi.RequestBodyJSON("AlignmentSearch", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Alignment page", "AlignmentPage"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Compute: &openapi.Operation{
		Summary:     "Compute an alignment",
		Description: "Body is optional. Without one every voter and item of the dataset is used.",
		Parameters:  []*openapi.Parameter{openapi.PathParam("datasetId", "Dataset ID")},
		RequestBody: openapi.RequestBodyJSON("Selection", false),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Stored alignment", "Alignment"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			422: openapi.ResponseRef("UnprocessableEntity"),
		},
	},
	Delete: &openapi.Operation{
		Summary:    "Delete an alignment",
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			204: {Description: "Deleted"},
			404: openapi.ResponseRef("NotFound"),
		},
	},
}
