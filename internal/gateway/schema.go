package gateway

import (
	"github.com/sashabaranov/go-openai/jsonschema"
	"google.golang.org/genai"
)

// SchemaType is a JSON schema primitive.
type SchemaType string

const (
	TypeObject  SchemaType = "object"
	TypeArray   SchemaType = "array"
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
)

// Schema is a provider-neutral subset of JSON schema, enough to describe
// the report document.
type Schema struct {
	Type        SchemaType
	Description string
	Properties  map[string]*Schema
	// Order lists property names in the order providers should emit them.
	Order    []string
	Required []string
	Items    *Schema
	Minimum  *float64
	Maximum  *float64
}

func bound(v float64) *float64 { return &v }

func stringArray() *Schema {
	return &Schema{Type: TypeArray, Items: &Schema{Type: TypeString}}
}

func object(props map[string]*Schema, order ...string) *Schema {
	return &Schema{Type: TypeObject, Properties: props, Order: order, Required: order}
}

// ReportSchema describes an audit report. Every property is required.
func ReportSchema() *Schema {
	category := object(map[string]*Schema{
		"name": {Type: TypeString},
		"score": {
			Type:        TypeInteger,
			Description: "Rubric score from 1-5",
			Minimum:     bound(1),
			Maximum:     bound(5),
		},
		"reasoning":   {Type: TypeString},
		"evidence":    stringArray(),
		"gaps":        stringArray(),
		"suggestions": stringArray(),
	}, "name", "score", "reasoning", "evidence", "gaps", "suggestions")

	water := object(map[string]*Schema{
		"originalText": {Type: TypeString},
		"reasoning":    {Type: TypeString},
		"suggestion":   {Type: TypeString},
	}, "originalText", "reasoning", "suggestion")

	checklist := object(map[string]*Schema{
		"today":        stringArray(),
		"thisWeek":     stringArray(),
		"beforeSeason": stringArray(),
	}, "today", "thisWeek", "beforeSeason")

	return object(map[string]*Schema{
		"overallScore": {
			Type:        TypeNumber,
			Description: "Final score from 0-100",
			Minimum:     bound(0),
			Maximum:     bound(100),
		},
		"summary":        {Type: TypeString, Description: "A judge's summary of the document"},
		"categories":     {Type: TypeArray, Items: category},
		"waterDetection": {Type: TypeArray, Items: water},
		"checklist":      checklist,
	}, "overallScore", "summary", "categories", "waterDetection", "checklist")
}

var genaiTypes = map[SchemaType]genai.Type{
	TypeObject:  genai.TypeObject,
	TypeArray:   genai.TypeArray,
	TypeString:  genai.TypeString,
	TypeNumber:  genai.TypeNumber,
	TypeInteger: genai.TypeInteger,
}

// GenAI converts s to the Gemini response schema.
func (s *Schema) GenAI() *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:             genaiTypes[s.Type],
		Description:      s.Description,
		Required:         s.Required,
		PropertyOrdering: s.Order,
		Minimum:          s.Minimum,
		Maximum:          s.Maximum,
		Items:            s.Items.GenAI(),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, p := range s.Properties {
			out.Properties[name] = p.GenAI()
		}
	}
	return out
}

// JSONSchema converts s to an OpenAI strict-mode definition. Strict mode
// needs additionalProperties false on every object; numeric bounds are
// left to local validation.
func (s *Schema) JSONSchema() jsonschema.Definition {
	out := jsonschema.Definition{
		Type:        jsonschema.DataType(s.Type),
		Description: s.Description,
		Required:    s.Required,
	}
	if s.Items != nil {
		items := s.Items.JSONSchema()
		out.Items = &items
	}
	if s.Type == TypeObject {
		out.AdditionalProperties = false
		out.Properties = make(map[string]jsonschema.Definition, len(s.Properties))
		for name, p := range s.Properties {
			out.Properties[name] = p.JSONSchema()
		}
	}
	return out
}
