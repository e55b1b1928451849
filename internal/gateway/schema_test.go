package gateway

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestReportSchemaGenAI(t *testing.T) {
	s := ReportSchema().GenAI()

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, []string{"overallScore", "summary", "categories", "waterDetection", "checklist"}, s.Required)
	assert.Equal(t, s.Required, s.PropertyOrdering)

	cat := s.Properties["categories"].Items
	require.NotNil(t, cat)
	assert.Equal(t, genai.TypeInteger, cat.Properties["score"].Type)
	assert.Equal(t, 1.0, *cat.Properties["score"].Minimum)
	assert.Equal(t, 5.0, *cat.Properties["score"].Maximum)
	assert.Equal(t, genai.TypeString, cat.Properties["evidence"].Items.Type)

	assert.Equal(t, []string{"today", "thisWeek", "beforeSeason"}, s.Properties["checklist"].Required)
}

func TestReportSchemaJSONSchema(t *testing.T) {
	def := ReportSchema().JSONSchema()
	data, err := json.Marshal(&def)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, false, doc["additionalProperties"])

	props := doc["properties"].(map[string]any)
	water := props["waterDetection"].(map[string]any)
	assert.Equal(t, "array", water["type"])
	item := water["items"].(map[string]any)
	assert.Equal(t, false, item["additionalProperties"])
	assert.ElementsMatch(t, []any{"originalText", "reasoning", "suggestion"}, item["required"])
}
