package curriculum

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const gradesSchemaJSON = `{
  "type": "object",
  "required": ["grades"],
  "properties": {
    "grades": {
      "type": "object",
      "propertyNames": {"enum": ["preschool", "elementary", "middle", "high", "college"]},
      "additionalProperties": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["id", "title"],
          "properties": {
            "id": {"type": "string", "minLength": 1},
            "title": {"type": "string", "minLength": 1},
            "difficulty": {"type": "string"},
            "duration": {"type": "string"},
            "topics": {"type": "array", "items": {"type": "string"}}
          }
        }
      }
    }
  }
}`

const lessonsSchemaJSON = `{
  "type": "object",
  "required": ["lessons"],
  "properties": {
    "lessons": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "title"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "module_id": {"type": "string"},
          "title": {"type": "string", "minLength": 1},
          "order": {"type": "integer", "minimum": 0},
          "exercise": {
            "type": "object",
            "properties": {
              "command": {"type": "string"},
              "min_tokens": {"type": "integer", "minimum": 0},
              "max_tokens": {"type": "integer", "minimum": 0},
              "role_keywords": {"type": "array", "items": {"type": "string"}}
            }
          }
        }
      }
    }
  }
}`

const quizSchemaJSON = `{
  "type": "object",
  "required": ["id", "questions"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "lesson_id": {"type": "string"},
    "title": {"type": "string"},
    "questions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["question", "options", "correct"],
        "properties": {
          "question": {"type": "string", "minLength": 1},
          "options": {"type": "array", "minItems": 2, "items": {"type": "string"}},
          "correct": {"type": "integer", "minimum": 0}
        }
      }
    }
  }
}`

var (
	gradesSchema  = mustSchema(gradesSchemaJSON)
	lessonsSchema = mustSchema(lessonsSchemaJSON)
	quizSchema    = mustSchema(quizSchemaJSON)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("curriculum: invalid schema: %v", err))
	}
	return s
}

// validateDoc checks a decoded YAML document against a schema.
func validateDoc(schema *gojsonschema.Schema, doc any) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validating document: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("schema violations: %s", strings.Join(msgs, "; "))
}
