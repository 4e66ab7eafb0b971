package export

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const reportSchemaURL = "schema://inkdrill-report.json"

// reportSchema describes the document produced by JSON.
const reportSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["exportedAt", "session", "summary", "buckets", "items", "recommendations"],
  "properties": {
    "exportedAt": {"type": "string", "format": "date-time"},
    "session": {
      "type": "object",
      "required": ["id", "date", "type", "level", "state", "durationMs", "durationMinutes"],
      "properties": {
        "id": {"type": "string"},
        "date": {"type": "string"},
        "type": {"type": "string"},
        "level": {"type": "string"},
        "state": {"enum": ["active", "paused", "completed"]},
        "durationMs": {"type": "integer", "minimum": 0},
        "durationMinutes": {"type": "integer", "minimum": 0}
      }
    },
    "summary": {
      "type": "object",
      "required": ["totalItems", "practiced", "mastered", "needsWork", "notPracticed", "successRate"],
      "properties": {
        "totalItems": {"type": "integer", "minimum": 0},
        "practiced": {"type": "integer", "minimum": 0},
        "mastered": {"type": "integer", "minimum": 0},
        "needsWork": {"type": "integer", "minimum": 0},
        "notPracticed": {"type": "integer", "minimum": 0},
        "completionPct": {"type": "integer", "minimum": 0, "maximum": 100},
        "successRate": {"type": "integer", "minimum": 0, "maximum": 100},
        "totalAttempts": {"type": "integer", "minimum": 0},
        "averageAttempts": {"type": "integer", "minimum": 0},
        "averageTimePerItemSec": {"type": "integer", "minimum": 0},
        "totalStrokes": {"type": "integer", "minimum": 0}
      }
    },
    "buckets": {
      "type": "object",
      "required": ["mastered", "needsWork", "notPracticed"],
      "properties": {
        "mastered": {"type": "array", "items": {"type": "string"}},
        "needsWork": {"type": "array", "items": {"type": "string"}},
        "notPracticed": {"type": "array", "items": {"type": "string"}}
      }
    },
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["item", "status", "attempts", "timeSpentMs"],
        "properties": {
          "item": {"type": "string", "minLength": 1},
          "status": {"enum": ["not-practiced", "needs-work", "mastered"]},
          "attempts": {"type": "integer", "minimum": 0},
          "timeSpentMs": {"type": "integer", "minimum": 0},
          "strokeCount": {"type": "integer", "minimum": 0},
          "strokes": {"type": "integer", "minimum": 0},
          "notes": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "recommendations": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["kind", "priority", "message"],
        "properties": {
          "priority": {"enum": ["high", "medium", "low", "positive"]}
        }
      }
    }
  }
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(reportSchema))
		if err != nil {
			compileErr = fmt.Errorf("parse report schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(reportSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add report schema: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(reportSchemaURL)
	})
	return compiledSchema, compileErr
}

// ValidateJSON checks data against the report schema.
func ValidateJSON(data []byte) error {
	sch, err := schema()
	if err != nil {
		return err
	}
	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("report does not match schema: %w", err)
	}
	return nil
}
