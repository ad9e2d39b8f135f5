package ai

import "google.golang.org/genai"

// Small builders for response schemas.

func object(props map[string]*genai.Schema, required ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
}

func str(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc}
}

func enum(values ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Format: "enum", Enum: values}
}

func integer(lo, hi float64) *genai.Schema {
	return &genai.Schema{Type: genai.TypeInteger, Minimum: &lo, Maximum: &hi}
}

func number(lo, hi float64) *genai.Schema {
	return &genai.Schema{Type: genai.TypeNumber, Minimum: &lo, Maximum: &hi}
}

func array(items *genai.Schema, lo, hi int64) *genai.Schema {
	s := &genai.Schema{Type: genai.TypeArray, Items: items}
	if lo > 0 {
		s.MinItems = &lo
	}
	if hi > 0 {
		s.MaxItems = &hi
	}
	return s
}

func stringList(desc string, hi int64) *genai.Schema {
	return array(str(desc), 0, hi)
}
