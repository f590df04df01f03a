// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package language classifies text into a closed set of language labels.
// Detection is deterministic and fully offline: a trigram classifier runs
// locally and its output is mapped through a static code-to-name table.
// Undetectable input yields the fallback label rather than an error, so
// detection can never fail a request.
package language

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// Label is a detected language: an ISO 639-3 code and its human-readable name.
type Label struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// Unknown is the fallback label returned for empty or undetectable input.
var Unknown = Label{Code: "unknown", Name: "Unknown"}

// Detector maps text to a language label. Construct once at process start
// and share; it is stateless and safe for concurrent use.
type Detector struct {
	names map[string]string
}

// NewDetector returns a detector backed by the static language table.
func NewDetector() *Detector {
	return &Detector{names: languageNames}
}

// Detect classifies the text. It returns Unknown for empty input, for
// text the classifier cannot identify, and for codes missing from the
// static table.
func (d *Detector) Detect(text string) Label {
	if strings.TrimSpace(text) == "" {
		return Unknown
	}

	info := whatlanggo.Detect(text)
	code := whatlanggo.LangToString(info.Lang)
	if code == "" {
		return Unknown
	}

	name, ok := d.names[code]
	if !ok {
		return Unknown
	}
	return Label{Code: code, Name: name}
}

// Name returns the human-readable name for a language code, or the Unknown
// name when the code is not in the table.
func (d *Detector) Name(code string) string {
	if name, ok := d.names[code]; ok {
		return name
	}
	return Unknown.Name
}
