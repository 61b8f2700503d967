package model

import (
	"fmt"
	"strings"
)

// ElementType is the semantic class assigned to a detected UI element.
type ElementType string

const (
	TypeButton  ElementType = "button"
	TypeInput   ElementType = "input"
	TypeLabel   ElementType = "label"
	TypeImage   ElementType = "image"
	TypeLink    ElementType = "link"
	TypeUnknown ElementType = "unknown"
)

// ElementTypes lists every known type in a stable order.
var ElementTypes = []ElementType{TypeButton, TypeInput, TypeLabel, TypeImage, TypeLink, TypeUnknown}

// ParseElementType maps a stored or user-supplied label to an ElementType.
// Matching is case-insensitive; anything unrecognised becomes TypeUnknown.
func ParseElementType(s string) ElementType {
	t := ElementType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ElementTypes {
		if t == known {
			return t
		}
	}
	return TypeUnknown
}

// Proposal is one raw candidate box from a detector. ClassName is empty when
// the source gave no class.
type Proposal struct {
	BBox       BoundingBox `json:"bbox"`
	ClassName  string      `json:"class_name,omitempty"`
	Confidence float64     `json:"confidence"`
}

// UIElement is a typed, confidence-scored element detected on a reference image.
type UIElement struct {
	// ID is the 1-based detection ordinal; diagnostics refer to elements by it.
	ID          int         `json:"id"`
	BBox        BoundingBox `json:"bbox"`
	Type        ElementType `json:"element_type"`
	Confidence  float64     `json:"confidence"`
	DisplayName string      `json:"display_name"`
	Text        string      `json:"text,omitempty"`
}

// DisplayName formats the conventional "<type> #<ordinal>" element name.
func DisplayName(t ElementType, ordinal int) string {
	return fmt.Sprintf("%s #%d", t, ordinal)
}
