package model

// Status is the per-element outcome of a comparison.
type Status string

const (
	StatusMatched Status = "matched"
	StatusShifted Status = "shifted"
	StatusChanged Status = "changed"
	StatusMissing Status = "missing"
)

// ElementDiagnostic records how one reference element fared in a comparison.
type ElementDiagnostic struct {
	ElementID int         `json:"element_id"`
	Name      string      `json:"name"`
	Type      ElementType `json:"type"`
	BBox      BoundingBox `json:"bbox"`
	Status    Status      `json:"status"`
	DiffRatio float64     `json:"diff_ratio"`
	// ShiftPx is set only for StatusShifted.
	ShiftPx *int `json:"shift_px,omitempty"`
}

// Stats counts diagnostics per status.
type Stats struct {
	Total   int `json:"total"`
	Matched int `json:"matched"`
	Shifted int `json:"shifted"`
	Changed int `json:"changed"`
	Missing int `json:"missing"`
}

// Severity grades a defect.
type Severity string

const (
	// SeverityMinor is accepted in stored records but never produced by the
	// built-in policy.
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

// DefectMetadata carries the scores that triggered a defect.
type DefectMetadata struct {
	MismatchRatio float64 `json:"mismatch_ratio"`
	SSIMScore     float64 `json:"ssim_score"`
}

// Defect is a severity-tagged regression finding for one comparison run.
type Defect struct {
	Severity    Severity       `json:"severity"`
	Description string         `json:"description"`
	Metadata    DefectMetadata `json:"metadata"`
}

// ComparisonResult is the full outcome of comparing an actual screenshot
// against its reference.
type ComparisonResult struct {
	SSIMScore       float64             `json:"ssim_score"`
	MismatchRatio   float64             `json:"mismatch_ratio"`
	CoveragePercent float64             `json:"coverage_percent"`
	Stats           Stats               `json:"stats"`
	Diagnostics     []ElementDiagnostic `json:"diagnostics"`
	Defect          *Defect             `json:"defect,omitempty"`
	Passed          bool                `json:"passed"`
	Width           int                 `json:"width"`
	Height          int                 `json:"height"`
	// Registered is set when feature registration aligned the actual image.
	Registered bool `json:"registered"`
}
