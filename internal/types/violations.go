// Package types provides type definitions for structured data used throughout the squad builder.
package types

import "fmt"

// ViolationType classifies a constraint failure.
type ViolationType string

// Violation types
const (
	ViolationCategoryMin ViolationType = "category_min"
	ViolationCategoryMax ViolationType = "category_max"
	ViolationSquadSize   ViolationType = "squad_size"
	ViolationBudget      ViolationType = "budget"
	ViolationUnparsable  ViolationType = "unparsable"
	ViolationDuplicate   ViolationType = "duplicate"
)

// Violation represents a single validation failure of a proposed selection
type Violation struct {
	Type     ViolationType `json:"type"`
	Category Category      `json:"category,omitempty"`
	Got      float64       `json:"got"`
	Limit    float64       `json:"limit"`
	Details  string        `json:"details"`
}

// String renders the violation as a corrective instruction line.
func (v Violation) String() string {
	if v.Details != "" {
		return v.Details
	}
	switch v.Type {
	case ViolationCategoryMin:
		return fmt.Sprintf("%s count %d is below the minimum %d", v.Category, int(v.Got), int(v.Limit))
	case ViolationCategoryMax:
		return fmt.Sprintf("%s count %d is above the maximum %d", v.Category, int(v.Got), int(v.Limit))
	case ViolationSquadSize:
		return fmt.Sprintf("squad has %d players, the ceiling is %d", int(v.Got), int(v.Limit))
	case ViolationBudget:
		return fmt.Sprintf("total cost EUR %.1fM exceeds the budget EUR %.1fM", v.Got, v.Limit)
	case ViolationDuplicate:
		return fmt.Sprintf("a player is selected %d times, list each player once", int(v.Got))
	default:
		return string(v.Type)
	}
}
