package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Tactical style enums accepted by the API.
var (
	BuildUpStyles       = []string{"Balanced", "Counter-Attack", "Short Passing"}
	DefensiveApproaches = []string{"Balanced", "Deep Block", "High Press", "Aggressive"}
)

// Default tactical values.
const (
	DefaultFormation = "4-3-3"
	DefaultStyle     = "Balanced"
	DefaultQuery     = "Build me a balanced World Cup squad"
)

// BuildSquadRequest is the inbound request for a squad build.
type BuildSquadRequest struct {
	Prompt            string       `json:"prompt" validate:"max=2000"`
	Formation         string       `json:"formation" validate:"max=16"`
	BuildUpStyle      string       `json:"buildUpStyle" validate:"omitempty,buildup"`
	DefensiveApproach string       `json:"defensiveApproach" validate:"omitempty,defensive"`
	Budget            float64      `json:"budget" validate:"gte=0,lte=5000"`
	BudgetEnabled     bool         `json:"budgetEnabled"`
	Constraints       *CountLimits `json:"constraints,omitempty"`
}

// ChatRequest asks for a build driven by a free-text message.
type ChatRequest struct {
	Message     string       `json:"message" validate:"required,max=2000"`
	Constraints *CountLimits `json:"constraints,omitempty"`
}

// ReplaceRequest asks for alternatives to one squad member.
type ReplaceRequest struct {
	Position        string   `json:"position" validate:"required,max=4"`
	CurrentPlayerID string   `json:"currentPlayerId"`
	CurrentSquadIDs []string `json:"currentSquadIds"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("buildup", func(fl validator.FieldLevel) bool {
		return oneOf(fl.Field().String(), BuildUpStyles)
	})
	_ = v.RegisterValidation("defensive", func(fl validator.FieldLevel) bool {
		return oneOf(fl.Field().String(), DefensiveApproaches)
	})
	return v
}

func oneOf(s string, allowed []string) bool {
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}

// Validate validates the BuildSquadRequest using the validator.
func (r *BuildSquadRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the ChatRequest using the validator.
func (r *ChatRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the ReplaceRequest using the validator.
func (r *ReplaceRequest) Validate() error {
	return validate.Struct(r)
}

// Normalize fills defaults for omitted fields.
func (r *BuildSquadRequest) Normalize() {
	r.Prompt = strings.TrimSpace(r.Prompt)
	if r.Prompt == "" {
		r.Prompt = DefaultQuery
	}
	if r.Formation == "" {
		r.Formation = DefaultFormation
	}
	if r.BuildUpStyle == "" {
		r.BuildUpStyle = DefaultStyle
	}
	if r.DefensiveApproach == "" {
		r.DefensiveApproach = DefaultStyle
	}
	if !r.BudgetEnabled {
		r.Budget = 0
	}
}

// Limits returns the caller-supplied count limits, or the given defaults when omitted.
func (r *BuildSquadRequest) Limits(defaults CountLimits) CountLimits {
	if r.Constraints == nil {
		return defaults
	}
	return *r.Constraints
}

// IsBuildUpStyle reports whether s is an accepted build-up style.
func IsBuildUpStyle(s string) bool {
	return oneOf(s, BuildUpStyles)
}

// IsDefensiveApproach reports whether s is an accepted defensive approach.
func IsDefensiveApproach(s string) bool {
	return oneOf(s, DefensiveApproaches)
}
