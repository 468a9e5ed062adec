package ranking

import (
	"math"

	"github.com/go-playground/validator/v10"
)

const weightSumTolerance = 1e-6

// Weights are the per-dimension contributions to the overall score. Each is
// non-negative and they sum to 1.
type Weights struct {
	SkillMatch        float64 `json:"skill_match" mapstructure:"skill_match" validate:"gte=0,lte=1"`
	Experience        float64 `json:"experience" mapstructure:"experience" validate:"gte=0,lte=1"`
	ProjectSimilarity float64 `json:"project_similarity" mapstructure:"project_similarity" validate:"gte=0,lte=1"`
	DomainFamiliarity float64 `json:"domain_familiarity" mapstructure:"domain_familiarity" validate:"gte=0,lte=1"`
}

// DefaultWeights returns 0.40 / 0.25 / 0.20 / 0.15.
func DefaultWeights() Weights {
	return Weights{
		SkillMatch:        0.40,
		Experience:        0.25,
		ProjectSimilarity: 0.20,
		DomainFamiliarity: 0.15,
	}
}

// Sum returns the total weight.
func (w Weights) Sum() float64 {
	return w.SkillMatch + w.Experience + w.ProjectSimilarity + w.DomainFamiliarity
}

// Validate checks every weight is in [0,1] and the weights sum to 1.
func (w Weights) Validate() error {
	if err := validate.Struct(w); err != nil {
		return &ContractError{Message: "invalid weights", Cause: err}
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		w := sl.Current().Interface().(Weights)
		if math.Abs(w.Sum()-1) > weightSumTolerance {
			sl.ReportError(w.Sum(), "Sum", "Sum", "sum1", "")
		}
	}, Weights{})
	return v
}
