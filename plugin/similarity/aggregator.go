package similarity

import (
	"fmt"
	"math"
)

// weightTolerance is the allowed deviation of the weight sum from 1.0.
const weightTolerance = 1e-6

// Aggregator combines a title similarity and a description similarity into
// one overall score using fixed weights.
type Aggregator struct {
	titleWeight       float64
	descriptionWeight float64
}

// NewAggregator validates the weights at construction time. Weights that are
// negative or do not sum to 1.0 fail with ErrInvalidWeightConfiguration
// before any scoring work happens.
func NewAggregator(titleWeight, descriptionWeight float64) (*Aggregator, error) {
	if titleWeight < 0 || descriptionWeight < 0 {
		return nil, fmt.Errorf("%w: got negative weight (%.4f, %.4f)", ErrInvalidWeightConfiguration, titleWeight, descriptionWeight)
	}
	if math.Abs(titleWeight+descriptionWeight-1.0) > weightTolerance {
		return nil, fmt.Errorf("%w: got %.4f + %.4f = %.4f", ErrInvalidWeightConfiguration, titleWeight, descriptionWeight, titleWeight+descriptionWeight)
	}
	return &Aggregator{
		titleWeight:       titleWeight,
		descriptionWeight: descriptionWeight,
	}, nil
}

// Aggregate returns titleWeight*titleSim + descriptionWeight*descSim.
func (a *Aggregator) Aggregate(titleSim, descSim float64) float64 {
	return a.titleWeight*titleSim + a.descriptionWeight*descSim
}

// TitleWeight returns the configured title weight.
func (a *Aggregator) TitleWeight() float64 {
	return a.titleWeight
}

// DescriptionWeight returns the configured description weight.
func (a *Aggregator) DescriptionWeight() float64 {
	return a.descriptionWeight
}
