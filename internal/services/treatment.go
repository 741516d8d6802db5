package services

import (
	"math/rand"

	"github.com/rga610/citizen-reporting-react/internal/models"
)

// AssignTreatment picks one of the four arms uniformly at random.
// Unweighted assignment, no blocking or stratification: cell sizes across
// arms are not guaranteed balanced.
func AssignTreatment() string {
	return models.Treatments[rand.Intn(len(models.Treatments))]
}
