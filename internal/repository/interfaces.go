package repository

import (
	"context"

	"go-microplastic-inspector/pkg/models"
)

// AnalysisRepository is the analysis backend as seen by the client
type AnalysisRepository interface {
	// Upload submits one image for analysis
	Upload(ctx context.Context, candidate models.Candidate) (*models.AnalysisResponse, error)

	// History fetches the complete list of past analyses
	History(ctx context.Context) ([]models.HistoryEntry, error)
}
