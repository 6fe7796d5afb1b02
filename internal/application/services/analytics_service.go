package services

import (
	"context"
	"sort"

	"github.com/careloop/symptom-intake/internal/domain/repositories"
	"github.com/careloop/symptom-intake/internal/engine"
)

// WordCount is one entry of the symptom word distribution.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// AnalyticsService aggregates the word-level symptom distribution over
// a device's consultation history.
type AnalyticsService struct {
	consultations repositories.ConsultationRepository
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(consultations repositories.ConsultationRepository) *AnalyticsService {
	return &AnalyticsService{consultations: consultations}
}

// SymptomDistribution returns the most frequent symptom words across
// the device's history, highest count first, capped at limit entries.
func (s *AnalyticsService) SymptomDistribution(ctx context.Context, deviceID string, limit int) ([]WordCount, error) {
	consultations, err := s.consultations.ListByDevice(ctx, deviceID, repositories.ConsultationFilter{})
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, consultation := range consultations {
		for _, word := range engine.Words(consultation.Symptoms) {
			counts[word]++
		}
	}

	distribution := make([]WordCount, 0, len(counts))
	for word, count := range counts {
		distribution = append(distribution, WordCount{Word: word, Count: count})
	}
	sort.Slice(distribution, func(i, j int) bool {
		if distribution[i].Count != distribution[j].Count {
			return distribution[i].Count > distribution[j].Count
		}
		return distribution[i].Word < distribution[j].Word
	})

	if limit > 0 && len(distribution) > limit {
		distribution = distribution[:limit]
	}
	return distribution, nil
}
