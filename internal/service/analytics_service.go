package service

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"campus/spacehub/internal/model"
	"campus/spacehub/internal/repository"
)

const (
	popularSpaceLimit = 5
	// A space is underutilized below this share of the per-space average.
	underutilizedShare = 0.3
)

type SpaceSummary struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Type      model.SpaceType `json:"type"`
	Capacity  int             `json:"capacity"`
	FloorName string          `json:"floor_name,omitempty"`
}

type SpaceUtilization struct {
	Space            SpaceSummary `json:"space"`
	ReservationCount int64        `json:"reservation_count"`
	UtilizationRate  float64      `json:"utilization_rate"`
}

// UtilizationReport counts confirmed reservations only.
type UtilizationReport struct {
	TotalReservations int64 `json:"total_reservations"`
	TotalSpaces       int64 `json:"total_spaces"`
	// TotalUsers counts distinct users who ever reserved.
	TotalUsers int64 `json:"total_users"`
	// UtilizationRate is confirmed reservations per space.
	UtilizationRate     float64            `json:"utilization_rate"`
	MostPopularSpace    *SpaceSummary      `json:"most_popular_space"`
	PopularSpaces       []SpaceUtilization `json:"popular_spaces"`
	UnderutilizedSpaces []SpaceUtilization `json:"underutilized_spaces"`
}

type AnalyticsService interface {
	Utilization(ctx context.Context) (*UtilizationReport, error)
}

type analyticsService struct {
	repos repository.Repositories
}

func NewAnalyticsService(repos repository.Repositories) AnalyticsService {
	return &analyticsService{repos: repos}
}

func summarize(space *model.Space) SpaceSummary {
	summary := SpaceSummary{ID: space.ID, Name: space.Name, Type: space.Type, Capacity: space.Capacity}
	if space.Floor != nil {
		summary.FloorName = space.Floor.Name
	}
	return summary
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func (s *analyticsService) Utilization(ctx context.Context) (*UtilizationReport, error) {
	// 1. Load the registry and the per-space tally
	spaces, err := s.repos.Spaces.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list spaces: %w", err)
	}
	counts, err := s.repos.Reservations.CountConfirmedBySpace(ctx)
	if err != nil {
		return nil, fmt.Errorf("count reservations by space: %w", err)
	}
	users, err := s.repos.Reservations.CountDistinctUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	byID := make(map[uuid.UUID]*model.Space, len(spaces))
	for i := range spaces {
		byID[spaces[i].ID] = &spaces[i]
	}
	perSpace := make(map[uuid.UUID]int64, len(counts))
	var total int64
	for _, c := range counts {
		perSpace[c.SpaceID] = c.ReservationCount
		total += c.ReservationCount
	}

	report := &UtilizationReport{
		TotalReservations:   total,
		TotalSpaces:         int64(len(spaces)),
		TotalUsers:          users,
		PopularSpaces:       []SpaceUtilization{},
		UnderutilizedSpaces: []SpaceUtilization{},
	}
	if len(spaces) == 0 {
		return report, nil
	}
	average := float64(total) / float64(len(spaces))
	report.UtilizationRate = round2(average)

	// 2. Busiest spaces, share of all confirmed reservations
	for _, c := range counts {
		if len(report.PopularSpaces) == popularSpaceLimit {
			break
		}
		space, ok := byID[c.SpaceID]
		if !ok {
			continue
		}
		report.PopularSpaces = append(report.PopularSpaces, SpaceUtilization{
			Space:            summarize(space),
			ReservationCount: c.ReservationCount,
			UtilizationRate:  round2(float64(c.ReservationCount) / float64(total) * 100),
		})
	}
	if len(report.PopularSpaces) > 0 {
		top := report.PopularSpaces[0].Space
		report.MostPopularSpace = &top
	}

	// 3. Spaces well below the average, relative to it
	threshold := average * underutilizedShare
	for i := range spaces {
		n := perSpace[spaces[i].ID]
		if float64(n) >= threshold {
			continue
		}
		report.UnderutilizedSpaces = append(report.UnderutilizedSpaces, SpaceUtilization{
			Space:            summarize(&spaces[i]),
			ReservationCount: n,
			UtilizationRate:  round2(float64(n) / average * 100),
		})
	}
	return report, nil
}

var _ AnalyticsService = (*analyticsService)(nil)
