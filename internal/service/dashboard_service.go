package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/repository"
	"github.com/spec-kit/roster-service/internal/roster"
	"github.com/spec-kit/roster-service/pkg/util/errorutil"
)

// DashboardService aggregates roster statistics for a formation scope.
type DashboardService struct {
	staff      repository.StaffRepository
	formations *FormationService
	cache      *redis.Client
	cacheTTL   time.Duration
}

// DashboardDependencies bundles collaborators for the dashboard service.
type DashboardDependencies struct {
	StaffRepo        repository.StaffRepository
	FormationService *FormationService
	Cache            *redis.Client
	CacheTTL         time.Duration
}

// NewDashboardService constructs the service.
func NewDashboardService(deps DashboardDependencies) *DashboardService {
	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &DashboardService{
		staff:      deps.StaffRepo,
		formations: deps.FormationService,
		cache:      deps.Cache,
		cacheTTL:   ttl,
	}
}

// DashboardStats summarizes one formation scope.
type DashboardStats struct {
	FormationIDs []int64             `json:"formation_ids"`
	ActiveTotal  int                 `json:"active_total"`
	ExitedTotal  int                 `json:"exited_total"`
	Complete     int                 `json:"complete"`
	Incomplete   int                 `json:"incomplete"`
	DueThisYear  int                 `json:"due_this_year"`
	ByRank       map[domain.Rank]int `json:"by_rank"`
	ByGender     map[string]int      `json:"by_gender"`
	GeneratedAt  time.Time           `json:"generated_at"`
}

// Stats computes counts over a formation scope. Aggregating formation types
// expand to their whole subtree; a nil formation covers the entire roster.
// Results are cached briefly per scope.
func (s *DashboardService) Stats(ctx context.Context, formationID *int64) (*DashboardStats, error) {
	key := "dashboard:stats:all"
	if formationID != nil {
		key = fmt.Sprintf("dashboard:stats:%d", *formationID)
	}
	if s.cache != nil {
		if payload, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var cached DashboardStats
			if json.Unmarshal(payload, &cached) == nil {
				return &cached, nil
			}
		}
	}

	q := roster.Query{}
	var scope []int64
	if formationID != nil {
		var err error
		scope, err = s.formations.ResolveScope(ctx, *formationID)
		if err != nil {
			return nil, err
		}
		q.FormationIDs = scope
	}

	records, err := s.staff.Search(ctx, q)
	if err != nil {
		return nil, errorutil.MapError(err)
	}

	stats := &DashboardStats{
		FormationIDs: scope,
		ByRank:       make(map[domain.Rank]int),
		ByGender:     make(map[string]int),
		GeneratedAt:  time.Now(),
	}
	year := stats.GeneratedAt.Year()
	for i := range records {
		rec := &records[i]
		if !rec.Active() {
			stats.ExitedTotal++
			continue
		}
		stats.ActiveTotal++
		stats.ByRank[rec.Rank]++
		if rec.Gender != nil {
			stats.ByGender[*rec.Gender]++
		}
		if roster.IsComplete(rec) {
			stats.Complete++
		} else {
			stats.Incomplete++
		}
		if roster.DueInYear(rec, year) {
			stats.DueThisYear++
		}
	}

	if s.cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			s.cache.Set(ctx, key, payload, s.cacheTTL)
		}
	}
	return stats, nil
}
