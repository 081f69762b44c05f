// services/leaderboard_service.go - Player leaderboards and team standings
package services

import (
	"fmt"
	"math"
	"sort"

	"recleague/config"
	"recleague/models"

	"gorm.io/gorm"
)

// LeaderboardPageSize is the fixed page length for player rankings.
const LeaderboardPageSize = 20

// GamesStatKey is the synthetic stat key ranking by games played.
const GamesStatKey = "game_count"

// BoardPeriod describes one named time-period selector: which stat bucket or
// pair of buckets it reads, how a pair is combined (sum or per-category max),
// whether values are normalized by summed game count, and the minimum games
// played to qualify.
type BoardPeriod struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	Period1    string `json:"-"`
	Period2    string `json:"-"`
	CombineMax bool   `json:"-"`
	DivByGames bool   `json:"div_by_games"`
	MinGames   int    `json:"min_games"`

	// Periods reading only current-season buckets are hidden while no
	// season is underway.
	NeedsSeason bool `json:"-"`
}

// BoardEntry is one ranked row: the player and the computed stat value,
// rounded to two decimals.
type BoardEntry struct {
	User  models.User `json:"user"`
	Value float64     `json:"value"`
}

// StandingsEntry is one team row with its 1-based place. Tied teams share a
// place number.
type StandingsEntry struct {
	Team  models.Team `json:"team"`
	Place int         `json:"place"`
}

// LeaderboardService ranks players over configurable stat categories and
// retention horizons, and computes team standings.
type LeaderboardService struct {
	db      *gorm.DB
	cfg     *config.Config
	periods []BoardPeriod
}

func NewLeaderboardService(db *gorm.DB, cfg *config.Config) *LeaderboardService {
	lb := cfg.Leaderboard
	periods := []BoardPeriod{
		{
			Name:        "Game",
			Description: "Best stats in a single game.",
			Period1:     models.PeriodSeasonHighStats,
			Period2:     models.PeriodPrevSeasonHighStats,
			CombineMax:  true,
			MinGames:    1,
		},
		{
			Name:        "Current Season",
			Description: "Best stats in the current season only.",
			Period1:     models.PeriodSeasonStats,
			MinGames:    1,
			NeedsSeason: true,
		},
		{
			Name:        "Season",
			Description: "Best stats in a single season.",
			Period1:     models.PeriodSeasonStats,
			Period2:     models.PeriodPrevSeasonBestStats,
			CombineMax:  true,
			MinGames:    1,
		},
		{
			Name:        "Lifetime",
			Description: "Best stats for all seasons combined.",
			Period1:     models.PeriodSeasonStats,
			Period2:     models.PeriodPrevSeasonStats,
			MinGames:    1,
		},
		{
			Name: "Current Season Average",
			Description: fmt.Sprintf(
				"Average game stats in the current season only. Must have played over %d games.",
				lb.MinSeasonAverageGames),
			Period1:     models.PeriodSeasonStats,
			DivByGames:  true,
			MinGames:    lb.MinSeasonAverageGames,
			NeedsSeason: true,
		},
		{
			Name: "Lifetime Average",
			Description: fmt.Sprintf(
				"Average game stats for all seasons combined. Must have played over %d games.",
				lb.MinLifetimeAverageGames),
			Period1:     models.PeriodSeasonStats,
			Period2:     models.PeriodPrevSeasonStats,
			DivByGames:  true,
			MinGames:    lb.MinLifetimeAverageGames,
		},
	}

	return &LeaderboardService{db: db, cfg: cfg, periods: periods}
}

// Periods returns the selectors available right now: current-season-only
// periods are omitted while no season is underway.
func (s *LeaderboardService) Periods() []BoardPeriod {
	var season models.Season
	hasActive := s.db.First(&season).Error == nil && !season.IsBefore()

	out := make([]BoardPeriod, 0, len(s.periods))
	for _, p := range s.periods {
		if p.NeedsSeason && !hasActive {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Period looks up a selector by name.
func (s *LeaderboardService) Period(name string) (*BoardPeriod, error) {
	for i := range s.periods {
		if s.periods[i].Name == name {
			return &s.periods[i], nil
		}
	}
	return nil, fmt.Errorf("unknown leaderboard period %q", name)
}

// statValue reads one category (or the game count) from a bucket pair,
// combining by sum or per-category max. A missing bucket contributes zero.
func statValue(u *models.User, p *BoardPeriod, statIndex int, gameCount bool) float64 {
	read := func(period string) float64 {
		rec := u.StatPeriod(period)
		if rec == nil {
			return 0
		}
		if gameCount {
			return float64(rec.GameCount)
		}
		return float64(rec.Counters[statIndex])
	}

	v1 := read(p.Period1)
	if p.Period2 == "" {
		return v1
	}

	v2 := read(p.Period2)
	if p.CombineMax {
		return math.Max(v1, v2)
	}
	return v1 + v2
}

// gamesPlayed is the qualifying game count for a period: the summed game
// counts of its buckets (averages always divide by the sum, even for
// max-combined periods).
func gamesPlayed(u *models.User, p *BoardPeriod) float64 {
	sum := &BoardPeriod{Period1: p.Period1, Period2: p.Period2}
	return statValue(u, sum, 0, true)
}

// Ranking computes one leaderboard page. statKey is a configured category
// key or GamesStatKey; periodName selects the retention horizon. Players
// below the period's minimum games, the root account, and guest placeholders
// are excluded. Ties keep ascending ID order.
func (s *LeaderboardService) Ranking(statKey, periodName string, page int) ([]BoardEntry, int, error) {
	period, err := s.Period(periodName)
	if err != nil {
		return nil, 0, err
	}

	gameCount := statKey == GamesStatKey
	statIndex := -1
	if !gameCount {
		statIndex = s.cfg.StatIndex(statKey)
		if statIndex < 0 {
			return nil, 0, fmt.Errorf("unknown stat key %q", statKey)
		}
	}

	var users []models.User
	err = s.db.
		Preload("SeasonStats").
		Preload("SeasonHighStats").
		Preload("PrevSeasonStats").
		Preload("PrevSeasonBestStats").
		Preload("PrevSeasonHighStats").
		Where("id <> ? AND name <> ?", models.RootUserID, models.GuestPlayerName).
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	entries := make([]BoardEntry, 0, len(users))
	for i := range users {
		u := &users[i]

		games := gamesPlayed(u, period)
		if games < float64(period.MinGames) {
			continue
		}

		value := statValue(u, period, statIndex, gameCount)
		if period.DivByGames {
			value /= games
		}

		entries = append(entries, BoardEntry{
			User:  *u,
			Value: math.Round(value*100) / 100,
		})
	}

	// Descending by value; SliceStable keeps the ID order for ties.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})

	total := len(entries)
	if page < 1 {
		page = 1
	}
	start := (page - 1) * LeaderboardPageSize
	if start > total {
		start = total
	}
	end := start + LeaderboardPageSize
	if end > total {
		end = total
	}

	return entries[start:end], total, nil
}

// Standings ranks teams. divisionID 0 is the overall table ordered by wins,
// losses, score differential; a non-zero divisionID filters to that division
// and leads with the divisional record. A team ties with the head of the
// current tie group only when its ranking key and total games played both
// match.
func (s *LeaderboardService) Standings(divisionID uint) ([]StandingsEntry, error) {
	var teams []models.Team
	query := s.db.Preload("Division")

	if divisionID == 0 {
		query = query.Order("wins DESC, losses DESC, score_diff DESC")
	} else {
		var div models.Division
		if err := s.db.First(&div, divisionID).Error; err != nil {
			return nil, fmt.Errorf("division %d: %w", divisionID, err)
		}
		query = query.
			Where("division_id = ?", divisionID).
			Order("div_wins DESC, wins DESC, losses DESC, score_diff DESC")
	}

	if err := query.Find(&teams).Error; err != nil {
		return nil, err
	}

	gamesByTeam, err := s.totalGamesByTeam()
	if err != nil {
		return nil, err
	}

	entries := make([]StandingsEntry, len(teams))
	tieHead := -1
	for i := range teams {
		tied := tieHead >= 0 &&
			teams[i].Wins == teams[tieHead].Wins &&
			gamesByTeam[teams[i].ID] == gamesByTeam[teams[tieHead].ID]
		if divisionID != 0 {
			tied = tied && teams[i].DivWins == teams[tieHead].DivWins
		}
		if !tied {
			tieHead = i
		}

		entries[i] = StandingsEntry{Team: teams[i], Place: tieHead + 1}
	}

	return entries, nil
}

// totalGamesByTeam counts every game a team appears in, verified or not,
// which is the tie-break game count for standings.
func (s *LeaderboardService) totalGamesByTeam() (map[uint]int, error) {
	counts := make(map[uint]int)

	for _, column := range []string{"team1_id", "team2_id"} {
		rows := []struct {
			TeamID uint
			N      int
		}{}
		err := s.db.Model(&models.Game{}).
			Select(column+" AS team_id, COUNT(*) AS n").
			Where(column + " IS NOT NULL").
			Group(column).
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			counts[r.TeamID] += r.N
		}
	}

	return counts, nil
}
