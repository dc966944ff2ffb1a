package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

const seasonFixture = `{
  "matches": {
    "2025-08-16|Arsenal|Chelsea": {
      "date": "2025-08-16",
      "homeTeam": "Arsenal",
      "awayTeam": "Chelsea",
      "preMatch": {
        "odds": {"homeWin": 1.80, "draw": 3.60, "awayWin": 4.20},
        "asianHandicap": {"homeOdds": 1.95, "awayOdds": 1.85, "homeHandicap": "-0.5/-1"},
        "homeWinStreak": 3,
        "awayWinStreak": 1
      },
      "result": {"homeScore": 2, "awayScore": 0}
    },
    "2025-08-17|Leeds|Everton": {
      "date": "2025-08-17",
      "homeTeam": "Leeds",
      "awayTeam": "Everton",
      "preMatch": {
        "odds": {"homeWin": 2.40, "draw": 3.20, "awayWin": 2.90},
        "asianHandicap": {"homeOdds": 1.90, "awayOdds": 1.90, "homeHandicap": "0"}
      },
      "result": {"homeScore": 1, "awayScore": 1}
    },
    "2025-08-17|Fulham|Fulham": {
      "date": "2025-08-17",
      "homeTeam": "Fulham",
      "awayTeam": "Fulham",
      "preMatch": {
        "odds": {"homeWin": 2.00, "draw": 3.40, "awayWin": 3.40},
        "asianHandicap": {"homeOdds": 1.90, "awayOdds": 1.90, "homeHandicap": "0"}
      },
      "result": {"homeScore": 0, "awayScore": 0}
    }
  }
}`

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func writeSeason(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".json"), []byte(content), 0o644); err != nil {
		t.Fatalf("write season fixture: %v", err)
	}
}

func TestLoadSeasonDropsInvalidRecords(t *testing.T) {
	dir := t.TempDir()
	writeSeason(t, dir, "2025-2026", seasonFixture)

	loader := NewLoader(dir, nil, quietLogger())
	season, err := loader.LoadSeason("2025-2026")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(season.Matches) != 2 {
		t.Fatalf("expected 2 valid matches, got %d", len(season.Matches))
	}
	if season.Dropped != 1 {
		t.Fatalf("expected 1 dropped record, got %d", season.Dropped)
	}
	// Key order, so runs are deterministic.
	if season.Matches[0].HomeTeam != "Arsenal" || season.Matches[1].HomeTeam != "Leeds" {
		t.Fatalf("unexpected match order: %s, %s", season.Matches[0].HomeTeam, season.Matches[1].HomeTeam)
	}
	if season.Matches[0].Season != "2025-2026" {
		t.Fatalf("expected season tag, got %q", season.Matches[0].Season)
	}
}

func TestLoadSeasonMissingFile(t *testing.T) {
	loader := NewLoader(t.TempDir(), nil, quietLogger())
	if _, err := loader.LoadSeason("2019-2020"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadSeasonMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	writeSeason(t, dir, "bad", `{"matches": `)

	loader := NewLoader(dir, nil, quietLogger())
	if _, err := loader.LoadSeason("bad"); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
}

func TestLoaderUsesCache(t *testing.T) {
	dir := t.TempDir()
	writeSeason(t, dir, "2025-2026", seasonFixture)

	seasonCache := NewSeasonCache(time.Minute)
	loader := NewLoader(dir, seasonCache, quietLogger())

	if _, err := loader.LoadSeason("2025-2026"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Second load must come from cache, so deleting the file is harmless.
	if err := os.Remove(filepath.Join(dir, "2025-2026.json")); err != nil {
		t.Fatalf("remove fixture: %v", err)
	}
	season, err := loader.LoadSeason("2025-2026")
	if err != nil {
		t.Fatalf("expected cache hit, got error: %v", err)
	}
	if len(season.Matches) != 2 {
		t.Fatalf("expected 2 matches from cache, got %d", len(season.Matches))
	}

	hits, misses := seasonCache.Stats()
	if hits != 1 || misses != 1 {
		t.Fatalf("expected 1 hit and 1 miss, got %d/%d", hits, misses)
	}
}

func TestListSeasons(t *testing.T) {
	dir := t.TempDir()
	writeSeason(t, dir, "2024-2025", seasonFixture)
	writeSeason(t, dir, "2023-2024", seasonFixture)

	loader := NewLoader(dir, nil, quietLogger())
	names, err := loader.ListSeasons()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 2 || names[0] != "2023-2024" || names[1] != "2024-2025" {
		t.Fatalf("unexpected season list: %v", names)
	}
}
