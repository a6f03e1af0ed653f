package view

import (
	"encoding/json"
	"testing"
	"time"

	"go-microplastic-inspector/pkg/models"
)

func historyFixture() []models.HistoryEntry {
	return []models.HistoryEntry{
		{
			ID:                7,
			Filename:          "beach.jpg",
			Date:              models.Timestamp{Time: time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)},
			ParticleCount:     12,
			MicroplasticTypes: []string{"Polyethylene (PE)", "Acrylic"},
		},
		{
			ID:                8,
			Filename:          "river.png",
			Date:              models.Timestamp{Time: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)},
			ParticleCount:     0,
			MicroplasticTypes: []string{},
		},
	}
}

func TestBuildHistory(t *testing.T) {
	v := BuildHistory(historyFixture(), time.UTC)
	if v.Placeholder != "" || len(v.Items) != 2 {
		t.Fatalf("Unexpected view: %+v", v)
	}

	first := v.Items[0]
	if first.Date != "3/9/2024" || first.Time != "2:05:07 PM" {
		t.Errorf("Unexpected date fields: %q / %q", first.Date, first.Time)
	}
	if first.TypesLine != "Types found: Polyethylene (PE), Acrylic" {
		t.Errorf("Unexpected types line %q", first.TypesLine)
	}
	if first.ParticleBadge != "12 particles" || first.TypeCount != "2 types" {
		t.Errorf("Unexpected badges: %+v", first)
	}

	second := v.Items[1]
	if second.TypesLine != "Types found: None" {
		t.Errorf("Expected None, got %q", second.TypesLine)
	}
	if second.TypeCount != "0 types" {
		t.Errorf("Expected 0 types, got %q", second.TypeCount)
	}
}

func TestBuildHistory_LocalTimeZone(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	v := BuildHistory(historyFixture()[:1], tokyo)
	if v.Items[0].Date != "3/9/2024" || v.Items[0].Time != "11:05:07 PM" {
		t.Errorf("Expected times in the given zone, got %q %q", v.Items[0].Date, v.Items[0].Time)
	}
}

func TestBuildHistory_EmptyAndError(t *testing.T) {
	if v := BuildHistory(nil, time.UTC); v.Placeholder != NoHistoryPlaceholder || len(v.Items) != 0 {
		t.Errorf("Expected empty placeholder, got %+v", v)
	}
	if v := HistoryError(); v.Placeholder != HistoryErrorPlaceholder {
		t.Errorf("Expected error placeholder, got %+v", v)
	}
}

func TestDetailFromView(t *testing.T) {
	v := BuildHistory(historyFixture(), time.UTC)

	d, ok := DetailFromView(v, 7)
	if !ok {
		t.Fatal("Expected to find entry 7")
	}
	if d.Filename != "beach.jpg" || d.Date != "3/9/2024 at 2:05:07 PM" || d.ParticlesFound != "12 particles" {
		t.Errorf("Unexpected detail: %+v", d)
	}

	if _, ok := DetailFromView(v, 99); ok {
		t.Error("Expected unknown id to miss")
	}
	if _, ok := DetailFromView(HistoryError(), 7); ok {
		t.Error("Expected no detail without rendered rows")
	}
}

func TestBuildHistory_ZonelessDatesKeepWallClock(t *testing.T) {
	doc := `[{"id": 9, "filename": "lake.jpg", "date": "2024-03-09T14:05:07.123456", "particle_count": 3, "microplastic_types": ["Fiber"]}]`
	var entries []models.HistoryEntry
	if err := json.Unmarshal([]byte(doc), &entries); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, loc := range []*time.Location{time.UTC, time.FixedZone("EST", -5*60*60), time.FixedZone("JST", 9*60*60)} {
		v := BuildHistory(entries, loc)
		if v.Items[0].Date != "3/9/2024" || v.Items[0].Time != "2:05:07 PM" {
			t.Errorf("%s: expected the sent wall clock, got %q %q", loc, v.Items[0].Date, v.Items[0].Time)
		}
		d, ok := DetailFromView(v, 9)
		if !ok || d.Date != "3/9/2024 at 2:05:07 PM" {
			t.Errorf("%s: unexpected detail date %q", loc, d.Date)
		}
	}
}
