package service

import (
	"testing"

	"github.com/yndnr/rostertrace/internal/core/domain"
)

func season(leagueID, year string, roster *domain.RosterSnapshot, drafts ...domain.DraftRecord) SeasonData {
	return SeasonData{
		Node:   domain.SeasonNode{LeagueID: leagueID, Season: year},
		Roster: roster,
		Drafts: drafts,
	}
}

func roster(id int, owner string, players ...string) *domain.RosterSnapshot {
	return &domain.RosterSnapshot{RosterID: id, OwnerID: owner, PlayerIDs: players}
}

func draft(id string, declared domain.DraftType, picks ...domain.DraftPick) domain.DraftRecord {
	return domain.DraftRecord{DraftID: id, DeclaredType: declared, Picks: picks}
}

func TestStartupClassifier_EarliestParticipantDraft(t *testing.T) {
	seasons := []SeasonData{
		season("L1", "2023", nil),
		season("L2", "2024", roster(3, "u1", "p1"),
			draft("20", "", pick("p1", "u1", 3, 1, 1)),
			draft("9", "", pick("p2", "u1", 3, 1, 1)),
		),
	}

	cls := StartupClassifier{}.Classify("u1", seasons, nil)
	if cls.EarliestSeason != 1 {
		t.Errorf("EarliestSeason = %d, want 1", cls.EarliestSeason)
	}
	if cls.StartupDraftID != "9" {
		t.Errorf("StartupDraftID = %q, want 9", cls.StartupDraftID)
	}
	if cls.PriorDraftActivity {
		t.Error("PriorDraftActivity = true, want false")
	}
	if !cls.StartupApplies() {
		t.Error("StartupApplies() = false, want true")
	}
}

func TestStartupClassifier_PrefersNamedStartup(t *testing.T) {
	tests := []struct {
		name   string
		drafts []domain.DraftRecord
		want   string
	}{
		{
			name: "declared type",
			drafts: []domain.DraftRecord{
				draft("1", domain.DraftTypeRookie, pick("p1", "u1", 3, 1, 1)),
				draft("2", domain.DraftTypeStartup, pick("p2", "u1", 3, 1, 1)),
			},
			want: "2",
		},
		{
			name: "identifier contains startup",
			drafts: []domain.DraftRecord{
				draft("a-rookie", "", pick("p1", "u1", 3, 1, 1)),
				draft("b-Startup", "", pick("p2", "u1", 3, 1, 1)),
			},
			want: "b-Startup",
		},
		{
			name: "identifier contains initial",
			drafts: []domain.DraftRecord{
				draft("a", "", pick("p1", "u1", 3, 1, 1)),
				draft("b-initial", "", pick("p2", "u1", 3, 1, 1)),
			},
			want: "b-initial",
		},
		{
			name: "named draft without participant picks is ignored",
			drafts: []domain.DraftRecord{
				draft("a", "", pick("p1", "u1", 3, 1, 1)),
				draft("b-startup", "", pick("p2", "u2", 4, 1, 1)),
			},
			want: "a",
		},
		{
			name:   "no participant picks",
			drafts: []domain.DraftRecord{draft("a", "", pick("p1", "u2", 4, 1, 1))},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seasons := []SeasonData{season("L1", "2024", roster(3, "u1", "p1"), tt.drafts...)}
			cls := StartupClassifier{}.Classify("u1", seasons, nil)
			if cls.StartupDraftID != tt.want {
				t.Errorf("StartupDraftID = %q, want %q", cls.StartupDraftID, tt.want)
			}
		})
	}
}

func TestStartupClassifier_PriorDraftActivity(t *testing.T) {
	seasons := []SeasonData{
		season("L1", "2023", roster(3, "old", "p1"), draft("1", "", pick("p1", "old", 3, 1, 1))),
		season("L2", "2024", roster(3, "u1", "p1"), draft("2", "", pick("p2", "u1", 3, 1, 1))),
	}

	cls := StartupClassifier{}.Classify("u1", seasons, nil)
	if cls.EarliestSeason != 1 {
		t.Fatalf("EarliestSeason = %d, want 1", cls.EarliestSeason)
	}
	if !cls.PriorDraftActivity {
		t.Error("PriorDraftActivity = false, want true")
	}
	if cls.StartupApplies() {
		t.Error("StartupApplies() = true, want false")
	}
	if got := cls.PickKind(1, "2"); got != domain.AcquisitionRookieDraft {
		t.Errorf("PickKind() = %s, want RookieDraft", got)
	}
}

func TestStartupClassifier_UnknownRosterSeasonIgnored(t *testing.T) {
	unknown := season("L1", "2023", nil, draft("1", "", pick("p1", "old", 3, 1, 1)))
	unknown.RosterUnavailable = true
	seasons := []SeasonData{
		unknown,
		season("L2", "2024", roster(3, "u1", "p1"), draft("2", "", pick("p1", "u1", 3, 1, 1))),
	}

	cls := StartupClassifier{}.Classify("u1", seasons, nil)
	if cls.EarliestSeason != 1 {
		t.Fatalf("EarliestSeason = %d, want 1", cls.EarliestSeason)
	}
	if cls.PriorDraftActivity {
		t.Error("PriorDraftActivity = true, want false for a season with an unknown roster")
	}
	if !cls.StartupApplies() || cls.StartupDraftID != "2" {
		t.Errorf("startup = %q (applies %v), want 2", cls.StartupDraftID, cls.StartupApplies())
	}
}

func TestStartupClassifier_ParticipantNotFound(t *testing.T) {
	seasons := []SeasonData{season("L1", "2024", nil), season("L2", "2025", roster(3, "u1"))}

	cls := StartupClassifier{}.Classify("u1", seasons, nil)
	if cls.ParticipantFound() {
		t.Errorf("ParticipantFound() = true, EarliestSeason = %d", cls.EarliestSeason)
	}
}

func TestClassification_RedraftMakesEveryPickStartup(t *testing.T) {
	redraft := domain.SettingsRedraft
	current := &domain.League{LeagueID: "L1", SettingsType: &redraft}

	cls := StartupClassifier{}.Classify("u1", nil, current)
	if !cls.Redraft {
		t.Fatal("Redraft = false, want true")
	}
	if got := cls.PickKind(3, "any"); got != domain.AcquisitionStartupDraft {
		t.Errorf("PickKind() = %s, want StartupDraft", got)
	}
}
