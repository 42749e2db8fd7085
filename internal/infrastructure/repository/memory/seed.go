package memory

import (
	"time"

	"github.com/fantasyfecha/fantasy-api/internal/domain/matchday"
	"github.com/fantasyfecha/fantasy-api/internal/domain/player"
	"github.com/fantasyfecha/fantasy-api/internal/domain/team"
)

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: "arg-river", Name: "River Plate", LogoURL: "/logos/river.svg"},
		{ID: "arg-boca", Name: "Boca Juniors", LogoURL: "/logos/boca.svg"},
		{ID: "arg-racing", Name: "Racing Club", LogoURL: "/logos/racing.svg"},
		{ID: "arg-indep", Name: "Independiente", LogoURL: "/logos/independiente.svg"},
		{ID: "arg-sanlo", Name: "San Lorenzo", LogoURL: "/logos/sanlorenzo.svg"},
		{ID: "arg-velez", Name: "Velez Sarsfield", LogoURL: "/logos/velez.svg"},
	}
}

func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: "pl-river-gk1", TeamID: "arg-river", Name: "Franco Armani", Position: player.PositionGoalkeeper, Rating: 8.2, Price: 6.5},
		{ID: "pl-river-df1", TeamID: "arg-river", Name: "Paulo Diaz", Position: player.PositionDefender, Rating: 7.9, Price: 6.0},
		{ID: "pl-river-df2", TeamID: "arg-river", Name: "Marcos Acuna", Position: player.PositionDefender, Rating: 8.0, Price: 6.8},
		{ID: "pl-river-mf1", TeamID: "arg-river", Name: "Ignacio Fernandez", Position: player.PositionMidfielder, Rating: 8.1, Price: 7.2},
		{ID: "pl-river-mf2", TeamID: "arg-river", Name: "Manuel Lanzini", Position: player.PositionMidfielder, Rating: 7.6, Price: 6.2},
		{ID: "pl-river-fw1", TeamID: "arg-river", Name: "Miguel Borja", Position: player.PositionForward, Rating: 8.4, Price: 8.5},
		{ID: "pl-boca-gk1", TeamID: "arg-boca", Name: "Sergio Romero", Position: player.PositionGoalkeeper, Rating: 7.8, Price: 5.8},
		{ID: "pl-boca-df1", TeamID: "arg-boca", Name: "Marcos Rojo", Position: player.PositionDefender, Rating: 7.5, Price: 5.5},
		{ID: "pl-boca-df2", TeamID: "arg-boca", Name: "Luis Advincula", Position: player.PositionDefender, Rating: 7.7, Price: 5.9},
		{ID: "pl-boca-mf1", TeamID: "arg-boca", Name: "Equi Fernandez", Position: player.PositionMidfielder, Rating: 8.0, Price: 7.0},
		{ID: "pl-boca-mf2", TeamID: "arg-boca", Name: "Kevin Zenon", Position: player.PositionMidfielder, Rating: 7.7, Price: 6.4},
		{ID: "pl-boca-fw1", TeamID: "arg-boca", Name: "Edinson Cavani", Position: player.PositionForward, Rating: 8.3, Price: 8.8},
		{ID: "pl-racing-gk1", TeamID: "arg-racing", Name: "Gabriel Arias", Position: player.PositionGoalkeeper, Rating: 7.6, Price: 5.2},
		{ID: "pl-racing-df1", TeamID: "arg-racing", Name: "Marco Di Cesare", Position: player.PositionDefender, Rating: 7.3, Price: 4.8},
		{ID: "pl-racing-df2", TeamID: "arg-racing", Name: "Gaston Martirena", Position: player.PositionDefender, Rating: 7.5, Price: 5.3},
		{ID: "pl-racing-mf1", TeamID: "arg-racing", Name: "Juan Nardoni", Position: player.PositionMidfielder, Rating: 7.8, Price: 6.1},
		{ID: "pl-racing-fw1", TeamID: "arg-racing", Name: "Adrian Martinez", Position: player.PositionForward, Rating: 8.2, Price: 7.9},
		{ID: "pl-racing-fw2", TeamID: "arg-racing", Name: "Roger Martinez", Position: player.PositionForward, Rating: 7.6, Price: 6.0},
		{ID: "pl-indep-gk1", TeamID: "arg-indep", Name: "Rodrigo Rey", Position: player.PositionGoalkeeper, Rating: 7.7, Price: 5.0},
		{ID: "pl-indep-df1", TeamID: "arg-indep", Name: "Kevin Lomonaco", Position: player.PositionDefender, Rating: 7.6, Price: 5.4},
		{ID: "pl-indep-df2", TeamID: "arg-indep", Name: "Nicolas Freire", Position: player.PositionDefender, Rating: 7.2, Price: 4.5},
		{ID: "pl-indep-mf1", TeamID: "arg-indep", Name: "Ivan Marcone", Position: player.PositionMidfielder, Rating: 7.4, Price: 5.1},
		{ID: "pl-indep-mf2", TeamID: "arg-indep", Name: "Felipe Loyola", Position: player.PositionMidfielder, Rating: 7.8, Price: 6.3},
		{ID: "pl-indep-fw1", TeamID: "arg-indep", Name: "Gabriel Avalos", Position: player.PositionForward, Rating: 7.5, Price: 5.7},
		{ID: "pl-sanlo-gk1", TeamID: "arg-sanlo", Name: "Orlando Gill", Position: player.PositionGoalkeeper, Rating: 7.4, Price: 4.6},
		{ID: "pl-sanlo-df1", TeamID: "arg-sanlo", Name: "Gaston Hernandez", Position: player.PositionDefender, Rating: 7.3, Price: 4.7},
		{ID: "pl-sanlo-df2", TeamID: "arg-sanlo", Name: "Jhohan Romana", Position: player.PositionDefender, Rating: 7.4, Price: 4.9},
		{ID: "pl-sanlo-mf1", TeamID: "arg-sanlo", Name: "Malcom Braida", Position: player.PositionMidfielder, Rating: 7.5, Price: 5.6},
		{ID: "pl-sanlo-fw1", TeamID: "arg-sanlo", Name: "Adam Bareiro", Position: player.PositionForward, Rating: 7.7, Price: 6.6},
		{ID: "pl-velez-gk1", TeamID: "arg-velez", Name: "Tomas Marchiori", Position: player.PositionGoalkeeper, Rating: 7.8, Price: 5.4},
		{ID: "pl-velez-df1", TeamID: "arg-velez", Name: "Valentin Gomez", Position: player.PositionDefender, Rating: 7.7, Price: 5.8},
		{ID: "pl-velez-df2", TeamID: "arg-velez", Name: "Damian Fernandez", Position: player.PositionDefender, Rating: 7.2, Price: 4.4},
		{ID: "pl-velez-mf1", TeamID: "arg-velez", Name: "Claudio Aquino", Position: player.PositionMidfielder, Rating: 8.1, Price: 7.4},
		{ID: "pl-velez-fw1", TeamID: "arg-velez", Name: "Braian Romero", Position: player.PositionForward, Rating: 7.9, Price: 7.0},
	}
}

func SeedMatchdays() []matchday.Matchday {
	return []matchday.Matchday{
		{
			ID:        "md-2026-01",
			Name:      "Fecha 1",
			Status:    matchday.StatusOpen,
			StartDate: time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 8, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:        "md-2026-02",
			Name:      "Fecha 2",
			Status:    matchday.StatusOpen,
			StartDate: time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:        "md-2026-03",
			Name:      "Fecha 3",
			Status:    matchday.StatusOpen,
			StartDate: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		},
	}
}

func SeedMatches() []matchday.Match {
	return []matchday.Match{
		{ID: "m-001", MatchdayID: "md-2026-01", HomeTeamID: "arg-river", AwayTeamID: "arg-boca", Status: matchday.MatchScheduled, KickoffAt: time.Date(2026, 8, 14, 19, 0, 0, 0, time.UTC)},
		{ID: "m-002", MatchdayID: "md-2026-01", HomeTeamID: "arg-racing", AwayTeamID: "arg-indep", Status: matchday.MatchScheduled, KickoffAt: time.Date(2026, 8, 15, 17, 0, 0, 0, time.UTC)},
		{ID: "m-003", MatchdayID: "md-2026-01", HomeTeamID: "arg-sanlo", AwayTeamID: "arg-velez", Status: matchday.MatchScheduled, KickoffAt: time.Date(2026, 8, 15, 21, 0, 0, 0, time.UTC)},
		{ID: "m-004", MatchdayID: "md-2026-02", HomeTeamID: "arg-boca", AwayTeamID: "arg-racing", Status: matchday.MatchScheduled, KickoffAt: time.Date(2026, 8, 21, 19, 0, 0, 0, time.UTC)},
		{ID: "m-005", MatchdayID: "md-2026-02", HomeTeamID: "arg-indep", AwayTeamID: "arg-sanlo", Status: matchday.MatchScheduled, KickoffAt: time.Date(2026, 8, 22, 17, 0, 0, 0, time.UTC)},
		{ID: "m-006", MatchdayID: "md-2026-02", HomeTeamID: "arg-velez", AwayTeamID: "arg-river", Status: matchday.MatchScheduled, KickoffAt: time.Date(2026, 8, 22, 21, 0, 0, 0, time.UTC)},
		{ID: "m-007", MatchdayID: "md-2026-03", HomeTeamID: "arg-river", AwayTeamID: "arg-racing", Status: matchday.MatchScheduled, KickoffAt: time.Date(2026, 8, 28, 19, 0, 0, 0, time.UTC)},
		{ID: "m-008", MatchdayID: "md-2026-03", HomeTeamID: "arg-sanlo", AwayTeamID: "arg-boca", Status: matchday.MatchScheduled, KickoffAt: time.Date(2026, 8, 29, 17, 0, 0, 0, time.UTC)},
		{ID: "m-009", MatchdayID: "md-2026-03", HomeTeamID: "arg-velez", AwayTeamID: "arg-indep", Status: matchday.MatchScheduled, KickoffAt: time.Date(2026, 8, 29, 21, 0, 0, 0, time.UTC)},
	}
}
