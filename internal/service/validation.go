package service

import (
	"strings"

	"github.com/maxviazov/cricket-scoring-service/internal/model"
	"github.com/maxviazov/cricket-scoring-service/internal/repository"
)

func normalizePage(p repository.Page) repository.Page {
	return p.Sanitize()
}

// normalizeRole accepts the canonical names case-insensitively, plus a few common spellings.
func normalizeRole(role string) (model.PlayerRole, bool) {
	s := strings.ToLower(strings.TrimSpace(role))
	s = strings.NewReplacer("_", "-", " ", "-").Replace(s)
	switch s {
	case "batsman", "batter":
		return model.RoleBatsman, true
	case "bowler":
		return model.RoleBowler, true
	case "all-rounder", "allrounder":
		return model.RoleAllRounder, true
	case "wicket-keeper", "wicketkeeper", "keeper":
		return model.RoleWicketKeeper, true
	default:
		return "", false
	}
}

func normalizeFormat(format string) (model.MatchFormat, bool) {
	s := strings.ToLower(strings.TrimSpace(format))
	for _, f := range []model.MatchFormat{
		model.FormatT20, model.FormatODI, model.FormatTest,
		model.FormatSoloTest, model.FormatIndividual, model.FormatCustom,
	} {
		if strings.ToLower(string(f)) == s {
			return f, true
		}
	}
	return "", false
}

// defaultOvers is the over limit a format implies when the request leaves it at zero.
func defaultOvers(f model.MatchFormat) int {
	switch f {
	case model.FormatT20:
		return 20
	case model.FormatODI:
		return 50
	default:
		return 0
	}
}

func normalizePolicy(p string, fallback model.WicketPolicy) (model.WicketPolicy, bool) {
	switch model.WicketPolicy(strings.ToLower(strings.TrimSpace(p))) {
	case "":
		return fallback, true
	case model.WicketAlways:
		return model.WicketAlways, true
	case model.WicketStrict:
		return model.WicketStrict, true
	default:
		return "", false
	}
}

// cleanIDs trims ids and reports the first duplicate or blank, if any.
func cleanIDs(ids []string) (out []string, bad string, ok bool) {
	seen := make(map[string]struct{}, len(ids))
	out = make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, "blank id", false
		}
		if _, dup := seen[id]; dup {
			return nil, "duplicate id " + id, false
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, "", true
}

func nameLenOK(s string, min, max int) bool {
	n := len([]rune(s))
	return n >= min && n <= max
}
