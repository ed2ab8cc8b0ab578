package render

import (
	"time"

	"leagueapi/internal/models"
)

// RegisterAll populates the serializer registry. Called once from main.
func RegisterAll() {
	Register("users", serializeUser)
	Register("teams", serializeTeam)
	Register("matches", serializeMatch)
	Register("goals", serializeGoal)
	Register("cards", serializeCard)
	Register("assists", serializeAssist)
	Register("oauth_applications", serializeApplication)
}

func serializeUser(v any) (string, map[string]any) {
	u := v.(*models.User)
	var confirmedAt any
	if u.ConfirmedAt != nil {
		confirmedAt = u.ConfirmedAt.UTC().Format(time.RFC3339)
	}
	return u.ID.String(), map[string]any{
		"email":       u.Email,
		"firstName":   u.FirstName,
		"lastName":    u.LastName,
		"admin":       u.Admin,
		"confirmedAt": confirmedAt,
	}
}

func serializeTeam(v any) (string, map[string]any) {
	t := v.(*models.Team)
	return t.ID.String(), map[string]any{
		"name":     t.Name,
		"hasCrest": t.CrestObject != nil,
	}
}

func serializeMatch(v any) (string, map[string]any) {
	m := v.(*models.Match)
	return m.ID.String(), map[string]any{
		"homeTeamId": m.HomeTeamID.String(),
		"awayTeamId": m.AwayTeamID.String(),
		"playedOn":   m.PlayedOn.Format("2006-01-02"),
	}
}

func serializeGoal(v any) (string, map[string]any) {
	g := v.(*models.Goal)
	return g.ID.String(), map[string]any{
		"matchId":  g.MatchID.String(),
		"teamId":   g.TeamID.String(),
		"scorerId": g.ScorerID.String(),
		"minute":   g.Minute,
	}
}

func serializeCard(v any) (string, map[string]any) {
	card := v.(*models.Card)
	return card.ID.String(), map[string]any{
		"matchId":  card.MatchID.String(),
		"playerId": card.PlayerID.String(),
		"color":    card.Color,
		"minute":   card.Minute,
	}
}

func serializeAssist(v any) (string, map[string]any) {
	a := v.(*models.Assist)
	return a.ID.String(), map[string]any{
		"goalId":      a.GoalID.String(),
		"assistantId": a.AssistantID.String(),
	}
}

func serializeApplication(v any) (string, map[string]any) {
	app := v.(*models.Application)
	attrs := map[string]any{
		"name":         app.Name,
		"uid":          app.UID,
		"redirectUri":  app.RedirectURI,
		"scopes":       app.Scopes,
		"confidential": app.Confidential,
	}
	// The plaintext secret is only available on the create response.
	if app.Secret != "" {
		attrs["secret"] = app.Secret
	}
	return app.ID.String(), attrs
}
