// Package publish posts finished cards to a social feed. The status
// text format follows the feed's house style: matchup line, time and
// date, the stat-window disclaimer, team hashtags.
package publish

import (
	"context"
	"fmt"
	"strings"

	"mlb-lineup-bot/internal/logger"
	"mlb-lineup-bot/internal/store"
	"mlb-lineup-bot/internal/types"
)

// StatusText builds the post body for a card. Teams missing from the
// config maps fall back to derived hashtags and abbreviations.
func StatusText(cfg *store.Config, card *types.GameCard) string {
	awayTag := teamHashtag(cfg, card.AwayTeam)
	homeTag := teamHashtag(cfg, card.HomeTeam)
	awayAbr := teamAbbreviation(cfg, card.AwayTeam)
	homeAbr := teamAbbreviation(cfg, card.HomeTeam)

	var b strings.Builder
	fmt.Fprintf(&b, "%s @ %s\n", card.AwayTeam, card.HomeTeam)
	fmt.Fprintf(&b, "\U0001F550 %s \U0001F4C5 %s\n", card.GameTime, card.GameDate)
	b.WriteString("*Batter statistics are over last 5 games*\n")
	b.WriteString("*Pitcher statistics are over last 3 outings*\n")
	fmt.Fprintf(&b, "%s %s\n", awayTag, homeTag)
	fmt.Fprintf(&b, "#%svs%s // #%svs%s", awayAbr, homeAbr, homeAbr, awayAbr)
	return b.String()
}

func teamHashtag(cfg *store.Config, team string) string {
	if tag, ok := cfg.Teams.Hashtags[team]; ok {
		return tag
	}
	return "#" + strings.ReplaceAll(team, " ", "")
}

func teamAbbreviation(cfg *store.Config, team string) string {
	if abr, ok := cfg.Teams.Abbreviations[team]; ok {
		return abr
	}
	clean := strings.ReplaceAll(team, " ", "")
	if len(clean) > 3 {
		clean = clean[:3]
	}
	return strings.ToUpper(clean)
}

// Noop logs instead of posting. DRY_RUN mode and the NONE provider
// both land here.
type Noop struct{}

func (Noop) Publish(ctx context.Context, card *types.GameCard, artifactPath string) error {
	logger.Info(ctx, "Dry-run publish",
		"game_id", card.GameID,
		"away", card.AwayTeam,
		"home", card.HomeTeam,
		"artifact", artifactPath,
	)
	return nil
}
