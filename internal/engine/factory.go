package engine

import (
	"mlb-lineup-bot/internal/apicache"
	"mlb-lineup-bot/internal/interfaces"
	"mlb-lineup-bot/internal/rolling"
	"mlb-lineup-bot/internal/store"
	"mlb-lineup-bot/internal/trend"
)

func New(cfg *store.Config, cache *apicache.Cache, agg *rolling.Aggregator, cls *trend.Classifier, season interfaces.SeasonSource) interfaces.Engine {
	return newEngine(cfg, cache, agg, cls, season)
}
