package redis

import (
	"fmt"
	"strings"

	"github.com/Kemiem/schiffe-versenken-ms4/internal/model"
)

// Key prefix for all archive data
const keyPrefix = "svgame"

// matchSummaryKey returns the Redis key for an archived MatchSummary
func matchSummaryKey(id model.MatchID) string {
	return fmt.Sprintf("%s:match:%s", keyPrefix, id)
}

// matchHistoryKey returns the Redis key for the LIST of match IDs, newest first
func matchHistoryKey() string {
	return fmt.Sprintf("%s:idx:match_history", keyPrefix)
}

// playerRecordKey returns the Redis key for a player's win/loss HASH
func playerRecordKey(name string) string {
	return fmt.Sprintf("%s:record:%s", keyPrefix, strings.ToLower(strings.TrimSpace(name)))
}

// Hash fields of a player record
const (
	recordFieldName   = "name"
	recordFieldWins   = "wins"
	recordFieldLosses = "losses"
)
