package store

import (
	"strconv"
	"strings"
	"time"

	"github.com/BitmanAlan/xiaohongshu/core/kv"
)

const (
	nsGeneration = "generation"
	nsProfile    = "user_profile"
	nsStats      = "user_stats"
	nsFeedback   = "feedback"
	nsTraining   = "training"
	nsSaved      = "saved"

	statTotalGenerations = "total_generations"
	statTotalFeedback    = "total_feedback"
)

// GenerationKey is generation:{userID}:{unixMillis}. The key doubles as the
// public generation id.
func GenerationKey(userID string, at time.Time) string {
	return kv.Key(nsGeneration, userID, strconv.FormatInt(at.UnixMilli(), 10))
}

// GenerationOwner returns the user id embedded in a generation key.
func GenerationOwner(id string) (string, bool) {
	rest, ok := strings.CutPrefix(id, nsGeneration+":")
	if !ok {
		return "", false
	}
	userID, ts, ok := strings.Cut(rest, ":")
	if !ok || userID == "" || ts == "" {
		return "", false
	}
	return userID, true
}

func profileKey(userID string) string {
	return kv.Key(nsProfile, userID)
}

func statKey(userID, stat string) string {
	return kv.Key(nsStats, userID, stat)
}
