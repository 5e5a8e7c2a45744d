// Package quota enforces per-tier daily action limits. The governor is a
// stateless check against a supplied usage snapshot; the store tracks
// completed actions per client so the service can build those snapshots.
package quota

import (
	"github.com/hyperjump/bunseki/internal/fault"
	"github.com/hyperjump/bunseki/internal/models"
)

// MaxDailyActionsFree is the free-tier daily action quota.
const MaxDailyActionsFree = 5

// Check rejects free-tier clients that have used their daily quota.
// Tiers other than free are unrestricted; unknown labels pass so a new
// paid tier needs no change here.
func Check(snap models.UsageSnapshot) error {
	if snap.Tier != models.TierFree {
		return nil
	}
	if snap.ActionsUsedToday >= MaxDailyActionsFree {
		return fault.Newf(fault.CodeDailyLimitReached,
			"daily limit of %d actions reached for the free tier", MaxDailyActionsFree)
	}
	return nil
}
