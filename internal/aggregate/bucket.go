package aggregate

import "github.com/j-veylop/lc-dashboard-tui/internal/models"

// BucketProgress collapses progress snapshots to one per UTC day, keeping the latest.
func BucketProgress(snapshots []models.ProgressSnapshot) map[int64]models.ProgressSnapshot {
	return bucket(snapshots, func(s models.ProgressSnapshot) (int64, int64) {
		return s.Timestamp, s.ID
	})
}

// BucketMastery collapses mastery snapshots to one per UTC day, keeping the latest.
func BucketMastery(snapshots []models.MasterySnapshot) map[int64]models.MasterySnapshot {
	return bucket(snapshots, func(s models.MasterySnapshot) (int64, int64) {
		return s.Timestamp, s.ID
	})
}

func latestProgress(snapshots []models.ProgressSnapshot) models.ProgressSnapshot {
	latest := snapshots[0]
	for _, s := range snapshots[1:] {
		if s.Timestamp > latest.Timestamp || (s.Timestamp == latest.Timestamp && s.ID > latest.ID) {
			latest = s
		}
	}
	return latest
}

func latestMastery(snapshots []models.MasterySnapshot) models.MasterySnapshot {
	latest := snapshots[0]
	for _, s := range snapshots[1:] {
		if s.Timestamp > latest.Timestamp || (s.Timestamp == latest.Timestamp && s.ID > latest.ID) {
			latest = s
		}
	}
	return latest
}
