package domain

import "time"

// AnalysisTitleSuffix marks notes written by the external analyzer.
const AnalysisTitleSuffix = "[Analysis]"

// SyncStats summarises the organizer's contents for the analyzer.
type SyncStats struct {
	TotalProjects     int          `json:"total_projects"`
	TotalNotes        int          `json:"total_notes"`
	TotalTags         int          `json:"total_tags"`
	TotalFlags        int          `json:"total_flags"`
	ProjectsWithNotes int          `json:"projects_with_notes"`
	RecentSyncs       []RecentSync `json:"recent_syncs"`
}

// RecentSync is an analyzer note in the stats listing.
type RecentSync struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}
