package models

// AchievementMetric names the activity counter an achievement tracks
type AchievementMetric string

const (
	MetricHelps              AchievementMetric = "helps"
	MetricPosts              AchievementMetric = "posts"
	MetricEventsJoined       AchievementMetric = "eventsJoined"
	MetricEmergencyResponses AchievementMetric = "emergencyResponses"
)

// Achievement is a static catalog entry; unlock state is derived from activity
type Achievement struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	IconPath      string            `json:"iconPath"`
	Type          string            `json:"type"`
	Category      string            `json:"category"`
	Points        int               `json:"points"`
	RequiredCount int               `json:"requiredCount"`
	Metric        AchievementMetric `json:"-"`
}

// AchievementCategories lists every category reported in user stats
var AchievementCategories = []string{
	"helping", "volunteering", "community", "emergency", "social", "skill", "milestone", "general",
}

var achievementCatalog = []Achievement{
	{ID: "first-help", Title: "First Help", Description: "Complete your first help", IconPath: "first_help.png", Type: "helping", Category: "helping", Points: 50, RequiredCount: 1, Metric: MetricHelps},
	{ID: "helper-novice", Title: "Helper Novice", Description: "Complete 5 helps", IconPath: "helper_novice.png", Type: "helping", Category: "helping", Points: 100, RequiredCount: 5, Metric: MetricHelps},
	{ID: "community-voice", Title: "Community Voice", Description: "Publish 3 help requests", IconPath: "community_voice.png", Type: "community", Category: "community", Points: 75, RequiredCount: 3, Metric: MetricPosts},
	{ID: "volunteer", Title: "Volunteer", Description: "Join 3 community events", IconPath: "volunteer.png", Type: "volunteering", Category: "volunteering", Points: 100, RequiredCount: 3, Metric: MetricEventsJoined},
	{ID: "first-responder", Title: "First Responder", Description: "Respond to an emergency alert", IconPath: "first_responder.png", Type: "emergency", Category: "emergency", Points: 150, RequiredCount: 1, Metric: MetricEmergencyResponses},
}

// AchievementCatalog returns a copy of the static catalog in display order
func AchievementCatalog() []Achievement {
	out := make([]Achievement, len(achievementCatalog))
	copy(out, achievementCatalog)
	return out
}
