package dto

// AchievementProgress is one catalog entry measured against a user's activity
type AchievementProgress struct {
	AchievementID string `json:"achievementId"`
	Title         string `json:"title"`
	Category      string `json:"category"`
	Points        int    `json:"points"`
	Current       int    `json:"current"`
	Required      int    `json:"required"`
	Unlocked      bool   `json:"unlocked"`
}

// AchievementStatsResponse summarizes a user's activity and unlocked achievements
type AchievementStatsResponse struct {
	UserID                  string                             `json:"userId"`
	TotalPoints             int                                `json:"totalPoints"`
	TotalHelps              int                                `json:"totalHelps"`
	TotalPosts              int                                `json:"totalPosts"`
	HelpfulComments         int                                `json:"helpfulComments"`
	TotalEvents             int                                `json:"totalEvents"`
	TotalEmergencyResponses int                                `json:"totalEmergencyResponses"`
	TotalAchievements       int                                `json:"totalAchievements"`
	CategoryStats           map[string]int                     `json:"categoryStats"`
	UnlockedAchievements    []string                           `json:"unlockedAchievements"`
	Progress                PagedResponse[AchievementProgress] `json:"progress"`
}
