package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PersonalityKeys are the three basic slider dimensions stored on every
// profile. Each slider is a real number in [0,1].
var PersonalityKeys = []string{
	"introvert_extrovert",
	"spontaneous_planner",
	"active_relaxed",
}

// VibeCheckKeys are the eight quiz-based vibe check dimensions.
var VibeCheckKeys = []string{
	"introvert_extrovert",
	"spontaneous_planner",
	"active_relaxed",
	"adventurous_cautious",
	"expressive_reserved",
	"independent_collaborative",
	"sensing_intuition",
	"thinking_feeling",
}

// VibeCheck holds the quiz-derived personality data. On the wire it is a
// flat object: the eight dimensions plus an optional "mbti_type" key.
type VibeCheck struct {
	Dims     map[string]float64
	MBTIType string
}

func (vc *VibeCheck) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	vc.Dims = make(map[string]float64, len(raw))
	for k, v := range raw {
		if k == "mbti_type" {
			if err := json.Unmarshal(v, &vc.MBTIType); err != nil {
				return err
			}
			continue
		}
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			return err
		}
		vc.Dims[k] = f
	}
	return nil
}

func (vc VibeCheck) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(vc.Dims)+1)
	for k, v := range vc.Dims {
		flat[k] = v
	}
	if vc.MBTIType != "" {
		flat["mbti_type"] = vc.MBTIType
	}
	return json.Marshal(flat)
}

// HasData reports whether the vibe check carries any quiz data. A value
// decoded from an empty object has neither dims nor an MBTI type and is
// treated as absent.
func (vc *VibeCheck) HasData() bool {
	return vc != nil && (len(vc.Dims) > 0 || vc.MBTIType != "")
}

type SocialPreferences struct {
	GroupSize        string   `json:"group_size"`
	MeetingFrequency string   `json:"meeting_frequency"`
	PreferredTimes   []string `json:"preferred_times"`
}

type Profile struct {
	UserID            uuid.UUID          `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	DisplayName       string             `gorm:"column:display_name" json:"display_name"`
	Bio               string             `gorm:"column:bio" json:"bio"`
	Major             string             `gorm:"column:major" json:"major"`
	GraduationYear    int                `gorm:"column:graduation_year" json:"graduation_year"`
	PhotoURL          string             `gorm:"column:photo_url" json:"photo_url"`
	Interests         []string           `gorm:"serializer:json" json:"interests"`
	Personality       map[string]float64 `gorm:"serializer:json" json:"personality,omitempty"`
	SocialPreferences *SocialPreferences `gorm:"serializer:json" json:"social_preferences,omitempty"`
	FriendshipGoals   []string           `gorm:"serializer:json" json:"friendship_goals"`
	VibeCheck         *VibeCheck         `gorm:"serializer:json" json:"vibe_check,omitempty"`
	CreatedAt         time.Time          `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time          `gorm:"not null" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profile"
}

// Complete reports whether the profile can participate in matching.
// Profiles without a display name are treated as absent.
func (p *Profile) Complete() bool {
	return p != nil && p.DisplayName != ""
}
