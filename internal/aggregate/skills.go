package aggregate

import (
	"cmp"
	"encoding/json"
	"slices"
	"strings"

	"github.com/j-veylop/lc-dashboard-tui/internal/models"
)

// DefaultTopSkills is the number of skills shown by default.
const DefaultTopSkills = 8

type skillTag struct {
	TagName        string `json:"tagName"`
	TagSlug        string `json:"tagSlug"`
	ProblemsSolved int    `json:"problemsSolved"`
}

type tagProblemCounts struct {
	Advanced     []skillTag `json:"advanced"`
	Intermediate []skillTag `json:"intermediate"`
	Fundamental  []skillTag `json:"fundamental"`
}

// RankSkills flattens the advanced, intermediate and fundamental tag groups of
// a raw skill breakdown and returns them sorted by solved count, descending,
// truncated to topN (no limit when topN <= 0). Input that does not decode into
// the expected shape yields an empty list.
func RankSkills(tagsJSON string, topN int) []models.SkillPoint {
	skills := []models.SkillPoint{}
	if strings.TrimSpace(tagsJSON) == "" {
		return skills
	}

	var counts tagProblemCounts
	if err := json.Unmarshal([]byte(tagsJSON), &counts); err != nil {
		return skills
	}

	for _, group := range [][]skillTag{counts.Advanced, counts.Intermediate, counts.Fundamental} {
		for _, tag := range group {
			name := tag.TagName
			if name == "" {
				name = "Unknown"
			}
			skills = append(skills, models.SkillPoint{Name: name, Value: tag.ProblemsSolved})
		}
	}

	slices.SortStableFunc(skills, func(a, b models.SkillPoint) int {
		return cmp.Compare(b.Value, a.Value)
	})

	if topN > 0 && len(skills) > topN {
		skills = skills[:topN]
	}
	return skills
}
