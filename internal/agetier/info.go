// AngelaMos | 2026
// info.go

package agetier

import (
	"fmt"
)

type Info struct {
	Level       Level    `json:"age_level"`
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	MinAge      int      `json:"min_age"`
	MaxAge      int      `json:"max_age"`
	SkillsFocus []string `json:"skills_focus"`
}

type tierInfo struct {
	key         string
	name        string
	description string
	skills      []string
}

var info = map[Level]tierInfo{
	LittleLearners: {
		key:         "LITTLE_LEARNERS",
		name:        "Little Learners",
		description: "Fun basics for little learners",
		skills: []string{
			"Numbers 1-10",
			"Letters & Sounds",
			"Colors & Shapes",
			"Logical Thinking Basics",
		},
	},
	YoungExplorers: {
		key:         "YOUNG_EXPLORERS",
		name:        "Young Explorers",
		description: "Building foundational skills",
		skills: []string{
			"Math & Reading",
			"Science Basics",
			"Creative Projects",
			"Logical Thinking Development",
		},
	},
	SmartKids: {
		key:         "SMART_KIDS",
		name:        "Smart Kids",
		description: "Advanced concepts and challenges",
		skills: []string{
			"Advanced Math",
			"Coding Basics",
			"STEM Projects",
			"Algorithmic Thinking",
		},
	},
	TechTeens: {
		key:         "TECH_TEENS",
		name:        "Tech Teens",
		description: "Technology and programming skills",
		skills: []string{
			"Programming",
			"Web Development",
			"Digital Literacy",
			"Advanced Algorithms",
		},
	},
	FutureLeaders: {
		key:         "FUTURE_LEADERS",
		name:        "Future Leaders",
		description: "Advanced technology and leadership",
		skills: []string{
			"AI & Machine Learning",
			"App Development",
			"Leadership Skills",
			"Complex Problem Solving",
		},
	},
}

func Describe(l Level) (Info, error) {
	ti, ok := info[l]
	if !ok {
		return Info{}, fmt.Errorf("describe tier %q: %w", l, ErrUnknownTier)
	}

	lo, hi := l.AgeRange()
	return Info{
		Level:       l,
		Key:         ti.key,
		Name:        ti.name,
		Description: fmt.Sprintf("%s (Ages %d-%d)", ti.description, lo, hi),
		MinAge:      lo,
		MaxAge:      hi,
		SkillsFocus: append([]string(nil), ti.skills...),
	}, nil
}

func DescribeAll() []Info {
	out := make([]Info, 0, len(bands))
	for _, l := range All() {
		//nolint:errcheck // every level from All is described
		i, _ := Describe(l)
		out = append(out, i)
	}
	return out
}

func (l Level) Name() string {
	return info[l].name
}
