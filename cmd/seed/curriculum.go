package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	types "github.com/yungbote/course-portal-backend/internal/domain"
)

type Curriculum struct {
	Weeks      []WeekSpec      `yaml:"weeks"`
	Instructor *InstructorSpec `yaml:"instructor"`
}

type WeekSpec struct {
	WeekNumber  int      `yaml:"week_number"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Current     bool     `yaml:"current"`
	Resources   []string `yaml:"resources"`
}

type InstructorSpec struct {
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
}

func ParseCurriculum(r io.Reader) (*Curriculum, error) {
	var c Curriculum
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty curriculum file")
		}
		return nil, fmt.Errorf("decode curriculum: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Curriculum) validate() error {
	seen := map[int]bool{}
	current := 0
	for i, w := range c.Weeks {
		if w.WeekNumber < 0 {
			return fmt.Errorf("weeks[%d]: week_number must be >= 0", i)
		}
		if seen[w.WeekNumber] {
			return fmt.Errorf("weeks[%d]: duplicate week_number %d", i, w.WeekNumber)
		}
		seen[w.WeekNumber] = true
		if strings.TrimSpace(w.Title) == "" {
			return fmt.Errorf("weeks[%d]: title required", i)
		}
		if w.Current {
			current++
		}
	}
	if current > 1 {
		return fmt.Errorf("at most one week may be current, got %d", current)
	}
	if c.Instructor != nil && strings.TrimSpace(c.Instructor.Email) == "" {
		return fmt.Errorf("instructor: email required")
	}
	return nil
}

// CurrentWeek is the week_number marked current, if any.
func (c *Curriculum) CurrentWeek() (int, bool) {
	for _, w := range c.Weeks {
		if w.Current {
			return w.WeekNumber, true
		}
	}
	return 0, false
}

func (c *Curriculum) Models() []*types.Week {
	out := make([]*types.Week, 0, len(c.Weeks))
	for _, w := range c.Weeks {
		out = append(out, &types.Week{
			ID:          uuid.New(),
			WeekNumber:  w.WeekNumber,
			Title:       strings.TrimSpace(w.Title),
			Description: strings.TrimSpace(w.Description),
			IsCurrent:   w.Current,
			Resources:   w.Resources,
		})
	}
	return out
}
