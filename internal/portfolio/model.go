package portfolio

import (
	"github.com/pkg/errors"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid portfolio record")

type Category string

const (
	CategoryFrontend Category = "frontend"
	CategoryLanguage Category = "language"
	CategoryTool     Category = "tool"
)

// Valid reports whether c is one of the fixed skill categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryFrontend, CategoryLanguage, CategoryTool:
		return true
	}
	return false
}

// CategoryColor returns the display color tag used for new skills.
func CategoryColor(c Category) string {
	switch c {
	case CategoryFrontend:
		return "blue"
	case CategoryLanguage:
		return "purple"
	case CategoryTool:
		return "green"
	default:
		return "gray"
	}
}

// SkillFilter narrows FilteredSkills. SkillFilterAll disables filtering.
type SkillFilter string

const SkillFilterAll SkillFilter = "all"

func (f SkillFilter) Valid() bool {
	return f == SkillFilterAll || Category(f).Valid()
}

type PersonalInfo struct {
	Name              string `json:"name" yaml:"name"`
	Title             string `json:"title" yaml:"title"`
	Bio               string `json:"bio" yaml:"bio"`
	Email             string `json:"email" yaml:"email"`
	Location          string `json:"location" yaml:"location"`
	YearsExperience   int    `json:"yearsExperience" yaml:"yearsExperience"`
	ProjectsCompleted int    `json:"projectsCompleted" yaml:"projectsCompleted"`
	ProfileImage      string `json:"profileImage,omitempty" yaml:"profileImage,omitempty"`
}

// Validate enforces the rules the admin form applies before dispatching.
func (p PersonalInfo) Validate() error {
	if p.Name == "" || p.Title == "" {
		return errors.Wrap(ErrInvalid, "name and title are required")
	}
	if p.YearsExperience < 0 || p.ProjectsCompleted < 0 {
		return errors.Wrap(ErrInvalid, "experience counters must be non-negative")
	}
	return nil
}

type Skill struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Level    int      `json:"level" yaml:"level"`
	Category Category `json:"category" yaml:"category"`
	Color    string   `json:"color" yaml:"color"`
}

func (s Skill) Validate() error {
	if s.ID == "" || s.Name == "" {
		return errors.Wrap(ErrInvalid, "skill id and name are required")
	}
	if s.Level < 1 || s.Level > 10 {
		return errors.Wrapf(ErrInvalid, "skill level %d outside 1-10", s.Level)
	}
	if !s.Category.Valid() {
		return errors.Wrapf(ErrInvalid, "unknown skill category %q", s.Category)
	}
	return nil
}

type Project struct {
	ID           string   `json:"id" yaml:"id"`
	Title        string   `json:"title" yaml:"title"`
	Description  string   `json:"description" yaml:"description"`
	Technologies []string `json:"technologies" yaml:"technologies"`
	ImageURL     string   `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	LiveURL      string   `json:"liveUrl,omitempty" yaml:"liveUrl,omitempty"`
	GithubURL    string   `json:"githubUrl,omitempty" yaml:"githubUrl,omitempty"`
	Featured     bool     `json:"featured" yaml:"featured"`
}

func (p Project) Validate() error {
	if p.ID == "" || p.Title == "" {
		return errors.Wrap(ErrInvalid, "project id and title are required")
	}
	return nil
}

// Clone returns a copy that shares no memory with p.
func (p Project) Clone() Project {
	if p.Technologies != nil {
		p.Technologies = append([]string(nil), p.Technologies...)
	}
	return p
}

// Snapshot is the result of the aggregate fetch.
type Snapshot struct {
	PersonalInfo PersonalInfo `json:"personalInfo" yaml:"personalInfo"`
	Skills       []Skill      `json:"skills" yaml:"skills"`
	Projects     []Project    `json:"projects" yaml:"projects"`
}

// State is the aggregate portfolio state. Values reachable from a State
// are never modified after the State is published; Reduce always builds a
// new State instead.
type State struct {
	PersonalInfo *PersonalInfo `json:"personalInfo"`
	Skills       []Skill       `json:"skills"`
	Projects     []Project     `json:"projects"`
	Loading      bool          `json:"loading"`
	// Error holds the last load failure message; empty means no error.
	Error string `json:"error,omitempty"`

	SkillFilter   SkillFilter `json:"skillFilter"`
	ProjectFilter *bool       `json:"projectFilter"`

	// LoadSeq is the sequence number of the latest load trigger.
	LoadSeq uint64 `json:"loadSeq"`
}

// InitialState returns the empty, not-yet-loaded state.
func InitialState() *State {
	return &State{
		Skills:      []Skill{},
		Projects:    []Project{},
		SkillFilter: SkillFilterAll,
	}
}
