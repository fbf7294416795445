package portfolio

import "sync"

// SkillsByCategory partitions skills by category, preserving order.
type SkillsByCategory struct {
	Frontend []Skill `json:"frontend"`
	Language []Skill `json:"language"`
	Tool     []Skill `json:"tool"`
}

// Summary is the read-only composite shown on the home and about pages.
type Summary struct {
	PersonalInfo    *PersonalInfo `json:"personalInfo"`
	TotalProjects   int           `json:"totalProjects"`
	TotalSkills     int           `json:"totalSkills"`
	YearsExperience int           `json:"yearsExperience"`
}

// Plain field selectors. They return what the state holds, so they are
// referentially stable without a cache.

func SelectPersonalInfo(s *State) *PersonalInfo { return s.PersonalInfo }
func SelectSkills(s *State) []Skill             { return s.Skills }
func SelectProjects(s *State) []Project         { return s.Projects }
func SelectLoading(s *State) bool               { return s.Loading }
func SelectError(s *State) string               { return s.Error }
func SelectProjectsCount(s *State) int          { return len(s.Projects) }
func SelectSkillsCount(s *State) int            { return len(s.Skills) }

// Selectors holds the memoized derived views. Each instance keeps its own
// single-entry caches keyed on the identity of its inputs: while the
// underlying slices or pointers are unchanged, the previous result is
// returned as is. Safe for concurrent use.
type Selectors struct {
	byCategory       memo[[]Skill, *SkillsByCategory]
	featured         memo[[]Project, []Project]
	filteredSkills   memo[skillFilterKey, []Skill]
	filteredProjects memo[projectFilterKey, []Project]
	summary          memo[summaryKey, *Summary]
}

func NewSelectors() *Selectors {
	return &Selectors{}
}

func (sel *Selectors) SkillsByCategory(s *State) *SkillsByCategory {
	skills := SelectSkills(s)
	return sel.byCategory.get(skills, sameSlice[Skill], func() *SkillsByCategory {
		return &SkillsByCategory{
			Frontend: filterSkills(skills, func(sk Skill) bool { return sk.Category == CategoryFrontend }),
			Language: filterSkills(skills, func(sk Skill) bool { return sk.Category == CategoryLanguage }),
			Tool:     filterSkills(skills, func(sk Skill) bool { return sk.Category == CategoryTool }),
		}
	})
}

func (sel *Selectors) FeaturedProjects(s *State) []Project {
	projects := SelectProjects(s)
	return sel.featured.get(projects, sameSlice[Project], func() []Project {
		return filterProjects(projects, func(p Project) bool { return p.Featured })
	})
}

func (sel *Selectors) Summary(s *State) *Summary {
	key := summaryKey{
		info:     SelectPersonalInfo(s),
		projects: SelectProjectsCount(s),
		skills:   SelectSkillsCount(s),
	}
	return sel.summary.get(key, equal[summaryKey], func() *Summary {
		years := 0
		if key.info != nil {
			years = key.info.YearsExperience
		}
		return &Summary{
			PersonalInfo:    key.info,
			TotalProjects:   key.projects,
			TotalSkills:     key.skills,
			YearsExperience: years,
		}
	})
}

// FilteredSkills applies the state's skill filter.
func (sel *Selectors) FilteredSkills(s *State) []Skill {
	key := skillFilterKey{skills: SelectSkills(s), filter: s.SkillFilter}
	return sel.filteredSkills.get(key, sameSkillFilter, func() []Skill {
		if key.filter == "" || key.filter == SkillFilterAll {
			return key.skills
		}
		return filterSkills(key.skills, func(sk Skill) bool { return sk.Category == Category(key.filter) })
	})
}

// FilteredProjects applies the state's project filter.
func (sel *Selectors) FilteredProjects(s *State) []Project {
	key := projectFilterKey{projects: SelectProjects(s), featured: s.ProjectFilter}
	return sel.filteredProjects.get(key, sameProjectFilter, func() []Project {
		if key.featured == nil {
			return key.projects
		}
		want := *key.featured
		return filterProjects(key.projects, func(p Project) bool { return p.Featured == want })
	})
}

type summaryKey struct {
	info     *PersonalInfo
	projects int
	skills   int
}

type skillFilterKey struct {
	skills []Skill
	filter SkillFilter
}

type projectFilterKey struct {
	projects []Project
	featured *bool
}

func sameSkillFilter(a, b skillFilterKey) bool {
	return a.filter == b.filter && sameSlice(a.skills, b.skills)
}

func sameProjectFilter(a, b projectFilterKey) bool {
	if (a.featured == nil) != (b.featured == nil) {
		return false
	}
	if a.featured != nil && *a.featured != *b.featured {
		return false
	}
	return sameSlice(a.projects, b.projects)
}

// memo is a single-entry cache.
type memo[K, R any] struct {
	mu    sync.Mutex
	valid bool
	key   K
	out   R
}

func (m *memo[K, R]) get(key K, same func(K, K) bool, compute func() R) R {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.valid && same(m.key, key) {
		return m.out
	}
	m.key = key
	m.out = compute()
	m.valid = true
	return m.out
}

// sameSlice reports whether a and b view the same backing array with the
// same length. Empty slices are interchangeable.
func sameSlice[E any](a, b []E) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

func equal[T comparable](a, b T) bool { return a == b }
