package portfolio

// Reduce computes the next state from s and a. It never modifies s or
// anything reachable from it. A nil s is treated as InitialState.
//
// Changed collections are always freshly allocated, so slices held by an
// earlier State keep their contents. Actions the reducer does not handle,
// edits naming an unknown id and stale load results return s itself.
func Reduce(s *State, a Action) *State {
	if s == nil {
		s = InitialState()
	}

	switch a := a.(type) {
	case LoadTriggered:
		next := *s
		next.Loading = true
		next.Error = ""
		next.LoadSeq = max(s.LoadSeq, a.Seq)
		return &next

	case LoadSucceeded:
		if isStale(s, a.Seq) {
			return s
		}
		info := a.PersonalInfo
		next := *s
		next.PersonalInfo = &info
		next.Skills = copySkills(a.Skills)
		next.Projects = copyProjects(a.Projects)
		next.Loading = false
		next.Error = ""
		return &next

	case LoadFailed:
		if isStale(s, a.Seq) {
			return s
		}
		next := *s
		next.Loading = false
		next.Error = a.Message
		if next.Error == "" {
			next.Error = DefaultLoadError
		}
		return &next

	case PersonalInfoReplaced:
		info := a.Info
		next := *s
		next.PersonalInfo = &info
		return &next

	case SkillAdded:
		skills := make([]Skill, len(s.Skills), len(s.Skills)+1)
		copy(skills, s.Skills)
		next := *s
		next.Skills = append(skills, a.Skill)
		return &next

	case SkillReplaced:
		if !hasSkill(s.Skills, a.Skill.ID) {
			return s
		}
		next := *s
		next.Skills = mapSkills(s.Skills, func(sk Skill) Skill {
			if sk.ID == a.Skill.ID {
				return a.Skill
			}
			return sk
		})
		return &next

	case SkillRemoved:
		if !hasSkill(s.Skills, a.ID) {
			return s
		}
		next := *s
		next.Skills = filterSkills(s.Skills, func(sk Skill) bool { return sk.ID != a.ID })
		return &next

	case ProjectAdded:
		projects := make([]Project, len(s.Projects), len(s.Projects)+1)
		copy(projects, s.Projects)
		next := *s
		next.Projects = append(projects, a.Project.Clone())
		return &next

	case ProjectReplaced:
		if !hasProject(s.Projects, a.Project.ID) {
			return s
		}
		next := *s
		next.Projects = mapProjects(s.Projects, func(p Project) Project {
			if p.ID == a.Project.ID {
				return a.Project.Clone()
			}
			return p
		})
		return &next

	case ProjectRemoved:
		if !hasProject(s.Projects, a.ID) {
			return s
		}
		next := *s
		next.Projects = filterProjects(s.Projects, func(p Project) bool { return p.ID != a.ID })
		return &next

	case ProjectFeaturedToggled:
		if !hasProject(s.Projects, a.ID) {
			return s
		}
		next := *s
		next.Projects = mapProjects(s.Projects, func(p Project) Project {
			if p.ID == a.ID {
				p.Featured = !p.Featured
			}
			return p
		})
		return &next

	case SkillFilterSet:
		next := *s
		next.SkillFilter = a.Filter
		if next.SkillFilter == "" {
			next.SkillFilter = SkillFilterAll
		}
		return &next

	case ProjectFilterSet:
		next := *s
		if a.Featured != nil {
			featured := *a.Featured
			next.ProjectFilter = &featured
		} else {
			next.ProjectFilter = nil
		}
		return &next
	}

	return s
}

// isStale reports whether a terminal load action belongs to a trigger
// older than the latest one. Unsequenced results are always applied.
func isStale(s *State, seq uint64) bool {
	return seq != 0 && seq < s.LoadSeq
}

func hasSkill(skills []Skill, id string) bool {
	for _, sk := range skills {
		if sk.ID == id {
			return true
		}
	}
	return false
}

func hasProject(projects []Project, id string) bool {
	for _, p := range projects {
		if p.ID == id {
			return true
		}
	}
	return false
}

func copySkills(in []Skill) []Skill {
	out := make([]Skill, len(in))
	copy(out, in)
	return out
}

func copyProjects(in []Project) []Project {
	out := make([]Project, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

func mapSkills(in []Skill, fn func(Skill) Skill) []Skill {
	out := make([]Skill, len(in))
	for i, sk := range in {
		out[i] = fn(sk)
	}
	return out
}

func filterSkills(in []Skill, keep func(Skill) bool) []Skill {
	out := make([]Skill, 0, len(in))
	for _, sk := range in {
		if keep(sk) {
			out = append(out, sk)
		}
	}
	return out
}

func mapProjects(in []Project, fn func(Project) Project) []Project {
	out := make([]Project, len(in))
	for i, p := range in {
		out[i] = fn(p)
	}
	return out
}

func filterProjects(in []Project, keep func(Project) bool) []Project {
	out := make([]Project, 0, len(in))
	for _, p := range in {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
