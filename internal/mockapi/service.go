// Package mockapi is the in-memory stand-in for a portfolio backend. Every
// call completes after a fixed delay to emulate network latency.
package mockapi

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/Zachkp/portfolio/internal/portfolio"
)

const (
	DefaultFetchDelay = 1000 * time.Millisecond
	DefaultOpDelay    = 500 * time.Millisecond
)

// Service owns the canonical portfolio collections. Mutations apply to the
// held collections as soon as they are called; the delay only postpones the
// reply. Reads copy, so callers never share memory with the service.
type Service struct {
	mu       sync.RWMutex
	info     portfolio.PersonalInfo
	skills   []portfolio.Skill
	projects []portfolio.Project

	fetchDelay time.Duration
	opDelay    time.Duration
}

type Option func(*Service)

// WithDelays overrides the simulated latency. Zero disables it.
func WithDelays(fetch, op time.Duration) Option {
	return func(s *Service) {
		s.fetchDelay = fetch
		s.opDelay = op
	}
}

func New(seed portfolio.Snapshot, opts ...Option) *Service {
	s := &Service{
		info:       seed.PersonalInfo,
		skills:     cloneSkills(seed.Skills),
		projects:   cloneProjects(seed.Projects),
		fetchDelay: DefaultFetchDelay,
		opDelay:    DefaultOpDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchAll returns personal info, skills and projects in one call.
func (s *Service) FetchAll(ctx context.Context) (portfolio.Snapshot, error) {
	if err := wait(ctx, s.fetchDelay); err != nil {
		return portfolio.Snapshot{}, errors.Wrap(err, "fetch portfolio data")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return portfolio.Snapshot{
		PersonalInfo: s.info,
		Skills:       cloneSkills(s.skills),
		Projects:     cloneProjects(s.projects),
	}, nil
}

func (s *Service) FetchPersonalInfo(ctx context.Context) (portfolio.PersonalInfo, error) {
	if err := wait(ctx, s.opDelay); err != nil {
		return portfolio.PersonalInfo{}, errors.Wrap(err, "fetch personal info")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info, nil
}

func (s *Service) FetchSkills(ctx context.Context) ([]portfolio.Skill, error) {
	if err := wait(ctx, s.opDelay); err != nil {
		return nil, errors.Wrap(err, "fetch skills")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSkills(s.skills), nil
}

func (s *Service) FetchProjects(ctx context.Context) ([]portfolio.Project, error) {
	if err := wait(ctx, s.opDelay); err != nil {
		return nil, errors.Wrap(err, "fetch projects")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProjects(s.projects), nil
}

func (s *Service) UpdatePersonalInfo(ctx context.Context, info portfolio.PersonalInfo) (portfolio.PersonalInfo, error) {
	s.setPersonalInfo(info)
	return info, errors.Wrap(wait(ctx, s.opDelay), "update personal info")
}

// AddSkill appends skill. Ids are not checked, matching the store's
// append semantics.
func (s *Service) AddSkill(ctx context.Context, skill portfolio.Skill) (portfolio.Skill, error) {
	s.addSkill(skill)
	return skill, errors.Wrap(wait(ctx, s.opDelay), "add skill")
}

// UpdateSkill replaces the skill with the same id. Unknown ids are ignored.
func (s *Service) UpdateSkill(ctx context.Context, skill portfolio.Skill) (portfolio.Skill, error) {
	s.replaceSkill(skill)
	return skill, errors.Wrap(wait(ctx, s.opDelay), "update skill")
}

func (s *Service) DeleteSkill(ctx context.Context, id string) error {
	s.removeSkill(id)
	return errors.Wrap(wait(ctx, s.opDelay), "delete skill")
}

func (s *Service) AddProject(ctx context.Context, project portfolio.Project) (portfolio.Project, error) {
	s.addProject(project)
	return project, errors.Wrap(wait(ctx, s.opDelay), "add project")
}

func (s *Service) UpdateProject(ctx context.Context, project portfolio.Project) (portfolio.Project, error) {
	s.replaceProject(project)
	return project, errors.Wrap(wait(ctx, s.opDelay), "update project")
}

func (s *Service) DeleteProject(ctx context.Context, id string) error {
	s.removeProject(id)
	return errors.Wrap(wait(ctx, s.opDelay), "delete project")
}

func (s *Service) ToggleProjectFeatured(ctx context.Context, id string) error {
	s.toggleProject(id)
	return errors.Wrap(wait(ctx, s.opDelay), "toggle project featured")
}

// Apply records the edit carried by a right away, without the simulated
// delay. Callers that apply edits in order get them in the same order on
// the next fetch; Settle then waits out the reply.
func (s *Service) Apply(a portfolio.Action) error {
	switch a := a.(type) {
	case portfolio.PersonalInfoReplaced:
		s.setPersonalInfo(a.Info)
	case portfolio.SkillAdded:
		s.addSkill(a.Skill)
	case portfolio.SkillReplaced:
		s.replaceSkill(a.Skill)
	case portfolio.SkillRemoved:
		s.removeSkill(a.ID)
	case portfolio.ProjectAdded:
		s.addProject(a.Project)
	case portfolio.ProjectReplaced:
		s.replaceProject(a.Project)
	case portfolio.ProjectRemoved:
		s.removeProject(a.ID)
	case portfolio.ProjectFeaturedToggled:
		s.toggleProject(a.ID)
	default:
		return errors.Errorf("unsupported edit %q", a.Type())
	}
	return nil
}

// Settle blocks for one operation's simulated latency.
func (s *Service) Settle(ctx context.Context) error {
	return errors.Wrap(wait(ctx, s.opDelay), "settle edit")
}

func (s *Service) setPersonalInfo(info portfolio.PersonalInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = info
}

func (s *Service) addSkill(skill portfolio.Skill) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skills = append(s.skills, skill)
}

func (s *Service) replaceSkill(skill portfolio.Skill) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.skills {
		if s.skills[i].ID == skill.ID {
			s.skills[i] = skill
		}
	}
}

func (s *Service) removeSkill(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.skills[:0]
	for _, sk := range s.skills {
		if sk.ID != id {
			kept = append(kept, sk)
		}
	}
	s.skills = kept
}

func (s *Service) addProject(project portfolio.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = append(s.projects, project.Clone())
}

func (s *Service) replaceProject(project portfolio.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID == project.ID {
			s.projects[i] = project.Clone()
		}
	}
}

func (s *Service) removeProject(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.projects[:0]
	for _, p := range s.projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.projects = kept
}

func (s *Service) toggleProject(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID == id {
			s.projects[i].Featured = !s.projects[i].Featured
		}
	}
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func cloneSkills(in []portfolio.Skill) []portfolio.Skill {
	out := make([]portfolio.Skill, len(in))
	copy(out, in)
	return out
}

func cloneProjects(in []portfolio.Project) []portfolio.Project {
	out := make([]portfolio.Project, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}
