package mockapi

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/portfolio"
)

func newTestService() *Service {
	return New(DefaultSeed(), WithDelays(0, 0))
}

func TestDefaultSeed(t *testing.T) {
	seed := DefaultSeed()
	assert.Equal(t, "John Doe", seed.PersonalInfo.Name)
	assert.Equal(t, 3, seed.PersonalInfo.YearsExperience)
	assert.Len(t, seed.Skills, 12)
	assert.Len(t, seed.Projects, 3)
	assert.Equal(t, portfolio.CategoryTool, seed.Skills[11].Category)
	assert.Equal(t, []string{"Vue.js", "TypeScript", "Socket.io", "Express"}, seed.Projects[2].Technologies)
}

func TestParseSeed_RejectsDuplicates(t *testing.T) {
	_, err := ParseSeed([]byte(`
skills:
  - {id: "1", name: Go, level: 5, category: language}
  - {id: "1", name: Rust, level: 5, category: language}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate skill id")
}

func TestParseSeed_RejectsInvalidSkill(t *testing.T) {
	_, err := ParseSeed([]byte(`
skills:
  - {id: "1", name: Go, level: 42, category: language}
`))
	require.Error(t, err)
}

func TestLoadSeed_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
personalInfo: {name: Jane, title: Engineer, yearsExperience: 7}
projects:
  - {id: p1, title: Compiler, technologies: [Go]}
`), 0o644))

	snap, err := LoadSeed(path)
	require.NoError(t, err)
	assert.Equal(t, "Jane", snap.PersonalInfo.Name)
	assert.Empty(t, snap.Skills)
	assert.NotNil(t, snap.Skills)
	require.Len(t, snap.Projects, 1)

	_, err = LoadSeed(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFetchAll_ReturnsCopies(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.FetchAll(ctx)
	require.NoError(t, err)
	first.Skills[0].Name = "mutated"
	first.Projects[0].Technologies[0] = "mutated"

	second, err := svc.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "React", second.Skills[0].Name)
	assert.Equal(t, "React", second.Projects[0].Technologies[0])
}

func TestIndividualFetches(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	info, err := svc.FetchPersonalInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Frontend Developer", info.Title)

	skills, err := svc.FetchSkills(ctx)
	require.NoError(t, err)
	assert.Len(t, skills, 12)

	projects, err := svc.FetchProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 3)
}

func TestMutations(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.UpdatePersonalInfo(ctx, portfolio.PersonalInfo{Name: "Jane", Title: "Engineer"})
	require.NoError(t, err)

	skill := portfolio.Skill{ID: "13", Name: "Go", Level: 8, Category: portfolio.CategoryLanguage, Color: "purple"}
	got, err := svc.AddSkill(ctx, skill)
	require.NoError(t, err)
	assert.Equal(t, skill, got)

	skill.Level = 9
	_, err = svc.UpdateSkill(ctx, skill)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteSkill(ctx, "1"))

	_, err = svc.AddProject(ctx, portfolio.Project{ID: "4", Title: "CLI"})
	require.NoError(t, err)
	_, err = svc.UpdateProject(ctx, portfolio.Project{ID: "4", Title: "CLI v2"})
	require.NoError(t, err)
	require.NoError(t, svc.ToggleProjectFeatured(ctx, "3"))
	require.NoError(t, svc.DeleteProject(ctx, "2"))

	snap, err := svc.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Jane", snap.PersonalInfo.Name)
	require.Len(t, snap.Skills, 12)
	assert.Equal(t, "2", snap.Skills[0].ID)
	assert.Equal(t, 9, snap.Skills[11].Level)

	require.Len(t, snap.Projects, 3)
	assert.Equal(t, "3", snap.Projects[1].ID)
	assert.True(t, snap.Projects[1].Featured)
	assert.Equal(t, "CLI v2", snap.Projects[2].Title)
}

func TestFetchAll_HonorsDelay(t *testing.T) {
	svc := New(DefaultSeed(), WithDelays(20*time.Millisecond, 0))

	start := time.Now()
	_, err := svc.FetchAll(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestFetchAll_Cancelled(t *testing.T) {
	svc := New(DefaultSeed(), WithDelays(time.Hour, time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.FetchAll(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMutationAppliesBeforeDelay(t *testing.T) {
	svc := New(DefaultSeed(), WithDelays(0, time.Hour))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.AddSkill(ctx, portfolio.Skill{ID: "13", Name: "Go", Level: 8, Category: portfolio.CategoryLanguage})
	}()

	require.Eventually(t, func() bool {
		snap, err := svc.FetchAll(context.Background())
		return err == nil && len(snap.Skills) == 13
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestApply_FollowsCallOrder(t *testing.T) {
	svc := New(DefaultSeed(), WithDelays(0, time.Hour))
	go13 := portfolio.Skill{ID: "13", Name: "Go", Level: 8, Category: portfolio.CategoryLanguage}

	// Neither order of these commutes: add then remove leaves nothing behind,
	// and the last personal info wins.
	require.NoError(t, svc.Apply(portfolio.SkillAdded{Skill: go13}))
	require.NoError(t, svc.Apply(portfolio.SkillRemoved{ID: "13"}))
	require.NoError(t, svc.Apply(portfolio.PersonalInfoReplaced{Info: portfolio.PersonalInfo{Name: "First", Title: "A"}}))
	require.NoError(t, svc.Apply(portfolio.PersonalInfoReplaced{Info: portfolio.PersonalInfo{Name: "Second", Title: "B"}}))
	require.NoError(t, svc.Apply(portfolio.ProjectFeaturedToggled{ID: "3"}))

	snap, err := svc.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Skills, 12)
	assert.Equal(t, "Second", snap.PersonalInfo.Name)
	assert.True(t, snap.Projects[2].Featured)
}

func TestApply_RejectsNonEdits(t *testing.T) {
	svc := newTestService()
	err := svc.Apply(portfolio.LoadTriggered{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), portfolio.TypeLoadTriggered)
}

func TestSettle(t *testing.T) {
	svc := New(DefaultSeed(), WithDelays(0, 20*time.Millisecond))
	start := time.Now()
	require.NoError(t, svc.Settle(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, svc.Settle(ctx), context.Canceled)
}
