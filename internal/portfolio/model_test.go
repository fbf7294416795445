package portfolio

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestSkillValidate(t *testing.T) {
	tests := []struct {
		name    string
		skill   Skill
		wantErr bool
	}{
		{"valid", Skill{ID: "1", Name: "Go", Level: 5, Category: CategoryLanguage}, false},
		{"missing name", Skill{ID: "1", Level: 5, Category: CategoryLanguage}, true},
		{"level too low", Skill{ID: "1", Name: "Go", Level: 0, Category: CategoryLanguage}, true},
		{"level too high", Skill{ID: "1", Name: "Go", Level: 11, Category: CategoryLanguage}, true},
		{"unknown category", Skill{ID: "1", Name: "Go", Level: 5, Category: "database"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.skill.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalid), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPersonalInfoValidate(t *testing.T) {
	assert.NoError(t, PersonalInfo{Name: "Jane", Title: "Engineer"}.Validate())
	assert.Error(t, PersonalInfo{Name: "Jane"}.Validate())
	assert.Error(t, PersonalInfo{Name: "Jane", Title: "Engineer", YearsExperience: -1}.Validate())
}

func TestCategoryColor(t *testing.T) {
	assert.Equal(t, "blue", CategoryColor(CategoryFrontend))
	assert.Equal(t, "purple", CategoryColor(CategoryLanguage))
	assert.Equal(t, "green", CategoryColor(CategoryTool))
	assert.Equal(t, "gray", CategoryColor("other"))
}

func TestSkillFilterValid(t *testing.T) {
	assert.True(t, SkillFilterAll.Valid())
	assert.True(t, SkillFilter("tool").Valid())
	assert.False(t, SkillFilter("database").Valid())
}

func TestProjectClone(t *testing.T) {
	p := Project{ID: "1", Technologies: []string{"Go"}}
	c := p.Clone()
	c.Technologies[0] = "Rust"
	assert.Equal(t, "Go", p.Technologies[0])
}
