package portfolio

// Action is a discrete, typed description of an intended state change.
// The set of variants is closed; the unexported method keeps other
// packages from adding their own.
type Action interface {
	Type() string
	isAction()
}

// Action type names, shown in logs, metrics and the action journal.
const (
	TypeLoadTriggered          = "[Portfolio] Load Portfolio Data"
	TypeLoadSucceeded          = "[Portfolio] Load Portfolio Data Success"
	TypeLoadFailed             = "[Portfolio] Load Portfolio Data Failure"
	TypePersonalInfoReplaced   = "[Portfolio] Update Personal Info"
	TypeSkillAdded             = "[Portfolio] Add Skill"
	TypeSkillReplaced          = "[Portfolio] Update Skill"
	TypeSkillRemoved           = "[Portfolio] Delete Skill"
	TypeProjectAdded           = "[Portfolio] Add Project"
	TypeProjectReplaced        = "[Portfolio] Update Project"
	TypeProjectRemoved         = "[Portfolio] Delete Project"
	TypeProjectFeaturedToggled = "[Portfolio] Toggle Project Featured"
	TypeSkillFilterSet         = "[Portfolio] Set Skill Filter"
	TypeProjectFilterSet       = "[Portfolio] Set Project Filter"
)

// DefaultLoadError is used when a load failure carries no message.
const DefaultLoadError = "An error occurred while loading portfolio data"

// LoadTriggered starts a load. The store stamps Seq when it is zero.
type LoadTriggered struct {
	Seq uint64 `json:"seq,omitempty"`
}

// LoadSucceeded replaces all portfolio data. Seq echoes the trigger.
type LoadSucceeded struct {
	Seq          uint64       `json:"seq,omitempty"`
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Skills       []Skill      `json:"skills"`
	Projects     []Project    `json:"projects"`
}

type LoadFailed struct {
	Seq     uint64 `json:"seq,omitempty"`
	Message string `json:"error"`
}

type PersonalInfoReplaced struct {
	Info PersonalInfo `json:"personalInfo"`
}

type SkillAdded struct {
	Skill Skill `json:"skill"`
}

type SkillReplaced struct {
	Skill Skill `json:"skill"`
}

type SkillRemoved struct {
	ID string `json:"skillId"`
}

type ProjectAdded struct {
	Project Project `json:"project"`
}

type ProjectReplaced struct {
	Project Project `json:"project"`
}

type ProjectRemoved struct {
	ID string `json:"projectId"`
}

type ProjectFeaturedToggled struct {
	ID string `json:"projectId"`
}

type SkillFilterSet struct {
	Filter SkillFilter `json:"category"`
}

// ProjectFilterSet restricts FilteredProjects to featured (true),
// non-featured (false) or all (nil) projects.
type ProjectFilterSet struct {
	Featured *bool `json:"featured"`
}

func (LoadTriggered) Type() string          { return TypeLoadTriggered }
func (LoadSucceeded) Type() string          { return TypeLoadSucceeded }
func (LoadFailed) Type() string             { return TypeLoadFailed }
func (PersonalInfoReplaced) Type() string   { return TypePersonalInfoReplaced }
func (SkillAdded) Type() string             { return TypeSkillAdded }
func (SkillReplaced) Type() string          { return TypeSkillReplaced }
func (SkillRemoved) Type() string           { return TypeSkillRemoved }
func (ProjectAdded) Type() string           { return TypeProjectAdded }
func (ProjectReplaced) Type() string        { return TypeProjectReplaced }
func (ProjectRemoved) Type() string         { return TypeProjectRemoved }
func (ProjectFeaturedToggled) Type() string { return TypeProjectFeaturedToggled }
func (SkillFilterSet) Type() string         { return TypeSkillFilterSet }
func (ProjectFilterSet) Type() string       { return TypeProjectFilterSet }

func (LoadTriggered) isAction()          {}
func (LoadSucceeded) isAction()          {}
func (LoadFailed) isAction()             {}
func (PersonalInfoReplaced) isAction()   {}
func (SkillAdded) isAction()             {}
func (SkillReplaced) isAction()          {}
func (SkillRemoved) isAction()           {}
func (ProjectAdded) isAction()           {}
func (ProjectReplaced) isAction()        {}
func (ProjectRemoved) isAction()         {}
func (ProjectFeaturedToggled) isAction() {}
func (SkillFilterSet) isAction()         {}
func (ProjectFilterSet) isAction()       {}

// Succeeded builds the terminal success action for a fetched snapshot.
func Succeeded(seq uint64, snap Snapshot) LoadSucceeded {
	return LoadSucceeded{
		Seq:          seq,
		PersonalInfo: snap.PersonalInfo,
		Skills:       snap.Skills,
		Projects:     snap.Projects,
	}
}
