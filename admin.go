// admin.go - Admin panel and JSON API driving the portfolio store
package main

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/portfolio"
	"github.com/Zachkp/portfolio/internal/storage"
)

// skillRequest is the admin form for a new skill. Missing fields fall back
// to the same defaults as the admin page: level 5, color by category.
type skillRequest struct {
	ID       string             `json:"id" form:"id"`
	Name     string             `json:"name" form:"name"`
	Level    int                `json:"level" form:"level"`
	Category portfolio.Category `json:"category" form:"category"`
	Color    string             `json:"color" form:"color"`
}

func (r skillRequest) skill() portfolio.Skill {
	s := portfolio.Skill{
		ID:       strings.TrimSpace(r.ID),
		Name:     strings.TrimSpace(r.Name),
		Level:    r.Level,
		Category: r.Category,
		Color:    r.Color,
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Level == 0 {
		s.Level = 5
	}
	if s.Color == "" {
		s.Color = portfolio.CategoryColor(s.Category)
	}
	return s
}

type filterRequest struct {
	SkillCategory portfolio.SkillFilter `json:"skillCategory"`
	Featured      *bool                 `json:"featured"`
}

type AdminStats struct {
	Summary         *portfolio.Summary     `json:"summary"`
	Loading         bool                   `json:"loading"`
	Error           string                 `json:"error,omitempty"`
	PersonalInfoSet bool                   `json:"personal_info_loaded"`
	Visitors        *storage.VisitorStats  `json:"visitors"`
	RecentActions   []storage.JournalEntry `json:"recent_actions"`
}

// Privacy-conscious visitor tracking middleware
func (a *app) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only the public views are tracked
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet || (path != "/" && path != "/about") {
			c.Next()
			return
		}

		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		// Track visitor with hashed IP in background
		go a.trackVisitor(c.ClientIP(), c.GetHeader("User-Agent"), path)
		c.Next()
	}
}

func (a *app) trackVisitor(ip, userAgent, path string) {
	if err := a.db.RecordVisit(context.Background(), ip, userAgent, path); err != nil {
		a.logger.Warn("error recording visitor", zap.Error(err))
	}
}

// Cleanup old visitor data for privacy compliance
func (a *app) cleanupOldVisitorData() {
	n, err := a.db.CleanupOldVisits(context.Background(), a.cfg.Storage.VisitorRetention)
	if err != nil {
		a.logger.Warn("error cleaning up old visitor data", zap.Error(err))
		return
	}
	if n > 0 {
		a.logger.Info("privacy cleanup removed old visitor records",
			zap.Int64("rows", n),
			zap.Duration("retention", a.cfg.Storage.VisitorRetention))
	}
}

// Get comprehensive admin statistics
func (a *app) getAdminStats(ctx context.Context) (*AdminStats, error) {
	st := a.store.State()
	stats := &AdminStats{
		Summary:         a.store.Selectors().Summary(st),
		Loading:         portfolio.SelectLoading(st),
		Error:           portfolio.SelectError(st),
		PersonalInfoSet: st.PersonalInfo != nil,
	}

	visitors, err := a.db.VisitorStats(ctx, 50)
	if err != nil {
		return nil, err
	}
	stats.Visitors = visitors

	actions, err := a.db.RecentActions(ctx, 0)
	if err != nil {
		return nil, err
	}
	stats.RecentActions = actions
	return stats, nil
}

// Setup all admin routes
func (a *app) setupAdminRoutes(r *gin.Engine) {
	// Privacy policy route
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":         "Privacy Policy",
			"retentionDays": int(a.cfg.Storage.VisitorRetention.Hours() / 24),
		})
	})

	adminGroup := r.Group("/admin")

	// Admin panel
	adminGroup.GET("", a.renderAdmin(http.StatusOK, ""))

	// Form posts from the admin panel
	adminGroup.POST("/refresh", func(c *gin.Context) {
		a.store.Dispatch(portfolio.LoadTriggered{})
		c.Redirect(http.StatusSeeOther, "/admin")
	})

	adminGroup.POST("/personal-info", func(c *gin.Context) {
		info := a.personalInfoFromForm(c)
		if err := info.Validate(); err != nil {
			a.renderAdmin(http.StatusBadRequest, err.Error())(c)
			return
		}
		a.store.Dispatch(portfolio.PersonalInfoReplaced{Info: info})
		c.Redirect(http.StatusSeeOther, "/admin")
	})

	adminGroup.POST("/skills", func(c *gin.Context) {
		var req skillRequest
		if err := c.ShouldBind(&req); err != nil {
			a.renderAdmin(http.StatusBadRequest, "Invalid skill form")(c)
			return
		}
		skill := req.skill()
		if err := skill.Validate(); err != nil {
			a.renderAdmin(http.StatusBadRequest, err.Error())(c)
			return
		}
		a.store.Dispatch(portfolio.SkillAdded{Skill: skill})
		c.Redirect(http.StatusSeeOther, "/admin")
	})

	// Privacy compliance endpoint
	adminGroup.POST("/privacy/cleanup", func(c *gin.Context) {
		go a.cleanupOldVisitorData()
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup initiated"})
	})

	// State export (for backups or analysis)
	exportState := func(c *gin.Context) {
		c.Header("Content-Disposition", "attachment; filename=portfolio-state.json")
		a.logger.Info("state exported", zap.String("client", a.db.HashIP(c.ClientIP())))
		c.JSON(http.StatusOK, a.store.State())
	}
	adminGroup.GET("/export", exportState)

	api := adminGroup.Group("/api")
	api.GET("/state", func(c *gin.Context) {
		c.JSON(http.StatusOK, a.store.State())
	})
	api.GET("/summary", func(c *gin.Context) {
		st := a.store.State()
		sel := a.store.Selectors()
		c.JSON(http.StatusOK, gin.H{
			"summary":          sel.Summary(st),
			"skillsByCategory": sel.SkillsByCategory(st),
			"featuredProjects": sel.FeaturedProjects(st),
			"filteredSkills":   sel.FilteredSkills(st),
			"filteredProjects": sel.FilteredProjects(st),
		})
	})
	api.GET("/stats", func(c *gin.Context) {
		stats, err := a.getAdminStats(c.Request.Context())
		if err != nil {
			a.logger.Error("error loading admin stats", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to load statistics"})
			return
		}
		c.JSON(http.StatusOK, stats)
	})
	api.GET("/journal", func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		entries, err := a.db.RecentActions(c.Request.Context(), limit)
		if err != nil {
			a.logger.Error("error loading journal", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to load journal"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"actions": entries})
	})
	api.GET("/export", exportState)
	api.GET("/visitors", func(c *gin.Context) {
		stats, err := a.db.VisitorStats(c.Request.Context(), 200)
		if err != nil {
			a.logger.Error("error loading visitors", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to load visitors"})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	api.POST("/refresh", func(c *gin.Context) {
		a.store.Dispatch(portfolio.LoadTriggered{})
		c.JSON(http.StatusAccepted, gin.H{"message": "Load started", "seq": a.store.State().LoadSeq})
	})

	api.PUT("/personal-info", func(c *gin.Context) {
		var info portfolio.PersonalInfo
		if !bindJSON(c, &info) || !validate(c, info.Validate()) {
			return
		}
		a.store.Dispatch(portfolio.PersonalInfoReplaced{Info: info})
		c.JSON(http.StatusOK, info)
	})

	api.POST("/skills", func(c *gin.Context) {
		var req skillRequest
		if !bindJSON(c, &req) {
			return
		}
		skill := req.skill()
		if !validate(c, skill.Validate()) {
			return
		}
		a.store.Dispatch(portfolio.SkillAdded{Skill: skill})
		c.JSON(http.StatusCreated, skill)
	})
	api.PUT("/skills/:id", func(c *gin.Context) {
		var skill portfolio.Skill
		if !bindJSON(c, &skill) {
			return
		}
		skill.ID = c.Param("id")
		if !validate(c, skill.Validate()) || !a.requireSkill(c, skill.ID) {
			return
		}
		a.store.Dispatch(portfolio.SkillReplaced{Skill: skill})
		c.JSON(http.StatusOK, skill)
	})
	api.DELETE("/skills/:id", func(c *gin.Context) {
		id := c.Param("id")
		if !a.requireSkill(c, id) {
			return
		}
		a.store.Dispatch(portfolio.SkillRemoved{ID: id})
		c.JSON(http.StatusOK, gin.H{"message": "Skill deleted successfully"})
	})

	api.POST("/projects", func(c *gin.Context) {
		var project portfolio.Project
		if !bindJSON(c, &project) {
			return
		}
		if project.ID == "" {
			project.ID = uuid.NewString()
		}
		if !validate(c, project.Validate()) {
			return
		}
		a.store.Dispatch(portfolio.ProjectAdded{Project: project})
		c.JSON(http.StatusCreated, project)
	})
	api.PUT("/projects/:id", func(c *gin.Context) {
		var project portfolio.Project
		if !bindJSON(c, &project) {
			return
		}
		project.ID = c.Param("id")
		if !validate(c, project.Validate()) || !a.requireProject(c, project.ID) {
			return
		}
		a.store.Dispatch(portfolio.ProjectReplaced{Project: project})
		c.JSON(http.StatusOK, project)
	})
	api.DELETE("/projects/:id", func(c *gin.Context) {
		id := c.Param("id")
		if !a.requireProject(c, id) {
			return
		}
		a.store.Dispatch(portfolio.ProjectRemoved{ID: id})
		c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
	})
	api.POST("/projects/:id/toggle-featured", func(c *gin.Context) {
		id := c.Param("id")
		if !a.requireProject(c, id) {
			return
		}
		a.store.Dispatch(portfolio.ProjectFeaturedToggled{ID: id})
		for _, p := range a.store.State().Projects {
			if p.ID == id {
				c.JSON(http.StatusOK, p)
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "Project toggled"})
	})

	api.PUT("/filters", func(c *gin.Context) {
		var req filterRequest
		if !bindJSON(c, &req) {
			return
		}
		if req.SkillCategory == "" {
			req.SkillCategory = portfolio.SkillFilterAll
		}
		if !req.SkillCategory.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "unknown skill category " + string(req.SkillCategory)})
			return
		}
		a.store.Dispatch(portfolio.SkillFilterSet{Filter: req.SkillCategory})
		a.store.Dispatch(portfolio.ProjectFilterSet{Featured: req.Featured})
		st := a.store.State()
		c.JSON(http.StatusOK, gin.H{
			"skills":   a.store.Selectors().FilteredSkills(st),
			"projects": a.store.Selectors().FilteredProjects(st),
		})
	})
}

func (a *app) renderAdmin(status int, formError string) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := a.ensureLoaded()
		actions, err := a.db.RecentActions(c.Request.Context(), 0)
		if err != nil {
			a.logger.Error("error loading journal", zap.Error(err))
		}
		c.HTML(status, "admin.html", gin.H{
			"intro":     AdminIntro,
			"info":      st.PersonalInfo,
			"skills":    st.Skills,
			"loading":   portfolio.SelectLoading(st),
			"error":     portfolio.SelectError(st),
			"formError": formError,
			"actions":   actions,
		})
	}
}

func (a *app) personalInfoFromForm(c *gin.Context) portfolio.PersonalInfo {
	// Fields the form does not show keep their current values
	var info portfolio.PersonalInfo
	if cur := a.store.State().PersonalInfo; cur != nil {
		info = *cur
	}
	info.Name = strings.TrimSpace(c.PostForm("name"))
	info.Title = strings.TrimSpace(c.PostForm("title"))
	info.Bio = c.PostForm("bio")
	info.Location = c.PostForm("location")
	if v := c.PostForm("email"); v != "" {
		info.Email = v
	}
	if v, err := strconv.Atoi(c.PostForm("yearsExperience")); err == nil {
		info.YearsExperience = v
	}
	return info
}

func (a *app) requireSkill(c *gin.Context, id string) bool {
	for _, s := range a.store.State().Skills {
		if s.ID == id {
			return true
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "Skill not found"})
	return false
}

func (a *app) requireProject(c *gin.Context, id string) bool {
	for _, p := range a.store.State().Projects {
		if p.ID == id {
			return true
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "Project not found"})
	return false
}

func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return false
	}
	return true
}

func validate(c *gin.Context, err error) bool {
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return false
	}
	return true
}
