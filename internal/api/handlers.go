package api

import (
	"github.com/gin-gonic/gin"

	"github.com/twiced-technology-gmbh/taskwatch/internal/board"
	"github.com/twiced-technology-gmbh/taskwatch/internal/clierr"
	"github.com/twiced-technology-gmbh/taskwatch/internal/config"
	"github.com/twiced-technology-gmbh/taskwatch/internal/task"
)

const msgNoDirectory = "No task directory configured. Use POST /api/config/directory to set one."

// TasksData is the payload of GET /api/tasks.
type TasksData struct {
	Tasks   []task.Task   `json:"tasks"`
	Changes []task.Change `json:"changes"`
}

type directoryRequest struct {
	Directory string `json:"directory"`
}

func (s *Server) noDirectory(c *gin.Context) {
	s.fail(c, 0, clierr.New(clierr.NoDirectory, msgNoDirectory))
}

func (s *Server) handleTasks(c *gin.Context) {
	snap := s.engine.Snapshot()
	if snap.Directory == "" {
		s.noDirectory(c)
		return
	}

	statuses, err := board.ParseStatuses(c.Query("status"))
	if err != nil {
		s.fail(c, snap.Cycle, clierr.As(err))
		return
	}
	tasks := board.Filter(snap.Tasks, board.FilterOptions{
		Sequences: board.ParseSequences(c.Query("sequence")),
		Statuses:  statuses,
		Agent:     c.Query("agent"),
	})
	if tasks == nil {
		tasks = []task.Task{}
	}
	respond(s, c, snap.Cycle, TasksData{Tasks: tasks, Changes: snap.Changes})
}

func (s *Server) handleSequences(c *gin.Context) {
	snap := s.engine.Snapshot()
	if snap.Directory == "" {
		s.noDirectory(c)
		return
	}
	respond(s, c, snap.Cycle, snap.Sequences)
}

func (s *Server) handleStatus(c *gin.Context) {
	snap := s.engine.Snapshot()
	respond(s, c, snap.Cycle, snap.Status)
}

func (s *Server) handleGetConfig(c *gin.Context) {
	respond(s, c, s.engine.Cycle(), s.store.Load())
}

func (s *Server) handleSetDirectory(c *gin.Context) {
	var req directoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, s.engine.Cycle(), clierr.New(clierr.InvalidPath, "directory field is required."))
		return
	}

	dir, err := config.ValidateDirectory(req.Directory)
	if err != nil {
		s.fail(c, s.engine.Cycle(), clierr.As(err))
		return
	}

	cfg, err := s.store.Update(func(cfg *config.Config) error {
		cfg.SetDir(dir)
		return nil
	})
	if err != nil {
		s.logger.Error("saving config", "err", err)
		s.fail(c, s.engine.Cycle(), clierr.New(clierr.InternalError, "An unexpected error occurred."))
		return
	}

	s.logger.Info("task directory changed", "directory", dir)
	s.engine.Reset(dir, cfg.Interval())
	respond(s, c, s.engine.Cycle(), cfg)
}
