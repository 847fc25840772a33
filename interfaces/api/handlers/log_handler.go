package handlers

import (
	"crypto/subtle"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"photo-triage/pkg/config"
	"photo-triage/pkg/logger"
	"photo-triage/pkg/utils"
)

// LogHandler serves the category log files to operators holding the
// admin token.
type LogHandler struct {
	adminToken string
}

func NewLogHandler(cfg *config.Config) *LogHandler {
	token := cfg.Admin.Token
	if token == "" {
		token = cfg.JWT.Secret
	}
	return &LogHandler{adminToken: token}
}

func (h *LogHandler) authorized(c *fiber.Ctx) bool {
	token := c.Get("X-Admin-Token")
	if token == "" {
		token = c.Query("token")
	}
	return token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(h.adminToken)) == 1
}

// GetLogs returns log entries filtered by level, category, search and date
func (h *LogHandler) GetLogs(c *fiber.Ctx) error {
	if !h.authorized(c) {
		return utils.UnauthorizedResponse(c, "Invalid admin token")
	}

	opts := logger.ReadLogsOptions{
		Lines:    c.QueryInt("lines", 100),
		Level:    logger.Level(c.Query("level")),
		Category: logger.Category(c.Query("category")),
		Search:   c.Query("search"),
		Date:     c.Query("date"),
	}

	entries, err := logger.ReadLogs(opts)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SuccessResponse(c, fiber.Map{
		"entries": entries,
		"count":   len(entries),
		"filters": fiber.Map{
			"lines":    opts.Lines,
			"level":    opts.Level,
			"category": opts.Category,
			"search":   opts.Search,
			"date":     opts.Date,
		},
	})
}

func (h *LogHandler) GetLogFiles(c *fiber.Ctx) error {
	if !h.authorized(c) {
		return utils.UnauthorizedResponse(c, "Invalid admin token")
	}

	files, err := logger.ListLogFiles()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}
	return utils.SuccessResponse(c, fiber.Map{
		"files":  files,
		"logDir": logger.GetLogDir(),
	})
}

// GetLogStats counts today's entries by level and category
func (h *LogHandler) GetLogStats(c *fiber.Ctx) error {
	if !h.authorized(c) {
		return utils.UnauthorizedResponse(c, "Invalid admin token")
	}

	entries, _ := logger.ReadLogs(logger.ReadLogsOptions{Lines: 1000})

	levelCounts := map[string]int{"DEBUG": 0, "INFO": 0, "WARN": 0, "ERROR": 0}
	categoryCounts := map[string]int{}
	for _, entry := range entries {
		levelCounts[string(entry.Level)]++
		categoryCounts[string(entry.Category)]++
	}

	var totalSize int64
	files, _ := logger.ListLogFiles()
	for _, f := range files {
		if info, err := os.Stat(filepath.Join(logger.GetLogDir(), f)); err == nil {
			totalSize += info.Size()
		}
	}

	return utils.SuccessResponse(c, fiber.Map{
		"total_entries":    len(entries),
		"by_level":         levelCounts,
		"by_category":      categoryCounts,
		"total_files":      len(files),
		"total_size_bytes": totalSize,
	})
}
