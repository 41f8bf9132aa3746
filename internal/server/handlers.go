package server

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/julianstephens/rota/internal/models"
	"github.com/julianstephens/rota/internal/utils"
	"github.com/julianstephens/rota/internal/view"
)

type preferenceRequest struct {
	Developer string `json:"developer"`
	Week      string `json:"week"`      // any date inside the week
	Sentiment string `json:"sentiment"` // name (VERY_POSITIVE) or -2..2
}

type vacationRequest struct {
	Developer string `json:"developer"`
	Date      string `json:"date"`
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func badRequest(msg string) error {
	return fiber.NewError(fiber.StatusBadRequest, msg)
}

func (s *Server) getSchedule(c *fiber.Ctx) error {
	sched, err := s.svc.Schedule()
	if err != nil {
		return err
	}
	return ok(c, view.FromSchedule(sched))
}

func (s *Server) getDay(c *fiber.Ctx) error {
	day, err := utils.ParseDate(c.Params("date"))
	if err != nil {
		return badRequest(err.Error())
	}
	assignments, err := s.svc.AssignmentsForDay(day)
	if err != nil {
		return err
	}
	if assignments == nil {
		assignments = []models.Assignment{}
	}
	return ok(c, fiber.Map{
		"date":        utils.FormatDate(day),
		"assignments": assignments,
	})
}

func (s *Server) parsePreference(c *fiber.Ctx) (preferenceRequest, models.Week, error) {
	var req preferenceRequest
	if err := c.BodyParser(&req); err != nil {
		return req, models.Week{}, badRequest("invalid request body")
	}
	if req.Developer == "" || req.Week == "" {
		return req, models.Week{}, badRequest("developer and week are required")
	}
	week, err := models.ParseWeek(req.Week)
	if err != nil {
		return req, models.Week{}, badRequest(err.Error())
	}
	return req, week, nil
}

func (s *Server) postPreference(c *fiber.Ctx) error {
	req, week, err := s.parsePreference(c)
	if err != nil {
		return err
	}
	sentiment, err := models.ParseSentiment(req.Sentiment)
	if err != nil {
		return badRequest(err.Error())
	}

	replaced, err := s.svc.Prefer(req.Developer, week.FirstDay, sentiment)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"replaced": replaced,
		"week":     week.Key(),
	})
}

func (s *Server) deletePreference(c *fiber.Ctx) error {
	req, week, err := s.parsePreference(c)
	if err != nil {
		return err
	}
	removed, err := s.svc.Unprefer(req.Developer, week.FirstDay)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "removed": removed, "week": week.Key()})
}

func (s *Server) postVacation(c *fiber.Ctx) error {
	var req vacationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request body")
	}
	if req.Developer == "" || req.Date == "" {
		return badRequest("developer and date are required")
	}
	day, err := utils.ParseDate(req.Date)
	if err != nil {
		return badRequest(err.Error())
	}

	replaced, err := s.svc.Vacation(req.Developer, day)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"replaced": replaced,
		"week":     models.WeekOf(day).Key(),
	})
}

func (s *Server) postSolve(c *fiber.Ctx) error {
	outcome, err := s.svc.SolveAndSave(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{
		"run":         outcome.RunID,
		"status":      outcome.Status.String(),
		"duration_ms": outcome.Duration.Milliseconds(),
		"roster":      view.FromSchedule(outcome.Schedule),
	})
}

func (s *Server) getValidate(c *fiber.Ctx) error {
	result, err := s.svc.Validate()
	if err != nil {
		return err
	}
	return ok(c, result)
}

func (s *Server) getRuns(c *fiber.Ctx) error {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return badRequest("limit must be a non-negative integer")
		}
		limit = n
	}
	runs, err := s.svc.Runs(limit)
	if err != nil {
		return err
	}
	return ok(c, runs)
}
