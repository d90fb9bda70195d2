package handlers

import (
	"brokebesties/internal/models"
	"brokebesties/internal/services/consent"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request format")
	}
	return nil
}

// outcomeView is how consent results are returned to clients.
type outcomeView struct {
	Request  interface{} `json:"request"`
	Applied  bool        `json:"applied"`
	Merged   bool        `json:"merged"`
	Replayed bool        `json:"replayed"`
}

func viewOutcome[P consent.Proposal](out consent.Outcome[P]) outcomeView {
	return outcomeView{Request: out.Proposal, Applied: out.Applied, Merged: out.Merged, Replayed: out.Replayed}
}

// outcomeMessage names what happened, so a repeated click reads as benign.
func outcomeMessage[P consent.Proposal](out consent.Outcome[P]) string {
	status := out.Proposal.ConsentState().Status
	switch {
	case out.Replayed:
		return "Request already " + string(status)
	case out.Merged:
		return "Request accepted"
	case status == models.StatusPending:
		return "Response recorded"
	}
	return "Request " + string(status)
}
