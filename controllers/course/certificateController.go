package controllers

import (
	"github.com/gofiber/fiber/v2"

	"lms/certificate"
	"lms/middleware"
)

// VerifyCertificate runs one verification for the code in the URL. It is public.
func (h *Handler) VerifyCertificate(c *fiber.Ctx) error {
	flow := certificate.NewFlow(local(c, "certificateCode"))
	res := flow.Run(c.UserContext(), h.verifier)

	status := fiber.StatusOK
	switch res.Reason {
	case certificate.ReasonNotFound:
		status = fiber.StatusNotFound
	case certificate.ReasonInvalid:
		status = fiber.StatusBadRequest
	case certificate.ReasonUnavailable:
		status = fiber.StatusBadGateway
	}
	return middleware.JsonResponse(c, status, res.State == certificate.StateValid, res.Message, res)
}
