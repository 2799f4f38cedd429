package partner

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/virtuebox/backoffice/internal/middleware"
	"github.com/virtuebox/backoffice/internal/user"
)

// Handler exposes partner management endpoints.
type Handler struct {
	svc *Service
}

// NewHandler constructs a partner HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type createRequest struct {
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Password         string   `json:"password"`
	Mobile           string   `json:"mobile"`
	IsActive         *bool    `json:"isActive"`
	Deposit          float64  `json:"deposit"`
	SharePercent     float64  `json:"sharePercent"`
	FeePercent       *float64 `json:"feePercent"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	ICMarketAccount  string   `json:"icMarketAccount"`
	TradingAgreement string   `json:"tradingAgreement"`
}

// List serves the partner table. Admins see every record; a partner sees
// only their own record as a single-element collection.
func (h *Handler) List(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "Unauthorized: no token provided")
	}

	if claims.Role == string(user.RoleAdmin) {
		partners, err := h.svc.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "role": claims.Role, "partners": partners})
	}

	own, err := h.svc.Get(c.UserContext(), claims.UserID)
	if errors.Is(err, user.ErrNotFound) {
		return c.JSON(fiber.Map{"success": true, "role": claims.Role, "partners": []user.User{}})
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "role": claims.Role, "partners": []user.User{own}})
}

// Create provisions a new partner. Admin only; createdBy records the acting
// admin's name.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "Name, email, and password are required")
	}

	claims, _ := middleware.Claims(c)

	input := CreateInput{
		Name:             req.Name,
		Email:            req.Email,
		Password:         req.Password,
		Mobile:           req.Mobile,
		IsActive:         req.IsActive,
		CreatedBy:        claims.Name,
		Deposit:          req.Deposit,
		SharePercent:     req.SharePercent,
		FeePercent:       req.FeePercent,
		ICMarketAccount:  req.ICMarketAccount,
		TradingAgreement: req.TradingAgreement,
	}

	var err error
	if input.StartDate, err = parseOptionalDate(req.StartDate); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if input.EndDate, err = parseOptionalDate(req.EndDate); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	created, err := h.svc.Create(c.UserContext(), input)
	if err != nil {
		if errors.Is(err, user.ErrEmailExists) || errors.Is(err, user.ErrInvalidInput) {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Partner created successfully",
		"partner": created,
	})
}

// Get returns a single partner record.
func (h *Handler) Get(c *fiber.Ctx) error {
	p, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if errors.Is(err, user.ErrNotFound) {
		return fiber.NewError(http.StatusNotFound, "Partner not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "partner": p})
}

// Update applies a sparse field update to a partner record.
func (h *Handler) Update(c *fiber.Ctx) error {
	var patch user.PartnerPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.svc.Update(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			return fiber.NewError(http.StatusNotFound, "Partner not found")
		case errors.Is(err, user.ErrEmailExists), errors.Is(err, user.ErrInvalidInput):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Partner updated successfully",
		"partner": updated,
	})
}

// Toggle flips the partner's active flag (soft delete / restore).
func (h *Handler) Toggle(c *fiber.Ctx) error {
	updated, err := h.svc.Toggle(c.UserContext(), c.Params("id"))
	if errors.Is(err, user.ErrNotFound) {
		return fiber.NewError(http.StatusNotFound, "Partner not found")
	}
	if err != nil {
		return err
	}

	message := "Partner deactivated successfully"
	if updated.IsActive {
		message = "Partner activated successfully"
	}
	return c.JSON(fiber.Map{"success": true, "message": message, "partner": updated})
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := user.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
