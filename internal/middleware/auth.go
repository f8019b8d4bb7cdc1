package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals keys set by Identity for downstream handlers.
const (
	LocalCompanyID = "companyID"
	LocalUserID    = "userID"
	LocalUserRole  = "userRole"
)

// Identity trusts the upstream-verified identity headers and makes
// (tenant, actor, role) available to handlers. Token verification happens at
// the gateway; this service only consumes the resulting identity contract.
func Identity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := c.Get("X-Company-ID")
		userID := c.Get("X-User-ID")
		role := c.Get("X-User-Role")

		if companyID == "" || userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing identity headers",
			})
		}

		if _, err := uuid.Parse(userID); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid user id",
			})
		}

		if role == "" {
			role = "hr"
		}

		c.Locals(LocalCompanyID, companyID)
		c.Locals(LocalUserID, userID)
		c.Locals(LocalUserRole, role)

		return c.Next()
	}
}

// RequireRoles gates a route to the given roles.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		current, _ := c.Locals(LocalUserRole).(string)
		for _, role := range roles {
			if current == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "insufficient role",
		})
	}
}

// CompanyID returns the tenant id attached by Identity.
func CompanyID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalCompanyID).(string)
	return id
}

// UserID returns the actor id attached by Identity.
func UserID(c *fiber.Ctx) uuid.UUID {
	raw, _ := c.Locals(LocalUserID).(string)
	id, _ := uuid.Parse(raw)
	return id
}
