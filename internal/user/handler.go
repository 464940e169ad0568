package user

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/wichananm65/user-directory-backend/internal/auth"
)

type Handler struct {
	service *Service
	tokens  *auth.TokenManager
}

type signupRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
	Gender      string `json:"gender"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type updateRequest struct {
	Username    string `json:"username"`
	PhoneNumber string `json:"phone_number"`
	Gender      string `json:"gender"`
}

func NewHandler(service *Service, tokens *auth.TokenManager) *Handler {
	return &Handler{service: service, tokens: tokens}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/signup", h.signup)
	app.Post("/login", h.login)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/users", h.getUsers)
	app.Get("/users/:id", h.getUser)
	app.Post("/users", h.addUser)
	app.Put("/users/:id", h.updateUser)
	app.Delete("/users/:id", h.deleteUser)
	// profile returns the record of the currently authenticated user
	app.Get("/profile", h.getProfile)
}

func (h *Handler) signup(c *fiber.Ctx) error {
	payload := new(signupRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if payload.isMissingRequiredFields() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Missing required fields"})
	}

	_, err := h.service.Register(User{
		Username:    payload.Username,
		Password:    payload.Password,
		PhoneNumber: payload.PhoneNumber,
		Gender:      payload.Gender,
	})
	if err != nil {
		if errors.Is(err, ErrUsernameExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Username already exists"})
		}
		log.Errorf("signup: %v", err)
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User created successfully"})
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	user, err := h.service.Authenticate(payload.Username, payload.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid credentials"})
	}

	token, err := h.tokens.Generate(user.Username)
	if err != nil {
		log.Errorf("login: sign token: %v", err)
		return internalError(c)
	}

	return c.JSON(fiber.Map{"token": token})
}

func (h *Handler) getUsers(c *fiber.Ctx) error {
	users, err := h.service.List()
	if err != nil {
		log.Errorf("list users: %v", err)
		return internalError(c)
	}

	return c.JSON(users)
}

func (h *Handler) getUser(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	user, err := h.service.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
		}
		log.Errorf("get user: %v", err)
		return internalError(c)
	}

	return c.JSON(user)
}

// getProfile returns the record of the caller identified by the token's
// username claim.
func (h *Handler) getProfile(c *fiber.Ctx) error {
	caller, err := auth.UsernameFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	user, err := h.service.GetByUsername(caller)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
		}
		log.Errorf("get profile: %v", err)
		return internalError(c)
	}

	return c.JSON(user)
}

func (h *Handler) addUser(c *fiber.Ctx) error {
	caller, err := auth.UsernameFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(signupRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if payload.isMissingRequiredFields() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Missing required fields"})
	}

	_, err = h.service.Create(User{
		Username:    payload.Username,
		Password:    payload.Password,
		PhoneNumber: payload.PhoneNumber,
		Gender:      payload.Gender,
	}, caller)
	if err != nil {
		if errors.Is(err, ErrUsernameExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Username already exists"})
		}
		log.Errorf("add user: %v", err)
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User added successfully"})
}

func (h *Handler) updateUser(c *fiber.Ctx) error {
	caller, err := auth.UsernameFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	payload := new(updateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if payload.Username == "" || payload.PhoneNumber == "" || payload.Gender == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Missing required fields"})
	}

	_, err = h.service.Update(id, User{
		Username:    payload.Username,
		PhoneNumber: payload.PhoneNumber,
		Gender:      payload.Gender,
	}, caller)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
		case errors.Is(err, ErrUsernameExists):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Username already exists"})
		default:
			log.Errorf("update user: %v", err)
			return internalError(c)
		}
	}

	return c.JSON(fiber.Map{"message": "User updated successfully"})
}

func (h *Handler) deleteUser(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	if err := h.service.Delete(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
		}
		log.Errorf("delete user: %v", err)
		return internalError(c)
	}

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

func (r signupRequest) isMissingRequiredFields() bool {
	return r.Username == "" || r.Password == "" || r.PhoneNumber == "" || r.Gender == ""
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
}
