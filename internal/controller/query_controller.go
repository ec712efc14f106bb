package controller

import (
	"errors"

	"text2sql-be/internal/dto"
	"text2sql-be/internal/pkg/serverutils"
	"text2sql-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IQueryController interface {
	RegisterRoutes(r fiber.Router)
	SaveQuery(ctx *fiber.Ctx) error
	ListQueries(ctx *fiber.Ctx) error
	DeleteQuery(ctx *fiber.Ctx) error
	Train(ctx *fiber.Ctx) error
	ClearCache(ctx *fiber.Ctx) error
}

type queryController struct {
	queryService service.IQueryService
}

func NewQueryController(queryService service.IQueryService) IQueryController {
	return &queryController{
		queryService: queryService,
	}
}

func (c *queryController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/query/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("saved", c.SaveQuery)
	h.Get("saved", c.ListQueries)
	h.Delete("saved/:id", c.DeleteQuery)
	h.Post("train", c.Train)
	h.Delete("cache", c.ClearCache)
}

func (c *queryController) SaveQuery(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.SaveQueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.queryService.SaveQuery(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save query", res))
}

func (c *queryController) ListQueries(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.queryService.ListQueries(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get saved queries", res))
}

func (c *queryController) DeleteQuery(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	queryId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query id")
	}

	if err := c.queryService.DeleteQuery(ctx.Context(), userId, queryId); err != nil {
		if errors.Is(err, service.ErrSavedQueryNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete saved query", nil))
}

func (c *queryController) Train(ctx *fiber.Ctx) error {
	var req dto.TrainRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.queryService.Train(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success queue training pair", nil))
}

func (c *queryController) ClearCache(ctx *fiber.Ctx) error {
	res, err := c.queryService.ClearCache(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success clear query cache", res))
}
