package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kaobian-ai/kaobian-server/config"
	userdata "github.com/kaobian-ai/kaobian-server/models/userdata"
	"github.com/kaobian-ai/kaobian-server/repos"
	"github.com/kaobian-ai/kaobian-server/utils"
	"go.uber.org/fx"
)

type UserController struct {
	fx.In

	Repo *repos.UserRepo
}

func RegisterUserController(r *utils.Router, config *config.Config, c UserController) {
	accounts := r.Group("/api/accounts")

	accounts.Get("/profile", utils.Protected(standardRoute), c.userProfile)
	accounts.Post("/update-profile", utils.Protected(standardRoute), c.updateProfile)
}

type updateProfileRequest struct {
	FirstName  string `json:"first_name" validate:"max=64"`
	LastName   string `json:"last_name" validate:"max=64"`
	Skills     string `json:"skills"`
	Experience string `json:"experience"`
	Education  string `json:"education"`
}

func (r *UserController) userProfile(c *fiber.Ctx) error {
	user, err := r.Repo.UserProfile(c.Context(), c.Locals("user").(int64))
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.JSON(user)
}

func (r *UserController) updateProfile(c *fiber.Ctx) error {
	req := new(updateProfileRequest)
	if err := c.BodyParser(req); err != nil {
		return respond(c, fiber.StatusBadRequest, false, "无效的JSON数据")
	}

	if errs := utils.ValidateStruct(validate.Struct(req)); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(errs)
	}

	err := r.Repo.UpdateProfile(c.Context(), c.Locals("user").(int64), userdata.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}, userdata.SeekerProfile{
		Skills:     req.Skills,
		Experience: req.Experience,
		Education:  req.Education,
	})
	if err != nil {
		return respond(c, fiber.StatusInternalServerError, false, "服务器内部错误")
	}

	return respond(c, fiber.StatusOK, true, "个人资料已更新")
}
