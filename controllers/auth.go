package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/kaobian-ai/kaobian-server/config"
	userdata "github.com/kaobian-ai/kaobian-server/models/userdata"
	"github.com/kaobian-ai/kaobian-server/repos"
	"github.com/kaobian-ai/kaobian-server/utils"
	"github.com/kaobian-ai/kaobian-server/verification"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

type AuthController struct {
	fx.In

	UserRepo *repos.UserRepo
	Service  *verification.Service
	Config   *config.Config
}

func RegisterAuthController(r *utils.Router, config *config.Config, c AuthController) {
	accounts := r.Group("/api/accounts")

	accounts.Post("/login", c.login)
	accounts.Post("/signup", c.signup)
	accounts.Post("/password-reset", c.passwordReset)
}

type loginRequest struct {
	UsernameOrEmail string `json:"username_or_email"`
	Password        string `json:"password"`
}

type signupRequest struct {
	Username         string `json:"username" validate:"required,min=3,max=64"`
	Email            string `json:"email" validate:"required,email"`
	Password1        string `json:"password1" validate:"required,min=8,max=64"`
	Password2        string `json:"password2" validate:"required"`
	VerificationCode string `json:"verification_code" validate:"required"`
	Skills           string `json:"skills"`
	Experience       string `json:"experience"`
	Education        string `json:"education"`
}

type passwordResetRequest struct {
	Email            string `json:"email"`
	VerificationCode string `json:"verification_code"`
	NewPassword1     string `json:"new_password1"`
	NewPassword2     string `json:"new_password2"`
}

func (r *AuthController) login(c *fiber.Ctx) error {
	req := new(loginRequest)
	if err := c.BodyParser(req); err != nil {
		return respond(c, fiber.StatusBadRequest, false, "无效的JSON数据")
	}
	if req.UsernameOrEmail == "" || req.Password == "" {
		return respond(c, fiber.StatusBadRequest, false, "用户名/邮箱和密码不能为空")
	}

	user, err := r.UserRepo.GetByLogin(c.Context(), req.UsernameOrEmail)
	if err != nil {
		return respond(c, fiber.StatusBadRequest, false, "未找到使用这些凭据的账户。")
	}

	if !user.IsJobSeeker {
		return respond(c, fiber.StatusBadRequest, false, "抱歉，此平台仅支持求职者登录。")
	}

	if !utils.VerifyHash(req.Password, user.Password) {
		return respond(c, fiber.StatusBadRequest, false, "密码错误。")
	}

	return r.respondWithTokens(c, user, "欢迎回来，"+user.Username+"！")
}

func (r *AuthController) signup(c *fiber.Ctx) error {
	req := new(signupRequest)
	if err := c.BodyParser(req); err != nil {
		return respond(c, fiber.StatusBadRequest, false, "无效的JSON数据")
	}

	if errs := utils.ValidateStruct(validate.Struct(req)); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(errs)
	}

	if req.Password1 != req.Password2 {
		return respond(c, fiber.StatusBadRequest, false, "两次输入的密码不一致")
	}

	if success, message := verifyMessage(r.Service.Verify(c.Context(), req.Email, req.VerificationCode)); !success {
		if message == "" {
			return respond(c, fiber.StatusInternalServerError, false, "服务器内部错误")
		}
		return respond(c, fiber.StatusBadRequest, false, message)
	}

	if exists, err := r.UserRepo.UsernameExists(c.Context(), req.Username); err != nil {
		return respond(c, fiber.StatusInternalServerError, false, "服务器内部错误")
	} else if exists {
		return respond(c, fiber.StatusBadRequest, false, "用户名已存在")
	}

	if exists, err := r.UserRepo.EmailExists(c.Context(), req.Email); err != nil {
		return respond(c, fiber.StatusInternalServerError, false, "服务器内部错误")
	} else if exists {
		return respond(c, fiber.StatusBadRequest, false, "邮箱已被注册")
	}

	hash, err := utils.HashPassword(req.Password1)
	if err != nil {
		return respond(c, fiber.StatusInternalServerError, false, "服务器内部错误")
	}

	id, err := r.UserRepo.AddJobSeeker(c.Context(), userdata.User{
		Username:    req.Username,
		Email:       req.Email,
		Password:    hash,
		IsJobSeeker: true,
	}, userdata.SeekerProfile{
		Skills:     req.Skills,
		Experience: req.Experience,
		Education:  req.Education,
	})
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Could not create job seeker")
		return respond(c, fiber.StatusInternalServerError, false, "服务器内部错误")
	}

	user, err := r.UserRepo.GetUser(c.Context(), id)
	if err != nil {
		return respond(c, fiber.StatusInternalServerError, false, "服务器内部错误")
	}

	return r.respondWithTokens(c, user, "欢迎！您的求职者账户已创建成功。")
}

func (r *AuthController) passwordReset(c *fiber.Ctx) error {
	req := new(passwordResetRequest)
	if err := c.BodyParser(req); err != nil {
		return respond(c, fiber.StatusBadRequest, false, "无效的JSON数据")
	}
	if req.Email == "" || req.VerificationCode == "" || req.NewPassword1 == "" || req.NewPassword2 == "" {
		return respond(c, fiber.StatusBadRequest, false, "所有字段都不能为空")
	}

	if req.NewPassword1 != req.NewPassword2 {
		return respond(c, fiber.StatusBadRequest, false, "两次输入的密码不一致")
	}

	if success, message := verifyMessage(r.Service.Verify(c.Context(), req.Email, req.VerificationCode)); !success {
		if message == "" {
			return respond(c, fiber.StatusInternalServerError, false, "服务器内部错误")
		}
		return respond(c, fiber.StatusBadRequest, false, message)
	}

	if exists, err := r.UserRepo.EmailExists(c.Context(), req.Email); err != nil {
		return respond(c, fiber.StatusInternalServerError, false, "服务器内部错误")
	} else if !exists {
		return respond(c, fiber.StatusBadRequest, false, "用户不存在")
	}

	hash, err := utils.HashPassword(req.NewPassword1)
	if err != nil {
		return respond(c, fiber.StatusInternalServerError, false, "服务器内部错误")
	}

	if err := r.UserRepo.UpdatePassword(c.Context(), req.Email, hash); err != nil {
		return respond(c, fiber.StatusInternalServerError, false, "服务器内部错误")
	}

	// The verified record has served its purpose; drop it so the code
	// cannot be replayed.
	if err := r.Service.Invalidate(c.Context(), req.Email); err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Could not drop verification record")
	}

	log.Info().Str("email", req.Email).Msg("Password reset completed")
	return respond(c, fiber.StatusOK, true, "密码重置成功！请使用新密码登录。")
}

func (r *AuthController) respondWithTokens(c *fiber.Ctx, user *userdata.User, message string) error {
	tokens, err := utils.OAuthJwt(strconv.FormatInt(user.Id, 10), "basic", r.Config.JwtParsedPrivateKey)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"message":       message,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"user": fiber.Map{
			"id":            user.Id,
			"username":      user.Username,
			"email":         user.Email,
			"first_name":    user.FirstName,
			"last_name":     user.LastName,
			"is_job_seeker": user.IsJobSeeker,
		},
	})
}
