package controllers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/kaobian-ai/kaobian-server/config"
	"github.com/kaobian-ai/kaobian-server/repos"
	"github.com/kaobian-ai/kaobian-server/utils"
	"github.com/kaobian-ai/kaobian-server/verification"
	"go.uber.org/fx"
)

type VerificationController struct {
	fx.In

	Service  *verification.Service
	UserRepo *repos.UserRepo
}

func RegisterVerificationController(r *utils.Router, config *config.Config, c VerificationController) {
	accounts := r.Group("/api/accounts")

	accounts.Post("/send-verification-code", c.sendSignupCode)
	accounts.Post("/send-password-reset-code", c.sendResetCode)
	accounts.Post("/verify-code", c.verifyCode)
}

type sendCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type verifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

// sendSignupCode issues a code for a not-yet-registered address.
func (r *VerificationController) sendSignupCode(c *fiber.Ctx) error {
	req := new(sendCodeRequest)
	if err := c.BodyParser(req); err != nil {
		return respond(c, fiber.StatusBadRequest, false, "无效的JSON数据")
	}
	if req.Email == "" {
		return respond(c, fiber.StatusBadRequest, false, "邮箱地址不能为空")
	}

	exists, err := r.UserRepo.EmailExists(c.Context(), req.Email)
	if err != nil {
		return respond(c, fiber.StatusInternalServerError, false, "服务器内部错误")
	}
	if exists {
		return respond(c, fiber.StatusBadRequest, false, "该邮箱已被注册")
	}

	return r.issue(c, req.Email)
}

// sendResetCode issues a code for an already-registered address.
func (r *VerificationController) sendResetCode(c *fiber.Ctx) error {
	req := new(sendCodeRequest)
	if err := c.BodyParser(req); err != nil {
		return respond(c, fiber.StatusBadRequest, false, "无效的JSON数据")
	}
	if req.Email == "" {
		return respond(c, fiber.StatusBadRequest, false, "邮箱地址不能为空")
	}

	exists, err := r.UserRepo.EmailExists(c.Context(), req.Email)
	if err != nil {
		return respond(c, fiber.StatusInternalServerError, false, "服务器内部错误")
	}
	if !exists {
		return respond(c, fiber.StatusBadRequest, false, "该邮箱未注册，请检查邮箱地址是否正确")
	}

	return r.issue(c, req.Email)
}

func (r *VerificationController) issue(c *fiber.Ctx, email string) error {
	source, agent := clientInfo(c)

	err := r.Service.Issue(c.Context(), email, source, agent)
	if err == nil {
		return respond(c, fiber.StatusOK, true, fmt.Sprintf("验证码已发送到 %s，请查收您的邮箱。", email))
	}

	var limited *verification.RateLimitedError
	switch {
	case errors.As(err, &limited):
		seconds := int(limited.RetryAfter.Seconds())
		if limited.Scope == verification.ScopePerSource {
			return respond(c, fiber.StatusBadRequest, false, fmt.Sprintf("IP地址发送过于频繁，请等待 %d 秒后重试", seconds))
		}
		return respond(c, fiber.StatusBadRequest, false, fmt.Sprintf("该邮箱发送过于频繁，请等待 %d 秒后重试", seconds))
	case errors.Is(err, verification.ErrSendFailed):
		return respond(c, fiber.StatusBadRequest, false, "验证码发送失败，请稍后重试")
	default:
		return respond(c, fiber.StatusInternalServerError, false, "服务器内部错误")
	}
}

func (r *VerificationController) verifyCode(c *fiber.Ctx) error {
	req := new(verifyCodeRequest)
	if err := c.BodyParser(req); err != nil {
		return respond(c, fiber.StatusBadRequest, false, "无效的JSON数据")
	}
	if req.Email == "" || req.Code == "" {
		return respond(c, fiber.StatusBadRequest, false, "邮箱和验证码不能为空")
	}

	success, message := verifyMessage(r.Service.Verify(c.Context(), req.Email, req.Code))
	if message == "" {
		return respond(c, fiber.StatusInternalServerError, false, "验证失败，请稍后重试")
	}

	return c.JSON(apiResponse{Success: success, Message: message})
}

// verifyMessage translates a verifier result into the user-facing message.
// An empty message means an unexpected storage failure.
func verifyMessage(err error) (bool, string) {
	if err == nil {
		return true, "验证成功"
	}

	var mismatch *verification.MismatchError
	switch {
	case errors.Is(err, verification.ErrNoRecord):
		return false, "验证码不存在，请重新获取"
	case errors.Is(err, verification.ErrExpired):
		return false, "验证码已过期，请重新获取"
	case errors.Is(err, verification.ErrMaxAttempts):
		return false, "验证失败次数过多，请重新获取验证码"
	case errors.As(err, &mismatch):
		return false, fmt.Sprintf("验证码错误，还有%d次机会", mismatch.Remaining)
	default:
		return false, ""
	}
}
