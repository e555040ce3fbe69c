package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kaobian-ai/kaobian-server/config"
	"github.com/kaobian-ai/kaobian-server/controllers"
	"github.com/kaobian-ai/kaobian-server/maintenance"
	"github.com/kaobian-ai/kaobian-server/providers/mailer"
	"github.com/kaobian-ai/kaobian-server/repos"
	"github.com/kaobian-ai/kaobian-server/server"
	"github.com/kaobian-ai/kaobian-server/utils"
	"github.com/kaobian-ai/kaobian-server/verification"
	mail "github.com/xhit/go-simple-mail/v2"
	"go.uber.org/fx"
)

func main() {

	opts := []fx.Option{}
	opts = append(opts, provideOptions()...)
	opts = append(opts, fx.Invoke(run))

	app := fx.New(opts...)

	app.Run()
}

func provideOptions() []fx.Option {
	return []fx.Option{
		fx.Invoke(utils.ConfigureLogger),
		fx.Provide(config.Parse),
		fx.Invoke(func(config *config.Config) {
			utils.InitSharedConstants(*config.JwtParsedPublicKey)
		}),
		fx.Provide(config.ProvidePostgres),
		fx.Provide(config.ProvideRedis),
		fx.Provide(config.ProvideSmtp),
		fx.Provide(server.CreateServer),
		fx.Provide(utils.GetDefaultRouter),
		fx.Provide(repos.NewUserRepo),
		fx.Provide(repos.NewVerificationRepo),
		fx.Provide(repos.NewSendLedgerRepo),
		fx.Provide(repos.NewJobRepo),
		fx.Provide(repos.NewApplicationRepo),
		fx.Provide(repos.NewBookmarkRepo),
		fx.Provide(repos.NewBrowseHistoryRepo),
		fx.Provide(func(r *repos.VerificationRepo) verification.RecordStore { return r }),
		fx.Provide(func(r *repos.SendLedgerRepo) verification.SendLedger { return r }),
		fx.Provide(func(c *config.Config, client *mail.SMTPClient) verification.Mailer {
			return mailer.NewSmtpMailer(c, client)
		}),
		fx.Provide(func(c *config.Config, ledger verification.SendLedger) *verification.Limiter {
			return verification.NewLimiter(ledger, c.VerificationConfig.RateWindow(), c.VerificationConfig.RateMaxSends)
		}),
		fx.Provide(func(c *config.Config, store verification.RecordStore, limiter *verification.Limiter, mailSender verification.Mailer) *verification.Service {
			return verification.NewService(verification.Config{
				CodeLength:  c.VerificationConfig.CodeLength,
				CodeExpiry:  c.VerificationConfig.CodeExpiry(),
				MaxAttempts: c.VerificationConfig.MaxVerifyAttempts,
				RateWindow:  c.VerificationConfig.RateWindow(),
				MaxSends:    c.VerificationConfig.RateMaxSends,
			}, store, limiter, mailSender)
		}),
		fx.Invoke(controllers.RegisterAuthController),
		fx.Invoke(controllers.RegisterVerificationController),
		fx.Invoke(controllers.RegisterUserController),
		fx.Invoke(controllers.RegisterJobController),
		fx.Invoke(maintenance.RegisterLedgerJanitor),
	}
}

func run(app *fiber.App, config *config.Config, lc fx.Lifecycle) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			errChan := make(chan error)

			go func() {
				errChan <- app.Listen(config.Port)
			}()

			select {
			case err := <-errChan:
				return err
			case <-time.After(100 * time.Millisecond):
				return nil
			}
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}
