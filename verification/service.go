package verification

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Service is the code issuer and verifier.
type Service struct {
	config  Config
	store   RecordStore
	limiter *Limiter
	mailer  Mailer
	now     func() time.Time
}

func NewService(config Config, store RecordStore, limiter *Limiter, mailer Mailer) *Service {
	return &Service{
		config:  config,
		store:   store,
		limiter: limiter,
		mailer:  mailer,
		now:     time.Now,
	}
}

// Issue generates a fresh code for email and dispatches it. The record is
// upserted before dispatch so a retried issuance always has a record to
// overwrite; the send is only counted toward the ledger after a confirmed
// dispatch.
func (s *Service) Issue(ctx context.Context, email, sourceAddress, clientInfo string) error {
	decision, err := s.limiter.CanSend(ctx, email, sourceAddress)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		log.Warn().Str("email", email).Str("source", sourceAddress).
			Str("scope", decision.Scope).Msg("Verification send throttled")
		return &RateLimitedError{Scope: decision.Scope, RetryAfter: decision.RetryAfter}
	}

	code := GenerateCode(s.config.CodeLength)

	if _, err := s.store.Upsert(ctx, email, code); err != nil {
		return err
	}

	if err := s.mailer.SendCode(ctx, email, code, s.config.CodeExpiry); err != nil {
		log.Error().Err(err).Str("email", email).Msg("Verification mail dispatch failed")
		return ErrSendFailed
	}

	if err := s.limiter.RecordSend(ctx, email, sourceAddress, clientInfo); err != nil {
		return err
	}

	log.Info().Str("email", email).Str("source", sourceAddress).Msg("Verification code sent")
	return nil
}

// Verify checks a submitted code against the stored record.
//
// The record moves NoRecord -> Active -> {Verified, Expired, MaxAttempts};
// only a fresh Issue re-enters Active. An expiry probe does not increment the
// attempt counter.
func (s *Service) Verify(ctx context.Context, email, submitted string) error {
	record, err := s.store.Get(ctx, email)
	if err != nil {
		return err
	}

	if record.Expired(s.now(), s.config.CodeExpiry) {
		return ErrExpired
	}

	if record.Attempts >= s.config.MaxAttempts {
		return ErrMaxAttempts
	}

	if record.Code == submitted {
		if err := s.store.MarkVerified(ctx, email); err != nil {
			return err
		}
		return nil
	}

	attempts, err := s.store.IncrementAttempts(ctx, email)
	if err != nil {
		return err
	}

	return &MismatchError{Remaining: s.config.MaxAttempts - attempts}
}

// Invalidate drops the record for email, e.g. after a completed password
// reset. Absent records are not an error.
func (s *Service) Invalidate(ctx context.Context, email string) error {
	return s.store.Delete(ctx, email)
}
