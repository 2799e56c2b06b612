package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/fruitfulhq/storefront-backend/pkg/logger"
	"github.com/fruitfulhq/storefront-backend/pkg/util"
	"github.com/redis/go-redis/v9"
)

var (
	ErrOTPCodeInvalid     = errors.New("invalid verification code")
	ErrOTPCodeExpired     = errors.New("verification code expired")
	ErrOTPTooManyAttempts = errors.New("too many verification attempts")
)

// Mailer delivers a verification code to a shopper. The SMTP mailer is
// the production implementation; tests use a recording fake.
type Mailer interface {
	SendOTP(ctx context.Context, email, code string) error
}

// OTPService issues and verifies one-time codes for checkout-adjacent
// verification. Only a bcrypt hash of the code is stored, in Redis, with
// a TTL; verification consumes the code.
type OTPService interface {
	RequestCode(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) error
}

type otpService struct {
	redis       *redis.Client
	mailer      Mailer
	codeTTL     time.Duration
	maxAttempts int
}

func NewOTPService(redisClient *redis.Client, mailer Mailer, codeTTL time.Duration, maxAttempts int) OTPService {
	return &otpService{
		redis:       redisClient,
		mailer:      mailer,
		codeTTL:     codeTTL,
		maxAttempts: maxAttempts,
	}
}

type otpRecord struct {
	CodeHash string `json:"code_hash"`
	Attempts int    `json:"attempts"`
}

func otpKey(email string) string {
	return fmt.Sprintf("otp:%s", email)
}

// generateCode returns a random 6-digit code
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (s *otpService) RequestCode(ctx context.Context, email string) error {
	code, err := generateCode()
	if err != nil {
		return err
	}

	hash, err := util.HashSecret(code)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(otpRecord{CodeHash: hash})
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, otpKey(email), payload, s.codeTTL).Err(); err != nil {
		logger.Error("Failed to store verification code", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	if err := s.mailer.SendOTP(ctx, email, code); err != nil {
		logger.Error("Failed to send verification code", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	logger.Info("Verification code issued", map[string]interface{}{
		"email": email,
		"ttl":   s.codeTTL.String(),
	})
	return nil
}

func (s *otpService) VerifyCode(ctx context.Context, email, code string) error {
	key := otpKey(email)

	raw, err := s.redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrOTPCodeExpired
	}
	if err != nil {
		return err
	}

	var record otpRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return ErrOTPCodeExpired
	}

	if record.Attempts >= s.maxAttempts {
		logger.Warn("Verification attempts exhausted", map[string]interface{}{
			"email": email,
		})
		return ErrOTPTooManyAttempts
	}

	if !util.VerifySecret(record.CodeHash, code) {
		record.Attempts++
		payload, err := json.Marshal(record)
		if err == nil {
			// Preserve the original expiry window
			err = s.redis.Set(ctx, key, payload, redis.KeepTTL).Err()
		}
		if err != nil {
			logger.Warn("Failed to record failed verification attempt", map[string]interface{}{
				"email": email,
				"error": err.Error(),
			})
		}
		return ErrOTPCodeInvalid
	}

	// Success consumes the code
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		logger.Warn("Failed to consume verification code", map[string]interface{}{
			"email": email,
			"error": err.Error(),
		})
	}

	logger.Info("Verification code accepted", map[string]interface{}{
		"email": email,
	})
	return nil
}
