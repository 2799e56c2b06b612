package service

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/fruitfulhq/storefront-backend/pkg/util"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOTPEmail = "shopper@example.com"
	testOTPKey   = "otp:shopper@example.com"
	testOTPTTL   = 5 * time.Minute
)

type recordingMailer struct {
	email string
	code  string
}

func (m *recordingMailer) SendOTP(ctx context.Context, email, code string) error {
	m.email = email
	m.code = code
	return nil
}

func TestRequestCode(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mailer := &recordingMailer{}
	svc := NewOTPService(client, mailer, testOTPTTL, 5)

	mock.Regexp().ExpectSet(testOTPKey, `.*"code_hash".*`, testOTPTTL).SetVal("OK")

	err := svc.RequestCode(context.Background(), testOTPEmail)
	require.NoError(t, err)

	assert.Equal(t, testOTPEmail, mailer.email)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), mailer.code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func storedOTPRecord(t *testing.T, code string, attempts int) string {
	t.Helper()
	hash, err := util.HashSecret(code)
	require.NoError(t, err)
	payload, err := json.Marshal(otpRecord{CodeHash: hash, Attempts: attempts})
	require.NoError(t, err)
	return string(payload)
}

func TestVerifyCodeSuccess(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := NewOTPService(client, &recordingMailer{}, testOTPTTL, 5)

	mock.ExpectGet(testOTPKey).SetVal(storedOTPRecord(t, "123456", 0))
	mock.ExpectDel(testOTPKey).SetVal(1)

	err := svc.VerifyCode(context.Background(), testOTPEmail, "123456")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyCodeWrongCodeCountsAttempt(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := NewOTPService(client, &recordingMailer{}, testOTPTTL, 5)

	mock.ExpectGet(testOTPKey).SetVal(storedOTPRecord(t, "123456", 0))
	// The failed attempt is written back without resetting the expiry
	mock.Regexp().ExpectSet(testOTPKey, `.*"attempts":1.*`, redis.KeepTTL).SetVal("OK")

	err := svc.VerifyCode(context.Background(), testOTPEmail, "654321")
	assert.ErrorIs(t, err, ErrOTPCodeInvalid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyCodeWrongCodeStillRejectedWhenAttemptWriteFails(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := NewOTPService(client, &recordingMailer{}, testOTPTTL, 5)

	mock.ExpectGet(testOTPKey).SetVal(storedOTPRecord(t, "123456", 0))
	// The attempt counter write fails; the wrong code is still rejected
	mock.Regexp().ExpectSet(testOTPKey, `.*"attempts":1.*`, redis.KeepTTL).SetErr(errors.New("connection refused"))

	err := svc.VerifyCode(context.Background(), testOTPEmail, "654321")
	assert.ErrorIs(t, err, ErrOTPCodeInvalid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyCodeExpired(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := NewOTPService(client, &recordingMailer{}, testOTPTTL, 5)

	mock.ExpectGet(testOTPKey).RedisNil()

	err := svc.VerifyCode(context.Background(), testOTPEmail, "123456")
	assert.ErrorIs(t, err, ErrOTPCodeExpired)
}

func TestVerifyCodeAttemptsExhausted(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := NewOTPService(client, &recordingMailer{}, testOTPTTL, 5)

	mock.ExpectGet(testOTPKey).SetVal(storedOTPRecord(t, "123456", 5))

	// Even the right code is rejected once attempts run out
	err := svc.VerifyCode(context.Background(), testOTPEmail, "123456")
	assert.ErrorIs(t, err, ErrOTPTooManyAttempts)
}
