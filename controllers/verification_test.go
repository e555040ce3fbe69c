package controllers

import (
	"errors"
	"testing"

	"github.com/kaobian-ai/kaobian-server/verification"
)

func TestVerifyMessage(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		success bool
		message string
	}{
		{"success", nil, true, "验证成功"},
		{"no record", verification.ErrNoRecord, false, "验证码不存在，请重新获取"},
		{"expired", verification.ErrExpired, false, "验证码已过期，请重新获取"},
		{"max attempts", verification.ErrMaxAttempts, false, "验证失败次数过多，请重新获取验证码"},
		{"mismatch", &verification.MismatchError{Remaining: 3}, false, "验证码错误，还有3次机会"},
		{"storage failure", errors.New("connection reset"), false, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			success, message := verifyMessage(tc.err)
			if success != tc.success || message != tc.message {
				t.Errorf("verifyMessage(%v) = (%v, %q), want (%v, %q)",
					tc.err, success, message, tc.success, tc.message)
			}
		})
	}
}
