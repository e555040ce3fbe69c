package utils

import "testing"

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if !VerifyHash("correct horse battery staple", hash) {
		t.Error("correct password rejected")
	}
	if VerifyHash("wrong password", hash) {
		t.Error("wrong password accepted")
	}
}

func TestVerifyHashMalformed(t *testing.T) {
	if VerifyHash("anything", "not-an-encoded-hash") {
		t.Error("malformed hash verified")
	}
}

func TestFormat(t *testing.T) {
	out := Format("您的验证码是 {{code}}，{{minutes}} 分钟内有效", map[string]string{
		"{{code}}":    "123456",
		"{{minutes}}": "10",
	})

	want := "您的验证码是 123456，10 分钟内有效"
	if out != want {
		t.Errorf("Format = %q, want %q", out, want)
	}
}

func TestIsInList(t *testing.T) {
	list := []string{"basic", "advanced"}

	if idx := IsInList("advanced", &list); idx != 1 {
		t.Errorf("IsInList(advanced) = %d, want 1", idx)
	}
	if idx := IsInList("missing", &list); idx != -1 {
		t.Errorf("IsInList(missing) = %d, want -1", idx)
	}
}
