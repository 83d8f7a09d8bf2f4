package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("password stored in plain text")
	}
	if !CheckPassword("hunter22", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("wrong", hash) {
		t.Error("wrong password accepted")
	}
}

func TestStringToUint64(t *testing.T) {
	cases := []struct {
		in   string
		want uint64
	}{
		{"42", 42},
		{"0", 0},
		{"", 0},
		{"abc", 0},
		{"-5", 0},
	}
	for _, c := range cases {
		if got := StringToUint64(c.in); got != c.want {
			t.Errorf("StringToUint64(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}
