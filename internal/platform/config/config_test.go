package config

import (
	"slices"
	"testing"
	"time"

	"astrochat/internal/platform/testkit"
)

func TestPrefixNests(t *testing.T) {
	c := New().Prefix("SERVICE_").Prefix("PGSQL_")
	if got := c.Key("DBURL"); got != "SERVICE_PGSQL_DBURL" {
		t.Fatalf("Key = %q", got)
	}
}

func TestMayScalars(t *testing.T) {
	t.Setenv("QUOTA_DAILY_LIMIT", " 5 ")
	t.Setenv("QUOTA_MAX_ATTEMPTS", "three")
	t.Setenv("CHAT_QUOTA_FAIL_OPEN", "false")
	t.Setenv("CHAT_TIMEOUT", "45s")
	t.Setenv("CHAT_MODEL", "  gemini-1.5-flash ")
	t.Setenv("CHAT_RETRY", "maybe")

	q := New().Prefix("QUOTA_")
	ch := New().Prefix("CHAT_")

	if got := q.MayInt("DAILY_LIMIT", 3); got != 5 {
		t.Fatalf("MayInt = %d", got)
	}
	if got := q.MayInt("MAX_ATTEMPTS", 4); got != 4 {
		t.Fatalf("bad int should fall back, got %d", got)
	}
	if got := q.MayInt("UNSET", 7); got != 7 {
		t.Fatalf("unset int = %d", got)
	}
	if ch.MayBool("QUOTA_FAIL_OPEN", true) {
		t.Fatal("MayBool ignored false")
	}
	if !ch.MayBool("RETRY", true) {
		t.Fatal("bad bool should fall back")
	}
	if got := ch.MayDuration("TIMEOUT", time.Second); got != 45*time.Second {
		t.Fatalf("MayDuration = %v", got)
	}
	if got := ch.MayDuration("UNSET", 2*time.Second); got != 2*time.Second {
		t.Fatalf("unset duration = %v", got)
	}
	if got := ch.MayString("MODEL", "x"); got != "gemini-1.5-flash" {
		t.Fatalf("MayString = %q", got)
	}
	if got := ch.MayString("UNSET", "fallback"); got != "fallback" {
		t.Fatalf("unset string = %q", got)
	}
}

func TestMayCSV(t *testing.T) {
	def := []string{"http://localhost:3000"}
	tests := []struct {
		name string
		env  string
		want []string
	}{
		{"unset", "", def},
		{"blanks only", " , ,", def},
		{"trimmed", " https://astro.example , https://www.astro.example ,", []string{"https://astro.example", "https://www.astro.example"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("CORE_API_CORS_ORIGINS", tc.env)
			got := New().Prefix("CORE_API_").MayCSV("CORS_ORIGINS", def)
			if !slices.Equal(got, tc.want) {
				t.Fatalf("MayCSV = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("QUOTA_")
	allowed := []string{"auto", "postgres", "sqlite", "memory"}

	t.Setenv("QUOTA_STORE", "SQLite")
	if got := c.MayEnum("STORE", "auto", allowed...); got != "sqlite" {
		t.Fatalf("MayEnum = %q", got)
	}

	t.Setenv("QUOTA_STORE", "")
	if got := c.MayEnum("STORE", "auto", allowed...); got != "auto" {
		t.Fatalf("default = %q", got)
	}
	if got := c.MayEnum("STORE", "", allowed...); got != "" {
		t.Fatalf("empty default = %q", got)
	}

	t.Setenv("QUOTA_STORE", "redis")
	testkit.MustPanic(t, func() { c.MayEnum("STORE", "auto", allowed...) })
}
