package system

import (
	"os"
	"testing"
	"time"
)

func TestInitCmd(t *testing.T) {
	env := newTestEnv(t, time.Now())

	if err := (&InitCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := os.Stat(env.dbPath); err != nil {
		t.Fatalf("database file not created: %v", err)
	}

	r, ok, err := env.ctx.Journal.Reminder().Current()
	if err != nil || !ok {
		t.Fatalf("reminder after init = %v, %v", ok, err)
	}
	if !r.Active {
		t.Errorf("reminder not active after init: %+v", r)
	}
}

func TestInitCmd_Idempotent(t *testing.T) {
	env := newTestEnv(t, time.Now())

	if err := (&InitCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	settings, _ := env.store.GetSettings()
	settings.Timezone = "Asia/Tokyo"
	if err := env.store.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}

	if err := (&InitCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("second init failed: %v", err)
	}
	got, err := env.store.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if got.Timezone != "Asia/Tokyo" {
		t.Errorf("re-init overwrote settings: timezone = %q", got.Timezone)
	}
}

func TestInitCmd_Force(t *testing.T) {
	env := newTestEnv(t, time.Now())

	if err := (&InitCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	settings, _ := env.store.GetSettings()
	settings.Timezone = "Asia/Tokyo"
	if err := env.store.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}

	if err := (&InitCmd{Force: true}).Run(env.ctx); err != nil {
		t.Fatalf("forced init failed: %v", err)
	}
	got, err := env.store.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if got.Timezone == "Asia/Tokyo" {
		t.Error("--force kept old settings")
	}
}
