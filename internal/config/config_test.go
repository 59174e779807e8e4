package config

import (
	"reflect"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	c, err := FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if c.DefaultProvider != "ollama" || c.DefaultModel != "gemma3:4b" {
		t.Fatalf("unexpected provider defaults %q/%q", c.DefaultProvider, c.DefaultModel)
	}
	if c.AgentTimeout != 2*time.Minute || c.AgentRetries != 3 {
		t.Fatalf("unexpected agent defaults %v/%d", c.AgentTimeout, c.AgentRetries)
	}
	want := []string{"Godfather", "Mafioso", "Innocent:11", "Sheriff", "Doctor"}
	if !reflect.DeepEqual(c.Roles, want) {
		t.Fatalf("expected roles %v, got %v", want, c.Roles)
	}
	if c.FirstDaySpeakRounds != 1 || c.DaySpeakRounds != 3 || c.MaxDays != 30 {
		t.Fatalf("unexpected round defaults %+v", c)
	}
	if c.TranscriptFile != "game_history.txt" || c.Port != "" {
		t.Fatalf("unexpected output defaults %+v", c)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DEFAULT_PROVIDER", "openai")
	t.Setenv("ROLES", "Godfather,Innocent:3,Mayor")
	t.Setenv("AGENT_TIMEOUT", "45s")
	t.Setenv("DAY_SPEAK_ROUNDS", "2")
	t.Setenv("SEED", "42")
	t.Setenv("VOTE_TIE_POLICY", "none")

	c, err := FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if c.DefaultProvider != "openai" || c.AgentTimeout != 45*time.Second || c.DaySpeakRounds != 2 || c.Seed != 42 {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if !reflect.DeepEqual(c.Roles, []string{"Godfather", "Innocent:3", "Mayor"}) {
		t.Fatalf("unexpected roles %v", c.Roles)
	}
	if c.VoteTiePolicy != "none" {
		t.Fatalf("unexpected tie policy %q", c.VoteTiePolicy)
	}
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	t.Setenv("MAX_DAYS", "-1")
	if _, err := FromEnv(); err == nil {
		t.Fatal("expected error for negative MAX_DAYS")
	}
	t.Setenv("MAX_DAYS", "10")
	t.Setenv("DAY_SPEAK_ROUNDS", "lots")
	if _, err := FromEnv(); err == nil {
		t.Fatal("expected error for a non-numeric value")
	}
}
