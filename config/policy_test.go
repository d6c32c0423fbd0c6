package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadSessionPolicyDefaults(t *testing.T) {
	os.Unsetenv("SESSION_INACTIVITY_THRESHOLD")
	os.Unsetenv("SESSION_MAX_DURATION")

	policy := LoadSessionPolicy()
	if policy.InactivityThreshold != 2*time.Hour {
		t.Errorf("InactivityThreshold = %v, want 2h", policy.InactivityThreshold)
	}
	if policy.MaxDuration != 12*time.Hour {
		t.Errorf("MaxDuration = %v, want 12h", policy.MaxDuration)
	}
}

func TestLoadSessionPolicyFromEnv(t *testing.T) {
	os.Setenv("SESSION_INACTIVITY_THRESHOLD", "30m")
	os.Setenv("SESSION_MAX_DURATION", "24h")
	defer os.Unsetenv("SESSION_INACTIVITY_THRESHOLD")
	defer os.Unsetenv("SESSION_MAX_DURATION")

	policy := LoadSessionPolicy()
	if policy.InactivityThreshold != 30*time.Minute {
		t.Errorf("InactivityThreshold = %v, want 30m", policy.InactivityThreshold)
	}
	if policy.MaxDuration != 24*time.Hour {
		t.Errorf("MaxDuration = %v, want 24h", policy.MaxDuration)
	}
}

func TestStepsForKnownType(t *testing.T) {
	policy := LoadThreatPolicy()

	steps := policy.StepsFor("brute_force")
	want := []string{"block IP", "notify users", "require MFA"}
	if len(steps) != len(want) {
		t.Fatalf("StepsFor(brute_force) returned %d steps, want %d", len(steps), len(want))
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Errorf("step[%d] = %q, want %q", i, steps[i], want[i])
		}
	}
}

func TestStepsForUnknownTypeFallsBack(t *testing.T) {
	policy := LoadThreatPolicy()

	steps := policy.StepsFor("zero_day_nobody_heard_of")
	if len(steps) == 0 {
		t.Fatal("StepsFor returned no fallback steps")
	}
	if steps[0] != "investigate" {
		t.Errorf("fallback step[0] = %q, want %q", steps[0], "investigate")
	}
}

func TestStepsForReturnsCopy(t *testing.T) {
	policy := LoadThreatPolicy()

	steps := policy.StepsFor("brute_force")
	steps[0] = "mutated"

	again := policy.StepsFor("brute_force")
	if again[0] == "mutated" {
		t.Error("StepsFor leaked its backing slice to the caller")
	}
}

func TestParseTypeSet(t *testing.T) {
	set := parseTypeSet(" brute_force, malware ,,phishing ")
	for _, want := range []string{"brute_force", "malware", "phishing"} {
		if !set[want] {
			t.Errorf("parseTypeSet missed %q", want)
		}
	}
	if len(set) != 3 {
		t.Errorf("parseTypeSet produced %d entries, want 3", len(set))
	}
	if set[""] {
		t.Error("parseTypeSet kept an empty entry")
	}
}

func TestLoadThreatPolicyAutoSetsFromEnv(t *testing.T) {
	os.Setenv("THREAT_AUTO_TERMINATE_TYPES", "malware")
	os.Setenv("THREAT_AUTO_MITIGATE_TYPES", "")
	defer os.Unsetenv("THREAT_AUTO_TERMINATE_TYPES")
	defer os.Unsetenv("THREAT_AUTO_MITIGATE_TYPES")

	policy := LoadThreatPolicy()
	if !policy.AutoTerminateTypes["malware"] {
		t.Error("AutoTerminateTypes did not pick up env override")
	}
	if policy.AutoTerminateTypes["brute_force"] {
		t.Error("AutoTerminateTypes kept the default after an env override")
	}
}
