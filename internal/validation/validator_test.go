package validation

import (
	"testing"

	"airwise/internal/boundary"
)

func TestValidator(t *testing.T) {
	v := New("airwise")

	t.Run("System And Object IDs", func(t *testing.T) {
		if !v.ValidSystemID("airwise") {
			t.Error("own systemID should be valid")
		}
		if v.ValidSystemID("other") {
			t.Error("foreign systemID should be rejected")
		}
		if v.ValidSystemID("") {
			t.Error("empty systemID should be rejected")
		}
		if !v.ValidObjectID(boundary.ObjectID{SystemID: "airwise", ObjectID: "abc"}) {
			t.Error("well-formed object id should be valid")
		}
		if v.ValidObjectID(boundary.ObjectID{SystemID: "airwise"}) {
			t.Error("empty objectId should be rejected")
		}
	})

	t.Run("Emails", func(t *testing.T) {
		for _, ok := range []string{"a@b.co", "User.Name+tag@example.org", "SystemOperator@airwise.com"} {
			if !v.ValidEmail(ok) {
				t.Errorf("%s should be a valid email", ok)
			}
		}
		for _, bad := range []string{"", "nope", "a@b", "a b@c.com"} {
			if v.ValidEmail(bad) {
				t.Errorf("%s should be rejected", bad)
			}
		}
	})

	t.Run("Roles", func(t *testing.T) {
		for _, role := range []string{boundary.RoleAdmin, boundary.RoleOperator, boundary.RoleEndUser} {
			if !v.ValidRole(role) {
				t.Errorf("%s should be a valid role", role)
			}
		}
		if v.ValidRole("SUPERUSER") {
			t.Error("unknown role should be rejected")
		}
	})

	t.Run("Pagination", func(t *testing.T) {
		if err := v.CheckPagination(20, 0); err != nil {
			t.Errorf("default pagination should pass: %v", err)
		}
		if err := v.CheckPagination(0, 0); err == nil {
			t.Error("zero size should fail")
		}
		if err := v.CheckPagination(10, -1); err == nil {
			t.Error("negative page should fail")
		}
	})
}

func TestCheckACStateAttrs(t *testing.T) {
	v := New("airwise")

	t.Run("Partial Checks Only Present Fields", func(t *testing.T) {
		if err := v.CheckACStateAttrs(map[string]any{"temperature": 21.0}, true); err != nil {
			t.Errorf("lone temperature should pass in partial mode: %v", err)
		}
		if err := v.CheckACStateAttrs(map[string]any{}, true); err != nil {
			t.Errorf("empty attrs should pass in partial mode: %v", err)
		}
	})

	t.Run("Full Requires Everything", func(t *testing.T) {
		err := v.CheckACStateAttrs(map[string]any{"power": true}, false)
		if err == nil {
			t.Error("full mode with missing fields should fail")
		}
		full := map[string]any{"power": true, "temperature": 22.0, "mode": "COOL", "fanSpeed": "LOW"}
		if err := v.CheckACStateAttrs(full, false); err != nil {
			t.Errorf("complete state should pass: %v", err)
		}
	})

	t.Run("Types And Bounds", func(t *testing.T) {
		if err := v.CheckACStateAttrs(map[string]any{"power": "yes"}, true); err == nil {
			t.Error("non-boolean power should fail")
		}
		if err := v.CheckACStateAttrs(map[string]any{"temperature": "22"}, true); err == nil {
			t.Error("string temperature should fail")
		}
		if err := v.CheckACStateAttrs(map[string]any{"temperature": 15.9}, true); err == nil {
			t.Error("temperature below 16 should fail")
		}
		if err := v.CheckACStateAttrs(map[string]any{"temperature": 30.1}, true); err == nil {
			t.Error("temperature above 30 should fail")
		}
		if err := v.CheckACStateAttrs(map[string]any{"temperature": 16.0}, true); err != nil {
			t.Errorf("16 is inclusive: %v", err)
		}
		if err := v.CheckACStateAttrs(map[string]any{"temperature": 30.0}, true); err != nil {
			t.Errorf("30 is inclusive: %v", err)
		}
		if err := v.CheckACStateAttrs(map[string]any{"mode": "cool"}, true); err == nil {
			t.Error("lowercase mode should fail on the main surface")
		}
		if err := v.CheckACStateAttrs(map[string]any{"fanSpeed": "TURBO"}, true); err == nil {
			t.Error("unknown fan speed should fail")
		}
	})
}

func TestCheckScheduleTaskAttrs(t *testing.T) {
	v := New("airwise")

	base := func() map[string]any {
		return map[string]any{
			"taskName":              "morning cool",
			"action":                "TURN_ON",
			"startTime":             "07:30",
			"endTime":               "09:00",
			"repeat":                "EVERY_WEEKDAY",
			"useCurrentPreferences": true,
		}
	}

	t.Run("Happy Path", func(t *testing.T) {
		if err := v.CheckScheduleTaskAttrs(base()); err != nil {
			t.Errorf("valid attrs should pass: %v", err)
		}
	})

	t.Run("Missing Required", func(t *testing.T) {
		attrs := base()
		delete(attrs, "startTime")
		if err := v.CheckScheduleTaskAttrs(attrs); err == nil {
			t.Error("missing startTime should fail")
		}
	})

	t.Run("Clock Format", func(t *testing.T) {
		attrs := base()
		attrs["startTime"] = "7:3"
		if err := v.CheckScheduleTaskAttrs(attrs); err == nil {
			t.Error("malformed clock should fail")
		}
	})

	t.Run("Turn On Needs Window", func(t *testing.T) {
		attrs := base()
		delete(attrs, "endTime")
		if err := v.CheckScheduleTaskAttrs(attrs); err == nil {
			t.Error("TURN_ON without endTime should fail")
		}
		attrs = base()
		attrs["endTime"] = "07:00"
		if err := v.CheckScheduleTaskAttrs(attrs); err == nil {
			t.Error("endTime before startTime should fail")
		}
	})

	t.Run("Turn Off Ignores Window", func(t *testing.T) {
		attrs := base()
		attrs["action"] = "TURN_OFF"
		delete(attrs, "endTime")
		if err := v.CheckScheduleTaskAttrs(attrs); err != nil {
			t.Errorf("TURN_OFF without endTime should pass: %v", err)
		}
	})

	t.Run("Custom Preferences", func(t *testing.T) {
		attrs := base()
		attrs["useCurrentPreferences"] = false
		if err := v.CheckScheduleTaskAttrs(attrs); err == nil {
			t.Error("custom preferences without values should fail")
		}
		attrs["temperature"] = 23.0
		attrs["mode"] = "HEAT"
		attrs["fanSpeed"] = "MEDIUM"
		if err := v.CheckScheduleTaskAttrs(attrs); err != nil {
			t.Errorf("complete custom preferences should pass: %v", err)
		}
		attrs["temperature"] = 40.0
		if err := v.CheckScheduleTaskAttrs(attrs); err == nil {
			t.Error("out-of-range custom temperature should fail")
		}
	})
}
