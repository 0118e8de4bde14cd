// Copyright (c) 2026 Songvote contributors.
// Source-available; see LICENSE.

package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/eduring/songvote/models"
	"github.com/eduring/songvote/testutil"
)

func TestReloadConfig(t *testing.T) {
	m, path := testutil.SetupManager(t)
	h := NewAdminHandler(m)

	if tz := m.Active().General.Timezone; tz != "UTC" {
		t.Fatalf("Expected initial timezone UTC, got %s", tz)
	}

	// Change the file on disk; the running config must not move until
	// the reload endpoint is hit.
	testutil.WriteTestConfigFile(t, path, "Europe/Berlin")
	if tz := m.Active().General.Timezone; tz != "UTC" {
		t.Fatalf("Config changed without a reload, timezone = %s", tz)
	}

	req := testutil.MakeFormRequest("POST", "/api/v1/admin/reload_config",
		map[string]string{"token": testutil.TestAdminToken})
	w := httptest.NewRecorder()

	h.ReloadConfig(w, req)

	testutil.AssertStatus(t, w, 200)
	var resp models.ReloadConfigResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Message == "" {
		t.Error("Expected a confirmation message")
	}

	if tz := m.Active().General.Timezone; tz != "Europe/Berlin" {
		t.Errorf("Expected timezone Europe/Berlin after reload, got %s", tz)
	}
}

func TestReloadConfig_BadToken(t *testing.T) {
	m, _ := testutil.SetupManager(t)
	h := NewAdminHandler(m)

	testCases := []struct {
		name  string
		token string
	}{
		{"wrong token", "not-the-admin-token"},
		{"empty token", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			form := map[string]string{}
			if tc.token != "" {
				form["token"] = tc.token
			}
			req := testutil.MakeFormRequest("POST", "/api/v1/admin/reload_config", form)
			w := httptest.NewRecorder()

			h.ReloadConfig(w, req)

			// Bad tokens look exactly like a missing route.
			testutil.AssertStatus(t, w, 404)
		})
	}
}

func TestReloadConfig_BrokenFileKeepsActive(t *testing.T) {
	m, path := testutil.SetupManager(t)
	h := NewAdminHandler(m)

	// An invalid timezone fails validation during reload.
	testutil.WriteTestConfigFile(t, path, "Not/AZone")

	req := testutil.MakeFormRequest("POST", "/api/v1/admin/reload_config",
		map[string]string{"token": testutil.TestAdminToken})
	w := httptest.NewRecorder()

	h.ReloadConfig(w, req)

	testutil.AssertStatus(t, w, 500)
	if tz := m.Active().General.Timezone; tz != "UTC" {
		t.Errorf("Failed reload must keep previous config, timezone = %s", tz)
	}
}

func TestColorScheme(t *testing.T) {
	m, _ := testutil.SetupManager(t)
	h := NewAdminHandler(m)

	req := testutil.MakeRequest("GET", "/api/v1/color_scheme", nil, nil)
	w := httptest.NewRecorder()

	h.ColorScheme(w, req)

	testutil.AssertStatus(t, w, 200)
	var resp models.ColorSchemeResponse
	testutil.AssertJSON(t, w, &resp)

	valid := map[string]bool{"morning": true, "day": true, "evening": true, "night": true}
	if !valid[resp.Scheme] {
		t.Errorf("Unexpected color scheme %q", resp.Scheme)
	}
}

func TestSchemeForHour(t *testing.T) {
	testCases := []struct {
		hour int
		want string
	}{
		{0, "night"},
		{4, "night"},
		{5, "morning"},
		{11, "morning"},
		{12, "day"},
		{15, "day"},
		{16, "evening"},
		{20, "evening"},
		{21, "night"},
		{23, "night"},
	}

	for _, tc := range testCases {
		if got := schemeForHour(tc.hour); got != tc.want {
			t.Errorf("schemeForHour(%d) = %q, want %q", tc.hour, got, tc.want)
		}
	}
}

func TestHealth(t *testing.T) {
	req := testutil.MakeRequest("GET", "/health", nil, nil)
	w := httptest.NewRecorder()

	Health(w, req)

	testutil.AssertStatus(t, w, 200)
	var resp models.HealthResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Status != "ok" {
		t.Errorf("Expected status 'ok', got '%s'", resp.Status)
	}
}
