package main

import (
	"os"
	"strings"

	fyne "fyne.io/fyne/v2"
)

const maxRecent = 10

// recent files helpers
func recentFiles(prefs fyne.Preferences) []string {
	raw := prefs.StringWithFallback("recentFiles", "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func addRecentFile(prefs fyne.Preferences, path string) {
	list := recentFiles(prefs)
	filtered := []string{path}
	for _, f := range list {
		if f != path && len(filtered) < maxRecent {
			filtered = append(filtered, f)
		}
	}
	prefs.SetString("recentFiles", strings.Join(filtered, "\n"))
}

func clearRecentFiles(prefs fyne.Preferences) {
	prefs.SetString("recentFiles", "")
}

// prefs
func savePrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	prefs.SetString("lastFile", state.sess.Path())
	prefs.SetFloat("pageTime", state.sess.Controller().PageTime())
	prefs.SetBool("crosshair", state.crosshairEnabled)
}

// loadPrefs fills state from the stored preferences. Values given on the
// command line win over stored ones.
func loadPrefs(state *uiState, fileFromFlag string, pageTimeFromFlag bool) string {
	if state == nil || state.app == nil {
		return fileFromFlag
	}
	prefs := state.app.Preferences()
	if !pageTimeFromFlag {
		if pt := prefs.FloatWithFallback("pageTime", 0); pt > 0 {
			if err := state.sess.Controller().SetPageTime(pt); err != nil {
				state.log.Warnf("stored page time %gs: %v", pt, err)
			}
		}
	}
	state.crosshairEnabled = prefs.BoolWithFallback("crosshair", state.crosshairEnabled)
	if fileFromFlag != "" {
		return fileFromFlag
	}
	return prefs.StringWithFallback("lastFile", "")
}
