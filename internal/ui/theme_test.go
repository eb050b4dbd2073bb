package ui

import "testing"

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames() = %v, want 3 themes", names)
	}
	for _, name := range names {
		if got := GetTheme(name).Name; got != name {
			t.Fatalf("GetTheme(%q).Name = %q", name, got)
		}
	}
}

func TestGetTheme_UnknownFallsBack(t *testing.T) {
	if got := GetTheme("Dracula").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(unknown) = %q, want Nightfox", got)
	}
}

func TestNextTheme_Cycles(t *testing.T) {
	seen := map[string]bool{}
	name := "Nightfox"
	for range ThemeNames() {
		seen[name] = true
		name = NextTheme(name)
	}
	if name != "Nightfox" || len(seen) != len(ThemeNames()) {
		t.Fatalf("NextTheme did not cycle through every theme: seen %v, ended at %q", seen, name)
	}
	if got := NextTheme("missing"); got != ThemeNames()[0] {
		t.Fatalf("NextTheme(missing) = %q, want %q", got, ThemeNames()[0])
	}
}

func TestThemesDefineEveryMark(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, mark := range []string{markFavorite, markWatchlist, markRated, markUnknown} {
			if th.MarkColors[mark] == "" {
				t.Fatalf("theme %s has no color for %q", name, mark)
			}
		}
	}
}

func TestMarkStyle_FallsBackToMuted(t *testing.T) {
	th := GetTheme("Slate")
	styles := th.Styles()

	got := styles.MarkStyle("nope").GetForeground()
	want := styles.MutedText.GetForeground()
	if got != want {
		t.Fatalf("MarkStyle(unknown) foreground = %v, want muted %v", got, want)
	}
	if fav := styles.MarkStyle(markFavorite).GetForeground(); fav == want {
		t.Fatalf("MarkStyle(favorite) should not use the muted color")
	}
}
