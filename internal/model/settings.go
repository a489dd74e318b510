package model

const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"

	SettingThemeMode = "app_theme_mode"
)

// ValidTheme reports whether mode is one of the supported theme modes.
func ValidTheme(mode string) bool {
	switch mode {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}
