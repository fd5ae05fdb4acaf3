package themes

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

var (
	ErrNoThemeConfigured = errors.New("themes: no theme has been set for this website root, republish the root with a selected theme")
	ErrViewNameRequired  = errors.New("themes: view name required")
	ErrInvalidThemeName  = errors.New("themes: theme name must be a single folder name")
	ErrUnknownCategory   = errors.New("themes: unknown path category")
	ErrAssetPathRequired = errors.New("themes: asset path required")
	ErrAssetTraversal    = errors.New("themes: asset traversal detected")
)

const (
	textCodeThemeNotConfigured = "THEME_NOT_CONFIGURED"
	textCodeThemeNameInvalid   = "THEME_NAME_INVALID"
	textCodeViewNameRequired   = "THEME_VIEW_NAME_REQUIRED"
	textCodeUnknownCategory    = "THEME_UNKNOWN_CATEGORY"
)

// configurationError marks err as a site configuration problem. These are
// never recovered inside the module.
func configurationError(err error, code string) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).
		WithTextCode(code)
}

// IsConfigurationError reports whether err was raised because the site or
// the call site is misconfigured (missing theme, missing view name).
func IsConfigurationError(err error) bool {
	return err != nil && goerrors.IsCategory(err, goerrors.CategoryValidation)
}
