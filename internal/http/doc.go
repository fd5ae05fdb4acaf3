// Package http provides optional HTTP adapters for the theming module.
//
// Routes:
//   - Theme assets: /Themes/{theme}/Assets/*
//   - Resolution inspection: {base}/resolve, {base}/css-override
//   - Installed themes: {base}/themes, {base}/themes/{theme}
//
// Host applications can register handlers on their own mux/router as needed.
package http
