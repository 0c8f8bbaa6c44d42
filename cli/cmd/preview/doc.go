// Package preview implements an interactive terminal preview of a theme.
//
// The preview lists the widget types declared by the theme, filtered by a
// fuzzy search, and shows every property the selected widget resolves in
// the selected state. Color values are drawn as swatches, and the contrast
// between text-color and background-color is checked against the WCAG AA
// threshold. The view follows a [watch.Watcher], so edits to the theme files
// appear as soon as they are published.
package preview
