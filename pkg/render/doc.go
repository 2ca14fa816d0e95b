// Package render draws the panels of the fMRI summary figure onto a raster
// canvas.
//
// [Canvas] implements the figure.Renderer interface on top of a gg drawing
// context: the composition engine decides which panel goes into which grid
// region, and this package owns all visual styling (line work, colormaps,
// fonts, annotations).
//
// Panels are drawn in pixel space; grid regions arrive as fractions of the
// figure height and are mapped through the canvas margins. The caller owns
// the canvas exclusively before and after composition and extracts the
// result with [Canvas.Image], [Canvas.EncodePNG] or [Canvas.SavePNG].
package render
