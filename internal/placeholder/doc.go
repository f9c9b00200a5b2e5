// Package placeholder creates empty image files named after random catalog
// titles, for exercising the rename pass without real images.
package placeholder
