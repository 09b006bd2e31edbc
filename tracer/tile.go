package tracer

import "image"

// The default tile edge length in pixels.
const TileSize = 64

// Split a w x h frame into tiles of size x size pixels. The last tile in
// each row and column absorbs the remainder, so tiles along the right and
// bottom edges may be up to 2*size-1 pixels wide. An axis shorter than size
// is covered by a single tile. Tiles are returned in row-major order.
func Tiles(w, h, size int) []image.Rectangle {
	if w <= 0 || h <= 0 || size <= 0 {
		return nil
	}

	cols := max(w/size, 1)
	rows := max(h/size, 1)
	tiles := make([]image.Rectangle, 0, rows*cols)
	for row := 0; row < rows; row++ {
		y0 := row * size
		y1 := y0 + size
		if row == rows-1 {
			y1 = h
		}
		for col := 0; col < cols; col++ {
			x0 := col * size
			x1 := x0 + size
			if col == cols-1 {
				x1 = w
			}
			tiles = append(tiles, image.Rect(x0, y0, x1, y1))
		}
	}
	return tiles
}
