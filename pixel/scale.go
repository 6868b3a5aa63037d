package pixel

// Scale returns a copy of b resampled to width by height using nearest
// neighbor selection. Each axis is stepped with an integer error term so
// source columns and scanlines are repeated or skipped without any floating
// point. b itself is left untouched.
func (b *Buffer) Scale(width, height int) (*Buffer, error) {
	if err := ValidDimensions(width, height); err != nil {
		return nil, err
	}

	dst, err := New(width, height, b.BytesPerPixel)
	if err != nil {
		return nil, err
	}

	bpp := b.BytesPerPixel
	oldStride, newStride := b.Stride(), dst.Stride()

	var ny, errY int
	for y := 0; y < b.Height; y++ {
		src := b.Pix[y*oldStride : (y+1)*oldStride]
		line := dst.Pix[ny*newStride : (ny+1)*newStride]

		var nx, errX int
		for x := 0; x < b.Width; x++ {
			errX += width
			for errX >= b.Width {
				errX -= b.Width
				copy(line[nx*bpp:(nx+1)*bpp], src[x*bpp:(x+1)*bpp])
				nx++
			}
		}

		errY += height
		for errY >= b.Height {
			// Stretching by more than one scanline, repeat the one
			// just written
			if errY >= b.Height<<1 {
				copy(dst.Pix[(ny+1)*newStride:(ny+2)*newStride], dst.Pix[ny*newStride:(ny+1)*newStride])
			}
			errY -= b.Height
			ny++
		}
	}

	return dst, nil
}
