package mask

// FloodFill replaces the 4-connected run of Light values containing
// (x, y) with fill, in place. Seeds outside the field or not Light are
// ignored, so dark line pixels are never overwritten.
//
// The fill works span by span with an explicit stack of seed points, so
// regions of millions of pixels cannot exhaust the call stack.
func FloodFill(field []uint8, w, h, x, y int, fill uint8) {
	if x < 0 || x >= w || y < 0 || y >= h || fill == Light {
		return
	}
	if field[y*w+x] != Light {
		return
	}

	type seed struct{ x, y int }
	stack := make([]seed, 0, 256)
	stack = append(stack, seed{x, y})
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		row := s.y * w
		if field[row+s.x] != Light {
			continue
		}

		left := s.x
		for left > 0 && field[row+left-1] == Light {
			left--
		}
		right := s.x
		for right < w-1 && field[row+right+1] == Light {
			right++
		}
		for px := left; px <= right; px++ {
			field[row+px] = fill
		}

		for px := left; px <= right; px++ {
			if s.y > 0 && field[row-w+px] == Light {
				stack = append(stack, seed{px, s.y - 1})
			}
			if s.y < h-1 && field[row+w+px] == Light {
				stack = append(stack, seed{px, s.y + 1})
			}
		}
	}
}
