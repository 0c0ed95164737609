package cluster

import "math"

// kdIndex - статический KD-индекс по плоским координатам.
// coords хранит x,y парами; ids[i] - индекс исходного элемента.
type kdIndex struct {
	ids      []int
	coords   []float64
	nodeSize int
}

func newKDIndex(n, nodeSize int, at func(i int) (float64, float64)) *kdIndex {
	idx := &kdIndex{
		ids:      make([]int, n),
		coords:   make([]float64, 2*n),
		nodeSize: max(nodeSize, 2),
	}
	for i := 0; i < n; i++ {
		x, y := at(i)
		idx.ids[i] = i
		idx.coords[2*i] = x
		idx.coords[2*i+1] = y
	}
	idx.sort(0, n-1, 0)
	return idx
}

func (t *kdIndex) sort(left, right, axis int) {
	if right-left <= t.nodeSize {
		return
	}
	m := (left + right) >> 1
	t.selectK(m, left, right, axis)
	t.sort(left, m-1, 1-axis)
	t.sort(m+1, right, 1-axis)
}

// selectK - Floyd-Rivest: k-й элемент по оси встает на место k
func (t *kdIndex) selectK(k, left, right, axis int) {
	for right > left {
		if right-left > 600 {
			n := float64(right - left + 1)
			m := float64(k - left + 1)
			z := math.Log(n)
			s := 0.5 * math.Exp(2*z/3)
			sd := 0.5 * math.Sqrt(z*s*(n-s)/n)
			if m-n/2 < 0 {
				sd = -sd
			}
			newLeft := max(left, int(math.Floor(float64(k)-m*s/n+sd)))
			newRight := min(right, int(math.Floor(float64(k)+(n-m)*s/n+sd)))
			t.selectK(k, newLeft, newRight, axis)
		}

		pivot := t.coords[2*k+axis]
		i, j := left, right

		t.swap(left, k)
		if t.coords[2*right+axis] > pivot {
			t.swap(left, right)
		}

		for i < j {
			t.swap(i, j)
			i++
			j--
			for t.coords[2*i+axis] < pivot {
				i++
			}
			for t.coords[2*j+axis] > pivot {
				j--
			}
		}

		if t.coords[2*left+axis] == pivot {
			t.swap(left, j)
		} else {
			j++
			t.swap(j, right)
		}

		if j <= k {
			left = j + 1
		}
		if k <= j {
			right = j - 1
		}
	}
}

func (t *kdIndex) swap(i, j int) {
	t.ids[i], t.ids[j] = t.ids[j], t.ids[i]
	t.coords[2*i], t.coords[2*j] = t.coords[2*j], t.coords[2*i]
	t.coords[2*i+1], t.coords[2*j+1] = t.coords[2*j+1], t.coords[2*i+1]
}

type span struct{ left, right, axis int }

// rangeQuery возвращает ids внутри прямоугольника (границы включительно)
func (t *kdIndex) rangeQuery(minX, minY, maxX, maxY float64) []int {
	if len(t.ids) == 0 {
		return nil
	}
	var result []int
	stack := []span{{0, len(t.ids) - 1, 0}}

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if s.right-s.left <= t.nodeSize {
			for i := s.left; i <= s.right; i++ {
				x, y := t.coords[2*i], t.coords[2*i+1]
				if x >= minX && x <= maxX && y >= minY && y <= maxY {
					result = append(result, t.ids[i])
				}
			}
			continue
		}

		m := (s.left + s.right) >> 1
		x, y := t.coords[2*m], t.coords[2*m+1]
		if x >= minX && x <= maxX && y >= minY && y <= maxY {
			result = append(result, t.ids[m])
		}

		var goLeft, goRight bool
		if s.axis == 0 {
			goLeft, goRight = minX <= x, maxX >= x
		} else {
			goLeft, goRight = minY <= y, maxY >= y
		}
		if goLeft {
			stack = append(stack, span{s.left, m - 1, 1 - s.axis})
		}
		if goRight {
			stack = append(stack, span{m + 1, s.right, 1 - s.axis})
		}
	}
	return result
}

// within возвращает ids на расстоянии не больше r от (qx, qy)
func (t *kdIndex) within(qx, qy, r float64) []int {
	if len(t.ids) == 0 {
		return nil
	}
	var result []int
	r2 := r * r
	stack := []span{{0, len(t.ids) - 1, 0}}

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if s.right-s.left <= t.nodeSize {
			for i := s.left; i <= s.right; i++ {
				if sqDist(t.coords[2*i], t.coords[2*i+1], qx, qy) <= r2 {
					result = append(result, t.ids[i])
				}
			}
			continue
		}

		m := (s.left + s.right) >> 1
		x, y := t.coords[2*m], t.coords[2*m+1]
		if sqDist(x, y, qx, qy) <= r2 {
			result = append(result, t.ids[m])
		}

		var goLeft, goRight bool
		if s.axis == 0 {
			goLeft, goRight = qx-r <= x, qx+r >= x
		} else {
			goLeft, goRight = qy-r <= y, qy+r >= y
		}
		if goLeft {
			stack = append(stack, span{s.left, m - 1, 1 - s.axis})
		}
		if goRight {
			stack = append(stack, span{m + 1, s.right, 1 - s.axis})
		}
	}
	return result
}

func sqDist(ax, ay, bx, by float64) float64 {
	dx, dy := ax-bx, ay-by
	return dx*dx + dy*dy
}
