package geom

import "testing"

func TestNewRect(t *testing.T) {
	r := NewRect(5, 10, -20, 15)

	if r.X != 5 || r.Y != 10 {
		t.Errorf("NewRect() origin = (%v, %v), want (5, 10)", r.X, r.Y)
	}
	if r.W != 0 {
		t.Errorf("NewRect().W = %v, want 0 for negative width", r.W)
	}
	if r.H != 15 {
		t.Errorf("NewRect().H = %v, want 15", r.H)
	}
}

func TestRect_Edges(t *testing.T) {
	type tc struct {
		rect    Rect
		right   float64
		bottom  float64
		centerY float64
	}

	tests := map[string]tc{
		"standard rect": {
			rect:    NewRect(5, 10, 20, 15),
			right:   25,
			bottom:  25,
			centerY: 17.5,
		},
		"negative position": {
			rect:    NewRect(-5, -5, 10, 10),
			right:   5,
			bottom:  5,
			centerY: 0,
		},
		"zero size": {
			rect:    NewRect(5, 5, 0, 0),
			right:   5,
			bottom:  5,
			centerY: 5,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.rect.Right(); got != tt.right {
				t.Errorf("Right() = %v, want %v", got, tt.right)
			}
			if got := tt.rect.Bottom(); got != tt.bottom {
				t.Errorf("Bottom() = %v, want %v", got, tt.bottom)
			}
			if got := tt.rect.CenterY(); got != tt.centerY {
				t.Errorf("CenterY() = %v, want %v", got, tt.centerY)
			}
		})
	}
}

func TestRect_Offset(t *testing.T) {
	r := NewRect(10, 100, 40, 20)
	got := r.Offset(Scroll{X: 5, Y: 30})
	want := Rect{X: 5, Y: 70, W: 40, H: 20}
	if got != want {
		t.Errorf("Offset() = %+v, want %+v", got, want)
	}
}

func TestRect_InsetY(t *testing.T) {
	type tc struct {
		rect Rect
		d    float64
		want Rect
	}

	tests := map[string]tc{
		"normal": {
			rect: NewRect(0, 0, 100, 300),
			d:    12,
			want: Rect{X: 0, Y: 12, W: 100, H: 276},
		},
		"degenerate": {
			rect: NewRect(0, 0, 100, 10),
			d:    12,
			want: Rect{X: 0, Y: 12, W: 100, H: -14},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.rect.InsetY(tt.d); got != tt.want {
				t.Errorf("InsetY(%v) = %+v, want %+v", tt.d, got, tt.want)
			}
		})
	}
}

func TestRect_Union(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	b := NewRect(5, -5, 10, 10)
	want := Rect{X: 0, Y: -5, W: 15, H: 15}
	if got := a.Union(b); got != want {
		t.Errorf("Union() = %+v, want %+v", got, want)
	}
	if got := (Rect{}).Union(b); got != b {
		t.Errorf("empty.Union(b) = %+v, want %+v", got, b)
	}
}

func TestClamp(t *testing.T) {
	type tc struct {
		v, lo, hi, want float64
	}

	tests := map[string]tc{
		"inside":     {v: 5, lo: 0, hi: 10, want: 5},
		"below":      {v: -1, lo: 0, hi: 10, want: 0},
		"above":      {v: 11, lo: 0, hi: 10, want: 10},
		"degenerate": {v: 5, lo: 10, hi: 0, want: 10},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
				t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
			}
		})
	}
}

func TestPoint_In(t *testing.T) {
	r := NewRect(0, 0, 10, 10)
	if !(Point{X: 0, Y: 0}).In(r) {
		t.Error("top-left corner should be inside")
	}
	if (Point{X: 10, Y: 5}).In(r) {
		t.Error("right edge should be outside")
	}
}
