package tui

func (m *Model) handleScroll(key string, speed float64) {
	var dx, dy float64
	switch key {
	case "h", "left", "H", "shift+left":
		dx = -speed
	case "l", "right", "L", "shift+right":
		dx = speed
	case "k", "up", "K", "shift+up":
		dy = -speed
	case "j", "down", "J", "shift+down":
		dy = speed
	}

	step := m.cfg.Viewer.ScrollStep
	dx *= step * m.cfg.Viewer.CellWidth
	dy *= step * m.cfg.Viewer.CellHeight

	if c := m.focused(); c != nil {
		if !m.scene.ScrollBy(c, dx, dy) {
			return
		}
	} else if !m.scene.ScrollWindowBy(dx, dy) {
		return
	}
	m.refresh()
}

func (m *Model) scrollWindow(speed float64) {
	dy := speed * m.cfg.Viewer.ScrollStep * m.cfg.Viewer.CellHeight
	if m.scene.ScrollWindowBy(0, dy) {
		m.refresh()
	}
}

func (m *Model) cycleFocus(delta int) {
	n := len(m.scene.ScrollContainers())
	if n == 0 {
		m.focus = -1
		return
	}
	// -1 (the window) is part of the cycle.
	m.focus = (m.focus+1+delta+n+1)%(n+1) - 1
}

func getMoveSpeed(key string) float64 {
	switch key {
	case "H", "L", "K", "J", "W", "S", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}
