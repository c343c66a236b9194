package tui

func truncateText(text string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(text)
	if len(r) <= width {
		return text
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// truncatePath keeps the end of a path, where the file name is.
func truncatePath(path string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(path)
	if len(r) <= width {
		return path
	}
	if width <= 3 {
		return string(r[len(r)-width:])
	}
	return "..." + string(r[len(r)-width+3:])
}
