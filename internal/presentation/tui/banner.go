package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for the interactive surfaces.
func PrintBanner() {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`  ____            _            `, "#818cf8"},
		{` |  _ \ __ _ _ __| | ___ _   _ `, "#a78bfa"},
		{` | |_) / _` + "`" + ` | '__| |/ _ \ | | |`, "#c084fc"},
		{` |  __/ (_| | |  | |  __/ |_| |`, "#e879f9"},
		{` |_|   \__,_|_|  |_|\___|\__, |`, "#f472b6"},
		{`                         |___/ `, "#fb7185"},
	}

	fmt.Println()
	for _, line := range lines {
		fmt.Println(termenv.String(line.text).Foreground(p.Color(line.color)))
	}
	fmt.Println()
}
