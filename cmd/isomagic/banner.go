package main

import (
	"fmt"
	"io"
)

const bannerArt = `
██╗███████╗ ██████╗ ███╗   ███╗ █████╗  ██████╗ ██╗ ██████╗
██║██╔════╝██╔═══██╗████╗ ████║██╔══██╗██╔════╝ ██║██╔════╝
██║███████╗██║   ██║██╔████╔██║███████║██║  ███╗██║██║
██║╚════██║██║   ██║██║╚██╔╝██║██╔══██║██║   ██║██║██║
██║███████║╚██████╔╝██║ ╚═╝ ██║██║  ██║╚██████╔╝██║╚██████╗
╚═╝╚══════╝ ╚═════╝ ╚═╝     ╚═╝╚═╝  ╚═╝ ╚═════╝ ╚═╝ ╚═════╝
`

const ansiBrightMagenta = "\x1b[1;95m"

// printBanner writes the ASCII art banner, in magenta when colorize is set.
func printBanner(w io.Writer, colorize bool) {
	if colorize {
		fmt.Fprint(w, ansiBrightMagenta)
	}
	fmt.Fprint(w, bannerArt)
	if colorize {
		fmt.Fprint(w, ansiReset)
	}
	fmt.Fprintln(w)
}
