package ui

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

const bannerText = `
  ____               _  ____                            _   _
 / ___|_ __ __ _  __| |/ ___|___  _ __  _ __   ___  ___| |_(_) ___  _ __
| |  _| '__/ _' |/ _' | |   / _ \| '_ \| '_ \ / _ \/ __| __| |/ _ \| '_ \
| |_| | | | (_| | (_| | |__| (_) | | | | | | |  __/ (__| |_| | (_) | | | |
 \____|_|  \__,_|\__,_|\____\___/|_| |_|_| |_|\___|\___|\__|_|\___/|_| |_|
`

// ColorizeText fades the text between two random colors
func ColorizeText(text string) string {
	random := rand.New(rand.NewSource(time.Now().UnixNano()))

	startColor := pterm.NewRGB(uint8(random.Intn(256)), uint8(random.Intn(256)), uint8(random.Intn(256)))
	endColor := pterm.NewRGB(uint8(random.Intn(256)), uint8(random.Intn(256)), uint8(random.Intn(256)))

	chars := strings.Split(text, "")
	half := max(len(chars)/2, 1)

	var b strings.Builder
	for i, ch := range chars {
		b.WriteString(startColor.Fade(0, float32(len(chars)), float32(i%half), endColor).Sprint(ch))
	}
	return b.String()
}

// PrintBanner displays the application banner
func PrintBanner(silence bool) {
	if silence {
		return
	}
	fmt.Println(ColorizeText(bannerText))
}
