package cli

import (
	"fmt"
	"io"

	"github.com/diillson/bigrivercalc-go/pkg/version"
	"github.com/fatih/color"
)

const banner = `
    ____  _       ____  _                
   / __ )(_)___ _/ __ \(_)   _____  _____
  / __  / / __ '/ /_/ / / | / / _ \/ ___/
 / /_/ / / /_/ / _, _/ /| |/ /  __/ /    
/_____/_/\__, /_/ |_/_/ |___/\___/_/     
        /____/                           `

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(w io.Writer, enableColor bool) {
	red := color.New(color.FgRed, color.Bold)
	blue := color.New(color.FgBlue, color.Bold)
	if enableColor {
		red.EnableColor()
		blue.EnableColor()
	} else {
		red.DisableColor()
		blue.DisableColor()
	}

	fmt.Fprintln(w, red.Sprint(banner))
	fmt.Fprintln(w, blue.Sprintf("AWS Billing Report CLI (v%s)", version.FormatVersion()))
}
