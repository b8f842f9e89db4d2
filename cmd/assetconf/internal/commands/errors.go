package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/wolfeidau/assetconf/internal/pipeline"
)

var (
	colorRed    = color.New(color.FgRed, color.Bold)
	colorYellow = color.New(color.FgYellow)
	colorGreen  = color.New(color.FgGreen)
	colorBold   = color.New(color.Bold)
)

// ReportConfigError prints a configuration error naming its kind and the
// offending declaration. It returns false, printing nothing, for any other error.
func ReportConfigError(w io.Writer, err error) bool {
	var cfgErr *pipeline.ConfigError
	if !errors.As(err, &cfgErr) {
		return false
	}

	_, _ = fmt.Fprintf(w, "%s %s in %s\n",
		colorRed.Sprint("configuration error:"),
		colorBold.Sprint(cfgErr.Kind),
		colorYellow.Sprintf("%q", cfgErr.Declaration),
	)
	if cfgErr.Detail != "" {
		_, _ = fmt.Fprintf(w, "  %s\n", cfgErr.Detail)
	}
	if cfgErr.Err != nil {
		_, _ = fmt.Fprintf(w, "  %s\n", cfgErr.Err)
	}
	return true
}
