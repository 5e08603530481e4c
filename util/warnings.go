package util

import (
	"context"
	"io"

	"github.com/fatih/color"
)

type warningsKey struct{}

// AddWarnings returns a context carrying the given warnings in addition to
// any already present.
func AddWarnings(ctx context.Context, warns ...error) context.Context {
	if len(warns) == 0 {
		return ctx
	}

	existing := Warnings(ctx)
	all := make([]error, 0, len(existing)+len(warns))

	all = append(all, existing...)
	all = append(all, warns...)

	return context.WithValue(ctx, warningsKey{}, all)
}

func Warnings(ctx context.Context) []error {
	warns, _ := ctx.Value(warningsKey{}).([]error)
	return warns
}

func PrintWarnings(w io.Writer, warns ...error) {
	printer := color.New(color.FgYellow)

	for _, warn := range warns {
		printer.Fprintf(w, "[WARNING] %v\n", warn)
	}
}
