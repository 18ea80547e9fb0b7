// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"

	"libman/internal/dag"
	"libman/pkg/isolate"
	"libman/pkg/library"
	"libman/pkg/resolve"
	"libman/pkg/semver"
)

// Diagnose classifies an error from the resolution or loading pipeline
// and wraps it with the matching issue id and concrete suggestions.
// Unrecognized errors come back with a zero Id and nil action so callers
// can fall through to plain rendering.
func Diagnose(err error) (Id, *ActionableError) {
	if err == nil {
		return 0, nil
	}

	var (
		notFound    *resolve.LibraryNotFoundError
		conflict    *resolve.VersionConflictError
		cycle       *dag.CycleError
		format      *semver.FormatError
		symMissing  *isolate.SymbolNotFoundError
		isolateCfg  *isolate.ConfigError
		parseFailed *library.ParseError
	)

	switch {
	case errors.As(err, &notFound):
		ctx := NewErrorContext().
			WithOperation("resolve dependencies").
			WithResource(notFound.Name).
			Wrap(err)
		if len(notFound.Suggestions) > 0 {
			ctx.WithSuggestion("Did you mean: " + strings.Join(notFound.Suggestions, ", "))
		}
		ctx.WithSuggestion("Run 'libman list' to see every discovered library")
		return LibraryNotFoundId, ctx.Build()

	case errors.As(err, &conflict):
		ctx := NewErrorContext().
			WithOperation("resolve dependencies").
			WithResource(conflict.Name).
			Wrap(err)
		for _, rr := range conflict.Ranges {
			ctx.WithSuggestion(fmt.Sprintf("%s wants %s", rr.Requester, rr.Range))
		}
		if conflict.Available != nil {
			ctx.WithSuggestion("Highest installed version is " + conflict.Available.String())
		}
		return VersionConflictId, ctx.Build()

	case errors.As(err, &cycle):
		return DependencyCycleId, NewErrorContext().
			WithOperation("compute load order").
			WithResource(strings.Join(cycle.Cycle, " -> ")).
			WithSuggestion("Break the cycle by extracting the shared code into a third library").
			Wrap(err).
			Build()

	case errors.As(err, &format):
		return ManifestParseErrorId, NewErrorContext().
			WithOperation("parse version").
			WithResource(format.Input).
			WithSuggestion(`Versions are three dot-separated numbers, e.g. "1.2.3"`).
			Wrap(err).
			Build()

	case errors.As(err, &parseFailed):
		return ManifestParseErrorId, NewErrorContext().
			WithOperation("parse manifest").
			WithResource(parseFailed.Path).
			WithSuggestion("Validate the CUE syntax of the manifest").
			Wrap(err).
			Build()

	case errors.Is(err, library.ErrManifestNotFound):
		return ManifestNotFoundId, NewErrorContext().
			WithOperation("load manifest").
			WithSuggestion("Check that the directory contains a " + library.ManifestFileName).
			Wrap(err).
			Build()

	case errors.As(err, &symMissing):
		return SymbolNotFoundId, NewErrorContext().
			WithOperation("resolve symbol").
			WithResource(symMissing.Symbol).
			WithSuggestion("Check the symbol's dotted name against the artifact layout").
			Wrap(err).
			Build()

	case errors.As(err, &isolateCfg):
		return InvalidIsolationConfigId, NewErrorContext().
			WithOperation("build isolation config").
			WithResource(isolateCfg.Field).
			WithSuggestion("Declare at least one artifact location in the manifest").
			Wrap(err).
			Build()
	}

	return 0, nil
}

// RenderDiagnosis renders the issue page for a classified error together
// with its actionable summary. Errors that do not map to an issue render
// as their plain Format output.
func RenderDiagnosis(err error, verbose bool, stylePath string) (string, error) {
	id, action := Diagnose(err)
	if action == nil {
		var plain *ActionableError
		if errors.As(err, &plain) {
			return plain.Format(verbose), nil
		}
		return err.Error(), nil
	}

	out := action.Format(verbose)
	if iss := Get(id); iss != nil {
		page, rerr := iss.Render(stylePath)
		if rerr != nil {
			return out, nil
		}
		out += "\n" + page
	}
	return out, nil
}
