package pipeline

import "go.trai.ch/zerr"

// ErrNoShortlist is returned when replacements are requested before any build.
var ErrNoShortlist = zerr.New("no shortlist available, build a squad first")

// ErrNoCatalog is returned when catalog search is requested without a catalog loader.
var ErrNoCatalog = zerr.New("catalog search is not configured")
