package server

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/brettbedarf/filetree"
	"github.com/brettbedarf/filetree/internal/util"
)

var ErrNoSources = errors.New("file request has no sources")

// LoadFailure is one manifest entry that could not be added
type LoadFailure struct {
	UUID string
	Path string
	Type filetree.NodeType
	Err  error
}

// LoadReport summarizes a [Namespace.Load] call
type LoadReport struct {
	Dirs     int // directories created
	Files    int // files created
	Failures []LoadFailure
}

// Load adds every directory request and then every file request to the
// namespace. A failing entry is recorded in the report and does not stop the
// load. A directory that already exists is not a failure, so manifests can
// list directories that files also imply.
//
// File content is fetched without holding the namespace lock. Load only
// returns an error if ctx ends; the report then covers what was done so far.
func (ns *Namespace) Load(ctx context.Context, dirs []*filetree.DirCreateRequest, files []*filetree.FileCreateRequest) (*LoadReport, error) {
	logger := util.GetLogger("Namespace.Load").With().Str("namespace", ns.id).Logger()
	report := &LoadReport{}

	fail := func(req filetree.NodeRequest, typ filetree.NodeType, err error) {
		logger.Debug().Err(err).Str("path", req.Path).Str("uuid", req.UUID).Msg("Failed to add request")
		report.Failures = append(report.Failures, LoadFailure{UUID: req.UUID, Path: req.Path, Type: typ, Err: err})
	}

	for _, req := range dirs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		err := ns.InsertDir(req.Path)
		switch {
		case err == nil:
			report.Dirs++
		case errors.Is(err, filetree.ErrAlreadyInTree):
			logger.Trace().Str("path", req.Path).Msg("Directory already exists")
		default:
			fail(req.NodeRequest, filetree.DirNodeType, err)
		}
	}

	for _, req := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		content, err := fetchContent(ctx, req.Sources)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return report, ctxErr
			}
			fail(req.NodeRequest, filetree.FileNodeType, err)
			continue
		}
		if err := ns.InsertFile(req.Path, content); err != nil {
			fail(req.NodeRequest, filetree.FileNodeType, err)
			continue
		}
		report.Files++
	}

	logger.Info().Int("directories", report.Dirs).Int("files", report.Files).
		Int("failures", len(report.Failures)).Msg("Loaded requests")
	return report, nil
}

// fetchContent tries each source in priority order and returns the content
// of the first that succeeds.
func fetchContent(ctx context.Context, sources []filetree.ContentSource) ([]byte, error) {
	logger := util.GetLogger("fetchContent")
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	ordered := slices.Clone(sources)
	slices.SortStableFunc(ordered, func(a, b filetree.ContentSource) int {
		return cmp.Compare(a.Priority, b.Priority)
	})

	var errs []error
	for _, src := range ordered {
		content, err := src.Content(ctx)
		if err == nil {
			return content, nil
		}
		logger.Debug().Err(err).Int("priority", src.Priority).Msg("Source failed, trying next")
		errs = append(errs, fmt.Errorf("source priority %d: %w", src.Priority, err))
		if ctx.Err() != nil {
			break
		}
	}
	return nil, errors.Join(errs...)
}
