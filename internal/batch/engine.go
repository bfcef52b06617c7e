// Package batch runs the upload reconciliation loop: resolve each
// submission file to a roster row, upload it, and write the link back.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"subsync/internal/config"
	"subsync/internal/drive"
	"subsync/internal/groups"
	"subsync/internal/logging"
	"subsync/internal/matchcache"
	"subsync/internal/resolve"
	"subsync/internal/roster"
	"subsync/internal/runstore"
	"subsync/internal/sheets"
)

// Engine wires the roster service, the uploader, and the run store into one
// reconciliation run.
type Engine struct {
	cfg     *config.Config
	roster  sheets.RosterService
	storage drive.Uploader
	store   *runstore.Store
	logger  *slog.Logger
	mode    resolve.Mode
}

// Options carries the engine collaborators. Mode forces a cascade; when
// empty the mode is selected per run by whether the groups file yields any
// memberships.
type Options struct {
	Config  *config.Config
	Roster  sheets.RosterService
	Storage drive.Uploader
	Store   *runstore.Store
	Logger  *slog.Logger
	Mode    resolve.Mode
}

// New builds an engine. The run store is optional; without it runs are not
// recorded in history.
func New(opts Options) (*Engine, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("config required")
	}
	if opts.Roster == nil {
		return nil, fmt.Errorf("roster service required")
	}
	if opts.Storage == nil {
		return nil, fmt.Errorf("uploader required")
	}
	return &Engine{
		cfg:     opts.Config,
		roster:  opts.Roster,
		storage: opts.Storage,
		store:   opts.Store,
		logger:  logging.NewComponentLogger(opts.Logger, "batch"),
		mode:    opts.Mode,
	}, nil
}

// Run reconciles every file in folder against the roster. Files that fail
// individually are recorded and the run continues; only roster fetch
// failures or a concurrent run abort the whole operation.
func (e *Engine) Run(ctx context.Context, folder string) (*Summary, error) {
	folder, err := config.ExpandPath(folder)
	if err != nil {
		return nil, err
	}
	if err := e.cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	lock := flock.New(filepath.Join(e.cfg.Paths.DataDir, "subsync.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another upload run is already in progress")
	}
	defer func() { _ = lock.Unlock() }()

	runID := uuid.NewString()
	runLogger := e.logger.With(logging.String(logging.FieldRunID, runID))

	// The groups and cache files often sit beside the submissions; they are
	// inputs, not uploads.
	exclude := map[string]struct{}{}
	for _, aux := range []string{e.cfg.Matching.GroupsFile, e.cfg.Matching.MatchCacheFile} {
		if aux != "" {
			exclude[filepath.Base(aux)] = struct{}{}
		}
	}
	filenames, err := listSubmissions(folder, exclude)
	if err != nil {
		return nil, err
	}

	index, cache, err := e.loadAuxiliary(folder, runLogger)
	if err != nil {
		return nil, err
	}

	// Mode is decided once per run: memberships present means group mode.
	mode := e.mode
	if mode == "" {
		mode = resolve.ModeIndividual
		if index.Len() > 0 {
			mode = resolve.ModeGroup
		}
	}
	logger := runLogger.With(logging.String(logging.FieldMode, string(mode)))
	logger.Info("starting upload run", logging.String("folder", folder))

	ros, err := e.fetchRoster(ctx)
	if err != nil {
		return nil, err
	}

	resolver := resolve.New(resolve.Options{
		Mode:       mode,
		Roster:     ros,
		Cache:      cache,
		Groups:     index,
		IDPrefixes: e.cfg.Matching.IDPrefixes,
		Logger:     logger,
	})

	if e.store != nil {
		if err := e.store.BeginRun(ctx, runID, string(mode), folder); err != nil {
			return nil, err
		}
	}

	summary := &Summary{
		RunID:  runID,
		Mode:   string(mode),
		Folder: folder,
		Config: e.cfg,
		Date:   time.Now(),
	}

	for _, filename := range filenames {
		summary.TotalFiles++
		outcome := e.processFile(ctx, filename, folder, ros, resolver, logger)
		summary.record(outcome)
		if e.store != nil {
			outcome.RunID = runID
			if err := e.store.RecordOutcome(ctx, outcome); err != nil {
				logger.Warn("record outcome failed", logging.Args(logging.Error(err))...)
			}
		}
	}

	if e.store != nil {
		if err := e.store.FinishRun(ctx, runstore.Run{
			ID:         runID,
			TotalFiles: summary.TotalFiles,
			Uploaded:   summary.Uploaded,
			Skipped:    summary.Skipped,
			Unmatched:  summary.Unmatched,
			Failed:     summary.Failed,
		}); err != nil {
			logger.Warn("finish run failed", logging.Args(logging.Error(err))...)
		}
	}

	if path := e.cfg.Paths.SummaryFile; path != "" {
		if err := WriteSummary(path, summary); err != nil {
			logger.Warn("write summary failed",
				logging.Args(logging.Error(err), logging.String("path", path))...)
		}
	}

	logger.Info("upload run finished",
		logging.Int("total", summary.TotalFiles),
		logging.Int("uploaded", summary.Uploaded),
		logging.Int("skipped", summary.Skipped),
		logging.Int("unmatched", summary.Unmatched),
		logging.Int("failed", summary.Failed),
	)
	return summary, nil
}

func (e *Engine) processFile(ctx context.Context, filename, folder string, ros *roster.Roster, resolver *resolve.Resolver, logger *slog.Logger) runstore.FileOutcome {
	outcome := runstore.FileOutcome{Filename: filename, Method: string(resolve.MethodNone)}

	result := resolver.Resolve(filename)
	if !result.Resolved() {
		outcome.Status = runstore.StatusUnmatched
		outcome.Error = result.Reason
		logger.Info("no roster row for file",
			logging.String(logging.FieldFilename, filename),
			logging.String("reason", result.Reason),
		)
		return outcome
	}
	outcome.Method = string(result.Method)
	outcome.SheetRow = ros.SheetRow(result.Row)

	// Idempotency gate: a populated link cell means this row was handled
	// by an earlier run.
	if ros.Link(result.Row) != "" {
		outcome.Status = runstore.StatusSkipped
		logger.Info("link already present",
			logging.String(logging.FieldFilename, filename),
			logging.Int(logging.FieldRow, outcome.SheetRow),
		)
		return outcome
	}

	// A claimed row gets its identity written before any upload so a
	// failure cannot leave a link on an anonymous row.
	if result.Claimed && result.NewLabel != "" {
		if err := e.roster.UpdateCell(ctx, e.cfg.Sheet.IDColumn, outcome.SheetRow, result.NewLabel); err != nil {
			outcome.Status = runstore.StatusFailed
			outcome.Error = fmt.Sprintf("write id cell: %v", err)
			logger.Error("id cell write failed",
				logging.String(logging.FieldFilename, filename),
				logging.Error(err),
			)
			return outcome
		}
	}

	uploadCtx, cancel := context.WithTimeout(ctx, time.Duration(e.cfg.Storage.UploadTimeoutSeconds)*time.Second)
	defer cancel()

	fileID, err := e.storage.Upload(uploadCtx, filepath.Join(folder, filename), filename)
	if err != nil {
		outcome.Status = runstore.StatusFailed
		outcome.Error = fmt.Sprintf("upload: %v", err)
		logger.Error("upload failed", logging.String(logging.FieldFilename, filename), logging.Error(err))
		return outcome
	}
	if err := e.storage.ShareReader(ctx, fileID); err != nil {
		outcome.Status = runstore.StatusFailed
		outcome.Error = fmt.Sprintf("share: %v", err)
		logger.Error("share failed", logging.String(logging.FieldFilename, filename), logging.Error(err))
		return outcome
	}

	formula := linkFormula(e.storage.ViewLink(fileID), e.cfg.Storage.LinkLabel)
	if err := e.roster.UpdateCell(ctx, e.cfg.Sheet.LinkColumn, outcome.SheetRow, formula); err != nil {
		outcome.Status = runstore.StatusFailed
		outcome.Error = fmt.Sprintf("write link cell: %v", err)
		logger.Error("link cell write failed", logging.String(logging.FieldFilename, filename), logging.Error(err))
		return outcome
	}

	// Later files resolving to the same row must see the link in this run.
	ros.SetLink(result.Row, formula)

	outcome.Status = runstore.StatusUploaded
	logger.Info("uploaded",
		logging.String(logging.FieldFilename, filename),
		logging.Int(logging.FieldRow, outcome.SheetRow),
		logging.String(logging.FieldMethod, string(result.Method)),
	)
	return outcome
}

func (e *Engine) loadAuxiliary(folder string, logger *slog.Logger) (*groups.Index, *matchcache.Store, error) {
	var index *groups.Index
	if path := resolveAux(e.cfg.Matching.GroupsFile, folder); path != "" {
		entries, err := groups.LoadCSV(path)
		if err != nil {
			return nil, nil, err
		}
		index = groups.NewIndex(entries)
		if index.Len() > 0 {
			logger.Info("loaded group memberships",
				logging.Int("members", index.Len()),
				logging.Int("groups", len(index.Labels())),
			)
		}
	}

	cache, err := matchcache.Load(resolveAux(e.cfg.Matching.MatchCacheFile, folder), e.cfg.Matching.UsableThreshold)
	if err != nil {
		return nil, nil, err
	}
	if cache.Len() > 0 {
		logger.Info("loaded match cache", logging.Int("entries", cache.Len()))
	}
	return index, cache, nil
}

func (e *Engine) fetchRoster(ctx context.Context) (*roster.Roster, error) {
	ros := &roster.Roster{StartRow: e.cfg.Sheet.StartRow}

	var err error
	if ros.IDs, err = e.roster.GetColumn(ctx, e.cfg.Sheet.IDColumn); err != nil {
		return nil, fmt.Errorf("fetch id column: %w", err)
	}
	if ros.Links, err = e.roster.GetColumn(ctx, e.cfg.Sheet.LinkColumn); err != nil {
		return nil, fmt.Errorf("fetch link column: %w", err)
	}
	if col := e.cfg.Sheet.FirstNameColumn; col != "" {
		if ros.FirstNames, err = e.roster.GetColumn(ctx, col); err != nil {
			return nil, fmt.Errorf("fetch first name column: %w", err)
		}
	}
	if col := e.cfg.Sheet.LastNameColumn; col != "" {
		if ros.LastNames, err = e.roster.GetColumn(ctx, col); err != nil {
			return nil, fmt.Errorf("fetch last name column: %w", err)
		}
	}
	return ros, nil
}

// resolveAux resolves an auxiliary file path; relative paths live next to
// the submissions.
func resolveAux(path, folder string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(folder, path)
}

func listSubmissions(folder string, exclude map[string]struct{}) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("read submission folder: %w", err)
	}
	var filenames []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if _, ok := exclude[entry.Name()]; ok {
			continue
		}
		filenames = append(filenames, entry.Name())
	}
	sort.Strings(filenames)
	return filenames, nil
}

func linkFormula(link, label string) string {
	return fmt.Sprintf("=HYPERLINK(%q, %q)", link, label)
}
