package desk

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"desksort/internal/category"
	"desksort/internal/model"
)

// OrganizeRequest selects the files to organize and how.
type OrganizeRequest struct {
	Files []model.FileDescriptor
	// Mode is model.ModeMove or model.ModeCopy. Empty uses the settings default.
	Mode string
	// Destination overrides the organized root.
	Destination string
}

// Validate checks the request after defaults have been applied.
func (r OrganizeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Mode, validation.Required, validation.In(model.ModeMove, model.ModeCopy)),
	)
}

// Organize moves or copies each file into <root>/<category name>/. Files are
// processed one at a time and a failing file never stops the batch. One
// history entry is recorded when at least one file was transferred.
func (s *Service) Organize(ctx context.Context, req OrganizeRequest) (*model.OrganizeResult, error) {
	st, err := s.settings.Get()
	if err != nil {
		return nil, err
	}
	if req.Mode == "" {
		req.Mode = st.DefaultMode
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid organize request: %w", err)
	}
	mode := req.Mode
	if st.KeepOriginals && mode == model.ModeMove {
		mode = model.ModeCopy
	}

	root := s.OrganizedRoot(req.Destination)
	if err := s.fsmgr.MkdirAll(root); err != nil {
		return nil, fmt.Errorf("creating organized folder: %w", err)
	}

	result := &model.OrganizeResult{Success: []model.Moved{}, Failed: []model.Failure{}}
	var transfers []model.Transfer

	for _, f := range req.Files {
		if err := ctx.Err(); err != nil {
			result.Failed = append(result.Failed, model.Failure{File: f.Name, Error: err.Error()})
			continue
		}

		cat := category.ByID(category.CategoryFor(f.Name, f.Extension))
		dest := filepath.Join(root, cat.Name, f.Name)

		var final string
		if mode == model.ModeCopy {
			final, err = s.CopyFile(f.Path, dest)
		} else {
			final, err = s.MoveFile(f.Path, dest)
		}
		if err != nil {
			s.logger.Warn("organize failed", "file", f.Path, "error", err)
			result.Failed = append(result.Failed, model.Failure{File: f.Name, Error: err.Error()})
			continue
		}

		transfers = append(transfers, model.Transfer{
			Source:      f.Path,
			Destination: final,
			FileName:    f.Name,
			Category:    cat.Name,
			Timestamp:   s.clock.Now(),
		})
		result.Success = append(result.Success, model.Moved{File: f.Name, From: f.Path, To: final, Category: cat.Name})
		if f.Size > 0 {
			result.TotalSize += f.Size
		}
	}
	result.TotalMoved = len(result.Success)

	if len(transfers) == 0 {
		if len(req.Files) > 0 {
			s.logger.Warn("no files organized", "failed", len(result.Failed))
			result.Warnings = append(result.Warnings, "no files were organized; nothing was recorded in history")
		}
		return result, nil
	}

	op := model.Operation{
		ID:        s.idgen.New(),
		Kind:      model.KindOrganize,
		Mode:      mode,
		Transfers: transfers,
		Timestamp: s.clock.Now(),
		Summary:   fmt.Sprintf("Organized %d files", len(transfers)),
	}
	result.OperationID = s.record(op, &result.Warnings)

	s.logger.Info("organized", "operation", op.ID, "mode", mode, "moved", result.TotalMoved, "failed", len(result.Failed))
	return result, nil
}

// Restore moves every file under the organized folder back to the desktop and
// removes the directories left empty.
func (s *Service) Restore(ctx context.Context) (*model.RestoreResult, error) {
	root := s.OrganizedRoot("")
	result := &model.RestoreResult{Success: []model.Moved{}, Failed: []model.Failure{}}

	var paths []string
	if err := s.walk(root, func(path string, _ fs.FileInfo) { paths = append(paths, path) }); err != nil {
		s.logger.Info("nothing to restore", "path", root, "error", err)
		return result, nil
	}

	var transfers []model.Transfer
	for _, src := range paths {
		name := filepath.Base(src)
		if err := ctx.Err(); err != nil {
			result.Failed = append(result.Failed, model.Failure{File: name, Error: err.Error()})
			continue
		}

		final, err := s.MoveFile(src, filepath.Join(s.loc.Desktop, name))
		if err != nil {
			s.logger.Warn("restore failed", "file", src, "error", err)
			result.Failed = append(result.Failed, model.Failure{File: name, Error: err.Error()})
			continue
		}
		transfers = append(transfers, model.Transfer{
			Source:      src,
			Destination: final,
			FileName:    name,
			Timestamp:   s.clock.Now(),
		})
		result.Success = append(result.Success, model.Moved{File: name, From: src, To: final})
	}
	result.TotalRestored = len(result.Success)

	result.Warnings = append(result.Warnings, s.cleanup(root)...)

	if len(transfers) > 0 {
		op := model.Operation{
			ID:        s.idgen.New(),
			Kind:      model.KindRestore,
			Mode:      model.ModeMove,
			Transfers: transfers,
			Timestamp: s.clock.Now(),
			Summary:   fmt.Sprintf("Restored %d files to Desktop", len(transfers)),
		}
		result.OperationID = s.record(op, &result.Warnings)
	}

	s.logger.Info("restored", "operation", result.OperationID, "restored", result.TotalRestored, "failed", len(result.Failed))
	return result, nil
}

// Undo reverses the operation with the given ID, last transfer first. Copies
// are left in place. The operation stays in history if any transfer failed.
func (s *Service) Undo(ctx context.Context, id string) (*model.UndoResult, error) {
	op, ok := s.history.GetByID(id)
	if !ok {
		return nil, &NotFoundError{ID: id}
	}

	result := &model.UndoResult{Success: []string{}, Failed: []model.Failure{}}
	if op.Reversible() {
		for i := len(op.Transfers) - 1; i >= 0; i-- {
			t := op.Transfers[i]
			if err := ctx.Err(); err != nil {
				result.Failed = append(result.Failed, model.Failure{File: t.FileName, Error: err.Error()})
				continue
			}
			if err := s.moveBack(t); err != nil {
				s.logger.Warn("undo failed", "file", t.Destination, "error", err)
				result.Failed = append(result.Failed, model.Failure{File: t.FileName, Error: err.Error()})
				continue
			}
			result.Success = append(result.Success, t.FileName)
		}
	}

	if len(result.Failed) == 0 {
		if err := s.history.Remove(id); err != nil {
			return result, fmt.Errorf("removing operation from history: %w", err)
		}
	}

	s.logger.Info("undone", "operation", id, "restored", len(result.Success), "failed", len(result.Failed))
	return result, nil
}

// MoveFile moves src into dest's directory under a collision-free name and
// returns the path used.
func (s *Service) MoveFile(src, dest string) (string, error) {
	final, err := s.prepare(dest)
	if err != nil {
		return "", err
	}
	if err := s.fsmgr.Rename(src, final); err != nil {
		return "", fmt.Errorf("moving file: %w", err)
	}
	return final, nil
}

// CopyFile copies src into dest's directory under a collision-free name and
// returns the path used.
func (s *Service) CopyFile(src, dest string) (string, error) {
	final, err := s.prepare(dest)
	if err != nil {
		return "", err
	}
	if err := s.fsmgr.CopyFile(src, final); err != nil {
		return "", fmt.Errorf("copying file: %w", err)
	}
	return final, nil
}

func (s *Service) prepare(dest string) (string, error) {
	dir := filepath.Dir(dest)
	if err := s.fsmgr.MkdirAll(dir); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}
	name, err := s.uniqueName(dir, filepath.Base(dest))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// uniqueName returns name, or the first free "base (n).ext" with n counting from 1.
func (s *Service) uniqueName(dir, name string) (string, error) {
	base, ext := splitName(name)

	candidate := name
	for n := 1; ; n++ {
		exists, err := s.fsmgr.Exists(filepath.Join(dir, candidate))
		if err != nil {
			return "", fmt.Errorf("checking destination: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s (%d)%s", base, n, ext)
	}
}

func (s *Service) moveBack(t model.Transfer) error {
	exists, err := s.fsmgr.Exists(t.Source)
	if err != nil {
		return fmt.Errorf("checking original location: %w", err)
	}
	if exists {
		return fmt.Errorf("original location is occupied: %s", t.Source)
	}
	if err := s.fsmgr.MkdirAll(filepath.Dir(t.Source)); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := s.fsmgr.Rename(t.Destination, t.Source); err != nil {
		return fmt.Errorf("moving file back: %w", err)
	}
	return nil
}

// record appends op to history. A failure to persist is reported as a warning
// since the files have already been transferred.
func (s *Service) record(op model.Operation, warnings *[]string) string {
	if err := s.history.Add(op); err != nil {
		s.logger.Error("recording history", "operation", op.ID, "error", err)
		*warnings = append(*warnings, fmt.Sprintf("operation not saved to history: %v", err))
		return ""
	}
	return op.ID
}

// cleanup removes empty directories under root, deepest first, then root.
// Directories that still hold files are left alone and reported.
func (s *Service) cleanup(root string) []string {
	dirs := s.collectDirs(root)
	sort.SliceStable(dirs, func(i, j int) bool {
		return strings.Count(dirs[i], string(filepath.Separator)) > strings.Count(dirs[j], string(filepath.Separator))
	})

	var warnings []string
	for _, dir := range append(dirs, root) {
		if err := s.fsmgr.RemoveEmptyDir(dir); err != nil {
			s.logger.Debug("directory kept", "path", dir, "error", err)
			if dir == root {
				if exists, _ := s.fsmgr.Exists(root); exists {
					warnings = append(warnings, fmt.Sprintf("organized folder not removed: %v", err))
				}
			}
		}
	}
	return warnings
}

func (s *Service) collectDirs(root string) []string {
	entries, err := s.fsmgr.ReadDir(root)
	if err != nil {
		return nil
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			path := filepath.Join(root, entry.Name())
			dirs = append(dirs, path)
			dirs = append(dirs, s.collectDirs(path)...)
		}
	}
	return dirs
}
