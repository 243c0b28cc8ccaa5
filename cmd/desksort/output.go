package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"desksort/internal/app"
	"desksort/internal/category"
	"desksort/internal/model"
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// errFailed is returned after a failed Response has already been printed.
var errFailed = errors.New("command failed")

// render writes resp in the selected format. Text output of a successful
// response is delegated to text. A failed response yields errFailed.
func render(w io.Writer, resp app.Response, text func(io.Writer, any)) error {
	switch outputFormat {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
	default:
		if !resp.Success {
			fmt.Fprintf(w, "Error: %s\n", resp.Error)
		} else if text != nil {
			text(w, resp.Data)
		}
	}

	if !resp.Success {
		return errFailed
	}
	return nil
}

func validateOutputFormat() error {
	switch outputFormat {
	case outputText, outputJSON, outputYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want text, json or yaml)", outputFormat)
}

func printFiles(w io.Writer, data any) {
	files, _ := data.([]model.FileDescriptor)
	if len(files) == 0 {
		fmt.Fprintln(w, "No files found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.Name, humanize.Bytes(uint64(max(f.Size, 0))), f.Folder, humanize.Time(f.ModifiedAt))
	}
	tw.Flush()
	fmt.Fprintf(w, "%d file(s)\n", len(files))
}

func printStat(w io.Writer, data any) {
	st, ok := data.(*model.FileStat)
	if !ok {
		return
	}
	kind := "file"
	switch {
	case st.IsDirectory:
		kind = "directory"
	case st.IsShortcut:
		kind = "shortcut"
	}
	fmt.Fprintf(w, "Name:     %s\n", st.Name)
	fmt.Fprintf(w, "Path:     %s\n", st.Path)
	fmt.Fprintf(w, "Type:     %s\n", kind)
	fmt.Fprintf(w, "Size:     %s (%s bytes)\n", humanize.Bytes(uint64(max(st.Size, 0))), humanize.Comma(st.Size))
	fmt.Fprintf(w, "Created:  %s\n", st.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Modified: %s\n", st.ModifiedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Accessed: %s\n", st.AccessedAt.Local().Format("2006-01-02 15:04:05"))
}

func printCategories(w io.Writer, data any) {
	cats, _ := data.([]model.Category)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, c := range cats {
		exts := strings.Join(c.Extensions, " ")
		if exts == "" {
			exts = "(everything else)"
		}
		fmt.Fprintf(tw, "%s\t%s\n", c.Name, exts)
	}
	tw.Flush()
}

func printPreview(w io.Writer, data any) {
	groups, _ := data.(map[string]*category.Group)
	total := 0
	for _, c := range category.Categories() {
		g := groups[c.ID]
		if g == nil || len(g.Files) == 0 {
			continue
		}
		total += len(g.Files)
		fmt.Fprintf(w, "%s (%d, %s)\n", c.Name, len(g.Files), humanize.Bytes(uint64(g.TotalSize)))
		for _, f := range g.Files {
			fmt.Fprintf(w, "  %s\n", f.Name)
		}
	}
	if total == 0 {
		fmt.Fprintln(w, "Nothing to organize.")
	}
}

func printFailures(w io.Writer, failed []model.Failure) {
	for _, f := range failed {
		fmt.Fprintf(w, "  failed: %s: %s\n", f.File, f.Error)
	}
}

func printWarnings(w io.Writer, warnings []string) {
	for _, msg := range warnings {
		fmt.Fprintf(w, "Warning: %s\n", msg)
	}
}

func printOrganize(w io.Writer, data any) {
	res, ok := data.(*model.OrganizeResult)
	if !ok {
		return
	}
	fmt.Fprintf(w, "Organized %d file(s), %s", res.TotalMoved, humanize.Bytes(uint64(res.TotalSize)))
	if len(res.Failed) > 0 {
		fmt.Fprintf(w, ", %d failed", len(res.Failed))
	}
	fmt.Fprintln(w)
	printFailures(w, res.Failed)
	printWarnings(w, res.Warnings)
	if res.OperationID != "" {
		fmt.Fprintf(w, "Undo with: desksort undo %s\n", res.OperationID)
	}
}

func printRestore(w io.Writer, data any) {
	res, ok := data.(*model.RestoreResult)
	if !ok {
		return
	}
	fmt.Fprintf(w, "Restored %d file(s)", res.TotalRestored)
	if len(res.Failed) > 0 {
		fmt.Fprintf(w, ", %d failed", len(res.Failed))
	}
	fmt.Fprintln(w)
	printFailures(w, res.Failed)
	printWarnings(w, res.Warnings)
}

func printUndo(w io.Writer, data any) {
	res, ok := data.(*model.UndoResult)
	if !ok {
		return
	}
	fmt.Fprintf(w, "Moved back %d file(s)\n", len(res.Success))
	printFailures(w, res.Failed)
	if len(res.Failed) > 0 {
		fmt.Fprintln(w, "The operation was kept in history.")
	}
}

func printHistory(w io.Writer, data any) {
	ops, _ := data.([]model.Operation)
	if len(ops) == 0 {
		fmt.Fprintln(w, "No operations recorded.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, op := range ops {
		fmt.Fprintf(tw, "%s\t%s\t%-8s\t%s\t%s\n",
			op.ID,
			op.Timestamp.Local().Format("2006-01-02 15:04:05"),
			op.Kind,
			op.Mode,
			op.Summary,
		)
	}
	tw.Flush()
}

func printHistoryStats(w io.Writer, data any) {
	st, ok := data.(model.HistoryStats)
	if !ok {
		return
	}
	fmt.Fprintf(w, "Operations:  %d\n", st.TotalOperations)
	fmt.Fprintf(w, "Files moved: %s\n", humanize.Comma(int64(st.TotalFilesMoved)))
	if st.OldestEntry != nil {
		fmt.Fprintf(w, "Oldest:      %s\n", humanize.Time(*st.OldestEntry))
	}
	if st.NewestEntry != nil {
		fmt.Fprintf(w, "Newest:      %s\n", humanize.Time(*st.NewestEntry))
	}
}

func printSettings(w io.Writer, data any) {
	st, ok := data.(model.Settings)
	if !ok {
		return
	}
	// Reuse the JSON field names so the listing matches `settings set` keys.
	raw, err := json.Marshal(st)
	if err != nil {
		return
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%v\n", k, fields[k])
	}
	tw.Flush()
}

func printMessage(msg string) func(io.Writer, any) {
	return func(w io.Writer, _ any) { fmt.Fprintln(w, msg) }
}
