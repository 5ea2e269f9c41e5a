package engine

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/daryltucker/flexsweep/internal/model"
	"github.com/daryltucker/flexsweep/internal/output"
)

// Artifact file names shared by the backends.
const (
	ParametersFile = "parameters.txt"
	FileListFile   = "filelist.txt"
)

// quartusFileTypes maps source extensions to QSF assignment names.
var quartusFileTypes = map[string]string{
	".v":   "VERILOG_FILE",
	".sv":  "SYSTEMVERILOG_FILE",
	".vhd": "VHDL_FILE",
	".sdc": "SDC_FILE",
}

// ParameterFile renders c as one "<name> <value>" line per parameter.
func ParameterFile(c model.Combination) string {
	var b strings.Builder
	for _, p := range c {
		b.WriteString(p.Name)
		b.WriteByte(' ')
		b.WriteString(p.Value)
		b.WriteByte('\n')
	}
	return b.String()
}

// FileList renders one path per line.
func FileList(files []string) string {
	var b strings.Builder
	for _, f := range files {
		b.WriteString(f)
		b.WriteByte('\n')
	}
	return b.String()
}

// FileAssignment is a source file tagged with its tool-specific type.
type FileAssignment struct {
	Type string
	Path string
}

// TagFiles tags files by extension using types. Files with an unknown
// extension are skipped with a warning.
func TagFiles(files []string, types map[string]string) []FileAssignment {
	var out []FileAssignment
	for _, f := range files {
		ext := filepath.Ext(f)
		t, ok := types[ext]
		if !ok {
			output.Logger.Warn("Skipping file with unsupported extension", "file", f, "ext", ext)
			continue
		}
		out = append(out, FileAssignment{Type: t, Path: f})
	}
	return out
}

// HasExt reports whether any file has extension ext.
func HasExt(files []string, ext string) bool {
	for _, f := range files {
		if filepath.Ext(f) == ext {
			return true
		}
	}
	return false
}

func formatPeriod(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
