package dictionary

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents the word list layouts the loader accepts
type FileFormat int

const (
	FormatUnknown  FileFormat = iota
	FormatHunspell            // .dic with a sibling .aff
	FormatWordList            // one word per line, no affix rules
)

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatHunspell: {
		Format:      FormatHunspell,
		Description: "Hunspell dictionary",
		Extensions:  []string{".dic"},
		MinSize:     1,
	},
	FormatWordList: {
		Format:      FormatWordList,
		Description: "Plain word list",
		Extensions:  []string{".dic", ".txt"},
		MinSize:     1,
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "unknown"
}

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s",
			filename, fileInfo.Size(), formatInfo.Description)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	validExt := false
	for _, validExtension := range formatInfo.Extensions {
		if ext == validExtension {
			validExt = true
			break
		}
	}
	if !validExt {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			filename, ext, formatInfo.Description, formatInfo.Extensions)
	}

	if expectedFormat == FormatHunspell {
		aff := AffixPath(filename)
		if _, err := os.Stat(aff); err != nil {
			return fmt.Errorf("hunspell dictionary %s has no affix file: %w", filename, err)
		}
	}
	return nil
}

// DetectFileFormat attempts to detect the format of a file
func DetectFileFormat(filename string) (FileFormat, error) {
	if err := ValidateFileFormat(filename, FormatHunspell); err == nil {
		return FormatHunspell, nil
	}
	if err := ValidateFileFormat(filename, FormatWordList); err == nil {
		return FormatWordList, nil
	}
	return FormatUnknown, fmt.Errorf("unable to detect format for file %s", filename)
}

// AffixPath returns the .aff file that belongs to a .dic file.
func AffixPath(dicPath string) string {
	return strings.TrimSuffix(dicPath, filepath.Ext(dicPath)) + ".aff"
}

// Available lists the dictionary names found in dir.
func Available(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.dic"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan for dictionaries: %w", err)
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		format, err := DetectFileFormat(f)
		if err != nil {
			log.Debugf("Skipping %s: %v", f, err)
			continue
		}
		log.Debugf("Found %s (%s)", f, format)
		names = append(names, strings.TrimSuffix(filepath.Base(f), ".dic"))
	}
	sort.Strings(names)
	return names, nil
}
