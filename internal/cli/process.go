package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/KimNorgaard/go-xmljson"
)

type processor struct {
	conv   *xmljson.Converter
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
}

func (p *processor) processFile(inputPath, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return &ExitError{Code: 1, Message: fmt.Sprintf("xmljson: %v", err)}
	}

	res := p.conv.ConvertBytes(data)
	if !res.Success {
		p.logger.Error("Conversion failed.", "input", inputPath, "error", res.Message())
		return &ExitError{Code: 1}
	}

	if outputPath == "" {
		return p.writeStdout(res.Output)
	}
	if err := os.WriteFile(outputPath, []byte(res.Output), 0o644); err != nil {
		return &ExitError{Code: 1, Message: fmt.Sprintf("xmljson: %v", err)}
	}
	p.logger.Info("Converted file.", "input", inputPath, "output", outputPath)
	return nil
}

func (p *processor) processStdin(outputPath string) error {
	data, err := io.ReadAll(p.stdin)
	if err != nil {
		return &ExitError{Code: 1, Message: fmt.Sprintf("xmljson: reading stdin: %v", err)}
	}
	p.logger.Debug("Read stdin.", "bytes", len(data))

	res := p.conv.ConvertBytes(data)
	if !res.Success {
		p.logger.Error("Conversion failed.", "input", "stdin", "error", res.Message())
		return &ExitError{Code: 1}
	}

	if outputPath == "" {
		return p.writeStdout(res.Output)
	}
	if err := os.WriteFile(outputPath, []byte(res.Output), 0o644); err != nil {
		return &ExitError{Code: 1, Message: fmt.Sprintf("xmljson: %v", err)}
	}
	p.logger.Info("Output written.", "output", outputPath)
	return nil
}

// processBatch converts every markup and document file directly inside
// dirPath. Markup files are written with the document extension and
// document files with ".xml", next to the input or into outputDir. Files
// that fail to convert are logged and skipped.
func (p *processor) processBatch(dirPath, outputDir string) error {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return &ExitError{Code: 1, Message: fmt.Sprintf("xmljson: %v", err)}
	}
	if outputDir == "" {
		outputDir = dirPath
	} else if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return &ExitError{Code: 1, Message: fmt.Sprintf("xmljson: %v", err)}
	}

	docExt := "." + string(p.conv.Config().Syntax)
	processed := 0
	for _, entry := range entries {
		name := entry.Name()
		info, err := entry.Info()
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(name))
		var newExt string
		switch {
		case ext == ".xml":
			newExt = docExt
		case isDocumentExt(ext, docExt):
			newExt = ".xml"
		default:
			p.logger.Debug("Ignoring file.", "file", name)
			continue
		}

		data, err := os.ReadFile(filepath.Join(dirPath, name))
		if err != nil {
			p.logger.Warn("Skipped file.", "file", name, "error", err)
			continue
		}
		res := p.conv.ConvertBytes(data)
		if !res.Success {
			p.logger.Warn("Skipped file.", "file", name, "error", res.Message())
			continue
		}

		outputFile := strings.TrimSuffix(name, filepath.Ext(name)) + newExt
		if err := os.WriteFile(filepath.Join(outputDir, outputFile), []byte(res.Output), 0o644); err != nil {
			p.logger.Warn("Skipped file.", "file", name, "error", err)
			continue
		}
		p.logger.Info("Converted file.", "input", name, "output", outputFile)
		processed++
	}

	p.logger.Info(fmt.Sprintf("Processed %d file(s).", processed), "dir", dirPath)
	return nil
}

func isDocumentExt(ext, docExt string) bool {
	if ext == docExt {
		return true
	}
	return docExt == ".yaml" && ext == ".yml"
}

func (p *processor) writeStdout(output string) error {
	if !strings.HasSuffix(output, "\n") {
		output += "\n"
	}
	if _, err := io.WriteString(p.stdout, output); err != nil {
		return &ExitError{Code: 1, Message: fmt.Sprintf("xmljson: writing output: %v", err)}
	}
	return nil
}
