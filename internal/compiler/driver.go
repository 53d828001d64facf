package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/randaguero/fangless/internal/compiler/ast"
	"github.com/randaguero/fangless/internal/compiler/astjson"
	"github.com/randaguero/fangless/internal/compiler/cppruntime"
	"github.com/randaguero/fangless/internal/compiler/emitter"
)

// Options configures a single compilation unit.
type Options struct {
	// EntryPoint marks the unit that gets an int main() in its output.
	EntryPoint bool
	// Indent is the emitted indentation width in spaces; zero means default.
	Indent int
}

// CompileAndWrite translates one serialized syntax tree into C++ source,
// writing the translation unit and the runtime support files into outDir.
// It returns the path of the written .cpp file.
func CompileAndWrite(srcPath, outDir string, opts Options) (string, error) {
	if err := validateExtension(srcPath); err != nil {
		return "", err
	}

	mod, err := LoadModule(srcPath)
	if err != nil {
		return "", err
	}

	cpp, err := emitCpp(mod, srcPath, opts)
	if err != nil {
		return "", err
	}

	outFile, err := writeOutput(cpp, srcPath, outDir)
	if err != nil {
		return "", err
	}

	if err := cppruntime.WriteSupport(outDir); err != nil {
		return "", err
	}

	return outFile, nil
}

// LoadModule reads and decodes a serialized syntax tree file.
func LoadModule(srcPath string) (*ast.Module, error) {
	content, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, err
	}
	mod, err := astjson.DecodeModule(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", srcPath, err)
	}
	return mod, nil
}

func validateExtension(path string) error {
	if filepath.Ext(path) != ".json" {
		return fmt.Errorf("source must have .json extension")
	}
	return nil
}

func emitCpp(mod *ast.Module, srcPath string, opts Options) (string, error) {
	em := emitter.New(emitter.Options{
		EntryPoint: opts.EntryPoint,
		Indent:     opts.Indent,
	})
	cpp := em.Emit(mod)
	if errs := em.Errors(); len(errs) > 0 {
		return "", fmt.Errorf("%s: translation errors: %v", srcPath, errs)
	}
	return cpp, nil
}

func writeOutput(cpp, srcPath, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	outFile := filepath.Join(outDir, unitName(srcPath)+".cpp")
	return outFile, os.WriteFile(outFile, []byte(cpp), 0o644)
}

func unitName(srcPath string) string {
	name := strings.TrimSuffix(filepath.Base(srcPath), ".json")
	return strings.TrimSuffix(name, ".ast")
}
