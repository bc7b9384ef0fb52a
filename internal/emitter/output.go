package emitter

import (
	"fmt"
	"os"

	"tinygo.org/x/go-llvm"

	"github.com/mekelius/maps-sub000/internal/config"
)

// WriteModule writes module to path as textual IR or bitcode.
func WriteModule(module llvm.Module, path string, emit string) error {
	switch emit {
	case config.EmitIR:
		if err := os.WriteFile(path, []byte(module.String()), 0o644); err != nil {
			return fmt.Errorf("writing IR: %w", err)
		}
		return nil

	case config.EmitBitcode:
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		defer f.Close()

		if err := llvm.WriteBitcodeToFile(module, f); err != nil {
			return fmt.Errorf("writing bitcode: %w", err)
		}
		return nil
	}

	return fmt.Errorf("unknown emit mode %q", emit)
}
