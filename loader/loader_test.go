package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestLoadSingleFile(t *testing.T) {
	tmpDir := t.TempDir()
	mainFile := filepath.Join(tmpDir, "main.ledger")
	err := os.WriteFile(mainFile, []byte(`2024-01-01 open Assets:Checking USD
2024-01-02 * "Test"
  Assets:Checking  100.00 USD
  Equity:Opening-Balances
`), 0644)
	assert.NoError(t, err)

	ldr := New()
	result, err := ldr.Load(context.Background(), mainFile)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(result.File.Declarations))
	assert.Equal(t, 0, len(result.File.Includes))
	assert.Equal(t, 0, len(result.Diagnostics))
}

func TestLoadWithIncludeNoFollow(t *testing.T) {
	tmpDir := t.TempDir()

	includedFile := filepath.Join(tmpDir, "included.ledger")
	err := os.WriteFile(includedFile, []byte("2024-01-01 open Assets:Savings USD\n"), 0644)
	assert.NoError(t, err)

	mainFile := filepath.Join(tmpDir, "main.ledger")
	err = os.WriteFile(mainFile, []byte(`include "included.ledger"

2024-01-02 open Assets:Checking USD
`), 0644)
	assert.NoError(t, err)

	ldr := New()
	result, err := ldr.Load(context.Background(), mainFile)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(result.File.Declarations))
	assert.Equal(t, 1, len(result.File.Includes))
	assert.Equal(t, "included.ledger", result.File.Includes[0].Filename)
}

func TestLoadWithIncludeFollow(t *testing.T) {
	tmpDir := t.TempDir()

	includedFile := filepath.Join(tmpDir, "included.ledger")
	err := os.WriteFile(includedFile, []byte("2024-01-01 open Assets:Savings USD\n"), 0644)
	assert.NoError(t, err)

	mainFile := filepath.Join(tmpDir, "main.ledger")
	err = os.WriteFile(mainFile, []byte(`include "included.ledger"

2024-01-02 open Assets:Checking USD
`), 0644)
	assert.NoError(t, err)

	ldr := New(WithFollowIncludes())
	result, err := ldr.Load(context.Background(), mainFile)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(result.File.Declarations))
	assert.Equal(t, 0, len(result.File.Includes))
	assert.Equal(t, 2, len(result.Files))
}

func TestLoadMissingFile(t *testing.T) {
	ldr := New()
	_, err := ldr.Load(context.Background(), filepath.Join(t.TempDir(), "missing.ledger"))
	assert.Error(t, err)
}

func TestLoadCollectsDiagnostics(t *testing.T) {
	tmpDir := t.TempDir()
	mainFile := filepath.Join(tmpDir, "main.ledger")
	err := os.WriteFile(mainFile, []byte("not a declaration\n2024-01-01 open Assets:Checking USD\n"), 0644)
	assert.NoError(t, err)

	ldr := New()
	result, err := ldr.Load(context.Background(), mainFile)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(result.Diagnostics))
	assert.Equal(t, 1, len(result.File.Declarations))
}
