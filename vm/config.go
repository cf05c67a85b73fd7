// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package vm

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config carries the sizing constants the original C translator compiled
// in as preprocessor macros (PGSIZE, MEMSIZE, NUM_PHYSICAL_PAGES,
// NUM_VIRTUAL_PAGES, PT_ENTRIES, TLB_ENTRIES). The page directory and every
// page table share PTEntries width, matching the equal-width PD-index /
// PT-index decomposition.
type Config struct {
	PageSize      int `toml:"page_size"`
	PhysicalPages int `toml:"physical_pages"`
	VirtualPages  int `toml:"virtual_pages"`
	PTEntries     int `toml:"pt_entries"`
	TLBEntries    int `toml:"tlb_entries"`
}

// MemSize is the simulated physical memory size in bytes: PageSize *
// PhysicalPages.
func (c Config) MemSize() int { return c.PageSize * c.PhysicalPages }

// DefaultConfig returns sizing constants small enough for tests and demos
// to run quickly: a 4KiB page, 64 physical frames (256KiB of simulated
// memory), and a virtual address space of PTEntries^2 pages.
func DefaultConfig() Config {
	return Config{
		PageSize:      4096,
		PhysicalPages: 64,
		VirtualPages:  64 * 64,
		PTEntries:     64,
		TLBEntries:    16,
	}
}

func (c Config) validate() error {
	switch {
	case c.PageSize <= 0:
		return fmt.Errorf("vm: page_size must be positive")
	case c.PhysicalPages <= 0:
		return fmt.Errorf("vm: physical_pages must be positive")
	case c.VirtualPages <= 0:
		return fmt.Errorf("vm: virtual_pages must be positive")
	case c.PTEntries <= 0:
		return fmt.Errorf("vm: pt_entries must be positive")
	case c.TLBEntries <= 0:
		return fmt.Errorf("vm: tlb_entries must be positive")
	case c.PageSize < c.PTEntries*4:
		return fmt.Errorf("vm: page_size %d too small to hold %d page-directory entries", c.PageSize, c.PTEntries)
	}
	return nil
}

// LoadConfig reads a TOML file, starting from DefaultConfig and overriding
// whichever fields the file sets, turning the original's compile-time
// macros into runtime configuration without changing any arithmetic.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("vm: read config: %w", err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("vm: parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
