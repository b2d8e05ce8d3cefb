// Package config loads machine configuration files describing a subsystem.
//
// Files are TOML or YAML, chosen by extension. Every field is optional and
// overrides the named preset:
//
//	preset = "j784s4"
//	cores = 4
//	ram_size = "1 * GiB"
//	l2_sizes = ["2 * MiB", "0x20_0000"]
//	psci_conduit = 1
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ezrec/a72ss/subsystem"
)

const DEFAULT_PRESET = "j784s4"

// File is the on-disk form of a subsystem configuration.
type File struct {
	Preset string `toml:"preset" yaml:"preset"`
	Name   string `toml:"name" yaml:"name"`

	Cores       *int `toml:"cores" yaml:"cores"`
	ClusterSize *int `toml:"cluster_size" yaml:"cluster_size"`

	RAMSize  *Size `toml:"ram_size" yaml:"ram_size"`
	Flash    *bool `toml:"flash" yaml:"flash"`
	MSMC     *bool `toml:"msmc" yaml:"msmc"`
	MSMCSize *Size `toml:"msmc_size" yaml:"msmc_size"`
	L2Sizes  []Size `toml:"l2_sizes" yaml:"l2_sizes"`

	BusAttachable *bool `toml:"bus_attachable" yaml:"bus_attachable"`
	Distributor   *bool `toml:"distributor" yaml:"distributor"`
	NumIRQ        *int  `toml:"num_irq" yaml:"num_irq"`

	Conduit *uint32 `toml:"psci_conduit" yaml:"psci_conduit"`

	Extensions *bool `toml:"extensions" yaml:"extensions"`
	Secure     *bool `toml:"secure" yaml:"secure"`
	Virt       *bool `toml:"virtualization" yaml:"virtualization"`

	BootCPU *string `toml:"boot_cpu" yaml:"boot_cpu"`
}

// Load reads a configuration file.
func Load(path string) (file *File, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	file, err = Decode(data, filepath.Ext(path))
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
	}
	return
}

// Decode parses data in the format named by ext (".toml", ".yaml", ".yml").
func Decode(data []byte, ext string) (file *File, err error) {
	file = &File{}

	switch strings.ToLower(ext) {
	case ".toml":
		var md toml.MetaData
		md, err = toml.NewDecoder(bytes.NewReader(data)).Decode(file)
		if err == nil {
			if undecoded := md.Undecoded(); len(undecoded) != 0 {
				err = fmt.Errorf("%w: unknown keys %v", ErrFormat, undecoded)
			}
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(file)
	default:
		err = fmt.Errorf("%w: %q", ErrFormat, ext)
	}

	if err != nil {
		file = nil
	}
	return
}

// Config returns the preset named by the file with its overrides applied.
func (file *File) Config() (cfg subsystem.Config, err error) {
	preset := file.Preset
	if len(preset) == 0 {
		preset = DEFAULT_PRESET
	}

	cfg, err = subsystem.Preset(preset)
	if err != nil {
		return
	}

	file.Apply(&cfg)
	return
}

// Apply overlays every field set in the file onto cfg.
func (file *File) Apply(cfg *subsystem.Config) {
	if len(file.Name) != 0 {
		cfg.Name = file.Name
	}
	setInt(&cfg.Cores, file.Cores)
	setInt(&cfg.ClusterSize, file.ClusterSize)
	setSize(&cfg.RAMSize, file.RAMSize)
	setBool(&cfg.Flash, file.Flash)
	setBool(&cfg.MSMC, file.MSMC)
	setSize(&cfg.MSMCSize, file.MSMCSize)
	if file.L2Sizes != nil {
		cfg.L2Sizes = make([]uint64, len(file.L2Sizes))
		for n, size := range file.L2Sizes {
			cfg.L2Sizes[n] = uint64(size)
		}
	}
	setBool(&cfg.BusAttachable, file.BusAttachable)
	setBool(&cfg.Distributor, file.Distributor)
	setInt(&cfg.NumIRQ, file.NumIRQ)
	if file.Conduit != nil {
		cfg.ConduitSelector = *file.Conduit
	}
	setBool(&cfg.Extensions, file.Extensions)
	setBool(&cfg.Secure, file.Secure)
	setBool(&cfg.Virt, file.Virt)
	if file.BootCPU != nil {
		cfg.BootCPU = *file.BootCPU
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setSize(dst *uint64, src *Size) {
	if src != nil {
		*dst = uint64(*src)
	}
}
